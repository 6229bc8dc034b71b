package events

import (
	"time"

	"bookingdesk/internal/shared/utils/params"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusClosed    Status = "closed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusClosed:
		return true
	}
	return false
}

type Event struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null;size:255"`
	Description string     `json:"description" gorm:"type:text"`
	City        string     `json:"city" gorm:"size:120"`
	Venue       string     `json:"venue" gorm:"size:255"`
	StartsAt    time.Time  `json:"starts_at" gorm:"not null"`
	EndsAt      *time.Time `json:"ends_at"`
	Status      Status     `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	OrganizerID uint       `json:"organizer_id" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

type CreateEventRequest struct {
	Name        string     `json:"name" binding:"required,min=3,max=255"`
	Description string     `json:"description" binding:"max=5000"`
	City        string     `json:"city" binding:"max=120"`
	Venue       string     `json:"venue" binding:"max=255"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
	Status      Status     `json:"status" binding:"omitempty,oneof=draft published closed"`
	// OrganizerID is honoured for admins only
	OrganizerID uint `json:"organizer_id"`
}

type UpdateEventRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=5000"`
	City        *string    `json:"city" binding:"omitempty,max=120"`
	Venue       *string    `json:"venue" binding:"omitempty,max=255"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	Status      *Status    `json:"status" binding:"omitempty,oneof=draft published closed"`
}

type ListQuery struct {
	params.Page
	Search string `form:"search"`
	Status Status `form:"status" binding:"omitempty,oneof=draft published closed"`
	// OrganizerID is forced by the service for organizers
	OrganizerID uint `form:"-"`
}

type PaginatedEvents struct {
	Events     []Event `json:"events"`
	TotalCount int64   `json:"total_count"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}
