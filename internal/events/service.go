package events

import (
	"context"
	"fmt"

	"bookingdesk/internal/shared/apperror"
	"bookingdesk/internal/users"
	"bookingdesk/pkg/logger"
)

type Service interface {
	Create(ctx context.Context, actor users.Actor, req CreateEventRequest) (*Event, error)
	Get(ctx context.Context, actor users.Actor, id uint) (*Event, error)
	GetPublished(ctx context.Context, id uint) (*Event, error)
	List(ctx context.Context, actor users.Actor, query ListQuery) (*PaginatedEvents, error)
	ListPublished(ctx context.Context, query ListQuery) (*PaginatedEvents, error)
	Update(ctx context.Context, actor users.Actor, id uint, req UpdateEventRequest) (*Event, error)
	Delete(ctx context.Context, actor users.Actor, id uint) error
	// OrganizerOf returns the organizer owning an event
	OrganizerOf(ctx context.Context, id uint) (uint, error)
}

type service struct {
	repo Repository
	log  *logger.Logger
}

func NewService(repo Repository, log *logger.Logger) Service {
	return &service{repo: repo, log: logger.OrDefault(log)}
}

func (s *service) Create(ctx context.Context, actor users.Actor, req CreateEventRequest) (*Event, error) {
	if !actor.IsAdmin() && !actor.IsOrganizer() {
		return nil, apperror.ErrForbidden
	}
	if req.EndsAt != nil && req.EndsAt.Before(req.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at before starts_at", apperror.ErrValidation)
	}

	organizerID := actor.ID
	if actor.IsAdmin() && req.OrganizerID != 0 {
		organizerID = req.OrganizerID
	}
	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	event := &Event{
		Name:        req.Name,
		Description: req.Description,
		City:        req.City,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Status:      status,
		OrganizerID: organizerID,
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.log.InfoContext(ctx, "Event Created", "event_id", event.ID, "organizer_id", organizerID)
	return event, nil
}

func (s *service) Get(ctx context.Context, actor users.Actor, id uint) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(event.OrganizerID) {
		return nil, apperror.ErrForbidden
	}
	return event, nil
}

func (s *service) GetPublished(ctx context.Context, id uint) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != StatusPublished {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *service) List(ctx context.Context, actor users.Actor, query ListQuery) (*PaginatedEvents, error) {
	switch {
	case actor.IsAdmin():
	case actor.IsOrganizer():
		query.OrganizerID = actor.ID
	default:
		return nil, apperror.ErrForbidden
	}
	return s.list(ctx, query)
}

func (s *service) ListPublished(ctx context.Context, query ListQuery) (*PaginatedEvents, error) {
	query.Status = StatusPublished
	query.OrganizerID = 0
	return s.list(ctx, query)
}

func (s *service) list(ctx context.Context, query ListQuery) (*PaginatedEvents, error) {
	items, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	page := query.Page.Normalize()
	return &PaginatedEvents{
		Events:     items,
		TotalCount: total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (s *service) Update(ctx context.Context, actor users.Actor, id uint, req UpdateEventRequest) (*Event, error) {
	event, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.StartsAt != nil {
		event.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if event.EndsAt != nil && event.EndsAt.Before(event.StartsAt) {
		return nil, fmt.Errorf("%w: ends_at before starts_at", apperror.ErrValidation)
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	return event, nil
}

func (s *service) Delete(ctx context.Context, actor users.Actor, id uint) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) OrganizerOf(ctx context.Context, id uint) (uint, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return event.OrganizerID, nil
}
