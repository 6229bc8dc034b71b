package hotels

import (
	"time"

	"github.com/shopspring/decimal"
)

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTwin   RoomType = "twin"
	RoomTriple RoomType = "triple"
	RoomSuite  RoomType = "suite"
)

type RateBasis string

const (
	RateRoomOnly     RateBasis = "room_only"
	RateBedBreakfast RateBasis = "bed_breakfast"
	RateHalfBoard    RateBasis = "half_board"
	RateFullBoard    RateBasis = "full_board"
	RateAllInclusive RateBasis = "all_inclusive"
)

// Label is the French wording printed on vouchers
func (r RateBasis) Label() string {
	switch r {
	case RateRoomOnly:
		return "Logement seul"
	case RateBedBreakfast:
		return "Petit-déjeuner"
	case RateHalfBoard:
		return "Demi-pension"
	case RateFullBoard:
		return "Pension complète"
	case RateAllInclusive:
		return "Tout inclus"
	}
	return string(r)
}

type Hotel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	EventID   *uint     `json:"event_id" gorm:"index"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	Stars     int       `json:"stars" gorm:"default:0"`
	City      string    `json:"city" gorm:"size:120"`
	Address   string    `json:"address" gorm:"size:255"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Email     string    `json:"email" gorm:"size:255"`
	Packages  []Package `json:"packages,omitempty" gorm:"foreignKey:HotelID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Package struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	HotelID   uint            `json:"hotel_id" gorm:"not null;index"`
	Name      string          `json:"name" gorm:"not null;size:255"`
	RoomType  RoomType        `json:"room_type" gorm:"type:varchar(20)"`
	RateBasis RateBasis       `json:"rate_basis" gorm:"type:varchar(20)"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quota     int             `json:"quota" gorm:"default:0"`
	Hotel     *Hotel          `json:"hotel,omitempty" gorm:"foreignKey:HotelID"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateHotelRequest struct {
	EventID *uint  `json:"event_id"`
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Stars   int    `json:"stars" binding:"min=0,max=5"`
	City    string `json:"city" binding:"max=120"`
	Address string `json:"address" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
}

type UpdateHotelRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Stars   *int    `json:"stars" binding:"omitempty,min=0,max=5"`
	City    *string `json:"city"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
}

type CreatePackageRequest struct {
	Name      string          `json:"name" binding:"required,min=2,max=255"`
	RoomType  RoomType        `json:"room_type" binding:"required,oneof=single double twin triple suite"`
	RateBasis RateBasis       `json:"rate_basis" binding:"required,oneof=room_only bed_breakfast half_board full_board all_inclusive"`
	Price     decimal.Decimal `json:"price"`
	Quota     int             `json:"quota" binding:"min=0"`
}

type UpdatePackageRequest struct {
	Name      *string          `json:"name" binding:"omitempty,min=2,max=255"`
	RoomType  *RoomType        `json:"room_type" binding:"omitempty,oneof=single double twin triple suite"`
	RateBasis *RateBasis       `json:"rate_basis" binding:"omitempty,oneof=room_only bed_breakfast half_board full_board all_inclusive"`
	Price     *decimal.Decimal `json:"price"`
	Quota     *int             `json:"quota" binding:"omitempty,min=0"`
}
