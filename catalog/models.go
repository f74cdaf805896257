package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PropertyStatus string

const (
	PropertyStatusDraft     PropertyStatus = "draft"
	PropertyStatusPublished PropertyStatus = "published"
	PropertyStatusArchived  PropertyStatus = "archived"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type VendorStatus string

const (
	VendorStatusPending  VendorStatus = "pending"
	VendorStatusActive   VendorStatus = "active"
	VendorStatusDisabled VendorStatus = "disabled"
)

type Vendor struct {
	ID        string       `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `gorm:"not null;uniqueIndex" json:"email"`
	Status    VendorStatus `gorm:"not null;index;default:'pending'" json:"status"`
	City      string       `gorm:"index" json:"city"`
	CreatedAt time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (v *Vendor) BeforeCreate(_ *gorm.DB) error {
	v.ID = ensureID(v.ID)
	return nil
}

type Property struct {
	ID            string                      `gorm:"type:uuid;primaryKey" json:"id"`
	VendorID      string                      `gorm:"type:uuid;index;not null" json:"vendor_id"`
	Name          string                      `gorm:"not null" json:"name"`
	Description   string                      `json:"description"`
	Address       string                      `json:"address"`
	City          string                      `gorm:"index" json:"city"`
	Category      string                      `gorm:"index" json:"category"`
	Status        PropertyStatus              `gorm:"not null;index;default:'draft'" json:"status"`
	PricePerNight float64                     `gorm:"not null" json:"price_per_night"`
	Bedrooms      int                         `gorm:"not null;default:1" json:"bedrooms"`
	MaxGuests     int                         `gorm:"not null;default:1" json:"max_guests"`
	Latitude      float64                     `json:"latitude"`
	Longitude     float64                     `json:"longitude"`
	Amenities     datatypes.JSONSlice[string] `gorm:"not null;default:'[]'" json:"amenities"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	// Distance in kilometers from the search origin, only set by radius queries.
	Distance *float64 `gorm:"->;-:migration" json:"distance,omitempty"`
}

func (p *Property) BeforeCreate(_ *gorm.DB) error {
	p.ID = ensureID(p.ID)
	if p.Amenities == nil {
		p.Amenities = datatypes.JSONSlice[string]{}
	}
	return nil
}

type Booking struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID string        `gorm:"type:uuid;index;not null" json:"property_id"`
	GuestID    string        `gorm:"type:uuid;index;not null" json:"guest_id"`
	Status     BookingStatus `gorm:"not null;index;default:'pending'" json:"status"`
	CheckIn    time.Time     `gorm:"type:date;not null" json:"check_in"`
	CheckOut   time.Time     `gorm:"type:date;not null" json:"check_out"`
	Guests     int           `gorm:"not null;default:1" json:"guests"`
	TotalPrice float64       `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	b.ID = ensureID(b.ID)
	return nil
}

func ensureID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// Migrate creates or updates the tables of all catalog models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Vendor{}, &Property{}, &Booking{}); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
