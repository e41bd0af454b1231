package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ServiceEntry is one priced row of the service catalog: the rates for a
// single service level, carrying both residential and commercial base
// prices so a propertyClass/serviceLevel lookup resolves to one row.
type ServiceEntry struct {
	ID                   uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name                 string    `json:"name" gorm:"not null;size:255"`
	Description          string    `json:"description" gorm:"type:text"`
	ServiceLevel         string    `json:"service_level" gorm:"type:varchar(20);not null;uniqueIndex"`
	BasePriceResidential float64   `json:"base_price_residential" gorm:"not null;check:base_price_residential >= 0"`
	BasePriceCommercial  float64   `json:"base_price_commercial" gorm:"not null;check:base_price_commercial >= 0"`
	PricePerSqFt         float64   `json:"price_per_sqft" gorm:"default:0;check:price_per_sqft >= 0"`
	BaseDurationMinutes  int       `json:"base_duration_minutes" gorm:"default:0;check:base_duration_minutes >= 0"`
	Active               bool      `json:"active" gorm:"default:true"`

	CreatedBy uuid.UUID  `json:"created_by" gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// AddOn is an optional extra service. Slug is the stable identifier
// clients reference in quote and booking requests.
type AddOn struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Slug            string    `json:"slug" gorm:"not null;size:64;uniqueIndex"`
	Name            string    `json:"name" gorm:"not null;size:255"`
	Price           float64   `json:"price" gorm:"not null;check:price >= 0"`
	NeedsQuantity   bool      `json:"needs_quantity" gorm:"default:false"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:0;check:duration_minutes >= 0"`
	Active          bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreateServiceEntryRequest struct {
	Name                 string  `json:"name" binding:"required,min=3,max=255"`
	Description          string  `json:"description" binding:"max=2000"`
	ServiceLevel         string  `json:"service_level" binding:"required,oneof=standard deep move_in_out post_reno"`
	BasePriceResidential float64 `json:"base_price_residential" binding:"required,min=0"`
	BasePriceCommercial  float64 `json:"base_price_commercial" binding:"required,min=0"`
	PricePerSqFt         float64 `json:"price_per_sqft" binding:"min=0"`
	BaseDurationMinutes  int     `json:"base_duration_minutes" binding:"min=0"`
}

type UpdateServiceEntryRequest struct {
	Name                 *string  `json:"name" binding:"omitempty,min=3,max=255"`
	Description          *string  `json:"description" binding:"omitempty,max=2000"`
	BasePriceResidential *float64 `json:"base_price_residential" binding:"omitempty,min=0"`
	BasePriceCommercial  *float64 `json:"base_price_commercial" binding:"omitempty,min=0"`
	PricePerSqFt         *float64 `json:"price_per_sqft" binding:"omitempty,min=0"`
	BaseDurationMinutes  *int     `json:"base_duration_minutes" binding:"omitempty,min=0"`
	Active               *bool    `json:"active"`
}

type CreateAddOnRequest struct {
	Slug            string  `json:"slug" binding:"required,min=3,max=64"`
	Name            string  `json:"name" binding:"required,min=3,max=255"`
	Price           float64 `json:"price" binding:"required,min=0"`
	NeedsQuantity   bool    `json:"needs_quantity"`
	DurationMinutes int     `json:"duration_minutes" binding:"min=0"`
}

type UpdateAddOnRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=3,max=255"`
	Price           *float64 `json:"price" binding:"omitempty,min=0"`
	NeedsQuantity   *bool    `json:"needs_quantity"`
	DurationMinutes *int     `json:"duration_minutes" binding:"omitempty,min=0"`
	Active          *bool    `json:"active"`
}
