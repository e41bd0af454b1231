package properties

import (
	"time"

	"github.com/google/uuid"
)

// Property is a saved service location: a customer's home or commercial
// site with the room layout that prefills quote requests. AreaCode is
// derived from the postal code at write time so territory routing never
// re-parses addresses.
type Property struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	CustomerID    uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	Label         string    `json:"label" gorm:"not null;size:100"`
	PropertyClass string    `json:"property_class" gorm:"type:varchar(20);not null;default:'residential'"`
	AddressLine   string    `json:"address_line" gorm:"not null;size:255"`
	City          string    `json:"city" gorm:"not null;size:100"`
	Province      string    `json:"province" gorm:"size:2"`
	PostalCode    string    `json:"postal_code" gorm:"type:varchar(6);not null"`
	AreaCode      string    `json:"area_code" gorm:"type:varchar(3);not null;index"`

	Bedrooms    int `json:"bedrooms" gorm:"default:0;check:bedrooms >= 0"`
	Bathrooms   int `json:"bathrooms" gorm:"default:0;check:bathrooms >= 0"`
	Kitchens    int `json:"kitchens" gorm:"default:0;check:kitchens >= 0"`
	LivingRooms int `json:"living_rooms" gorm:"default:0;check:living_rooms >= 0"`
	DiningRooms int `json:"dining_rooms" gorm:"default:0;check:dining_rooms >= 0"`
	SquareFeet  int `json:"square_feet" gorm:"default:0;check:square_feet >= 0"`

	HasStairs      bool `json:"has_stairs" gorm:"default:false"`
	HasHallways    bool `json:"has_hallways" gorm:"default:false"`
	HasLaundryRoom bool `json:"has_laundry_room" gorm:"default:false"`
	HasKitchenette bool `json:"has_kitchenette" gorm:"default:false"`

	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type CreatePropertyRequest struct {
	Label         string `json:"label" binding:"required,min=1,max=100"`
	PropertyClass string `json:"property_class" binding:"required,oneof=residential commercial"`
	AddressLine   string `json:"address_line" binding:"required,min=3,max=255"`
	City          string `json:"city" binding:"required,min=1,max=100"`
	Province      string `json:"province" binding:"omitempty,len=2"`
	PostalCode    string `json:"postal_code" binding:"required"`

	Bedrooms    int `json:"bedrooms" binding:"min=0"`
	Bathrooms   int `json:"bathrooms" binding:"min=0"`
	Kitchens    int `json:"kitchens" binding:"min=0"`
	LivingRooms int `json:"living_rooms" binding:"min=0"`
	DiningRooms int `json:"dining_rooms" binding:"min=0"`
	SquareFeet  int `json:"square_feet" binding:"min=0"`

	HasStairs      bool `json:"has_stairs"`
	HasHallways    bool `json:"has_hallways"`
	HasLaundryRoom bool `json:"has_laundry_room"`
	HasKitchenette bool `json:"has_kitchenette"`
}

type UpdatePropertyRequest struct {
	Label       *string `json:"label" binding:"omitempty,min=1,max=100"`
	AddressLine *string `json:"address_line" binding:"omitempty,min=3,max=255"`
	City        *string `json:"city" binding:"omitempty,min=1,max=100"`
	Province    *string `json:"province" binding:"omitempty,len=2"`
	PostalCode  *string `json:"postal_code"`

	Bedrooms    *int `json:"bedrooms" binding:"omitempty,min=0"`
	Bathrooms   *int `json:"bathrooms" binding:"omitempty,min=0"`
	Kitchens    *int `json:"kitchens" binding:"omitempty,min=0"`
	LivingRooms *int `json:"living_rooms" binding:"omitempty,min=0"`
	DiningRooms *int `json:"dining_rooms" binding:"omitempty,min=0"`
	SquareFeet  *int `json:"square_feet" binding:"omitempty,min=0"`

	HasStairs      *bool `json:"has_stairs"`
	HasHallways    *bool `json:"has_hallways"`
	HasLaundryRoom *bool `json:"has_laundry_room"`
	HasKitchenette *bool `json:"has_kitchenette"`
}
