package database

import (
	"cleangrid/internal/bookings"
	"cleangrid/internal/catalog"
	"cleangrid/internal/onboarding"
	"cleangrid/internal/properties"
	"cleangrid/internal/reviews"
	"cleangrid/internal/territory"
	"cleangrid/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on primary keys need the extension in place
	// before the tables exist.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&users.User{},
		&catalog.ServiceEntry{},
		&catalog.AddOn{},
		&territory.Assignment{},
		&onboarding.FranchiseeApplication{},
		&properties.Property{},
		&bookings.Booking{},
		&reviews.Review{},
	)
}
