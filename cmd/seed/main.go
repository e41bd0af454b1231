package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cleangrid/internal/catalog"
	"cleangrid/internal/properties"
	"cleangrid/internal/shared/config"
	"cleangrid/internal/shared/database"
	"cleangrid/internal/territory"
	"cleangrid/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CleanGrid Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reviews",
		"bookings",
		"properties",
		"franchisee_applications",
		"assignments",
		"add_ons",
		"service_entries",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedCatalog(userIDs["admin"]); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	if err := s.SeedTerritories(userIDs); err != nil {
		return fmt.Errorf("failed to seed territories: %w", err)
	}

	if err := s.SeedProperties(userIDs); err != nil {
		return fmt.Errorf("failed to seed properties: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates an admin, two franchisees and two customers
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key        string
		firstName  string
		lastName   string
		email      string
		role       users.Role
		postalCode string
	}{
		{"admin", "Platform", "Admin", "admin@cleangrid.ca", users.RoleAdmin, ""},
		{"franchisee1", "Dana", "Tremblay", "dana@sparkleteam.ca", users.RoleFranchisee, "M5V3A8"},
		{"franchisee2", "Ravi", "Patel", "ravi@freshstartcleaning.ca", users.RoleFranchisee, "K1A0B1"},
		{"customer1", "Jo", "Smith", "jo.smith@example.com", users.RoleCustomer, "M5V3A8"},
		{"customer2", "Ana", "Costa", "ana.costa@example.com", users.RoleCustomer, "V6B2T6"},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:         uuid.New(),
			FirstName:  userData.firstName,
			LastName:   userData.lastName,
			Email:      userData.email,
			Password:   string(hashedPassword),
			Role:       userData.role,
			PostalCode: userData.postalCode,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedCatalog creates the service level entries and add-ons
func (s *Seeder) SeedCatalog(adminID uuid.UUID) error {
	fmt.Println("  🧽 Seeding service catalog...")

	entries := []catalog.ServiceEntry{
		{
			Name:                 "Standard Clean",
			Description:          "Routine surface cleaning of all living areas",
			ServiceLevel:         "standard",
			BasePriceResidential: 49.0,
			BasePriceCommercial:  85.0,
			PricePerSqFt:         0.08,
			BaseDurationMinutes:  30,
		},
		{
			Name:                 "Deep Clean",
			Description:          "Detailed cleaning including baseboards, vents and behind appliances",
			ServiceLevel:         "deep",
			BasePriceResidential: 89.0,
			BasePriceCommercial:  140.0,
			PricePerSqFt:         0.12,
			BaseDurationMinutes:  45,
		},
		{
			Name:                 "Move In / Move Out",
			Description:          "Empty-home cleaning for move transitions, cabinets and closets included",
			ServiceLevel:         "move_in_out",
			BasePriceResidential: 129.0,
			BasePriceCommercial:  190.0,
			PricePerSqFt:         0.14,
			BaseDurationMinutes:  60,
		},
		{
			Name:                 "Post-Renovation",
			Description:          "Dust and debris removal after construction or renovation work",
			ServiceLevel:         "post_reno",
			BasePriceResidential: 159.0,
			BasePriceCommercial:  220.0,
			PricePerSqFt:         0.18,
			BaseDurationMinutes:  60,
		},
	}

	for i := range entries {
		entries[i].Active = true
		entries[i].CreatedBy = adminID
		if err := s.db.PostgreSQL.Create(&entries[i]).Error; err != nil {
			return fmt.Errorf("failed to create service entry %s: %w", entries[i].ServiceLevel, err)
		}
		fmt.Printf("    ✅ Created service: %s ($%.2f res / $%.2f com)\n",
			entries[i].Name, entries[i].BasePriceResidential, entries[i].BasePriceCommercial)
	}

	addOns := []catalog.AddOn{
		{Slug: "fridge_interior", Name: "Inside the fridge", Price: 35.0, DurationMinutes: 30},
		{Slug: "oven_interior", Name: "Inside the oven", Price: 45.0, DurationMinutes: 30},
		{Slug: "interior_windows", Name: "Interior windows", Price: 6.0, NeedsQuantity: true, DurationMinutes: 10},
		{Slug: "baseboards_deep", Name: "Baseboard deep scrub", Price: 60.0, DurationMinutes: 45},
		{Slug: "carpet_spot", Name: "Carpet spot treatment", Price: 40.0, DurationMinutes: 30},
		{Slug: "haul_away", Name: "Junk haul-away", Price: 90.0, DurationMinutes: 60},
	}

	for i := range addOns {
		addOns[i].Active = true
		if err := s.db.PostgreSQL.Create(&addOns[i]).Error; err != nil {
			return fmt.Errorf("failed to create add-on %s: %w", addOns[i].Slug, err)
		}
		fmt.Printf("    ✅ Created add-on: %s ($%.2f)\n", addOns[i].Slug, addOns[i].Price)
	}

	return nil
}

// SeedTerritories assigns a few area codes across protection states
func (s *Seeder) SeedTerritories(userIDs map[string]uuid.UUID) error {
	fmt.Println("  🗺️ Seeding territory assignments...")

	adminID := userIDs["admin"]
	franchisee1 := userIDs["franchisee1"]
	franchisee2 := userIDs["franchisee2"]

	assignments := []territory.Assignment{
		{AreaCode: "3A8", FranchiseeID: &franchisee1, Status: territory.StatusProtected, KPIScore: 92.5},
		{AreaCode: "0B1", FranchiseeID: &franchisee2, Status: territory.StatusProbation, KPIScore: 64.0},
		{AreaCode: "2T6", FranchiseeID: &franchisee1, Status: territory.StatusOverflow, KPIScore: 78.0},
		{AreaCode: "1H9", Status: territory.StatusUnassigned},
	}

	for i := range assignments {
		assignments[i].AssignedBy = &adminID
		if err := s.db.PostgreSQL.Create(&assignments[i]).Error; err != nil {
			return fmt.Errorf("failed to create assignment for %s: %w", assignments[i].AreaCode, err)
		}
		fmt.Printf("    ✅ Assigned area %s (%s)\n", assignments[i].AreaCode, assignments[i].Status)
	}

	return nil
}

// SeedProperties creates a property for each customer
func (s *Seeder) SeedProperties(userIDs map[string]uuid.UUID) error {
	fmt.Println("  🏠 Seeding properties...")

	props := []properties.Property{
		{
			CustomerID:    userIDs["customer1"],
			Label:         "Home",
			PropertyClass: "residential",
			AddressLine:   "210 King St W",
			City:          "Toronto",
			Province:      "ON",
			PostalCode:    "M5V3A8",
			AreaCode:      "3A8",
			Bedrooms:      2,
			Bathrooms:     1,
			Kitchens:      1,
			LivingRooms:   1,
			SquareFeet:    850,
			HasStairs:     true,
		},
		{
			CustomerID:    userIDs["customer2"],
			Label:         "Downtown office",
			PropertyClass: "commercial",
			AddressLine:   "555 Burrard St",
			City:          "Vancouver",
			Province:      "BC",
			PostalCode:    "V6B2T6",
			AreaCode:      "2T6",
			Bathrooms:     2,
			Kitchens:      1,
			SquareFeet:    2400,
			HasHallways:   true,
		},
	}

	for i := range props {
		props[i].Active = true
		if err := s.db.PostgreSQL.Create(&props[i]).Error; err != nil {
			return fmt.Errorf("failed to create property %s: %w", props[i].Label, err)
		}
		fmt.Printf("    ✅ Created property: %s (%s, area %s)\n",
			props[i].Label, props[i].City, props[i].AreaCode)
	}

	return nil
}
