package onboarding

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrApplicationNotFound = errors.New("application not found")

type Repository interface {
	Create(application *FranchiseeApplication) error
	GetByID(id uuid.UUID) (*FranchiseeApplication, error)
	EmailExists(email string) (bool, error)
	List(status ApplicationStatus) ([]FranchiseeApplication, error)
	Update(application *FranchiseeApplication) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(application *FranchiseeApplication) error {
	return r.db.Create(application).Error
}

func (r *repository) GetByID(id uuid.UUID) (*FranchiseeApplication, error) {
	var application FranchiseeApplication
	err := r.db.Where("id = ?", id).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

func (r *repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&FranchiseeApplication{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// List returns applications, newest first, optionally filtered to one
// status.
func (r *repository) List(status ApplicationStatus) ([]FranchiseeApplication, error) {
	query := r.db.Order("submitted_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var list []FranchiseeApplication
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(application *FranchiseeApplication) error {
	result := r.db.Save(application)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}
