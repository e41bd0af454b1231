package properties

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("property not found")

type Repository interface {
	Create(property *Property) error
	GetByID(id uuid.UUID) (*Property, error)
	ListByCustomer(customerID uuid.UUID) ([]Property, error)
	Update(property *Property) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(property *Property) error {
	return r.db.Create(property).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Property, error) {
	var property Property
	err := r.db.Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *repository) ListByCustomer(customerID uuid.UUID) ([]Property, error) {
	var list []Property
	err := r.db.Where("customer_id = ?", customerID).Order("created_at DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(property *Property) error {
	result := r.db.Save(property)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
