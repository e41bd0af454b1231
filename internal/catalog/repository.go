package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEntryNotFound = errors.New("catalog entry not found")
	ErrAddOnNotFound = errors.New("add-on not found")
	ErrDuplicateSlug = errors.New("add-on slug already exists")
)

type Repository interface {
	CreateEntry(entry *ServiceEntry) error
	GetEntryByID(id uuid.UUID) (*ServiceEntry, error)
	GetEntryByServiceLevel(level string) (*ServiceEntry, error)
	ListEntries(activeOnly bool) ([]ServiceEntry, error)
	UpdateEntry(entry *ServiceEntry) error

	CreateAddOn(addOn *AddOn) error
	GetAddOnBySlug(slug string) (*AddOn, error)
	GetAddOnsBySlugs(slugs []string) ([]AddOn, error)
	ListAddOns(activeOnly bool) ([]AddOn, error)
	UpdateAddOn(addOn *AddOn) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateEntry(entry *ServiceEntry) error {
	return r.db.Create(entry).Error
}

func (r *repository) GetEntryByID(id uuid.UUID) (*ServiceEntry, error) {
	var entry ServiceEntry
	err := r.db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) GetEntryByServiceLevel(level string) (*ServiceEntry, error) {
	var entry ServiceEntry
	err := r.db.Where("service_level = ? AND active = ?", level, true).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) ListEntries(activeOnly bool) ([]ServiceEntry, error) {
	var entries []ServiceEntry
	query := r.db.Order("service_level ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) UpdateEntry(entry *ServiceEntry) error {
	result := r.db.Save(entry)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (r *repository) CreateAddOn(addOn *AddOn) error {
	err := r.db.Create(addOn).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *repository) GetAddOnBySlug(slug string) (*AddOn, error) {
	var addOn AddOn
	err := r.db.Where("slug = ?", slug).First(&addOn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddOnNotFound
		}
		return nil, err
	}
	return &addOn, nil
}

func (r *repository) GetAddOnsBySlugs(slugs []string) ([]AddOn, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var addOns []AddOn
	if err := r.db.Where("slug IN ? AND active = ?", slugs, true).Find(&addOns).Error; err != nil {
		return nil, err
	}
	return addOns, nil
}

func (r *repository) ListAddOns(activeOnly bool) ([]AddOn, error) {
	var addOns []AddOn
	query := r.db.Order("slug ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&addOns).Error; err != nil {
		return nil, err
	}
	return addOns, nil
}

func (r *repository) UpdateAddOn(addOn *AddOn) error {
	result := r.db.Save(addOn)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAddOnNotFound
	}
	return nil
}
