package territory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAssignmentNotFound = errors.New("territory assignment not found")

// StorageUnavailableError wraps a storage failure so callers can decide
// to retry; the registry itself never retries.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("territory storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

type Repository interface {
	GetByAreaCode(areaCode string) (*Assignment, error)
	List() ([]Assignment, error)
	ListByFranchisee(franchiseeID uuid.UUID) ([]Assignment, error)
	Upsert(areaCode string, franchiseeID *uuid.UUID, status ProtectionStatus, kpiScore float64, assignedBy *uuid.UUID) (*Assignment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByAreaCode(areaCode string) (*Assignment, error) {
	var assignment Assignment
	err := r.db.Where("area_code = ?", areaCode).First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, &StorageUnavailableError{Op: "lookup", Err: err}
	}
	return &assignment, nil
}

func (r *repository) List() ([]Assignment, error) {
	var assignments []Assignment
	if err := r.db.Order("area_code ASC").Find(&assignments).Error; err != nil {
		return nil, &StorageUnavailableError{Op: "list", Err: err}
	}
	return assignments, nil
}

func (r *repository) ListByFranchisee(franchiseeID uuid.UUID) ([]Assignment, error) {
	var assignments []Assignment
	err := r.db.Where("franchisee_id = ?", franchiseeID).Order("area_code ASC").Find(&assignments).Error
	if err != nil {
		return nil, &StorageUnavailableError{Op: "list by franchisee", Err: err}
	}
	return assignments, nil
}

// Upsert reassigns an area code inside a transaction, locking the
// existing row so concurrent assigns for the same area serialize.
// Last write wins; the unique index on area_code guarantees that the
// previous holder loses the area in the same statement that grants it.
func (r *repository) Upsert(areaCode string, franchiseeID *uuid.UUID, status ProtectionStatus, kpiScore float64, assignedBy *uuid.UUID) (*Assignment, error) {
	var result Assignment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing Assignment
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("area_code = ?", areaCode).
			First(&existing).Error

		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to lock assignment: %w", err)
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			result = Assignment{
				AreaCode:     areaCode,
				FranchiseeID: franchiseeID,
				Status:       status,
				KPIScore:     kpiScore,
				AssignedBy:   assignedBy,
			}
			if err := tx.Create(&result).Error; err != nil {
				return fmt.Errorf("failed to create assignment: %w", err)
			}
			return nil
		}

		existing.FranchiseeID = franchiseeID
		existing.Status = status
		existing.KPIScore = kpiScore
		existing.AssignedBy = assignedBy
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
		result = existing
		return nil
	})

	if err != nil {
		return nil, &StorageUnavailableError{Op: "assign", Err: err}
	}
	return &result, nil
}
