package bookings

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repository interface {
	Create(booking *Booking) error
	GetByID(id uuid.UUID) (*Booking, error)
	ListByCustomer(customerID uuid.UUID) ([]Booking, error)
	ListByFranchisee(franchiseeID uuid.UUID, statuses []BookingStatus) ([]Booking, error)
	ListPending() ([]Booking, error)
	HasOpenBookings(propertyID uuid.UUID) (bool, error)
	CountByStatus() (map[BookingStatus]int64, error)
	SumPayoutsByFranchisee(franchiseeID uuid.UUID) (gross float64, payout float64, err error)
	CompletedRevenue() (float64, error)

	// UpdateWithLock runs mutate against a row-locked copy of the
	// booking and persists the result in the same transaction.
	UpdateWithLock(id uuid.UUID, mutate func(*Booking) error) (*Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(booking *Booking) error {
	return r.db.Create(booking).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) ListByCustomer(customerID uuid.UUID) ([]Booking, error) {
	var list []Booking
	err := r.db.Where("customer_id = ?", customerID).Order("scheduled_at DESC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListByFranchisee(franchiseeID uuid.UUID, statuses []BookingStatus) ([]Booking, error) {
	var list []Booking
	query := r.db.Where("franchisee_id = ?", franchiseeID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Order("scheduled_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListPending returns the unassigned pool in scheduling order
func (r *repository) ListPending() ([]Booking, error) {
	var list []Booking
	err := r.db.Where("status = ?", StatusPending).Order("scheduled_at ASC").Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) HasOpenBookings(propertyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&Booking{}).
		Where("property_id = ? AND status NOT IN ?", propertyID, []BookingStatus{StatusCompleted, StatusCancelled}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CountByStatus() (map[BookingStatus]int64, error) {
	type row struct {
		Status BookingStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&Booking{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[BookingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *repository) SumPayoutsByFranchisee(franchiseeID uuid.UUID) (float64, float64, error) {
	type sums struct {
		Gross  float64
		Payout float64
	}
	var s sums
	err := r.db.Model(&Booking{}).
		Select("COALESCE(SUM(total_price), 0) as gross, COALESCE(SUM(franchisee_payout), 0) as payout").
		Where("franchisee_id = ? AND status = ?", franchiseeID, StatusCompleted).
		Scan(&s).Error
	if err != nil {
		return 0, 0, err
	}
	return s.Gross, s.Payout, nil
}

func (r *repository) CompletedRevenue() (float64, error) {
	var total float64
	err := r.db.Model(&Booking{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status = ?", StatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// UpdateWithLock serializes concurrent status changes on the same
// booking: accept racing decline, cancel racing accept.
func (r *repository) UpdateWithLock(id uuid.UUID, mutate func(*Booking) error) (*Booking, error) {
	var result Booking

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var booking Booking
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", id).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if err := mutate(&booking); err != nil {
			return err
		}

		if err := tx.Save(&booking).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &result, nil
}
