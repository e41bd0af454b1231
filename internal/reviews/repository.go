package reviews

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrAlreadyExists  = errors.New("booking already has a review")
)

type Repository interface {
	Create(review *Review) error
	GetByBookingID(bookingID uuid.UUID) (*Review, error)
	ListByFranchisee(franchiseeID uuid.UUID, limit int) ([]Review, error)
	Summary(franchiseeID uuid.UUID) (*RatingSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(review *Review) error {
	err := r.db.Create(review).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyExists
	}
	return err
}

func (r *repository) GetByBookingID(bookingID uuid.UUID) (*Review, error) {
	var review Review
	err := r.db.Where("booking_id = ?", bookingID).First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *repository) ListByFranchisee(franchiseeID uuid.UUID, limit int) ([]Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var list []Review
	err := r.db.Where("franchisee_id = ?", franchiseeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Summary(franchiseeID uuid.UUID) (*RatingSummary, error) {
	type row struct {
		Avg   float64
		Count int64
	}
	var agg row
	err := r.db.Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("franchisee_id = ?", franchiseeID).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &RatingSummary{
		FranchiseeID:  franchiseeID.String(),
		AverageRating: agg.Avg,
		ReviewCount:   agg.Count,
	}, nil
}
