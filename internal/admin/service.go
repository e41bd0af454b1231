package admin

import (
	"context"

	"cleangrid/internal/bookings"
	"cleangrid/internal/shared/constants"
	"cleangrid/internal/territory"
	"cleangrid/internal/users"
	"cleangrid/pkg/cache"

	"github.com/google/uuid"
)

// UserCounter reports platform user totals. The auth repository
// satisfies it.
type UserCounter interface {
	CountUsersByRole(ctx context.Context) (map[users.Role]int64, error)
}

// PlatformStats is the admin dashboard snapshot
type PlatformStats struct {
	BookingsByStatus   map[bookings.BookingStatus]int64   `json:"bookings_by_status"`
	CompletedBookings  int64                              `json:"completed_bookings"`
	TotalRevenue       float64                            `json:"total_revenue"`
	CustomersTotal     int64                              `json:"customers_total"`
	FranchiseesTotal   int64                              `json:"franchisees_total"`
	TerritoriesTotal   int                                `json:"territories_total"`
	TerritoriesByState map[territory.ProtectionStatus]int `json:"territories_by_status"`
	PendingPoolSize    int64                              `json:"pending_pool_size"`
}

// FranchiseeEarnings summarizes completed-booking money for one franchisee
type FranchiseeEarnings struct {
	FranchiseeID string  `json:"franchisee_id"`
	GrossRevenue float64 `json:"gross_revenue"`
	NetPayout    float64 `json:"net_payout"`
	PlatformFee  float64 `json:"platform_fee"`
}

type Service interface {
	GetPlatformStats(ctx context.Context) (*PlatformStats, error)
	GetFranchiseeEarnings(ctx context.Context, franchiseeID uuid.UUID) (*FranchiseeEarnings, error)
}

type service struct {
	bookingRepo   bookings.Repository
	territoryRepo territory.Repository
	userCounter   UserCounter
	cacheService  cache.Service
}

func NewService(bookingRepo bookings.Repository, territoryRepo territory.Repository, userCounter UserCounter, cacheService cache.Service) Service {
	return &service{
		bookingRepo:   bookingRepo,
		territoryRepo: territoryRepo,
		userCounter:   userCounter,
		cacheService:  cacheService,
	}
}

func (s *service) GetPlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	if s.cacheService != nil {
		err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_ADMIN_STATS, constants.TTL_DYNAMIC_SHORT, func() (interface{}, error) {
			return s.buildStats(ctx)
		}, &stats)
		if err != nil {
			return nil, err
		}
		return &stats, nil
	}
	return s.buildStats(ctx)
}

func (s *service) buildStats(ctx context.Context) (*PlatformStats, error) {
	byStatus, err := s.bookingRepo.CountByStatus()
	if err != nil {
		return nil, err
	}

	assignments, err := s.territoryRepo.List()
	if err != nil {
		return nil, err
	}
	byState := make(map[territory.ProtectionStatus]int)
	for _, a := range assignments {
		byState[a.Status]++
	}

	revenue, err := s.bookingRepo.CompletedRevenue()
	if err != nil {
		return nil, err
	}

	byRole, err := s.userCounter.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		BookingsByStatus:   byStatus,
		CompletedBookings:  byStatus[bookings.StatusCompleted],
		TotalRevenue:       revenue,
		CustomersTotal:     byRole[users.RoleCustomer],
		FranchiseesTotal:   byRole[users.RoleFranchisee],
		TerritoriesTotal:   len(assignments),
		TerritoriesByState: byState,
		PendingPoolSize:    byStatus[bookings.StatusPending],
	}, nil
}

func (s *service) GetFranchiseeEarnings(ctx context.Context, franchiseeID uuid.UUID) (*FranchiseeEarnings, error) {
	var earnings FranchiseeEarnings
	if s.cacheService != nil {
		key := constants.FranchiseeEarningsKey(franchiseeID.String())
		err := s.cacheService.GetOrSet(ctx, key, constants.TTL_DYNAMIC_QUICK, func() (interface{}, error) {
			return s.buildEarnings(franchiseeID)
		}, &earnings)
		if err != nil {
			return nil, err
		}
		return &earnings, nil
	}
	return s.buildEarnings(franchiseeID)
}

func (s *service) buildEarnings(franchiseeID uuid.UUID) (*FranchiseeEarnings, error) {
	gross, payout, err := s.bookingRepo.SumPayoutsByFranchisee(franchiseeID)
	if err != nil {
		return nil, err
	}
	return &FranchiseeEarnings{
		FranchiseeID: franchiseeID.String(),
		GrossRevenue: gross,
		NetPayout:    payout,
		PlatformFee:  gross - payout,
	}, nil
}
