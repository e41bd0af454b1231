package territory

import (
	"context"
	"errors"
	"fmt"

	"cleangrid/internal/shared/constants"
	"cleangrid/pkg/cache"
	"cleangrid/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus = errors.New("invalid protection status")
	ErrNoFranchisee  = errors.New("no routable franchisee for area code")
)

// Service is the territory assignment registry: it resolves which
// franchisee serves an area code and records (re)assignments.
type Service interface {
	ResolveFranchisee(ctx context.Context, areaCode string) (*AssignmentResponse, error)
	ResolveByPostalCode(ctx context.Context, postalCode string) (*AssignmentResponse, error)
	Assign(ctx context.Context, req AssignRequest, assignedBy *uuid.UUID) (*AssignmentResponse, error)
	ListAssignments(ctx context.Context) ([]AssignmentResponse, error)
	ListByFranchisee(ctx context.Context, franchiseeID uuid.UUID) ([]AssignmentResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func NewServiceWithCache(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cacheService: cacheService}
}

// ResolveFranchisee returns the current holder of an area code.
// Assignments whose status is not routable resolve to ErrNoFranchisee,
// same as a missing row, so booking creation treats both as the
// unassigned pool.
func (s *service) ResolveFranchisee(ctx context.Context, areaCode string) (*AssignmentResponse, error) {
	if len(areaCode) != 3 {
		return nil, &InvalidPostalCodeError{Input: areaCode, Reason: "area code must be exactly 3 characters"}
	}

	assignment, err := s.getAssignment(ctx, areaCode)
	if err != nil {
		if errors.Is(err, ErrAssignmentNotFound) {
			return nil, ErrNoFranchisee
		}
		return nil, err
	}
	if assignment.FranchiseeID == nil || !assignment.Status.IsRoutable() {
		return nil, ErrNoFranchisee
	}
	return toAssignmentResponse(assignment), nil
}

// ResolveByPostalCode derives the area code from a raw postal code,
// then resolves the holder
func (s *service) ResolveByPostalCode(ctx context.Context, postalCode string) (*AssignmentResponse, error) {
	areaCode, err := DeriveAreaCode(postalCode)
	if err != nil {
		return nil, err
	}
	return s.ResolveFranchisee(ctx, areaCode)
}

// Assign records an area assignment. Last write wins: assigning an area
// already held by another franchisee transfers it.
func (s *service) Assign(ctx context.Context, req AssignRequest, assignedBy *uuid.UUID) (*AssignmentResponse, error) {
	areaCode := req.AreaCode
	if areaCode == "" {
		derived, err := DeriveAreaCode(req.PostalCode)
		if err != nil {
			return nil, err
		}
		areaCode = derived
	}
	if len(areaCode) != 3 {
		return nil, &InvalidPostalCodeError{Input: areaCode, Reason: "area code must be exactly 3 characters"}
	}

	status := ProtectionStatus(req.Status)
	if !IsValidProtectionStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	var franchiseeID *uuid.UUID
	if status != StatusUnassigned {
		id, err := uuid.Parse(req.FranchiseeID)
		if err != nil {
			return nil, fmt.Errorf("invalid franchisee ID: %w", err)
		}
		franchiseeID = &id
	}

	assignment, err := s.repo.Upsert(areaCode, franchiseeID, status, req.KPIScore, assignedBy)
	if err != nil {
		return nil, err
	}

	s.invalidateAreaCache(ctx, areaCode)
	logger.GetDefault().LogTerritoryAssigned(ctx, areaCode, req.FranchiseeID, string(status))
	return toAssignmentResponse(assignment), nil
}

func (s *service) ListAssignments(ctx context.Context) ([]AssignmentResponse, error) {
	assignments, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	responses := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = *toAssignmentResponse(&assignments[i])
	}
	return responses, nil
}

func (s *service) ListByFranchisee(ctx context.Context, franchiseeID uuid.UUID) ([]AssignmentResponse, error) {
	assignments, err := s.repo.ListByFranchisee(franchiseeID)
	if err != nil {
		return nil, err
	}
	responses := make([]AssignmentResponse, len(assignments))
	for i := range assignments {
		responses[i] = *toAssignmentResponse(&assignments[i])
	}
	return responses, nil
}

func (s *service) getAssignment(ctx context.Context, areaCode string) (*Assignment, error) {
	if s.cacheService == nil {
		return s.repo.GetByAreaCode(areaCode)
	}

	var assignment Assignment
	key := constants.TerritoryAreaKey(areaCode)
	err := s.cacheService.GetOrSet(ctx, key, constants.TTL_DYNAMIC_MEDIUM, func() (interface{}, error) {
		return s.repo.GetByAreaCode(areaCode)
	}, &assignment)
	if err != nil {
		// A cached miss marker is not worth the complexity; not-found
		// propagates uncached
		return nil, err
	}
	return &assignment, nil
}

func (s *service) invalidateAreaCache(ctx context.Context, areaCode string) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, constants.TerritoryAreaKey(areaCode))
}
