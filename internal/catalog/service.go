package catalog

import (
	"context"
	"errors"
	"fmt"

	"cleangrid/internal/quotes"
	"cleangrid/internal/shared/constants"
	"cleangrid/pkg/cache"

	"github.com/google/uuid"
)

// Service manages the priced service catalog and add-on list. It also
// implements quotes.CatalogSource so the quote engine reads prices
// through the same cache-aside path as the public listing endpoints.
type Service interface {
	CreateEntry(ctx context.Context, adminID uuid.UUID, req CreateServiceEntryRequest) (*ServiceEntry, error)
	GetEntry(ctx context.Context, id uuid.UUID) (*ServiceEntry, error)
	ListEntries(ctx context.Context) ([]ServiceEntry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateServiceEntryRequest) (*ServiceEntry, error)

	CreateAddOn(ctx context.Context, req CreateAddOnRequest) (*AddOn, error)
	ListAddOns(ctx context.Context) ([]AddOn, error)
	UpdateAddOn(ctx context.Context, slug string, req UpdateAddOnRequest) (*AddOn, error)

	// quotes.CatalogSource
	FindPricingEntry(ctx context.Context, class quotes.PropertyClass, level quotes.ServiceLevel) (*quotes.PricingEntry, error)
	ResolveAddOns(ctx context.Context, ids []string) (map[string]quotes.AddOnDef, error)
	GetPricingEntryByID(ctx context.Context, id string) (*quotes.PricingEntry, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// NewServiceWithCache wires the catalog service with its cache layer
func NewServiceWithCache(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cacheService: cacheService}
}

func (s *service) CreateEntry(ctx context.Context, adminID uuid.UUID, req CreateServiceEntryRequest) (*ServiceEntry, error) {
	entry := &ServiceEntry{
		Name:                 req.Name,
		Description:          req.Description,
		ServiceLevel:         req.ServiceLevel,
		BasePriceResidential: req.BasePriceResidential,
		BasePriceCommercial:  req.BasePriceCommercial,
		PricePerSqFt:         req.PricePerSqFt,
		BaseDurationMinutes:  req.BaseDurationMinutes,
		Active:               true,
		CreatedBy:            adminID,
	}
	if err := s.repo.CreateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to create catalog entry: %w", err)
	}
	s.invalidateCatalogCache(ctx)
	return entry, nil
}

func (s *service) GetEntry(ctx context.Context, id uuid.UUID) (*ServiceEntry, error) {
	var entry ServiceEntry
	key := constants.CatalogDetailKey(id.String())

	if s.cacheService != nil {
		err := s.cacheService.GetOrSet(ctx, key, constants.TTL_SEMI_STATIC_LONG, func() (interface{}, error) {
			return s.repo.GetEntryByID(id)
		}, &entry)
		if err != nil {
			return nil, err
		}
		return &entry, nil
	}
	return s.repo.GetEntryByID(id)
}

func (s *service) ListEntries(ctx context.Context) ([]ServiceEntry, error) {
	var entries []ServiceEntry
	if s.cacheService != nil {
		err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_CATALOG_LIST, constants.TTL_SEMI_STATIC_MEDIUM, func() (interface{}, error) {
			return s.repo.ListEntries(true)
		}, &entries)
		if err != nil {
			return nil, err
		}
		return entries, nil
	}
	return s.repo.ListEntries(true)
}

func (s *service) UpdateEntry(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateServiceEntryRequest) (*ServiceEntry, error) {
	entry, err := s.repo.GetEntryByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		entry.Name = *req.Name
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.BasePriceResidential != nil {
		entry.BasePriceResidential = *req.BasePriceResidential
	}
	if req.BasePriceCommercial != nil {
		entry.BasePriceCommercial = *req.BasePriceCommercial
	}
	if req.PricePerSqFt != nil {
		entry.PricePerSqFt = *req.PricePerSqFt
	}
	if req.BaseDurationMinutes != nil {
		entry.BaseDurationMinutes = *req.BaseDurationMinutes
	}
	if req.Active != nil {
		entry.Active = *req.Active
	}
	entry.UpdatedBy = &adminID

	if err := s.repo.UpdateEntry(entry); err != nil {
		return nil, fmt.Errorf("failed to update catalog entry: %w", err)
	}
	s.invalidateCatalogCache(ctx)
	return entry, nil
}

func (s *service) CreateAddOn(ctx context.Context, req CreateAddOnRequest) (*AddOn, error) {
	addOn := &AddOn{
		Slug:            req.Slug,
		Name:            req.Name,
		Price:           req.Price,
		NeedsQuantity:   req.NeedsQuantity,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if err := s.repo.CreateAddOn(addOn); err != nil {
		return nil, err
	}
	s.invalidateCatalogCache(ctx)
	return addOn, nil
}

func (s *service) ListAddOns(ctx context.Context) ([]AddOn, error) {
	var addOns []AddOn
	if s.cacheService != nil {
		err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_ADDONS_LIST, constants.TTL_STATIC_MEDIUM, func() (interface{}, error) {
			return s.repo.ListAddOns(true)
		}, &addOns)
		if err != nil {
			return nil, err
		}
		return addOns, nil
	}
	return s.repo.ListAddOns(true)
}

func (s *service) UpdateAddOn(ctx context.Context, slug string, req UpdateAddOnRequest) (*AddOn, error) {
	addOn, err := s.repo.GetAddOnBySlug(slug)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		addOn.Name = *req.Name
	}
	if req.Price != nil {
		addOn.Price = *req.Price
	}
	if req.NeedsQuantity != nil {
		addOn.NeedsQuantity = *req.NeedsQuantity
	}
	if req.DurationMinutes != nil {
		addOn.DurationMinutes = *req.DurationMinutes
	}
	if req.Active != nil {
		addOn.Active = *req.Active
	}

	if err := s.repo.UpdateAddOn(addOn); err != nil {
		return nil, fmt.Errorf("failed to update add-on: %w", err)
	}
	s.invalidateCatalogCache(ctx)
	return addOn, nil
}

// FindPricingEntry resolves the catalog row for a service level. The
// property class does not narrow the lookup; it selects which base price
// applies, and the engine does that selection itself.
func (s *service) FindPricingEntry(ctx context.Context, class quotes.PropertyClass, level quotes.ServiceLevel) (*quotes.PricingEntry, error) {
	entry, err := s.repo.GetEntryByServiceLevel(string(level))
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPricingEntry(entry), nil
}

func (s *service) GetPricingEntryByID(ctx context.Context, id string) (*quotes.PricingEntry, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}
	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !entry.Active {
		return nil, nil
	}
	return toPricingEntry(entry), nil
}

// ResolveAddOns loads the requested add-ons keyed by slug. Unknown slugs
// are simply absent from the result; the engine decides whether that is
// an error.
func (s *service) ResolveAddOns(ctx context.Context, ids []string) (map[string]quotes.AddOnDef, error) {
	if len(ids) == 0 {
		return map[string]quotes.AddOnDef{}, nil
	}
	addOns, err := s.repo.GetAddOnsBySlugs(ids)
	if err != nil {
		return nil, err
	}

	defs := make(map[string]quotes.AddOnDef, len(addOns))
	for _, a := range addOns {
		defs[a.Slug] = quotes.AddOnDef{
			ID:              a.Slug,
			Name:            a.Name,
			Price:           a.Price,
			NeedsQuantity:   a.NeedsQuantity,
			DurationMinutes: a.DurationMinutes,
		}
	}
	return defs, nil
}

func toPricingEntry(entry *ServiceEntry) *quotes.PricingEntry {
	return &quotes.PricingEntry{
		ID:                   entry.ID.String(),
		Name:                 entry.Name,
		BasePriceResidential: entry.BasePriceResidential,
		BasePriceCommercial:  entry.BasePriceCommercial,
		PricePerSqFt:         entry.PricePerSqFt,
		BaseDurationMinutes:  entry.BaseDurationMinutes,
	}
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	// Invalidation failure only means stale reads until TTL expiry
	_ = s.cacheService.DeletePattern(ctx, constants.INVALIDATE_CATALOG_ALL)
}
