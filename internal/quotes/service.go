package quotes

import (
	"context"
	"fmt"
)

// CatalogSource is the slice of the service catalog the quote engine
// needs. The catalog package implements it; keeping the interface here
// keeps the engine free of storage concerns.
type CatalogSource interface {
	FindPricingEntry(ctx context.Context, class PropertyClass, level ServiceLevel) (*PricingEntry, error)
	ResolveAddOns(ctx context.Context, ids []string) (map[string]AddOnDef, error)
	GetPricingEntryByID(ctx context.Context, id string) (*PricingEntry, error)
}

type Service interface {
	GenerateQuote(ctx context.Context, req QuoteRequest) (*QuoteBreakdown, error)
	GenerateSimpleQuote(ctx context.Context, req SimpleQuoteRequest) (*SimpleQuoteResponse, error)
}

type service struct {
	engine  *Engine
	catalog CatalogSource
}

func NewService(engine *Engine, catalog CatalogSource) Service {
	return &service{engine: engine, catalog: catalog}
}

// GenerateQuote resolves the catalog entry and requested add-ons, then
// delegates all pricing math to the engine. The response is rounded for
// presentation; the unrounded breakdown never leaves the process.
func (s *service) GenerateQuote(ctx context.Context, req QuoteRequest) (*QuoteBreakdown, error) {
	entry, err := s.catalog.FindPricingEntry(ctx, req.PropertyClass, req.ServiceLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to match catalog entry: %w", err)
	}

	ids := make([]string, 0, len(req.AddOns))
	for _, sel := range req.AddOns {
		ids = append(ids, sel.ID)
	}
	addOnDefs, err := s.catalog.ResolveAddOns(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve add-ons: %w", err)
	}

	breakdown, err := s.engine.Compute(req, entry, addOnDefs)
	if err != nil {
		return nil, err
	}
	rounded := breakdown.Rounded()
	return &rounded, nil
}

// GenerateSimpleQuote prices a single catalog entry by ID with optional
// square footage and a recurrence discount. It predates the full
// breakdown endpoint and stays for older clients.
func (s *service) GenerateSimpleQuote(ctx context.Context, req SimpleQuoteRequest) (*SimpleQuoteResponse, error) {
	entry, err := s.catalog.GetPricingEntryByID(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog entry: %w", err)
	}
	if entry == nil {
		return nil, ErrNoMatchingCatalogEntry
	}

	var basePrice float64
	if PropertyClass(req.ServiceType) == ClassCommercial {
		basePrice = entry.BasePriceCommercial
	} else {
		basePrice = entry.BasePriceResidential
	}
	sqFtPrice := entry.PricePerSqFt * float64(req.SquareFeet)
	total := basePrice + sqFtPrice

	var discount float64
	frequency := Frequency(req.Frequency)
	if req.IsRecurring && frequency != "" {
		rate, ok := s.engine.config.FrequencyDiscounts[frequency]
		if !ok {
			return nil, &InvalidInputError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", req.Frequency)}
		}
		discount = total * rate
	}

	return &SimpleQuoteResponse{
		ServiceID:   entry.ID,
		ServiceName: entry.Name,
		BasePrice:   round2(basePrice),
		SqFtPrice:   round2(sqFtPrice),
		TotalPrice:  round2(total),
		Discount:    round2(discount),
		FinalPrice:  round2(total - discount),
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
	}, nil
}
