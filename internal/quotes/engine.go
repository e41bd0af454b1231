package quotes

import (
	"fmt"
	"math"
)

// Engine computes quote breakdowns. It holds only immutable pricing
// tables, performs no I/O and keeps no per-request state, so a single
// instance is safe for concurrent use.
type Engine struct {
	config PricingConfig
}

// NewEngine creates a quote engine with the given pricing tables
func NewEngine(config PricingConfig) *Engine {
	return &Engine{config: config}
}

// Compute prices a quote request against a matched catalog entry and the
// add-on catalog. Identical inputs always produce identical output.
// The breakdown keeps full float precision; callers round via Rounded()
// when presenting.
func (e *Engine) Compute(req QuoteRequest, entry *PricingEntry, addOnDefs map[string]AddOnDef) (*QuoteBreakdown, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNoMatchingCatalogEntry
	}

	condition := req.Condition
	if condition == "" {
		condition = ConditionNormal
	}
	frequency := req.Frequency
	if frequency == "" {
		frequency = FrequencyOneTime
	}

	// Base price: which side of the catalog entry applies
	var basePrice float64
	if req.PropertyClass == ClassCommercial {
		basePrice = entry.BasePriceCommercial
	} else {
		basePrice = entry.BasePriceResidential
	}

	roomPrice := e.roomComponent(req)
	areaPrice := entry.PricePerSqFt * float64(req.SquareFeet)

	// Condition scales the labor-driven components, never the add-ons
	conditionMult := e.config.ConditionMultipliers[condition]
	core := (basePrice + roomPrice + areaPrice) * conditionMult

	// Add-ons: unit price x quantity; add-ons that take no quantity are
	// always priced as a single unit
	addOnLines := make([]LineItem, 0, len(req.AddOns))
	var addOnsTotal float64
	var addOnMinutes int
	for _, sel := range req.AddOns {
		def, ok := addOnDefs[sel.ID]
		if !ok {
			return nil, &InvalidInputError{Field: "add_ons", Reason: fmt.Sprintf("unknown add-on %q", sel.ID)}
		}
		qty := sel.Quantity
		if qty == 0 {
			qty = 1
		}
		if !def.NeedsQuantity {
			qty = 1
		}
		amount := def.Price * float64(qty)
		label := def.Name
		if qty > 1 {
			label = fmt.Sprintf("%s × %d", def.Name, qty)
		}
		addOnLines = append(addOnLines, LineItem{Label: label, Amount: amount})
		addOnsTotal += amount
		addOnMinutes += def.DurationMinutes * qty
	}

	subtotal := core + addOnsTotal

	// Recurrence and promotional discounts are independent subtrahends
	// from the pre-tax subtotal; they never touch the tax amount itself
	recurringDiscount := subtotal * e.config.FrequencyDiscounts[frequency]
	promoDiscount := req.PromoDiscount

	taxableBase := subtotal - recurringDiscount - promoDiscount
	if taxableBase < 0 {
		taxableBase = 0
	}
	taxAmount := taxableBase * req.TaxRate
	grandTotal := taxableBase + taxAmount

	duration, crew := e.estimateDispatch(req, entry, condition, addOnMinutes)

	breakdown := &QuoteBreakdown{
		ServiceName:         entry.Name,
		PropertyClass:       string(req.PropertyClass),
		BasePrice:           basePrice,
		RoomPrice:           roomPrice,
		AreaPrice:           areaPrice,
		AddOnLines:          addOnLines,
		AddOnsTotal:         addOnsTotal,
		Subtotal:            subtotal,
		RecurringDiscount:   recurringDiscount,
		PromoDiscount:       promoDiscount,
		TaxRate:             req.TaxRate,
		TaxAmount:           taxAmount,
		GrandTotal:          grandTotal,
		EstimatedDuration:   duration,
		RecommendedCrewSize: crew,
	}
	breakdown.LineItems = e.buildLineItems(breakdown, conditionMult, frequency)

	return breakdown, nil
}

// roomComponent sums the per-room prices and feature flat fees
func (e *Engine) roomComponent(req QuoteRequest) float64 {
	p := e.config.RoomPrices
	f := e.config.FeaturePrices

	total := float64(req.Rooms.Bedrooms)*p.Bedroom +
		float64(req.Rooms.Bathrooms)*p.Bathroom +
		float64(req.Rooms.Kitchens)*p.Kitchen +
		float64(req.Rooms.LivingRooms)*p.LivingRoom +
		float64(req.Rooms.DiningRooms)*p.DiningRoom

	if req.Features.Stairs {
		total += f.Stairs
	}
	if req.Features.Hallways {
		total += f.Hallways
	}
	if req.Features.LaundryRoom {
		total += f.LaundryRoom
	}
	if req.Features.Kitchenette && req.PropertyClass == ClassCommercial {
		total += f.Kitchenette
	}
	return total
}

// cleanUnits converts room counts and square footage into CleanUnits,
// the sizing currency behind duration and crew estimates
func (e *Engine) cleanUnits(req QuoteRequest) float64 {
	cu := e.config.RoomCU
	total := float64(req.Rooms.Bedrooms)*cu.Bedroom +
		float64(req.Rooms.Bathrooms)*cu.Bathroom +
		float64(req.Rooms.Kitchens)*cu.Kitchen +
		float64(req.Rooms.LivingRooms)*cu.LivingRoom +
		float64(req.Rooms.DiningRooms)*cu.DiningRoom

	if req.Features.Stairs {
		total += e.config.FeatureCU
	}
	if req.Features.Hallways {
		total += e.config.FeatureCU
	}
	if req.Features.LaundryRoom {
		total += e.config.FeatureCU
	}
	if req.Features.Kitchenette && req.PropertyClass == ClassCommercial {
		total += e.config.FeatureCU
	}

	if req.PropertyClass == ClassCommercial && req.SquareFeet > 0 {
		blocks := math.Ceil(float64(req.SquareFeet) / float64(e.config.SqFtPerBlock))
		total += blocks * e.config.BlockCU
	}
	return total
}

// estimateDispatch derives the duration estimate and crew size. Crew size
// is a step function of total labor hours, clamped to the configured range.
func (e *Engine) estimateDispatch(req QuoteRequest, entry *PricingEntry, condition Condition, addOnMinutes int) (int, int) {
	laborHours := (e.cleanUnits(req) / e.config.CUPerLaborHour) * e.config.ConditionMultipliers[condition]
	duration := entry.BaseDurationMinutes + int(math.Round(laborHours*60)) + addOnMinutes

	crew := int(math.Ceil((float64(duration) / 60) / e.config.MaxHoursPerWorker))
	if crew < e.config.MinCrewSize {
		crew = e.config.MinCrewSize
	}
	if crew > e.config.MaxCrewSize {
		crew = e.config.MaxCrewSize
	}
	return duration, crew
}

// buildLineItems renders the breakdown as labelled lines in display order
func (e *Engine) buildLineItems(b *QuoteBreakdown, conditionMult float64, frequency Frequency) []LineItem {
	items := []LineItem{
		{Label: "Base visit fee", Amount: b.BasePrice},
	}
	if b.RoomPrice > 0 {
		items = append(items, LineItem{Label: "Rooms", Amount: b.RoomPrice})
	}
	if b.AreaPrice > 0 {
		items = append(items, LineItem{Label: "Floor area", Amount: b.AreaPrice})
	}
	if conditionMult > 1.0 {
		items = append(items, LineItem{
			Label:  fmt.Sprintf("Condition adjustment (×%.2f)", conditionMult),
			Amount: (b.BasePrice + b.RoomPrice + b.AreaPrice) * (conditionMult - 1.0),
		})
	}
	items = append(items, b.AddOnLines...)
	if b.RecurringDiscount > 0 {
		items = append(items, LineItem{
			Label:  fmt.Sprintf("Frequency discount (%d%%)", int(e.config.FrequencyDiscounts[frequency]*100)),
			Amount: -b.RecurringDiscount,
		})
	}
	if b.PromoDiscount > 0 {
		items = append(items, LineItem{Label: "Promotional discount", Amount: -b.PromoDiscount})
	}
	items = append(items, LineItem{
		Label:  fmt.Sprintf("Tax (%d%%)", int(math.Round(b.TaxRate*100))),
		Amount: b.TaxAmount,
	})
	return items
}

// validate rejects malformed requests before any pricing math runs
func (e *Engine) validate(req QuoteRequest) error {
	switch req.PropertyClass {
	case ClassResidential, ClassCommercial:
	default:
		return &InvalidInputError{Field: "property_class", Reason: fmt.Sprintf("must be residential or commercial, got %q", req.PropertyClass)}
	}

	switch req.ServiceLevel {
	case LevelStandard, LevelDeep, LevelMoveInOut, LevelPostReno:
	default:
		return &InvalidInputError{Field: "service_level", Reason: fmt.Sprintf("unknown service level %q", req.ServiceLevel)}
	}

	if req.Condition != "" {
		if _, ok := e.config.ConditionMultipliers[req.Condition]; !ok {
			return &InvalidInputError{Field: "condition", Reason: fmt.Sprintf("unknown condition %q", req.Condition)}
		}
	}

	if req.Frequency != "" {
		if _, ok := e.config.FrequencyDiscounts[req.Frequency]; !ok {
			return &InvalidInputError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", req.Frequency)}
		}
	}

	counts := map[string]int{
		"rooms.bedrooms":     req.Rooms.Bedrooms,
		"rooms.bathrooms":    req.Rooms.Bathrooms,
		"rooms.kitchens":     req.Rooms.Kitchens,
		"rooms.living_rooms": req.Rooms.LivingRooms,
		"rooms.dining_rooms": req.Rooms.DiningRooms,
		"square_feet":        req.SquareFeet,
	}
	for field, count := range counts {
		if count < 0 {
			return &InvalidInputError{Field: field, Reason: "must not be negative"}
		}
	}

	for _, sel := range req.AddOns {
		if sel.Quantity < 0 {
			return &InvalidInputError{Field: "add_ons", Reason: fmt.Sprintf("quantity for %q must not be negative", sel.ID)}
		}
	}

	if req.TaxRate < 0 || req.TaxRate >= 1 {
		return &InvalidInputError{Field: "tax_rate", Reason: "must be a decimal rate in [0, 1)"}
	}
	if req.PromoDiscount < 0 {
		return &InvalidInputError{Field: "promo_discount", Reason: "must not be negative"}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
