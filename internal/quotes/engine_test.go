package quotes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardEntry() *PricingEntry {
	return &PricingEntry{
		ID:                   "11111111-1111-1111-1111-111111111111",
		Name:                 "Standard Clean",
		BasePriceResidential: 49,
		BasePriceCommercial:  85,
		PricePerSqFt:         0.08,
		BaseDurationMinutes:  30,
	}
}

func testAddOns() map[string]AddOnDef {
	return map[string]AddOnDef{
		"oven_interior": {
			ID:              "oven_interior",
			Name:            "Inside oven",
			Price:           40,
			NeedsQuantity:   false,
			DurationMinutes: 30,
		},
		"interior_windows": {
			ID:              "interior_windows",
			Name:            "Interior windows",
			Price:           6,
			NeedsQuantity:   true,
			DurationMinutes: 5,
		},
	}
}

func baseRequest() QuoteRequest {
	return QuoteRequest{
		PropertyClass: ClassResidential,
		ServiceLevel:  LevelStandard,
		Condition:     ConditionLight,
		Frequency:     FrequencyOneTime,
		Rooms: RoomCounts{
			Bedrooms:  2,
			Bathrooms: 1,
			Kitchens:  1,
		},
		AddOns:  []AddOnSelection{{ID: "oven_interior", Quantity: 1}},
		TaxRate: 0.13,
	}
}

func TestCompute_OneTimeBreakdown(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	breakdown, err := engine.Compute(baseRequest(), standardEntry(), testAddOns())
	require.NoError(t, err)

	rounded := breakdown.Rounded()
	assert.Equal(t, "Standard Clean", rounded.ServiceName)
	assert.Equal(t, 49.0, rounded.BasePrice)
	assert.Equal(t, 125.0, rounded.RoomPrice) // 2x$25 + $35 + $40
	assert.Equal(t, 40.0, rounded.AddOnsTotal)
	assert.Equal(t, 214.0, rounded.Subtotal)
	assert.Equal(t, 0.0, rounded.RecurringDiscount)
	assert.Equal(t, 27.82, rounded.TaxAmount)
	assert.Equal(t, 241.82, rounded.GrandTotal)
}

func TestCompute_WeeklyDiscount(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.Frequency = FrequencyWeekly

	breakdown, err := engine.Compute(req, standardEntry(), testAddOns())
	require.NoError(t, err)

	rounded := breakdown.Rounded()
	assert.Equal(t, 214.0, rounded.Subtotal)
	assert.Equal(t, 32.10, rounded.RecurringDiscount)
	assert.InDelta(t, 23.647, breakdown.TaxAmount, 1e-6)
	assert.Equal(t, 205.55, rounded.GrandTotal)
}

func TestCompute_GrandTotalIdentity(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	cases := []struct {
		name   string
		mutate func(*QuoteRequest)
	}{
		{"one_time", func(r *QuoteRequest) {}},
		{"weekly", func(r *QuoteRequest) { r.Frequency = FrequencyWeekly }},
		{"biweekly heavy", func(r *QuoteRequest) {
			r.Frequency = FrequencyBiweekly
			r.Condition = ConditionHeavy
		}},
		{"with promo", func(r *QuoteRequest) { r.PromoDiscount = 25 }},
		{"commercial with sqft", func(r *QuoteRequest) {
			r.PropertyClass = ClassCommercial
			r.SquareFeet = 2400
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)

			b, err := engine.Compute(req, standardEntry(), testAddOns())
			require.NoError(t, err)

			assert.GreaterOrEqual(t, b.GrandTotal, 0.0)
			assert.InDelta(t, b.Subtotal-b.RecurringDiscount-b.PromoDiscount+b.TaxAmount, b.GrandTotal, 1e-6)
		})
	}
}

func TestCompute_OneTimeNeverDiscounts(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.Frequency = FrequencyOneTime
	req.Rooms.Bedrooms = 5
	req.Condition = ConditionHeavy

	b, err := engine.Compute(req, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Zero(t, b.RecurringDiscount)
}

func TestCompute_PromoNeverDrivesTotalNegative(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.PromoDiscount = 10000

	b, err := engine.Compute(req, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.GrandTotal)
	assert.Equal(t, 0.0, b.TaxAmount)
}

func TestCompute_SubtotalMonotonicity(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	base, err := engine.Compute(baseRequest(), standardEntry(), testAddOns())
	require.NoError(t, err)

	moreRooms := baseRequest()
	moreRooms.Rooms.Bathrooms++
	b, err := engine.Compute(moreRooms, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Greater(t, b.Subtotal, base.Subtotal)

	moreAddOns := baseRequest()
	moreAddOns.AddOns = append(moreAddOns.AddOns, AddOnSelection{ID: "interior_windows", Quantity: 4})
	b, err = engine.Compute(moreAddOns, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Greater(t, b.Subtotal, base.Subtotal)
}

func TestCompute_QuantityHandling(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.AddOns = []AddOnSelection{
		{ID: "interior_windows", Quantity: 10}, // priced per unit
		{ID: "oven_interior", Quantity: 3},     // quantity ignored, flat price
	}

	b, err := engine.Compute(req, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Equal(t, 100.0, b.AddOnsTotal) // 10x$6 + $40
}

func TestCompute_ConditionMultiplierScalesCoreOnly(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.Condition = ConditionHeavy

	b, err := engine.Compute(req, standardEntry(), testAddOns())
	require.NoError(t, err)

	// (49 + 125) * 1.35 + 40, add-ons unaffected by condition
	assert.InDelta(t, 174*1.35+40, b.Subtotal, 1e-6)
	assert.Equal(t, 40.0, b.AddOnsTotal)
}

func TestCompute_DefaultsToNormalCondition(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.Condition = ""

	b, err := engine.Compute(req, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.InDelta(t, 174*1.15+40, b.Subtotal, 1e-6)
}

func TestCompute_InvalidInputs(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	cases := []struct {
		name   string
		mutate func(*QuoteRequest)
		field  string
	}{
		{"unknown property class", func(r *QuoteRequest) { r.PropertyClass = "industrial" }, "property_class"},
		{"unknown service level", func(r *QuoteRequest) { r.ServiceLevel = "sparkling" }, "service_level"},
		{"unknown condition", func(r *QuoteRequest) { r.Condition = "filthy" }, "condition"},
		{"unknown frequency", func(r *QuoteRequest) { r.Frequency = "daily" }, "frequency"},
		{"negative bedrooms", func(r *QuoteRequest) { r.Rooms.Bedrooms = -1 }, "rooms.bedrooms"},
		{"negative square feet", func(r *QuoteRequest) { r.SquareFeet = -10 }, "square_feet"},
		{"negative add-on quantity", func(r *QuoteRequest) { r.AddOns[0].Quantity = -2 }, "add_ons"},
		{"tax rate over 100%", func(r *QuoteRequest) { r.TaxRate = 1.3 }, "tax_rate"},
		{"negative promo", func(r *QuoteRequest) { r.PromoDiscount = -5 }, "promo_discount"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := baseRequest()
			tc.mutate(&req)

			_, err := engine.Compute(req, standardEntry(), testAddOns())
			require.Error(t, err)

			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}

func TestCompute_UnknownAddOn(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	req := baseRequest()
	req.AddOns = []AddOnSelection{{ID: "chimney_sweep", Quantity: 1}}

	_, err := engine.Compute(req, standardEntry(), testAddOns())
	require.Error(t, err)
	assert.True(t, IsInvalidInput(err))
}

func TestCompute_NilEntry(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	_, err := engine.Compute(baseRequest(), nil, testAddOns())
	assert.ErrorIs(t, err, ErrNoMatchingCatalogEntry)
}

func TestCompute_CrewSizeBounds(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	small := baseRequest()
	small.Rooms = RoomCounts{Bedrooms: 1}
	small.AddOns = nil
	b, err := engine.Compute(small, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Equal(t, 1, b.RecommendedCrewSize)

	huge := baseRequest()
	huge.PropertyClass = ClassCommercial
	huge.SquareFeet = 50000
	huge.Condition = ConditionHeavy
	b, err = engine.Compute(huge, standardEntry(), testAddOns())
	require.NoError(t, err)
	assert.Equal(t, 6, b.RecommendedCrewSize)
}

func TestCompute_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultPricingConfig())

	first, err := engine.Compute(baseRequest(), standardEntry(), testAddOns())
	require.NoError(t, err)
	second, err := engine.Compute(baseRequest(), standardEntry(), testAddOns())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
