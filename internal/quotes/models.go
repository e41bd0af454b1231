package quotes

// PropertyClass selects which base price of a catalog entry applies
type PropertyClass string

const (
	ClassResidential PropertyClass = "residential"
	ClassCommercial  PropertyClass = "commercial"
)

// ServiceLevel is the depth of cleaning requested
type ServiceLevel string

const (
	LevelStandard  ServiceLevel = "standard"
	LevelDeep      ServiceLevel = "deep"
	LevelMoveInOut ServiceLevel = "move_in_out"
	LevelPostReno  ServiceLevel = "post_reno"
)

// Condition is the state of the property at service time
type Condition string

const (
	ConditionLight  Condition = "light"
	ConditionNormal Condition = "normal"
	ConditionHeavy  Condition = "heavy"
)

// Frequency is the recurrence of the booking
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// RoomCounts holds the per-room-type counts for a residential property
type RoomCounts struct {
	Bedrooms    int `json:"bedrooms" binding:"min=0"`
	Bathrooms   int `json:"bathrooms" binding:"min=0"`
	Kitchens    int `json:"kitchens" binding:"min=0"`
	LivingRooms int `json:"living_rooms" binding:"min=0"`
	DiningRooms int `json:"dining_rooms" binding:"min=0"`
}

// FeatureFlags holds the boolean property features that carry a flat price
type FeatureFlags struct {
	Stairs      bool `json:"stairs"`
	Hallways    bool `json:"hallways"`
	LaundryRoom bool `json:"laundry_room"`
	Kitchenette bool `json:"kitchenette"` // commercial only
}

// AddOnSelection references a catalog add-on with a requested quantity
type AddOnSelection struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity"`
}

// QuoteRequest is the input to the quote engine. It mirrors the
// POST /quotes/enhanced body the clients send.
type QuoteRequest struct {
	PropertyClass PropertyClass    `json:"property_class" binding:"required"`
	ServiceLevel  ServiceLevel     `json:"service_level" binding:"required"`
	Condition     Condition        `json:"condition"`
	Frequency     Frequency        `json:"frequency"`
	Rooms         RoomCounts       `json:"rooms"`
	Features      FeatureFlags     `json:"features"`
	SquareFeet    int              `json:"square_feet" binding:"min=0"`
	AddOns        []AddOnSelection `json:"add_ons"`
	TaxRate       float64          `json:"tax_rate"`
	PromoDiscount float64          `json:"promo_discount"`
}

// PricingEntry is the engine's view of one catalog entry: the price and
// duration configuration for a propertyClass/serviceLevel combination.
type PricingEntry struct {
	ID                   string
	Name                 string
	BasePriceResidential float64
	BasePriceCommercial  float64
	PricePerSqFt         float64
	BaseDurationMinutes  int
}

// AddOnDef is the engine's view of one catalog add-on
type AddOnDef struct {
	ID              string
	Name            string
	Price           float64
	NeedsQuantity   bool
	DurationMinutes int
}

// LineItem is one labelled amount in a quote breakdown
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// QuoteBreakdown is the quote engine's output. Monetary fields keep full
// precision internally; Rounded() produces the presentation copy.
type QuoteBreakdown struct {
	ServiceName         string     `json:"service_name"`
	PropertyClass       string     `json:"property_class"`
	BasePrice           float64    `json:"base_price"`
	RoomPrice           float64    `json:"room_price"`
	AreaPrice           float64    `json:"area_price"`
	AddOnLines          []LineItem `json:"add_on_lines"`
	AddOnsTotal         float64    `json:"add_ons_total"`
	Subtotal            float64    `json:"subtotal"`
	RecurringDiscount   float64    `json:"recurring_discount"`
	PromoDiscount       float64    `json:"promo_discount"`
	TaxRate             float64    `json:"tax_rate"`
	TaxAmount           float64    `json:"tax_amount"`
	GrandTotal          float64    `json:"grand_total"`
	EstimatedDuration   int        `json:"estimated_duration_minutes"`
	RecommendedCrewSize int        `json:"recommended_crew_size"`
	LineItems           []LineItem `json:"line_items"`
}

// Rounded returns a copy with every monetary amount rounded to 2 decimal
// places. Rounding happens here only, at the presentation boundary, so
// intermediate math never compounds rounding error.
func (b QuoteBreakdown) Rounded() QuoteBreakdown {
	out := b
	out.BasePrice = round2(b.BasePrice)
	out.RoomPrice = round2(b.RoomPrice)
	out.AreaPrice = round2(b.AreaPrice)
	out.AddOnsTotal = round2(b.AddOnsTotal)
	out.Subtotal = round2(b.Subtotal)
	out.RecurringDiscount = round2(b.RecurringDiscount)
	out.PromoDiscount = round2(b.PromoDiscount)
	out.TaxAmount = round2(b.TaxAmount)
	out.GrandTotal = round2(b.GrandTotal)

	out.AddOnLines = make([]LineItem, len(b.AddOnLines))
	for i, li := range b.AddOnLines {
		out.AddOnLines[i] = LineItem{Label: li.Label, Amount: round2(li.Amount)}
	}
	out.LineItems = make([]LineItem, len(b.LineItems))
	for i, li := range b.LineItems {
		out.LineItems[i] = LineItem{Label: li.Label, Amount: round2(li.Amount)}
	}
	return out
}

// SimpleQuoteRequest mirrors the legacy POST /quotes body: a direct
// catalog-entry quote with square footage and recurrence only.
type SimpleQuoteRequest struct {
	ServiceID   string `json:"service_id" binding:"required,uuid"`
	ServiceType string `json:"service_type" binding:"required,oneof=residential commercial"`
	SquareFeet  int    `json:"square_feet" binding:"min=0"`
	IsRecurring bool   `json:"is_recurring"`
	Frequency   string `json:"frequency"`
}

// SimpleQuoteResponse is the legacy quote response shape
type SimpleQuoteResponse struct {
	ServiceID   string  `json:"service_id"`
	ServiceName string  `json:"service_name"`
	BasePrice   float64 `json:"base_price"`
	SqFtPrice   float64 `json:"sqft_price"`
	TotalPrice  float64 `json:"total_price"`
	Discount    float64 `json:"discount"`
	FinalPrice  float64 `json:"final_price"`
	IsRecurring bool    `json:"is_recurring"`
	Frequency   string  `json:"frequency"`
}
