package quotes

// PricingConfig holds the catalog-configured tables the engine prices
// with. Values here are configuration, not engine logic: seeds and admin
// tooling own them, the engine only applies them.
type PricingConfig struct {
	// Per-room flat prices, summed into the room component
	RoomPrices RoomPrices

	// Flat prices for boolean property features
	FeaturePrices FeaturePrices

	// Condition multipliers applied to the base + room + area component.
	// Monotonically increasing: light <= normal <= heavy.
	ConditionMultipliers map[Condition]float64

	// Frequency discount rates applied to the pre-tax subtotal
	FrequencyDiscounts map[Frequency]float64

	// CleanUnit weights used for duration estimation
	RoomCU    RoomCU
	FeatureCU float64
	// Commercial sqft blocks: ceil(sqft/block) each worth BlockCU units
	SqFtPerBlock int
	BlockCU      float64

	// Dispatch heuristics
	CUPerLaborHour    float64
	MaxHoursPerWorker float64
	MinCrewSize       int
	MaxCrewSize       int
}

// RoomPrices holds the per-unit price of each room type
type RoomPrices struct {
	Bedroom    float64
	Bathroom   float64
	Kitchen    float64
	LivingRoom float64
	DiningRoom float64
}

// FeaturePrices holds the flat prices for feature flags
type FeaturePrices struct {
	Stairs      float64
	Hallways    float64
	LaundryRoom float64
	Kitchenette float64
}

// RoomCU holds the CleanUnit weight of each room type
type RoomCU struct {
	Bedroom    float64
	Bathroom   float64
	Kitchen    float64
	LivingRoom float64
	DiningRoom float64
}

// DefaultPricingConfig returns the stock pricing tables
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		RoomPrices: RoomPrices{
			Bedroom:    25.0,
			Bathroom:   35.0,
			Kitchen:    40.0,
			LivingRoom: 30.0,
			DiningRoom: 20.0,
		},
		FeaturePrices: FeaturePrices{
			Stairs:      15.0,
			Hallways:    10.0,
			LaundryRoom: 20.0,
			Kitchenette: 25.0,
		},
		ConditionMultipliers: map[Condition]float64{
			ConditionLight:  1.0,
			ConditionNormal: 1.15,
			ConditionHeavy:  1.35,
		},
		FrequencyDiscounts: map[Frequency]float64{
			FrequencyOneTime:  0.0,
			FrequencyWeekly:   0.15,
			FrequencyBiweekly: 0.10,
			FrequencyMonthly:  0.05,
		},
		RoomCU: RoomCU{
			Bedroom:    3,
			Bathroom:   5,
			Kitchen:    6,
			LivingRoom: 4,
			DiningRoom: 2,
		},
		FeatureCU:    2,
		SqFtPerBlock: 500,
		BlockCU:      4,

		CUPerLaborHour:    6.0,
		MaxHoursPerWorker: 4.0,
		MinCrewSize:       1,
		MaxCrewSize:       6,
	}
}
