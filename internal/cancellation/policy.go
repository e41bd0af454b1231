package cancellation

import (
	"math"
	"time"

	"cleangrid/internal/shared/config"
)

// RefundBand names which threshold a cancellation fell into
type RefundBand string

const (
	BandFullRefund    RefundBand = "full_refund"
	BandPartialRefund RefundBand = "partial_refund"
	BandNoRefund      RefundBand = "no_refund"
)

// Outcome is the money split a cancellation produces. Preview and the
// actual cancellation both call Calculate, so the numbers a customer
// sees are exactly the numbers applied.
type Outcome struct {
	Band            RefundBand `json:"band"`
	HoursBefore     float64    `json:"hours_before"`
	RefundAmount    float64    `json:"refund_amount"`
	CancellationFee float64    `json:"cancellation_fee"`
}

// Calculate applies the refund bands to a booking total. Thresholds are
// inclusive: exactly at the full-refund cutoff still refunds in full.
func Calculate(totalPrice float64, scheduledAt, now time.Time, cfg config.CancellationConfig) Outcome {
	hoursBefore := scheduledAt.Sub(now).Hours()

	var refund float64
	var band RefundBand
	switch {
	case hoursBefore >= float64(cfg.FullRefundHours):
		band = BandFullRefund
		refund = totalPrice
	case hoursBefore >= float64(cfg.PartialRefundHours):
		band = BandPartialRefund
		refund = totalPrice * cfg.PartialRefundPct / 100
	default:
		band = BandNoRefund
		refund = 0
	}

	refund = math.Round(refund*100) / 100
	fee := math.Round((totalPrice-refund)*100) / 100

	return Outcome{
		Band:            band,
		HoursBefore:     hoursBefore,
		RefundAmount:    refund,
		CancellationFee: fee,
	}
}
