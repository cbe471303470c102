// internal/mandi/render.go
package mandi

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// RenderReason renders r as the English sentence shown to buyers.
func RenderReason(r Reason) string {
	v := formatNumber(r.Value)
	switch r.Kind {
	case NearestDistance:
		return fmt.Sprintf("Nearest mandi (%s km)", v)
	case CloseDistance:
		return fmt.Sprintf("Close proximity (%s km)", v)
	case FarDistance:
		return fmt.Sprintf("%s km away", v)
	case LowestPrice:
		return fmt.Sprintf("Lowest price (₹%s/kg)", v)
	case BelowAveragePrice:
		return fmt.Sprintf("Below average price (₹%s/kg)", v)
	case PremiumPrice:
		return fmt.Sprintf("₹%s/kg (premium pricing)", v)
	case ExcellentFreshness:
		return fmt.Sprintf("Excellent freshness (%s days)", v)
	case GoodShelfLife:
		return fmt.Sprintf("Good shelf life (%s days)", v)
	case ShortShelfLife:
		return fmt.Sprintf("⚠️ Short shelf life (%s days)", v)
	case HighProfit:
		return fmt.Sprintf("High profit potential (₹%s)", v)
	case GoodProfit:
		return fmt.Sprintf("Good profit margin (₹%s)", v)
	case ModerateProfit:
		return fmt.Sprintf("Moderate profit (₹%s)", v)
	default:
		return fmt.Sprintf("%s (%s)", r.Kind, v)
	}
}

// RenderReasons renders each reason in order.
func RenderReasons(reasons []Reason) []string {
	out := make([]string, len(reasons))
	for i, r := range reasons {
		out[i] = RenderReason(r)
	}
	return out
}

// formatNumber prints the shortest decimal form: 12 not 12.0, 3.5 not 3.50.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatINR formats amount as whole rupees with Indian digit grouping,
// e.g. ₹1,23,456. Halves round away from zero.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	whole := int64(math.Round(math.Abs(amount)))
	if whole == 0 {
		sign = ""
	}
	return sign + "₹" + inrPrinter.Sprint(number.Decimal(whole))
}

// FormatOrderDate formats t the way order history shows it, e.g.
// "18 Oct 2026, 04:05 pm".
func FormatOrderDate(t time.Time) string {
	return t.Format("2 Jan 2006, 03:04 pm")
}
