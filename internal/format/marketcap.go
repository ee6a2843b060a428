package format

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"StockDesk/internal/coerce"
)

// ErrUnformattable is returned when the input is neither a non-blank string
// nor coercible to a finite number.
var ErrUnformattable = errors.New("market cap is not a number or pre-formatted string")

// Scale thresholds, checked largest-first. A value exactly at a threshold
// uses that threshold's unit.
var capScales = []struct {
	threshold float64
	suffix    string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// MarketCap renders a market-cap magnitude as a human-scaled string, e.g.
// 2_750_000_000_000 -> "2.75T". Already-formatted strings pass through
// unchanged; values below the smallest scale are plain two-decimal numbers.
func MarketCap(v any) (string, error) {
	if s, ok := v.(string); ok {
		// Some provider documents carry the cap already formatted; those
		// pass through untouched.
		if t := strings.TrimSpace(s); t != "" {
			return t, nil
		}
		return "", ErrUnformattable
	}
	n, err := coerce.ToFinite(v)
	if err != nil {
		return "", ErrUnformattable
	}
	for _, sc := range capScales {
		if math.Abs(n) >= sc.threshold {
			return fmt.Sprintf("%.2f%s", n/sc.threshold, sc.suffix), nil
		}
	}
	return fmt.Sprintf("%.2f", n), nil
}
