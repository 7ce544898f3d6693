package scenario

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kudiwise/kudicore/tax"
)

func naira(v float64) string {
	return tax.FormatNaira(v)
}

// rate renders a percentage the shortest way that round-trips, keeping one
// decimal for whole numbers (11 → "11.0").
func rate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return s
}

func oneDecimal(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func abs(v float64) float64 {
	return math.Abs(v)
}
