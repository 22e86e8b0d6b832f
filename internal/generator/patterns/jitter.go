package patterns

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

// ErrNoDateWindow is returned for schemes whose dates are never jittered.
var ErrNoDateWindow = errors.New("scheme has no date window")

// DateWindow is a sub-interval of a scheme's natural timespan within which
// every jittered occurrence of one definition falls.
type DateWindow struct {
	Start    int  // days after the anchor
	Length   int  // days
	Jittered bool // false pins every occurrence to Start
}

// NewDateWindow sizes the window in proportion to the date jitter and places it
// at a random offset inside the scheme's timespan. It is chosen once and
// reused for every occurrence of a definition.
func NewDateWindow(rng *utils.Random, scheme models.Scheme, jitter models.Jitter) (DateWindow, error) {
	span, ok := scheme.Timespan()
	if !ok {
		return DateWindow{}, fmt.Errorf("%w: %s", ErrNoDateWindow, scheme)
	}
	spanDays := days(span)

	w := DateWindow{Length: 1}
	if !jitter.IsNone() {
		w.Jittered = true
		w.Length = int(math.Floor(float64(spanDays) * jitter.DateFactor()))
	}
	w.Start = rng.IntN(spanDays - w.Length)

	return w, nil
}

// Apply moves an anchor into the window, drawing a fresh offset when jittered.
func (w DateWindow) Apply(rng *utils.Random, anchor time.Time) time.Time {
	offset := w.Start
	if w.Jittered {
		offset += rng.IntN(w.Length)
	}
	return anchor.AddDate(0, 0, offset)
}

// JitterAmount spreads one period's share of a yearly amount symmetrically around
// its nominal value. The result is rounded to cents. No random draw is taken
// when the jitter level has no spread.
func JitterAmount(rng *utils.Random, yearly decimal.Decimal, periods int, jitter models.Jitter) decimal.Decimal {
	if periods <= 0 {
		return decimal.Zero
	}
	nominal := yearly.Div(decimal.NewFromInt(int64(periods)))

	factor := jitter.AmountFactor()
	if factor == 0 {
		return utils.RoundCents(nominal)
	}

	multiplier := 1 + 2*(rng.Float64()-0.5)*factor
	return utils.RoundCents(nominal.Mul(decimal.NewFromFloat(multiplier)))
}

func days(d time.Duration) int {
	return int(d / (24 * time.Hour))
}
