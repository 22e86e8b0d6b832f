package patterns

import (
	"fmt"
	"time"

	"github.com/willfong/sample-data-generator/internal/models"
)

// weeksPerYear is the number of weekly anchors generated for a year.
const weeksPerYear = 52

// Anchors returns the nominal occurrence dates of a scheme for the given year,
// before any date jitter is applied. All dates are UTC midnight.
//
// ManyPerWeek returns models.ManyPerWeekCount passes over the weekly anchors,
// pass after pass. Callers sort the jittered result by date.
func Anchors(scheme models.Scheme, year int) ([]time.Time, error) {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch scheme {
	case models.SchemeYearly:
		return []time.Time{jan1}, nil

	case models.SchemeQuarterly:
		anchors := make([]time.Time, 0, 4)
		for q := 1; q <= 4; q++ {
			anchors = append(anchors, firstOfMonth(year, time.Month(3*q-2)))
		}
		return anchors, nil

	case models.SchemeMonthly:
		anchors := make([]time.Time, 0, 12)
		for m := time.January; m <= time.December; m++ {
			anchors = append(anchors, firstOfMonth(year, m))
		}
		return anchors, nil

	case models.SchemeSemiMonthly:
		anchors := make([]time.Time, 0, 24)
		for m := time.January; m <= time.December; m++ {
			anchors = append(anchors,
				firstOfMonth(year, m),
				time.Date(year, m, 15, 0, 0, 0, 0, time.UTC),
			)
		}
		return anchors, nil

	case models.SchemeWeekly:
		return weekly(jan1), nil

	case models.SchemeManyPerWeek:
		anchors := make([]time.Time, 0, weeksPerYear*models.ManyPerWeekCount)
		for pass := 0; pass < models.ManyPerWeekCount; pass++ {
			anchors = append(anchors, weekly(jan1)...)
		}
		return anchors, nil

	case models.SchemeInvalid:
		return nil, fmt.Errorf("%w: %s", models.ErrSchemeNotImplemented, scheme)
	}

	return nil, fmt.Errorf("%w: %s", models.ErrSchemeNotImplemented, scheme)
}

func weekly(jan1 time.Time) []time.Time {
	anchors := make([]time.Time, weeksPerYear)
	for w := range anchors {
		anchors[w] = jan1.AddDate(0, 0, 7*w)
	}
	return anchors
}

func firstOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}
