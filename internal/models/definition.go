package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSchemeNotImplemented is returned when a scheme has no schedule.
var ErrSchemeNotImplemented = errors.New("scheme not implemented")

// Scheme is the recurrence cadence of a definition.
type Scheme int

const (
	SchemeInvalid Scheme = iota
	SchemeManyPerWeek
	SchemeWeekly
	SchemeSemiMonthly
	SchemeMonthly
	SchemeQuarterly
	SchemeYearly
)

// ManyPerWeekCount is how many occurrences a ManyPerWeek definition produces each week.
const ManyPerWeekCount = 3

var schemeNames = [...]string{
	SchemeInvalid:     "Invalid",
	SchemeManyPerWeek: "ManyPerWeek",
	SchemeWeekly:      "Weekly",
	SchemeSemiMonthly: "SemiMonthly",
	SchemeMonthly:     "Monthly",
	SchemeQuarterly:   "Quarterly",
	SchemeYearly:      "Yearly",
}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// ParseScheme parses a scheme by name, ignoring case.
// Empty text parses to SchemeInvalid.
func ParseScheme(text string) (Scheme, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SchemeInvalid, nil
	}
	for i, name := range schemeNames {
		if strings.EqualFold(name, text) {
			return Scheme(i), nil
		}
	}
	return SchemeInvalid, fmt.Errorf("unknown scheme %q", text)
}

// Periods returns how many occurrences the scheme produces in one year.
func (s Scheme) Periods() (int, bool) {
	switch s {
	case SchemeManyPerWeek:
		return 52 * ManyPerWeekCount, true
	case SchemeWeekly:
		return 52, true
	case SchemeSemiMonthly:
		return 24, true
	case SchemeMonthly:
		return 12, true
	case SchemeQuarterly:
		return 4, true
	case SchemeYearly:
		return 1, true
	case SchemeInvalid:
		return 0, false
	}
	return 0, false
}

// Timespan returns the natural period of the scheme, which bounds its date window.
// SemiMonthly has no window.
func (s Scheme) Timespan() (time.Duration, bool) {
	const day = 24 * time.Hour
	switch s {
	case SchemeManyPerWeek, SchemeWeekly:
		return 7 * day, true
	case SchemeMonthly:
		return 28 * day, true
	case SchemeQuarterly:
		return 90 * day, true
	case SchemeYearly:
		return 365 * day, true
	case SchemeSemiMonthly, SchemeInvalid:
		return 0, false
	}
	return 0, false
}

// Jitter is the amount of randomization applied to a date or an amount.
type Jitter int

const (
	JitterInvalid Jitter = iota
	JitterNone
	JitterLow
	JitterModerate
	JitterHigh
)

var jitterNames = [...]string{
	JitterInvalid:  "Invalid",
	JitterNone:     "None",
	JitterLow:      "Low",
	JitterModerate: "Moderate",
	JitterHigh:     "High",
}

func (j Jitter) String() string {
	if j < 0 || int(j) >= len(jitterNames) {
		return fmt.Sprintf("Jitter(%d)", int(j))
	}
	return jitterNames[j]
}

// ParseJitter parses a jitter level by name, ignoring case.
// Empty text parses to JitterInvalid, which behaves as None.
func ParseJitter(text string) (Jitter, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return JitterInvalid, nil
	}
	for i, name := range jitterNames {
		if strings.EqualFold(name, text) {
			return Jitter(i), nil
		}
	}
	return JitterInvalid, fmt.Errorf("unknown jitter %q", text)
}

// IsNone reports whether the level applies no randomization. Unset counts as none.
func (j Jitter) IsNone() bool {
	return j == JitterNone || j == JitterInvalid
}

// AmountFactor is the proportional spread applied to amounts.
func (j Jitter) AmountFactor() float64 {
	switch j {
	case JitterLow:
		return 0.1
	case JitterModerate:
		return 0.4
	case JitterHigh:
		return 0.9
	case JitterNone, JitterInvalid:
		return 0
	}
	return 0
}

// DateFactor is the fraction of a scheme's timespan used as the date window.
func (j Jitter) DateFactor() float64 {
	switch j {
	case JitterLow:
		return 0.25
	case JitterModerate:
		return 0.5
	case JitterHigh:
		return 1.0
	case JitterNone, JitterInvalid:
		return 0
	}
	return 0
}

// Definition is one declarative rule describing a recurring transaction.
type Definition struct {
	// Comma-separated candidate payees; empty for non-main group members
	Payee string

	Scheme       Scheme
	DateJitter   Jitter
	AmountJitter Jitter

	Category string

	// Nominal annualized total this rule contributes
	YearlyAmount decimal.Decimal

	// Key linking sibling definitions; empty for solos
	Group string
}

// Payees returns the candidate payee names, trimmed, without empty entries.
func (d *Definition) Payees() []string {
	var result []string
	for _, p := range strings.Split(d.Payee, ",") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// HasPayee reports whether the definition names at least one payee.
func (d *Definition) HasPayee() bool {
	return len(d.Payees()) > 0
}

// IsSolo reports whether the definition belongs to no group.
func (d *Definition) IsSolo() bool {
	return strings.TrimSpace(d.Group) == ""
}
