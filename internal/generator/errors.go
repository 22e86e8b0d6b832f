package generator

import (
	"errors"
	"fmt"

	"github.com/willfong/sample-data-generator/internal/models"
)

// Error types for generation
var (
	ErrInvalidScheme            = errors.New("definition has no scheme")
	ErrUnimplementedCombination = errors.New("unimplemented combination: semimonthly schedules take no date jitter")
	ErrGroupNoPayee             = errors.New("group has no definition with a payee")
	ErrGroupMultiplePayees      = errors.New("group has multiple definitions with a payee; expecting only one")
)

// ConfigurationError reports a definition whose settings cannot be generated.
type ConfigurationError struct {
	Payee      string
	Category   string
	Scheme     models.Scheme
	DateJitter models.Jitter
	Err        error
}

func newConfigurationError(def models.Definition, err error) *ConfigurationError {
	return &ConfigurationError{
		Payee:      def.Payee,
		Category:   def.Category,
		Scheme:     def.Scheme,
		DateJitter: def.DateJitter,
		Err:        err,
	}
}

func (e *ConfigurationError) Error() string {
	name := e.Payee
	if name == "" {
		name = e.Category
	}
	return fmt.Sprintf("definition %q (scheme %s, date jitter %s): %v", name, e.Scheme, e.DateJitter, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// GroupIntegrityError reports a group without exactly one payee-bearing member.
type GroupIntegrityError struct {
	Group      string
	PayeeCount int
	Err        error
}

func (e *GroupIntegrityError) Error() string {
	return fmt.Sprintf("group %q: %v (found %d)", e.Group, e.Err, e.PayeeCount)
}

func (e *GroupIntegrityError) Unwrap() error {
	return e.Err
}
