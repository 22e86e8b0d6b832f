package generator

import (
	"fmt"
	"sort"

	"github.com/willfong/sample-data-generator/internal/generator/patterns"
	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/utils"
)

// DefinitionGenerator turns one definition, optionally with its group siblings,
// into dated transactions for a single year.
type DefinitionGenerator struct {
	rng  *utils.Random
	year int
}

// NewDefinitionGenerator creates a new definition generator
func NewDefinitionGenerator(rng *utils.Random, year int) *DefinitionGenerator {
	return &DefinitionGenerator{
		rng:  rng,
		year: year,
	}
}

// Generate emits one transaction per scheme occurrence of main.
//
// With no siblings each transaction carries main's own category and amount.
// Otherwise siblings lists every contributing definition, main included, and
// each occurrence gets one split per contributor, in order. Every contributor
// is spread over main's period count with its own yearly amount and jitter.
func (g *DefinitionGenerator) Generate(main models.Definition, siblings []models.Definition) ([]models.Transaction, error) {
	if main.Scheme == models.SchemeInvalid {
		return nil, newConfigurationError(main, ErrInvalidScheme)
	}

	dateJitter := main.DateJitter
	if main.Scheme == models.SchemeManyPerWeek {
		dateJitter = models.JitterHigh
	}
	if main.Scheme == models.SchemeSemiMonthly && !dateJitter.IsNone() {
		return nil, newConfigurationError(main, ErrUnimplementedCombination)
	}

	periods, ok := main.Scheme.Periods()
	if !ok {
		return nil, newConfigurationError(main, fmt.Errorf("%w: %s", models.ErrSchemeNotImplemented, main.Scheme))
	}
	anchors, err := patterns.Anchors(main.Scheme, g.year)
	if err != nil {
		return nil, newConfigurationError(main, err)
	}

	var window *patterns.DateWindow
	if main.Scheme != models.SchemeSemiMonthly {
		w, err := patterns.NewDateWindow(g.rng, main.Scheme, dateJitter)
		if err != nil {
			return nil, newConfigurationError(main, err)
		}
		window = &w
	}

	contributors := siblings
	if len(contributors) == 0 {
		contributors = []models.Definition{main}
	}
	payees := main.Payees()

	txs := make([]models.Transaction, 0, len(anchors))
	for _, anchor := range anchors {
		date := anchor
		if window != nil {
			date = window.Apply(g.rng, anchor)
		}
		payee := g.rng.PickString(payees)

		splits := make([]models.Split, len(contributors))
		for i, c := range contributors {
			splits[i] = models.Split{
				Category: c.Category,
				Amount:   patterns.JitterAmount(g.rng, c.YearlyAmount, periods, c.AmountJitter),
			}
		}

		txs = append(txs, models.NewTransaction(payee, date, splits))
	}

	if main.Scheme == models.SchemeManyPerWeek {
		sort.SliceStable(txs, func(i, j int) bool {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		})
	}

	return txs, nil
}
