package generator

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/ofx"
	"github.com/willfong/sample-data-generator/internal/tabular"
	"github.com/willfong/sample-data-generator/internal/utils"
)

// bankReferenceLength is the number of digits in a generated bank reference.
const bankReferenceLength = 10

// Orchestrator loads definitions, generates transactions, payees and budget
// lines from them, and saves or exports the results.
type Orchestrator struct {
	rng    *utils.Random
	config OrchestratorConfig
	log    zerolog.Logger
	runID  string

	onProgress func(done, total int)

	Definitions  []models.Definition
	Transactions []models.Transaction
	Payees       []models.Payee
	Budget       []models.BudgetTx
}

// OrchestratorConfig holds settings for the orchestrator
type OrchestratorConfig struct {
	Year    int   // Generation year (0 = current calendar year)
	Seed    int64 // Random seed (0 = random)
	Workers int   // Number of parallel workers (0 = auto-detect CPUs)

	// Give every transaction a random numeric bank reference
	BankReferences bool
}

// OrchestratorOptions holds optional settings for the orchestrator
type OrchestratorOptions struct {
	Logger zerolog.Logger

	// Called after each work unit completes
	OnProgress func(done, total int)
}

// GenerationResult holds statistics from the generation run
type GenerationResult struct {
	RunID             string
	Seed              uint64
	Year              int
	DefinitionCount   int
	SoloCount         int
	GroupCount        int
	TransactionCount  int
	SplitTransactions int
	SplitCount        int
	PayeeCount        int
	BudgetCount       int
	Duration          time.Duration
}

// NewOrchestrator creates a new orchestrator. The year is fixed here and does
// not change for the life of the orchestrator.
func NewOrchestrator(config OrchestratorConfig, opts OrchestratorOptions) *Orchestrator {
	if config.Year <= 0 {
		config.Year = time.Now().Year()
	}

	rng := utils.NewRandom(config.Seed)
	runID := uuid.NewString()

	return &Orchestrator{
		rng:        rng,
		config:     config,
		log:        opts.Logger.With().Str("run_id", runID).Logger(),
		runID:      runID,
		onProgress: opts.OnProgress,
	}
}

// RunID identifies this orchestrator in logs and summaries
func (o *Orchestrator) RunID() string {
	return o.runID
}

// Seed returns the seed in use, including one chosen at random
func (o *Orchestrator) Seed() uint64 {
	return o.rng.Seed()
}

// Year returns the generation year
func (o *Orchestrator) Year() int {
	return o.config.Year
}

// LoadDefinitions reads the Definitions sheet, replacing any loaded definitions.
func (o *Orchestrator) LoadDefinitions(ctx context.Context, r tabular.Reader) error {
	t, err := r.ReadTable(ctx, tabular.SheetDefinitions)
	if err != nil {
		return fmt.Errorf("failed to read definitions: %w", err)
	}
	defs, err := tabular.DefinitionsFromTable(t)
	if err != nil {
		return fmt.Errorf("failed to parse definitions: %w", err)
	}

	o.Definitions = defs
	o.log.Debug().Int("definitions", len(defs)).Msg("loaded definitions")
	return nil
}

// GenerateTransactions replaces the transaction list with a fresh run over
// the loaded definitions. Group transactions are numbered from 1 in
// processing order and their splits carry the same ID; solo transactions
// keep ID 0. The result is sorted by date, stable within a day.
func (o *Orchestrator) GenerateTransactions() error {
	p, err := Partition(o.Definitions)
	if err != nil {
		return err
	}

	units := BuildWorkUnits(p, o.rng)
	workers := GetWorkerCount(o.config.Workers)
	o.log.Debug().
		Int("solos", len(p.Solos)).
		Int("groups", len(p.Groups)).
		Int("workers", workers).
		Msg("generating transactions")

	results, err := RunWorkUnits(units, o.config.Year, workers, o.onProgress)
	if err != nil {
		return err
	}

	var txs []models.Transaction
	nextID := 1
	for i, r := range results {
		if units[i].IsGroup() {
			for j := range r.Transactions {
				r.Transactions[j].AssignID(nextID)
				nextID++
			}
		}
		txs = append(txs, r.Transactions...)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.Before(txs[j].Timestamp)
	})

	if o.config.BankReferences {
		refs := o.rng.Fork()
		for i := range txs {
			txs[i].BankReference = refs.NumericString(bankReferenceLength)
		}
	}

	o.Transactions = txs
	o.log.Info().Int("transactions", len(txs)).Msg("generated transactions")
	return nil
}

// GeneratePayees derives one payee per distinct name, in first-seen order,
// carrying the category of the first definition that names it.
func (o *Orchestrator) GeneratePayees() {
	seen := make(map[string]bool)
	payees := make([]models.Payee, 0)

	for _, def := range o.Definitions {
		for _, name := range def.Payees() {
			if seen[name] {
				continue
			}
			seen[name] = true
			payees = append(payees, models.Payee{Name: name, Category: def.Category})
		}
	}

	o.Payees = payees
	o.log.Debug().Int("payees", len(payees)).Msg("generated payees")
}

// GenerateBudget derives one budget line per category, in first-seen order,
// totalling the yearly amounts of every definition in that category.
func (o *Orchestrator) GenerateBudget() {
	jan1 := time.Date(o.config.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	index := make(map[string]int)
	budget := make([]models.BudgetTx, 0)

	for _, def := range o.Definitions {
		if def.Category == "" {
			continue
		}
		i, ok := index[def.Category]
		if !ok {
			i = len(budget)
			index[def.Category] = i
			budget = append(budget, models.BudgetTx{Category: def.Category, Amount: decimal.Zero, Timestamp: jan1})
		}
		budget[i].Amount = budget[i].Amount.Add(def.YearlyAmount)
	}

	o.Budget = budget
	o.log.Debug().Int("budget_lines", len(budget)).Msg("generated budget")
}

// Splits returns the splits of every multi-split transaction, in transaction order.
func (o *Orchestrator) Splits() []models.Split {
	var splits []models.Split
	for _, tx := range o.Transactions {
		splits = append(splits, tx.Splits...)
	}
	return splits
}

// GenerateAll generates transactions, payees and budget lines in that order.
func (o *Orchestrator) GenerateAll() (*GenerationResult, error) {
	startTime := time.Now()

	if err := o.GenerateTransactions(); err != nil {
		return nil, err
	}
	o.GeneratePayees()
	o.GenerateBudget()

	result := o.summarize()
	result.Duration = time.Since(startTime)
	return result, nil
}

func (o *Orchestrator) summarize() *GenerationResult {
	result := &GenerationResult{
		RunID:            o.runID,
		Seed:             o.rng.Seed(),
		Year:             o.config.Year,
		DefinitionCount:  len(o.Definitions),
		TransactionCount: len(o.Transactions),
		PayeeCount:       len(o.Payees),
		BudgetCount:      len(o.Budget),
	}
	for _, def := range o.Definitions {
		if def.IsSolo() {
			result.SoloCount++
		}
	}
	if p, err := Partition(o.Definitions); err == nil {
		result.GroupCount = len(p.Groups)
	}
	for _, tx := range o.Transactions {
		if tx.HasSplits() {
			result.SplitTransactions++
			result.SplitCount += len(tx.Splits)
		}
	}
	return result
}

// Tables renders the Transaction, Split, Payee and BudgetTx sheets.
func (o *Orchestrator) Tables() []*tabular.Table {
	return []*tabular.Table{
		tabular.TransactionsTable(o.Transactions),
		tabular.SplitsTable(o.Transactions),
		tabular.PayeesTable(o.Payees),
		tabular.BudgetTable(o.Budget),
	}
}

// Save writes every output sheet.
func (o *Orchestrator) Save(ctx context.Context, w tabular.Writer) error {
	for _, t := range o.Tables() {
		if err := w.WriteTable(ctx, t); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
		o.log.Debug().Str("sheet", t.Name).Int("rows", t.Len()).Msg("saved sheet")
	}
	return nil
}

// ExportOFX writes the generated transactions as an OFX statement.
func (o *Orchestrator) ExportOFX(w io.Writer) error {
	if err := ofx.Export(w, o.Transactions); err != nil {
		return fmt.Errorf("failed to export OFX: %w", err)
	}
	o.log.Debug().Int("transactions", len(o.Transactions)).Msg("exported OFX")
	return nil
}
