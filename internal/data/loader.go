package data

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/willfong/sample-data-generator/internal/models"
	"github.com/willfong/sample-data-generator/internal/tabular"
)

//go:embed definitions/*.csv
var definitionFiles embed.FS

var (
	sample    []models.Definition
	sampleErr error
	once      sync.Once
)

// Reader returns a read-only workbook holding the built-in Definitions sheet.
func Reader() tabular.Reader {
	return tabular.FSReader{FS: definitionFiles, Dir: "definitions"}
}

// Load returns the built-in sample definitions.
// This is thread-safe and will only parse the workbook once
func Load() ([]models.Definition, error) {
	once.Do(func() {
		t, err := Reader().ReadTable(context.Background(), tabular.SheetDefinitions)
		if err != nil {
			sampleErr = fmt.Errorf("failed to load sample definitions: %w", err)
			return
		}
		sample, sampleErr = tabular.DefinitionsFromTable(t)
	})
	if sampleErr != nil {
		return nil, sampleErr
	}

	// Callers get their own copy
	defs := make([]models.Definition, len(sample))
	copy(defs, sample)
	return defs, nil
}
