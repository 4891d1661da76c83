package backend

import (
	"context"
	"fmt"

	"pulse/internal/log"
	"pulse/internal/sheets"
	gsheet "pulse/internal/sheets/google"
	"pulse/internal/sheets/memory"
)

// Factory builds exporters. sheetsFn is swapped in tests.
type Factory struct {
	logger   *log.Logger
	sheetsFn func(ctx context.Context, cfg gsheet.Config) (sheets.TransactionExporter, error)
}

func NewFactory(logger *log.Logger) *Factory {
	if logger == nil {
		logger = log.Default()
	}
	return &Factory{
		logger: logger.WithComponent(log.ComponentSheets),
		sheetsFn: func(ctx context.Context, cfg gsheet.Config) (sheets.TransactionExporter, error) {
			return gsheet.NewFromConfig(ctx, cfg)
		},
	}
}

func (f *Factory) CreateExporter(ctx context.Context, config Config) (sheets.TransactionExporter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsExporter:
		exp, err := f.sheetsFn(ctx, gsheet.Config{
			SpreadsheetID:   config.GoogleSpreadsheetID,
			SheetName:       config.GoogleSheetName,
			CredentialsJSON: config.CredentialsJSON,
			CredentialsFile: config.CredentialsFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets exporter",
			"spreadsheet_id", config.GoogleSpreadsheetID,
			"sheet", config.GoogleSheetName)
		return exp, nil
	default:
		f.logger.Info("Google Sheets disabled - exporting to memory")
		return memory.New(), nil
	}
}
