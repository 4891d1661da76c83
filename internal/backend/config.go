// Package backend selects the spreadsheet exporter the worker writes to.
package backend

import (
	"fmt"

	"pulse/internal/config"
)

type ExporterType string

const (
	SheetsExporter ExporterType = "sheets"
	MemoryExporter ExporterType = "memory"
)

func (t ExporterType) IsValid() bool {
	return t == SheetsExporter || t == MemoryExporter
}

func (t ExporterType) String() string { return string(t) }

// Config holds what the factory needs to build an exporter.
type Config struct {
	Type ExporterType

	GoogleSpreadsheetID string
	GoogleSheetName     string
	CredentialsJSON     string
	CredentialsFile     string
}

// FromAppConfig picks the Sheets exporter when a spreadsheet is configured
// and the in-memory exporter otherwise.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	typ := MemoryExporter
	if appConfig.GoogleSpreadsheetID != "" {
		typ = SheetsExporter
	}
	return Config{
		Type:                typ,
		GoogleSpreadsheetID: appConfig.GoogleSpreadsheetID,
		GoogleSheetName:     appConfig.GoogleSheetName,
		CredentialsJSON:     appConfig.GoogleServiceAccountJSON,
		CredentialsFile:     appConfig.CredentialsFile(),
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid exporter type: %s", c.Type)
	}
	if c.Type == SheetsExporter {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets exporter")
		}
		if c.CredentialsJSON == "" && c.CredentialsFile == "" {
			return fmt.Errorf("service account credentials are required for sheets exporter")
		}
	}
	return nil
}
