// Package ingest loads ingredient fixtures into storage.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/foodgram-app/foodgram/internal/storage"
)

// Record is one ingredient fixture entry.
type Record struct {
	Name            string `json:"name" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" yaml:"measurement_unit"`
}

// Report summarizes an import run.
type Report struct {
	Created int
	Skipped int
}

// ImportFile loads ingredients from a fixture file, detecting the
// format from its extension (.json, .yaml/.yml, or .csv). Rows that
// already exist are counted as skipped rather than failing the run.
func ImportFile(ctx context.Context, store storage.CatalogStore, path string) (Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()

	var records []Record
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		records, err = decodeJSON(file)
	case ".yaml", ".yml":
		records, err = decodeYAML(file)
	case ".csv":
		records, err = decodeCSV(file)
	default:
		return Report{}, fmt.Errorf("unsupported fixture format %q", ext)
	}
	if err != nil {
		return Report{}, err
	}
	return Import(ctx, store, records)
}

// Import stores fixture records, skipping duplicates.
func Import(ctx context.Context, store storage.CatalogStore, records []Record) (Report, error) {
	var report Report
	for i, record := range records {
		name := strings.TrimSpace(record.Name)
		unit := strings.TrimSpace(record.MeasurementUnit)
		if name == "" || unit == "" {
			return report, fmt.Errorf("record %d: name and measurement unit are required", i+1)
		}
		_, err := store.CreateIngredient(ctx, storage.Ingredient{
			Name:            name,
			MeasurementUnit: unit,
		})
		if errors.Is(err, storage.ErrAlreadyExists) {
			report.Skipped++
			continue
		}
		if err != nil {
			return report, fmt.Errorf("create ingredient %q: %w", name, err)
		}
		report.Created++
	}
	return report, nil
}

func decodeJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode json fixture: %w", err)
	}
	return records, nil
}

func decodeYAML(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode yaml fixture: %w", err)
	}
	return records, nil
}

// decodeCSV reads rows of "name,measurement_unit" with no header.
func decodeCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv fixture: %w", err)
		}
		records = append(records, Record{Name: row[0], MeasurementUnit: row[1]})
	}
	return records, nil
}
