package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/foodgram-app/foodgram/internal/storage"
)

type fakeCatalog struct {
	ingredients map[string]storage.Ingredient
	nextID      int64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{ingredients: make(map[string]storage.Ingredient)}
}

func (f *fakeCatalog) CreateTag(context.Context, storage.Tag) (int64, error) {
	return 0, storage.ErrAlreadyExists
}
func (f *fakeCatalog) GetTag(context.Context, int64) (storage.Tag, error) {
	return storage.Tag{}, storage.ErrNotFound
}
func (f *fakeCatalog) ListTags(context.Context) ([]storage.Tag, error) { return nil, nil }

func (f *fakeCatalog) CreateIngredient(_ context.Context, ingredient storage.Ingredient) (int64, error) {
	key := ingredient.Name + "|" + ingredient.MeasurementUnit
	if _, ok := f.ingredients[key]; ok {
		return 0, storage.ErrAlreadyExists
	}
	f.nextID++
	ingredient.ID = f.nextID
	f.ingredients[key] = ingredient
	return ingredient.ID, nil
}

func (f *fakeCatalog) GetIngredient(context.Context, int64) (storage.Ingredient, error) {
	return storage.Ingredient{}, storage.ErrNotFound
}

func (f *fakeCatalog) ListIngredients(context.Context, string) ([]storage.Ingredient, error) {
	return nil, nil
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestImportSkipsDuplicates(t *testing.T) {
	catalog := newFakeCatalog()
	records := []Record{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "молоко", MeasurementUnit: "мл"},
	}

	report, err := Import(context.Background(), catalog, records)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Created != 2 || report.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestImportRejectsBlankFields(t *testing.T) {
	catalog := newFakeCatalog()
	if _, err := Import(context.Background(), catalog, []Record{{Name: " ", MeasurementUnit: "г"}}); err == nil {
		t.Fatal("expected error for blank name")
	}
	if _, err := Import(context.Background(), catalog, []Record{{Name: "мука", MeasurementUnit: ""}}); err == nil {
		t.Fatal("expected error for blank unit")
	}
}

func TestImportFileJSON(t *testing.T) {
	path := writeFixture(t, "ingredients.json",
		`[{"name": "мука", "measurement_unit": "г"}, {"name": "молоко", "measurement_unit": "мл"}]`)

	report, err := ImportFile(context.Background(), newFakeCatalog(), path)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestImportFileYAML(t *testing.T) {
	path := writeFixture(t, "ingredients.yaml",
		"- name: мука\n  measurement_unit: г\n- name: молоко\n  measurement_unit: мл\n")

	report, err := ImportFile(context.Background(), newFakeCatalog(), path)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestImportFileCSV(t *testing.T) {
	path := writeFixture(t, "ingredients.csv", "мука,г\nмолоко,мл\n")

	report, err := ImportFile(context.Background(), newFakeCatalog(), path)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}
	if report.Created != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestImportFileUnknownFormat(t *testing.T) {
	path := writeFixture(t, "ingredients.txt", "мука,г\n")
	if _, err := ImportFile(context.Background(), newFakeCatalog(), path); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestImportFileMissing(t *testing.T) {
	if _, err := ImportFile(context.Background(), newFakeCatalog(), "missing.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
