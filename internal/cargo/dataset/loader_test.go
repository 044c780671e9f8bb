package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	excelize "github.com/xuri/excelize/v2"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	return NewStore(path, 1, zerolog.Nop())
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTemp(t, "cargo.csv",
		"UN Number,Cargo Name,TP Code\n"+
			" UN1203 ,Gasoline,tp1\n"+
			"UN1202,Diesel,TP2\n"+
			",,\n")

	ds, err := Load(path, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ds.Records))
	}

	r := ds.Records[0]
	if r.UNNumber != "un1203" || r.CargoName != "gasoline" {
		t.Fatalf("record not normalized: %+v", r)
	}
	if r.TPCode != "TP1" {
		t.Fatalf("TP code not upper-cased: %q", r.TPCode)
	}
	if r.RawUN != "UN1203" || r.RawName != "Gasoline" {
		t.Fatalf("raw values not preserved: %+v", r)
	}
}

func TestLoadEmptyWorkbook(t *testing.T) {
	// a workbook with an empty first sheet is a valid, if unhelpful, source:
	// it must load as an empty dataset, never fault
	path := filepath.Join(t.TempDir(), "cargo.xlsx")
	f := excelize.NewFile()
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	ds, err := Load(path, 1)
	if err != nil {
		t.Fatalf("empty workbook must not fail: %v", err)
	}
	if !ds.Empty() {
		t.Fatalf("expected an empty dataset, got %d records", len(ds.Records))
	}
}

func TestLoadEmptyCSV(t *testing.T) {
	ds, err := Load(writeTemp(t, "cargo.csv", ""), 1)
	if err != nil {
		t.Fatalf("empty csv must not fail: %v", err)
	}
	if !ds.Empty() {
		t.Fatalf("expected an empty dataset, got %d records", len(ds.Records))
	}
}

func TestLoadHeaderOnlyCSV(t *testing.T) {
	ds, err := Load(writeTemp(t, "cargo.csv", "UN Number,Cargo Name,TP Code\n"), 1)
	if err != nil {
		t.Fatalf("header-only csv must not fail: %v", err)
	}
	if !ds.Empty() {
		t.Fatalf("expected an empty dataset, got %d records", len(ds.Records))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.csv"), 1); err == nil {
		t.Fatal("expected an error for a missing reference table")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "cargo.txt", "whatever")
	if _, err := Load(path, 1); err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestBuildHeaderAliases(t *testing.T) {
	maps := []map[string]string{
		{"UN No.": "UN1203", "Proper Shipping Name": "Gasoline", "Tank Provision": "TP1"},
	}
	ds := build(maps, "test")
	if len(ds.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ds.Records))
	}
	r := ds.Records[0]
	if r.UNNumber != "un1203" || r.CargoName != "gasoline" || r.TPCode != "TP1" {
		t.Fatalf("alias resolution failed: %+v", r)
	}
}

func TestBuildSkipsRowsWithoutIdentifier(t *testing.T) {
	maps := []map[string]string{
		{"UN Number": "", "Cargo Name": "", "TP Code": "TP1"},
		{"UN Number": "UN1203", "Cargo Name": "", "TP Code": "TP1"},
	}
	ds := build(maps, "test")
	if len(ds.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(ds.Records))
	}
}

func TestStoreReloadSwapsSnapshot(t *testing.T) {
	path := writeTemp(t, "cargo.csv",
		"UN Number,Cargo Name,TP Code\nUN1203,Gasoline,TP1\n")

	store := newTestStore(t, path)
	if !store.Snapshot().Empty() {
		t.Fatal("snapshot must be empty before the first reload")
	}

	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	first := store.Snapshot()
	if len(first.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(first.Records))
	}

	if err := os.WriteFile(path, []byte(
		"UN Number,Cargo Name,TP Code\nUN1203,Gasoline,TP1\nUN1202,Diesel,TP2\n"), 0o644); err != nil {
		t.Fatalf("rewrite table: %v", err)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(store.Snapshot().Records) != 2 {
		t.Fatalf("expected 2 records after reload, got %d", len(store.Snapshot().Records))
	}
	// the old snapshot is untouched, readers holding it are safe
	if len(first.Records) != 1 {
		t.Fatalf("previous snapshot mutated: %d records", len(first.Records))
	}
}

func TestStoreReloadFailureKeepsSnapshot(t *testing.T) {
	path := writeTemp(t, "cargo.csv",
		"UN Number,Cargo Name,TP Code\nUN1203,Gasoline,TP1\n")

	store := newTestStore(t, path)
	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove table: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatal("expected reload to fail after the file vanished")
	}
	if len(store.Snapshot().Records) != 1 {
		t.Fatal("failed reload must keep the previous snapshot")
	}
}
