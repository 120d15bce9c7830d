package categories

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"financecontroller/internal/core"
)

func TestDefaultOrder(t *testing.T) {
	tbl := Default()
	want := []string{"purchases", "food", "salary", "car", "leisure", "studies"}
	got := tbl.All()
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i, k := range want {
		if got[i].Key != k {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Key, k)
		}
	}
	if c, ok := tbl.Lookup("food"); !ok || c.Name != "Alimentação" || c.Color != "#FF872C" {
		t.Fatalf("lookup food = %+v %v", c, ok)
	}
	if tbl.Contains("unknown") {
		t.Fatalf("unknown key must not be found")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	tbl := Default()
	items := tbl.All()
	items[0].Key = "mutated"
	if tbl.All()[0].Key != "purchases" {
		t.Fatalf("All must not expose internal slice")
	}
}

func TestNewDedupesAndValidates(t *testing.T) {
	tbl, err := New([]core.CategoryDescriptor{
		{Key: "a", Name: "A", Color: "#000"},
		{Key: "b", Name: "B"},
		{Key: " a ", Name: "Again"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 categories, got %d", tbl.Len())
	}
	if c, _ := tbl.Lookup("a"); c.Name != "A" {
		t.Fatalf("first occurrence must win, got %+v", c)
	}

	if _, err := New([]core.CategoryDescriptor{{Key: "", Name: "x"}}); !errors.Is(err, core.ErrEmptyCategory) {
		t.Fatalf("expected ErrEmptyCategory, got %v", err)
	}
	if _, err := New([]core.CategoryDescriptor{{Key: "x"}}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error for empty table")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.json")
	body := `[{"key":"rent","name":"Aluguel","color":"#111111"},{"key":"food","name":"Comida","color":"#222222"}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := tbl.All(); len(got) != 2 || got[0].Key != "rent" || got[1].Name != "Comida" {
		t.Fatalf("unexpected table %+v", got)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte("{"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if tbl, err := Load(""); err != nil || tbl.Len() != 6 {
		t.Fatalf("empty path must yield defaults, got %v", err)
	}
}
