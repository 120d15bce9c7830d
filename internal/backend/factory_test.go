package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"financecontroller/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "x.db", DataDirectory: "seed"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "x.db" || cfg.DataDirectory != "seed" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	if got := strings.Join(GetBackendTypeStrings(), ","); got != "sqlite,memory" {
		t.Errorf("GetBackendTypeStrings() = %q", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	seed := `{"@financecontroller:transactions_user:1":[{"id":"1"}],"plain":"value"}`
	if err := os.WriteFile(filepath.Join(dir, "seed_store.json"), []byte(seed), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Cleanup != nil || len(res.Collectors) != 0 {
		t.Errorf("memory backend needs no cleanup or collectors")
	}
	v, found, err := res.Store.Get(ctx, "@financecontroller:transactions_user:1")
	if err != nil || !found || v != `[{"id":"1"}]` {
		t.Errorf("seeded value = %q, %v, %v", v, found, err)
	}

	empty, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, found, _ := empty.Store.Get(ctx, "plain"); found {
		t.Error("unseeded store must be empty")
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()

	if len(res.Collectors) != 1 {
		t.Errorf("expected DB stats collector, got %d", len(res.Collectors))
	}
	if err := res.Store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, found, err := res.Store.Get(ctx, "k"); err != nil || !found || v != "v" {
		t.Errorf("Get = %q, %v, %v", v, found, err)
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "postgres"}); err == nil {
		t.Fatal("expected error")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend}); err == nil {
		t.Fatal("expected context error")
	}
}
