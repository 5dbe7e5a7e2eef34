package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reorg/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantJournal := filepath.Join(tempHome, ".local", "share", "reorg", "journal")
	if cfg.Paths.JournalDir != wantJournal {
		t.Fatalf("unexpected journal dir: got %q want %q", cfg.Paths.JournalDir, wantJournal)
	}
	if cfg.Execute.MaxWorkers != 8 {
		t.Fatalf("unexpected max workers: %d", cfg.Execute.MaxWorkers)
	}
	if cfg.History.Limit != 20 {
		t.Fatalf("unexpected history limit: %d", cfg.History.Limit)
	}
	if cfg.Dissolve.SimilarityThreshold != 0.6 {
		t.Fatalf("unexpected similarity threshold: %v", cfg.Dissolve.SimilarityThreshold)
	}
}

func TestLoadParsesFileAndNormalizesExtensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`journal_dir = "` + filepath.Join(dir, "journal") + `"`,
		"[execute]",
		"max_workers = 3",
		"[dissolve]",
		`archive_extensions = ["ZIP", " .Rar "]`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Execute.MaxWorkers != 3 {
		t.Fatalf("unexpected max workers: %d", cfg.Execute.MaxWorkers)
	}
	want := []string{".zip", ".rar"}
	if len(cfg.Dissolve.ArchiveExtensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", cfg.Dissolve.ArchiveExtensions)
	}
	for i, ext := range want {
		if cfg.Dissolve.ArchiveExtensions[i] != ext {
			t.Fatalf("extension %d: got %q want %q", i, cfg.Dissolve.ArchiveExtensions[i], ext)
		}
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[dissolve]\nsimilarity_threshold = 1.5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for threshold > 1")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"xml\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "journal_dir") {
		t.Fatal("sample config missing journal_dir")
	}

	// The sample must itself be loadable.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}
