package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()

	if cfg.RequestDelay() != time.Second {
		t.Fatalf("RequestDelay = %v, want 1s", cfg.RequestDelay())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout())
	}

	sum := cfg.Weights.Genre + cfg.Weights.Rating + cfg.Weights.Popularity + cfg.Weights.Studio
	if sum > 1.0 {
		t.Fatalf("base weights sum = %v, must not exceed 1.0", sum)
	}

	if cfg.MinScoreOverlap >= cfg.MinScoreNoOverlap {
		t.Fatalf("overlap threshold %v must be lower than no-overlap threshold %v",
			cfg.MinScoreOverlap, cfg.MinScoreNoOverlap)
	}
	if cfg.DefaultMax <= 0 || cfg.CallerMaxLimit < cfg.DefaultMax || cfg.ResponseCap < cfg.CallerMaxLimit {
		t.Fatalf("size limits inconsistent: default=%d caller=%d cap=%d",
			cfg.DefaultMax, cfg.CallerMaxLimit, cfg.ResponseCap)
	}
}

func TestLoadEngineConfig_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := []byte(`
request_delay_seconds: 0.5
max_seeds: 5
weights:
  genre: 0.7
  rating: 0.1
  popularity: 0.1
  studio: 0.1
exclude_genres: ["Horror"]
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEngineConfig(path)
	if err != nil {
		t.Fatalf("LoadEngineConfig: %v", err)
	}

	if cfg.RequestDelay() != 500*time.Millisecond {
		t.Fatalf("RequestDelay = %v, want 500ms", cfg.RequestDelay())
	}
	if cfg.MaxSeeds != 5 {
		t.Fatalf("MaxSeeds = %d, want 5", cfg.MaxSeeds)
	}
	if cfg.Weights.Genre != 0.7 {
		t.Fatalf("Weights.Genre = %v, want 0.7", cfg.Weights.Genre)
	}
	if len(cfg.ExcludeGenres) != 1 || cfg.ExcludeGenres[0] != "Horror" {
		t.Fatalf("ExcludeGenres = %v, want [Horror]", cfg.ExcludeGenres)
	}

	// 未出现在文件中的字段保持默认值
	if cfg.TopGenres != 3 {
		t.Fatalf("TopGenres = %d, want default 3", cfg.TopGenres)
	}
}

func TestLoadEngineConfig_MissingFile(t *testing.T) {
	if _, err := LoadEngineConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
