package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetupValidatesAfterFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("view:\n  grid_size: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	oldConfig, oldGrid := flagConfig, flagGrid
	t.Cleanup(func() { flagConfig, flagGrid = oldConfig, oldGrid })
	flagConfig = path

	flagGrid = 0
	if err := setup(nil, nil); err == nil {
		t.Fatal("setup() should reject grid_size 0 without --grid")
	}

	flagGrid = 5
	if err := setup(nil, nil); err != nil {
		t.Fatalf("setup() with --grid 5 failed: %v", err)
	}
	if appConfig.View.GridSize != 5 {
		t.Errorf("grid size = %d, want 5", appConfig.View.GridSize)
	}
}
