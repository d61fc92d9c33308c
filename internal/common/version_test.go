package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadVersionFile_FillsDefaults(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })
	Version, Build, GitCommit = "dev", "unknown", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	content := "# generated\nversion: 1.2.3\nbuild: 2026-10-18\ncommit: abc1234\nbogus line\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if GetVersion() != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", GetVersion())
	}
	if GetBuild() != "2026-10-18" {
		t.Errorf("expected build 2026-10-18, got %s", GetBuild())
	}
	if GetGitCommit() != "abc1234" {
		t.Errorf("expected commit abc1234, got %s", GetGitCommit())
	}
	if GetFullVersion() != "1.2.3 (build: 2026-10-18, commit: abc1234)" {
		t.Errorf("unexpected full version %q", GetFullVersion())
	}
}

func TestLoadVersionFile_LdflagsWin(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })
	Version = "9.9.9"

	path := filepath.Join(t.TempDir(), ".version")
	if err := os.WriteFile(path, []byte("version: 1.0.0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	loadVersionFile(path)

	if Version != "9.9.9" {
		t.Errorf("expected ldflags version to be kept, got %s", Version)
	}
}

func TestLoadVersionFile_MissingFile(t *testing.T) {
	loadVersionFile(filepath.Join(t.TempDir(), "nope"))
}
