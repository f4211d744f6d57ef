package library

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"promptforge/internal/artifact"
)

const sampleYAML = `name: Style Guide
aliases: [style, style-guide]
description: house style
blocks:
  - label: Tone
    content: Write plainly.
    tags: [summary]
    priority: 80
  - label: Secrets
    content: internal only
    tags: [internal-only]
    priority: 90
    do_not_send: true
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestStore(t *testing.T) artifact.Store {
	t.Helper()
	store, err := artifact.NewSQLiteStore(filepath.Join(t.TempDir(), "lib.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "style.yaml", sampleYAML)

	a, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.Name != "Style Guide" || len(a.Aliases) != 2 {
		t.Errorf("header mismatch: %+v", a)
	}
	if len(a.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(a.Blocks))
	}
	if !a.Blocks[1].DoNotSend {
		t.Error("do_not_send flag not parsed")
	}
	if a.Blocks[0].Priority != 80 {
		t.Errorf("priority not parsed: %d", a.Blocks[0].Priority)
	}
}

func TestLoadFileRejectsMissingFields(t *testing.T) {
	dir := t.TempDir()

	noName := writeFile(t, dir, "noname.yaml", "aliases: [x]\n")
	if _, err := LoadFile(noName); err == nil {
		t.Error("missing name should be rejected")
	}

	noAlias := writeFile(t, dir, "noalias.yaml", "name: X\n")
	if _, err := LoadFile(noAlias); err == nil {
		t.Error("missing aliases should be rejected")
	}
}

func TestSyncFileUpsertsByAlias(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	dir := t.TempDir()

	path := writeFile(t, dir, "style.yaml", sampleYAML)
	if err := SyncFile(ctx, store, path); err != nil {
		t.Fatal(err)
	}

	first, err := store.GetByAlias(ctx, "style")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil {
		t.Fatal("artifact not created")
	}

	// Re-sync with edited content updates in place instead of duplicating.
	writeFile(t, dir, "style.yaml", strings.Replace(sampleYAML, "house style", "updated style", 1))
	if err := SyncFile(ctx, store, path); err != nil {
		t.Fatal(err)
	}

	second, err := store.GetByAlias(ctx, "style")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Error("re-sync should keep the artifact id")
	}
	if second.Version != first.Version+1 {
		t.Errorf("re-sync should bump version: %d -> %d", first.Version, second.Version)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 artifact after re-sync, got %d", len(all))
	}
}

func TestSyncDirSkipsBadAndIgnoredFiles(t *testing.T) {
	store := newTestStore(t)
	dir := t.TempDir()

	writeFile(t, dir, "good.yaml", sampleYAML)
	writeFile(t, dir, "broken.yaml", ": not yaml {{{")
	writeFile(t, dir, "notes.txt", "not an artifact")
	writeFile(t, dir, "ignored.yaml", sampleYAML)

	n, err := SyncDir(context.Background(), store, dir, []string{"**/ignored.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 synced artifact, got %d", n)
	}
}
