// Package library loads artifacts authored as YAML files into the store and
// keeps the store in sync while the files change. It is the file-based
// counterpart of the store's seed path.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"promptforge/internal/artifact"
	"promptforge/internal/logger"
)

var log = logger.ForComponent("library")

type fileBlock struct {
	Label     string   `yaml:"label"`
	Content   string   `yaml:"content"`
	Tags      []string `yaml:"tags"`
	Priority  int      `yaml:"priority"`
	DoNotSend bool     `yaml:"do_not_send"`
}

type fileArtifact struct {
	Name        string      `yaml:"name"`
	Aliases     []string    `yaml:"aliases"`
	Description string      `yaml:"description"`
	Blocks      []fileBlock `yaml:"blocks"`
}

// LoadFile parses one artifact definition. Token counts are left at zero;
// the store fills them in on write.
func LoadFile(path string) (*artifact.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var fa fileArtifact
	if err := yaml.Unmarshal(data, &fa); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if fa.Name == "" {
		return nil, fmt.Errorf("parse %s: artifact name is required", path)
	}
	if len(fa.Aliases) == 0 {
		return nil, fmt.Errorf("parse %s: at least one alias is required", path)
	}

	a := &artifact.Artifact{
		Name:        fa.Name,
		Aliases:     fa.Aliases,
		Description: fa.Description,
	}
	for _, fb := range fa.Blocks {
		a.Blocks = append(a.Blocks, artifact.Block{
			Label:     fb.Label,
			Content:   fb.Content,
			Tags:      fb.Tags,
			Priority:  fb.Priority,
			DoNotSend: fb.DoNotSend,
		})
	}
	return a, nil
}

// SyncFile loads one file and upserts it into the store, matching an existing
// record by alias so edits update in place.
func SyncFile(ctx context.Context, store artifact.Store, path string) error {
	a, err := LoadFile(path)
	if err != nil {
		return err
	}

	for _, alias := range a.Aliases {
		existing, err := store.GetByAlias(ctx, alias)
		if err != nil {
			return err
		}
		if existing != nil {
			a.ID = existing.ID
			a.Version = existing.Version
			a.CreatedAt = existing.CreatedAt
			return store.Update(ctx, a)
		}
	}
	return store.Create(ctx, a)
}

// SyncDir syncs every YAML file under dir, skipping paths that match any
// ignore glob. Returns the number of artifacts synced; individual file errors
// are logged and skipped so one bad file cannot poison the library.
func SyncDir(ctx context.Context, store artifact.Store, dir string, ignore []string) (int, error) {
	synced := 0

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isArtifactFile(path) || ignored(path, ignore) {
			return nil
		}

		if err := SyncFile(ctx, store, path); err != nil {
			log.Error("sync failed", "path", path, "error", err)
			return nil
		}
		synced++
		return nil
	})
	if err != nil {
		return synced, fmt.Errorf("walk %s: %w", dir, err)
	}

	log.Info("library synced", "dir", dir, "artifacts", synced)
	return synced, nil
}

func isArtifactFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func ignored(path string, patterns []string) bool {
	slashed := filepath.ToSlash(path)
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, slashed); ok {
			return true
		}
	}
	return false
}
