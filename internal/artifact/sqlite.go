package artifact

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"promptforge/internal/logger"
	"promptforge/internal/token"
)

var log = logger.ForComponent("artifact")

// SQLiteStore is the default Store implementation.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, err
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	var cleanLines []string
	for _, line := range strings.Split(schemaSQL, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "--") && trimmed != "" {
			cleanLines = append(cleanLines, line)
		}
	}

	if _, err := s.db.Exec(strings.Join(cleanLines, "\n")); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	_, _ = s.db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, schemaVersion)
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, a *Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.Version == 0 {
		a.Version = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO artifacts (id, name, description, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.Description, a.Version, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert artifact: %w", err)
	}

	if err := s.writeAliases(ctx, tx, a); err != nil {
		return err
	}
	if err := s.writeBlocks(ctx, tx, a); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) writeAliases(ctx context.Context, tx *sql.Tx, a *Artifact) error {
	for _, alias := range a.Aliases {
		normalized := NormalizeAlias(alias)
		if normalized == "" {
			continue
		}

		var owner string
		err := tx.QueryRowContext(ctx,
			`SELECT artifact_id FROM aliases WHERE alias = ?`, normalized).Scan(&owner)
		if err == nil && owner != a.ID {
			return fmt.Errorf("%w: %s", ErrAliasConflict, normalized)
		}
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("check alias: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO aliases (alias, artifact_id) VALUES (?, ?)`,
			normalized, a.ID)
		if err != nil {
			return fmt.Errorf("insert alias: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) writeBlocks(ctx context.Context, tx *sql.Tx, a *Artifact) error {
	for i := range a.Blocks {
		b := &a.Blocks[i]
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		if b.TokenCount == 0 {
			b.TokenCount = token.Estimate(b.Content)
		}

		tags, err := json.Marshal(b.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO blocks (id, artifact_id, position, label, content, tags, priority, do_not_send, token_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, b.ID, a.ID, i, b.Label, b.Content, string(tags), b.Priority, boolToInt(b.DoNotSend), b.TokenCount)
		if err != nil {
			return fmt.Errorf("insert block: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.get(ctx, id)
}

func (s *SQLiteStore) get(ctx context.Context, id string) (*Artifact, error) {
	a := &Artifact{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, version, created_at, updated_at
		FROM artifacts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.Description, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}

	if err := s.loadAliases(ctx, a); err != nil {
		return nil, err
	}
	if err := s.loadBlocks(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) loadAliases(ctx context.Context, a *Artifact) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT alias FROM aliases WHERE artifact_id = ? ORDER BY alias`, a.ID)
	if err != nil {
		return fmt.Errorf("load aliases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var alias string
		if err := rows.Scan(&alias); err != nil {
			return err
		}
		a.Aliases = append(a.Aliases, alias)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadBlocks(ctx context.Context, a *Artifact) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, content, tags, priority, do_not_send, token_count
		FROM blocks WHERE artifact_id = ? ORDER BY position
	`, a.ID)
	if err != nil {
		return fmt.Errorf("load blocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b Block
		var tags string
		var doNotSend int
		if err := rows.Scan(&b.ID, &b.Label, &b.Content, &tags, &b.Priority, &doNotSend, &b.TokenCount); err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(tags), &b.Tags); err != nil {
			return fmt.Errorf("unmarshal tags: %w", err)
		}
		b.DoNotSend = doNotSend != 0
		a.Blocks = append(a.Blocks, b)
	}
	return rows.Err()
}

func (s *SQLiteStore) GetByAlias(ctx context.Context, alias string) (*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT artifact_id FROM aliases WHERE alias = ?`, NormalizeAlias(alias)).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup alias: %w", err)
	}

	return s.get(ctx, id)
}

func (s *SQLiteStore) Update(ctx context.Context, a *Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a.Version++
	a.UpdatedAt = time.Now().UTC()

	res, err := tx.ExecContext(ctx, `
		UPDATE artifacts SET name = ?, description = ?, version = ?, updated_at = ?
		WHERE id = ?
	`, a.Name, a.Description, a.Version, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, a.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM aliases WHERE artifact_id = ?`, a.ID); err != nil {
		return fmt.Errorf("clear aliases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks WHERE artifact_id = ?`, a.ID); err != nil {
		return fmt.Errorf("clear blocks: %w", err)
	}

	if err := s.writeAliases(ctx, tx, a); err != nil {
		return err
	}
	if err := s.writeBlocks(ctx, tx, a); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM artifacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete artifact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM artifacts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*Artifact, 0, len(ids))
	for _, id := range ids {
		a, err := s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if a != nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *SQLiteStore) Seed(ctx context.Context, artifacts []*Artifact) error {
	s.mu.RLock()
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artifacts`).Scan(&count)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("count artifacts: %w", err)
	}
	if count > 0 {
		log.Debug("seed skipped, store not empty", "count", count)
		return nil
	}

	for _, a := range artifacts {
		if err := s.Create(ctx, a); err != nil {
			return fmt.Errorf("seed %s: %w", a.Name, err)
		}
	}
	log.Info("store seeded", "artifacts", len(artifacts))
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
