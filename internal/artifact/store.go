package artifact

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("artifact not found")
	ErrAliasConflict = errors.New("alias already in use")
)

// Store is the persistence contract the compiler consumes. Get and GetByAlias
// return (nil, nil) when no record matches; ErrNotFound is reserved for
// operations that require the record to exist.
type Store interface {
	Create(ctx context.Context, a *Artifact) error
	Get(ctx context.Context, id string) (*Artifact, error)
	GetByAlias(ctx context.Context, alias string) (*Artifact, error)
	// Update replaces the stored artifact, bumps Version, and refreshes
	// UpdatedAt. Returns ErrNotFound for unknown ids.
	Update(ctx context.Context, a *Artifact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Artifact, error)
	// Seed populates the store with the given artifacts, as a no-op when any
	// record already exists.
	Seed(ctx context.Context, artifacts []*Artifact) error
	Close() error
}
