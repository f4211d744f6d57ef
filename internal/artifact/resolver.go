package artifact

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResolveFunc maps raw reference tokens to refs. Implementations must
// preserve input order and length, including duplicates.
type ResolveFunc func(ctx context.Context, tokens []string) ([]Ref, error)

// FetchFunc loads one artifact by id. A nil artifact with nil error means the
// record no longer exists; callers treat that as a silent exclusion.
type FetchFunc func(ctx context.Context, id string) (*Artifact, error)

const fetchCacheSize = 64

// Resolver adapts a Store to the collaborator functions the pipeline
// consumes. Alias lookups are deduplicated by normalized token; fetches go
// through a bounded LRU cache.
type Resolver struct {
	store Store
	cache *lru.Cache[string, *Artifact]
}

func NewResolver(store Store) (*Resolver, error) {
	cache, err := lru.New[string, *Artifact](fetchCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create fetch cache: %w", err)
	}
	return &Resolver{store: store, cache: cache}, nil
}

// Resolve produces one Ref per input token, preserving original casing and
// order. Unresolved tokens are non-fatal and yield Refs with Resolved=false.
func (r *Resolver) Resolve(ctx context.Context, tokens []string) ([]Ref, error) {
	lookups := make(map[string]*Artifact)

	for _, tok := range tokens {
		key := NormalizeAlias(tok)
		if _, done := lookups[key]; done {
			continue
		}
		a, err := r.store.GetByAlias(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", tok, err)
		}
		lookups[key] = a
	}

	refs := make([]Ref, len(tokens))
	for i, tok := range tokens {
		ref := Ref{Raw: tok}
		if a := lookups[NormalizeAlias(tok)]; a != nil {
			ref.ArtifactID = a.ID
			ref.ArtifactName = a.Name
			ref.Resolved = true
		}
		refs[i] = ref
	}
	return refs, nil
}

// Fetch loads an artifact by id, consulting the cache first.
func (r *Resolver) Fetch(ctx context.Context, id string) (*Artifact, error) {
	if a, ok := r.cache.Get(id); ok {
		return a, nil
	}

	a, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a != nil {
		r.cache.Add(id, a)
	}
	return a, nil
}

// Invalidate drops a cached artifact after a store mutation.
func (r *Resolver) Invalidate(id string) {
	r.cache.Remove(id)
}
