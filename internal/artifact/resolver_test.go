package artifact

import (
	"context"
	"testing"
)

func TestResolvePreservesOrderAndDuplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := sampleArtifact()
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	resolver, err := NewResolver(store)
	if err != nil {
		t.Fatal(err)
	}

	refs, err := resolver.Resolve(ctx, []string{"Metrics", "ghost", "METRICS"})
	if err != nil {
		t.Fatal(err)
	}

	if len(refs) != 3 {
		t.Fatalf("expected 3 refs, got %d", len(refs))
	}

	// Original casing and order survive resolution.
	if refs[0].Raw != "Metrics" || refs[1].Raw != "ghost" || refs[2].Raw != "METRICS" {
		t.Errorf("raw tokens mangled: %+v", refs)
	}

	if !refs[0].Resolved || refs[0].ArtifactID != a.ID || refs[0].ArtifactName != "Metrics" {
		t.Errorf("first ref should resolve: %+v", refs[0])
	}
	if refs[1].Resolved || refs[1].ArtifactID != "" || refs[1].ArtifactName != "" {
		t.Errorf("ghost ref should stay empty: %+v", refs[1])
	}
	if !refs[2].Resolved {
		t.Error("duplicate token should resolve like the first")
	}
}

func TestResolveEmpty(t *testing.T) {
	resolver, err := NewResolver(newTestStore(t))
	if err != nil {
		t.Fatal(err)
	}

	refs, err := resolver.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("expected no refs, got %d", len(refs))
	}
}

func TestFetchCaches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := sampleArtifact()
	if err := store.Create(ctx, a); err != nil {
		t.Fatal(err)
	}

	resolver, err := NewResolver(store)
	if err != nil {
		t.Fatal(err)
	}

	first, err := resolver.Fetch(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil {
		t.Fatal("expected artifact")
	}

	// Delete under the cache; a cached fetch still serves the old copy until
	// invalidated.
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	cached, err := resolver.Fetch(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil {
		t.Fatal("expected cached artifact")
	}

	resolver.Invalidate(a.ID)
	gone, err := resolver.Fetch(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if gone != nil {
		t.Error("invalidated fetch should miss")
	}
}
