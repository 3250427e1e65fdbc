package seed_test

import (
	"context"
	"testing"

	"github.com/johnwards/professionals/internal/seed"
	"github.com/johnwards/professionals/internal/store"
	"github.com/johnwards/professionals/internal/testhelpers"
)

func TestSeedIsIdempotent(t *testing.T) {
	s := store.NewSQLiteProfessionalStore(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := seed.Seed(ctx, s); err != nil {
			t.Fatalf("seed (run %d): %v", i+1, err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(seed.Professionals) {
		t.Errorf("count = %d, want %d", n, len(seed.Professionals))
	}
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	s := store.NewSQLiteProfessionalStore(testhelpers.NewMigratedDB(t))
	ctx := context.Background()

	if _, err := s.Create(ctx, seed.Professionals[0]); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := seed.Seed(ctx, s); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}
