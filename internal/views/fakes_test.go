package views_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/views"
)

type listFunc func(ctx context.Context, source domain.Source) ([]domain.Professional, error)

type createFunc func(ctx context.Context, d domain.Draft) error

// fakeClient records every call and delegates to optional scripts.
type fakeClient struct {
	mu      sync.Mutex
	sources []domain.Source
	drafts  []domain.Draft
	list    listFunc
	create  createFunc
}

func (f *fakeClient) ListProfessionals(ctx context.Context, source domain.Source) ([]domain.Professional, error) {
	f.mu.Lock()
	f.sources = append(f.sources, source)
	fn := f.list
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, source)
}

func (f *fakeClient) CreateProfessional(ctx context.Context, d domain.Draft) error {
	f.mu.Lock()
	f.drafts = append(f.drafts, d)
	fn := f.create
	f.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(ctx, d)
}

func (f *fakeClient) setList(fn listFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.list = fn
}

func (f *fakeClient) setCreate(fn createFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.create = fn
}

func (f *fakeClient) listCalls() []domain.Source {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Source(nil), f.sources...)
}

func (f *fakeClient) createCalls() []domain.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Draft(nil), f.drafts...)
}

func settle(t *testing.T, lv *views.ListingView) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, lv.Settle(ctx))
}

var ada = domain.Professional{
	ID:        "1",
	FullName:  "Ada",
	Email:     "ada@example.com",
	Source:    domain.SourceDirect,
	CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
}

var grace = domain.Professional{
	ID:        "2",
	FullName:  "Grace",
	Phone:     "555-0100",
	Source:    domain.SourcePartner,
	CreatedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
}
