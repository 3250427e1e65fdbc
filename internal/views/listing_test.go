package views_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/views"
)

func TestListingNothingFetchedBeforeEntry(t *testing.T) {
	client := &fakeClient{}
	lv := views.NewListingView(client)
	defer lv.Close()

	require.NoError(t, lv.SetFilter(domain.SourcePartner))
	settle(t, lv)
	assert.Empty(t, client.listCalls())

	lv.Observe(0)
	settle(t, lv)
	assert.Equal(t, []domain.Source{domain.SourcePartner}, client.listCalls())
}

func TestListingFirstObserveFetches(t *testing.T) {
	client := &fakeClient{}
	client.setList(func(context.Context, domain.Source) ([]domain.Professional, error) {
		return []domain.Professional{ada}, nil
	})
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(0)
	settle(t, lv)

	snap := lv.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Failed)
	assert.Equal(t, []domain.Professional{ada}, snap.Records)
	assert.Equal(t, []domain.Source{""}, client.listCalls())
}

func TestListingGenerationChangeRefetchesOnce(t *testing.T) {
	client := &fakeClient{}
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(4)
	settle(t, lv)
	lv.Observe(4)
	settle(t, lv)
	require.Len(t, client.listCalls(), 1, "identical generation must not refetch")

	lv.Observe(5)
	settle(t, lv)
	assert.Len(t, client.listCalls(), 2)

	lv.Observe(5)
	settle(t, lv)
	assert.Len(t, client.listCalls(), 2)
}

func TestListingFilterChanges(t *testing.T) {
	client := &fakeClient{}
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(0)
	settle(t, lv)

	require.NoError(t, lv.SetFilter(domain.SourcePartner))
	settle(t, lv)
	require.NoError(t, lv.SetFilter(domain.SourcePartner))
	settle(t, lv)
	require.NoError(t, lv.SetFilter(""))
	settle(t, lv)

	assert.Equal(t, []domain.Source{"", domain.SourcePartner, ""}, client.listCalls())
	assert.Equal(t, domain.Source(""), lv.Snapshot().Filter)
}

func TestListingRejectsUnknownFilter(t *testing.T) {
	client := &fakeClient{}
	lv := views.NewListingView(client)
	defer lv.Close()
	lv.Observe(0)
	settle(t, lv)

	err := lv.SetFilter("vendor")
	require.ErrorIs(t, err, domain.ErrInvalidSource)
	assert.Len(t, client.listCalls(), 1)
	assert.Equal(t, domain.Source(""), lv.Snapshot().Filter)
}

func TestListingFaultEmptiesRecords(t *testing.T) {
	client := &fakeClient{}
	client.setList(func(context.Context, domain.Source) ([]domain.Professional, error) {
		return []domain.Professional{ada, grace}, nil
	})
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(0)
	settle(t, lv)
	require.Len(t, lv.Snapshot().Records, 2)

	client.setList(func(context.Context, domain.Source) ([]domain.Professional, error) {
		return nil, &domain.Fault{Status: 500, Payload: []byte(`{"detail":"boom"}`)}
	})
	lv.Observe(1)
	settle(t, lv)

	snap := lv.Snapshot()
	assert.NotNil(t, snap.Records)
	assert.Empty(t, snap.Records)
	assert.False(t, snap.Loading)
	assert.True(t, snap.Failed)

	client.setList(func(context.Context, domain.Source) ([]domain.Professional, error) {
		return []domain.Professional{grace}, nil
	})
	lv.Observe(2)
	settle(t, lv)

	snap = lv.Snapshot()
	assert.False(t, snap.Failed)
	assert.Equal(t, []domain.Professional{grace}, snap.Records)
}

func TestListingLoadingWhileOutstanding(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{}
	client.setList(func(context.Context, domain.Source) ([]domain.Professional, error) {
		<-release
		return []domain.Professional{ada}, nil
	})
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(0)
	assert.True(t, lv.Snapshot().Loading)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, lv.Settle(ctx), context.DeadlineExceeded)

	close(release)
	settle(t, lv)
	assert.False(t, lv.Snapshot().Loading)
}

func TestListingStaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	client := &fakeClient{}
	client.setList(func(_ context.Context, source domain.Source) ([]domain.Professional, error) {
		if source == "" {
			// Ignores cancellation so it completes after the newer fetch.
			<-release
			return []domain.Professional{ada}, nil
		}
		return []domain.Professional{grace}, nil
	})
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(0)
	require.NoError(t, lv.SetFilter(domain.SourcePartner))
	settle(t, lv)

	want := []domain.Professional{grace}
	require.Equal(t, want, lv.Snapshot().Records)

	close(release)
	assert.Never(t, func() bool {
		snap := lv.Snapshot()
		return snap.Loading || len(snap.Records) != 1 || snap.Records[0].ID != grace.ID
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestListingSupersededFetchIsCancelled(t *testing.T) {
	cancelled := make(chan struct{})
	client := &fakeClient{}
	client.setList(func(ctx context.Context, source domain.Source) ([]domain.Professional, error) {
		if source == "" {
			<-ctx.Done()
			close(cancelled)
			return nil, ctx.Err()
		}
		return []domain.Professional{grace}, nil
	})
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Observe(0)
	require.NoError(t, lv.SetFilter(domain.SourcePartner))

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
	settle(t, lv)

	snap := lv.Snapshot()
	assert.False(t, snap.Failed, "a cancelled superseded fetch must not mark the view failed")
	assert.Equal(t, []domain.Professional{grace}, snap.Records)
}

func TestListingCloseDiscardsOutstanding(t *testing.T) {
	started := make(chan struct{}, 1)
	client := &fakeClient{}
	client.setList(func(ctx context.Context, _ domain.Source) ([]domain.Professional, error) {
		started <- struct{}{}
		<-ctx.Done()
		return []domain.Professional{ada}, nil
	})
	lv := views.NewListingView(client)

	lv.Observe(0)
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not start")
	}
	lv.Close()
	settle(t, lv)

	snap := lv.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Failed)
	assert.Empty(t, snap.Records)

	lv.Observe(9)
	assert.Never(t, func() bool { return len(client.listCalls()) > 1 },
		100*time.Millisecond, 10*time.Millisecond, "closed view must not fetch")
	assert.Empty(t, lv.Snapshot().Records, "result of a closed view's fetch must be dropped")
}

func TestListingFollowsGeneration(t *testing.T) {
	var gen views.Generation
	client := &fakeClient{}
	lv := views.NewListingView(client)
	defer lv.Close()

	lv.Follow(&gen)
	settle(t, lv)
	require.Len(t, client.listCalls(), 1)

	gen.Bump()
	require.Eventually(t, func() bool { return len(client.listCalls()) == 2 },
		2*time.Second, 5*time.Millisecond)
	settle(t, lv)

	lv.Close()
	gen.Bump()
	assert.Never(t, func() bool { return len(client.listCalls()) > 2 },
		50*time.Millisecond, 5*time.Millisecond)
}
