package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/ragline/store"
	"github.com/poiesic/ragline/store/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptStatuses makes ListDocuments return the scripted run statuses in
// order, clamping on the last one once the script is exhausted. An empty
// string in the script simulates a query error.
func scriptStatuses(st *mock.MockStore, docID string, script []store.RunStatus) *int {
	observation := new(int)
	st.ListDocumentsFunc = func(ctx context.Context, dataset *store.Dataset, opts store.ListOptions) ([]store.Document, error) {
		i := *observation
		*observation++
		if i >= len(script) {
			i = len(script) - 1
		}
		status := script[i]
		if status == "" {
			return nil, errors.New("scripted query error")
		}
		return []store.Document{{ID: docID, Name: "doc", Run: status}}, nil
	}
	return observation
}

func newTestPoller(t *testing.T, st store.Store, maxFailures int, maxElapsed time.Duration) *Poller {
	t.Helper()
	p, err := NewPoller(st, maxFailures, time.Millisecond, maxElapsed, nil)
	require.NoError(t, err)
	return p
}

func testDataset(t *testing.T, st *mock.MockStore) *store.Dataset {
	t.Helper()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)
	return ds
}

func TestPoller_ImmediateSuccess(t *testing.T) {
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	observations := scriptStatuses(st, "doc-1", []store.RunStatus{store.RunDone})

	p := newTestPoller(t, st, 3, 0)
	state := p.Poll(context.Background(), ds, "doc-1")
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, 1, *observations)
}

func TestPoller_InterleavedFailuresExhaustBudget(t *testing.T) {
	// Alternating failed/in-progress observations: only the failures
	// consume budget, and the third failure is terminal.
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	observations := scriptStatuses(st, "doc-1", []store.RunStatus{
		store.RunFail,    // failure 1
		store.RunRunning, //
		store.RunFail,    // failure 2
		store.RunRunning, //
		store.RunFail,    // failure 3 -> terminal
	})

	p := newTestPoller(t, st, 3, 0)
	state := p.Poll(context.Background(), ds, "doc-1")
	assert.Equal(t, StateFailed, state)
	assert.Equal(t, 5, *observations,
		"non-failure observations must not count toward the budget")
}

func TestPoller_SuccessShortCircuitsBelowThreshold(t *testing.T) {
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	observations := scriptStatuses(st, "doc-1", []store.RunStatus{
		store.RunFail,
		store.RunFail,
		store.RunDone,
	})

	p := newTestPoller(t, st, 5, 0)
	state := p.Poll(context.Background(), ds, "doc-1")
	assert.Equal(t, StateSuccess, state)
	assert.Equal(t, 3, *observations)
}

func TestPoller_QueryErrorsDoNotConsumeBudget(t *testing.T) {
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	scriptStatuses(st, "doc-1", []store.RunStatus{
		"", // query error
		store.RunFail,
		"", // query error
		store.RunFail, // terminal with budget 2
	})

	p := newTestPoller(t, st, 2, 0)
	state := p.Poll(context.Background(), ds, "doc-1")
	assert.Equal(t, StateFailed, state)
}

func TestPoller_UnknownStatusKeepsPolling(t *testing.T) {
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	scriptStatuses(st, "doc-1", []store.RunStatus{
		store.RunStatus("WEIRD_NEW_STATE"),
		store.RunUnstart,
		store.RunDone,
	})

	p := newTestPoller(t, st, 1, 0)
	state := p.Poll(context.Background(), ds, "doc-1")
	assert.Equal(t, StateSuccess, state)
}

func TestPoller_MaxElapsedBoundsForeverInProgress(t *testing.T) {
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	scriptStatuses(st, "doc-1", []store.RunStatus{store.RunRunning})

	p := newTestPoller(t, st, 3, 20*time.Millisecond)
	state := p.Poll(context.Background(), ds, "doc-1")
	assert.Equal(t, StateIndeterminate, state)
}

func TestPoller_ContextCancellation(t *testing.T) {
	st := mock.NewMockStore()
	ds := testDataset(t, st)
	scriptStatuses(st, "doc-1", []store.RunStatus{store.RunRunning})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	p := newTestPoller(t, st, 3, 0)
	state := p.Poll(ctx, ds, "doc-1")
	assert.Equal(t, StateIndeterminate, state)
}

func TestNewPoller_Validation(t *testing.T) {
	st := mock.NewMockStore()

	_, err := NewPoller(nil, 3, time.Second, 0, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPoller(st, 0, time.Second, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidMaxFailures)

	_, err = NewPoller(st, 3, 0, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}
