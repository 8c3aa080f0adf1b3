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

func TestTrigger_RequestsParseAfterGrace(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)

	trigger := NewTrigger(st, 5*time.Millisecond, nil)
	start := time.Now()
	err = trigger.Trigger(context.Background(), ds, []string{"doc-1"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
	assert.Equal(t, 1, st.CallCount("TriggerParse"))
}

func TestTrigger_SubmissionFailure(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)
	st.TriggerParseFunc = func(ctx context.Context, dataset *store.Dataset, documentIDs []string) error {
		return errors.New("parse queue unavailable")
	}

	trigger := NewTrigger(st, 0, nil)
	err = trigger.Trigger(context.Background(), ds, []string{"doc-1"})
	require.Error(t, err)
}

func TestTrigger_ContextCanceledDuringGrace(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trigger := NewTrigger(st, time.Minute, nil)
	err = trigger.Trigger(ctx, ds, []string{"doc-1"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.CallCount("TriggerParse"))
}

func TestTrigger_EmptyBatch(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)

	trigger := NewTrigger(st, 0, nil)
	err = trigger.Trigger(context.Background(), ds, nil)
	assert.ErrorIs(t, err, store.ErrNoDocumentIDs)
}
