package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/ragline/store"
	"github.com/poiesic/ragline/store/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want Policy
	}{
		{"skip_name", PolicySkipName},
		{"", PolicySkipName}, // default
		{"skip_content", PolicySkipContent},
		{"replace", PolicyReplace},
		{"allow", PolicyAllow},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		require.NoError(t, err, "ParsePolicy(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParsePolicy(%q)", tt.in)
	}

	_, err := ParsePolicy("merge")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestPolicyString_RoundTrips(t *testing.T) {
	for _, p := range []Policy{PolicySkipName, PolicySkipContent, PolicyReplace, PolicyAllow} {
		parsed, err := ParsePolicy(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
}

func TestResolver_MatchNeverAllowed(t *testing.T) {
	// Under any policy except allow, an existing match must never
	// resolve to ActionAllow.
	for _, policy := range []Policy{PolicySkipName, PolicySkipContent, PolicyReplace} {
		t.Run(policy.String(), func(t *testing.T) {
			st := mock.NewMockStore()
			ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
			require.NoError(t, err)
			st.SeedDocument(ds, store.Document{ID: "doc-old", Name: "report.pdf"})

			resolver := NewResolver(st, nil)
			resolution := resolver.Resolve(context.Background(), ds, "report.pdf", policy)
			assert.NotEqual(t, ActionAllow, resolution.Action)
		})
	}
}

func TestResolver_SkipPolicies(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)
	st.SeedDocument(ds, store.Document{ID: "doc-old", Name: "report.pdf"})

	resolver := NewResolver(st, nil)
	for _, policy := range []Policy{PolicySkipName, PolicySkipContent} {
		resolution := resolver.Resolve(context.Background(), ds, "report.pdf", policy)
		assert.Equal(t, ActionSkip, resolution.Action)
		assert.Empty(t, resolution.ExistingIDs)
	}
}

func TestResolver_ReplaceCarriesMatchedIDs(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)
	st.SeedDocument(ds, store.Document{ID: "doc-1", Name: "report.pdf"})
	st.SeedDocument(ds, store.Document{ID: "doc-2", Name: "report.pdf"})

	resolver := NewResolver(st, nil)
	resolution := resolver.Resolve(context.Background(), ds, "report.pdf", PolicyReplace)
	assert.Equal(t, ActionReplace, resolution.Action)
	assert.Equal(t, []string{"doc-1", "doc-2"}, resolution.ExistingIDs)
}

func TestResolver_NoMatchAllows(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)

	resolver := NewResolver(st, nil)
	resolution := resolver.Resolve(context.Background(), ds, "brand-new.pdf", PolicySkipName)
	assert.Equal(t, ActionAllow, resolution.Action)
}

func TestResolver_AllowIssuesNoQuery(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)
	st.SeedDocument(ds, store.Document{ID: "doc-old", Name: "report.pdf"})
	st.ResetCalls()

	resolver := NewResolver(st, nil)
	resolution := resolver.Resolve(context.Background(), ds, "report.pdf", PolicyAllow)
	assert.Equal(t, ActionAllow, resolution.Action)
	assert.Zero(t, st.CallCount("ListDocuments"), "allow must not query the store")
}

func TestResolver_QueryErrorFailsOpen(t *testing.T) {
	st := mock.NewMockStore()
	ds, err := st.FindOrCreateDataset(context.Background(), "papers", "")
	require.NoError(t, err)
	st.ListDocumentsFunc = func(ctx context.Context, dataset *store.Dataset, opts store.ListOptions) ([]store.Document, error) {
		return nil, errors.New("network blip")
	}

	resolver := NewResolver(st, nil)
	resolution := resolver.Resolve(context.Background(), ds, "report.pdf", PolicySkipName)
	assert.Equal(t, ActionAllow, resolution.Action,
		"a query error must not silently drop a legitimate new file")
}
