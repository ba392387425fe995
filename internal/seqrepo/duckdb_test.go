package seqrepo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())

	n, err := s.SequenceCount()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStoreAddAndResolve(t *testing.T) {
	s := openInMemory(t)
	h := s.Add("NC_000001.11", "ACGTACGT")
	assert.Equal(t, "DNA", h.MoleculeType)

	got, err := s.Resolve(t.Context(), "NC_000001.11")
	require.NoError(t, err)
	assert.Equal(t, h, got)

	byDigest, err := s.ResolveDigest(t.Context(), h.RefgetAccession)
	require.NoError(t, err)
	assert.Equal(t, h, byDigest)

	_, err = s.Resolve(t.Context(), "NC_000099.1")
	var unresolved *UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
}

func TestStoreAddReplaces(t *testing.T) {
	s := openInMemory(t)
	s.Add("NM_000769.4", "AUGGCC")
	s.Add("NM_000769.4", "AUGGCCAUG")

	n, err := s.SequenceCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	h, err := s.Resolve(t.Context(), "NM_000769.4")
	require.NoError(t, err)
	assert.Equal(t, int64(9), h.Length)
}

func TestStoreSubsequence(t *testing.T) {
	s := openInMemory(t)
	h := s.Add("NC_000001.11", "ACGTACGT")

	tests := []struct {
		name    string
		start   int64
		end     int64
		want    string
		wantErr bool
	}{
		{"middle", 2, 5, "GTA", false},
		{"full", 0, 8, "ACGTACGT", false},
		{"empty interval", 3, 3, "", false},
		{"past end", 4, 9, "", true},
		{"inverted", 5, 4, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Subsequence(t.Context(), h, tt.start, tt.end)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreAsFASTASink(t *testing.T) {
	// The store satisfies both sink flavors; the loader picks the
	// failable one so write errors surface.
	var _ SequenceSink = (*Store)(nil)
	var _ FailableSink = (*Store)(nil)
}

func TestStoreAddSequenceSurfacesWriteErrors(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.AddSequence("NC_000001.11", "ACGT")
	require.Error(t, err)
}
