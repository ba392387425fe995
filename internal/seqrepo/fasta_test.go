package seqrepo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFASTA = `>NC_000001.11 Homo sapiens chromosome 1
ACGTACGT
ACGT
>NM_000769.4|some|pipe|header
AUGGCCAUG
`

func TestFASTALoaderLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fa")
	require.NoError(t, os.WriteFile(path, []byte(testFASTA), 0644))

	repo := NewMemory()
	n, err := NewFASTALoader(path).Load(repo)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, repo.SequenceCount())

	h, err := repo.Resolve(t.Context(), "NC_000001.11")
	require.NoError(t, err)
	// Sequence lines are concatenated.
	assert.Equal(t, int64(12), h.Length)

	h, err = repo.Resolve(t.Context(), "NM_000769.4")
	require.NoError(t, err)
	assert.Equal(t, "RNA", h.MoleculeType)
}

func TestFASTALoaderGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fa.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(testFASTA))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	repo := NewMemory()
	n, err := NewFASTALoader(path).Load(repo)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// failingSink rejects every write, standing in for a store whose
// inserts fail.
type failingSink struct {
	*Memory
}

func (s *failingSink) AddSequence(accession, sequence string) (*Handle, error) {
	return nil, errors.New("disk full")
}

func TestFASTALoaderSurfacesSinkErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.fa")
	require.NoError(t, os.WriteFile(path, []byte(testFASTA), 0644))

	sink := &failingSink{Memory: NewMemory()}
	n, err := NewFASTALoader(path).Load(sink)
	require.ErrorContains(t, err, "disk full")
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, sink.SequenceCount())
}

func TestFASTALoaderMissingFile(t *testing.T) {
	_, err := NewFASTALoader(filepath.Join(t.TempDir(), "absent.fa")).Load(NewMemory())
	require.Error(t, err)
}

func TestParseFASTAHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{">NC_000001.11 Homo sapiens", "NC_000001.11"},
		{">NC_000001.11", "NC_000001.11"},
		{">NM_000769.4|RefSeq|mRNA", "NM_000769.4"},
		{">acc\tdescription", "acc"},
	}

	for _, tt := range tests {
		if got := parseFASTAHeader(tt.header); got != tt.want {
			t.Errorf("parseFASTAHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
