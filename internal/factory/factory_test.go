package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

func testRepo(t *testing.T) *seqrepo.Memory {
	t.Helper()
	repo := seqrepo.NewMemory()
	repo.Add("NC_000002.12", "AAAACAAAA")
	return repo
}

func TestVRSAlleleDefaults(t *testing.T) {
	f := New(testRepo(t))

	a, err := f.VRSAllele(context.Background(), Params{
		Accession: "NC_000002.12",
		Start:     4,
		End:       5,
		State:     "T",
		Normalize: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "ref-to-NC_000002.12", a.ID)
	assert.True(t, a.WellFormed())
	assert.Equal(t, int64(4), a.Location.Start)
	assert.NotEmpty(t, a.Digest)
	assert.NotEmpty(t, a.Location.Digest)
	assert.Equal(t, "T", a.State.(*vrs.LiteralSequenceExpression).Sequence)
}

func TestVRSAlleleCustomID(t *testing.T) {
	f := New(testRepo(t))

	a, err := f.VRSAllele(context.Background(), Params{
		Accession: "NC_000002.12",
		Start:     4,
		End:       5,
		State:     "T",
		ID:        "my-allele",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-allele", a.ID)
	// Normalization was not requested: no digest stamped.
	assert.Empty(t, a.Digest)
}

func TestVRSAlleleNormalizesPlacement(t *testing.T) {
	f := New(testRepo(t))

	// Deleting the A at [3, 4) shifts to the homopolymer's left edge.
	a, err := f.VRSAllele(context.Background(), Params{
		Accession: "NC_000002.12",
		Start:     3,
		End:       4,
		State:     "",
		Normalize: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), a.Location.Start)
	assert.Equal(t, int64(1), a.Location.End)
}

func TestVRSAlleleErrors(t *testing.T) {
	f := New(testRepo(t))
	ctx := context.Background()

	t.Run("invalid accession", func(t *testing.T) {
		_, err := f.VRSAllele(ctx, Params{Accession: "chr2", Start: 0, End: 1, State: "T"})
		require.Error(t, err)
	})

	t.Run("unresolved accession", func(t *testing.T) {
		_, err := f.VRSAllele(ctx, Params{Accession: "NC_000003.12", Start: 0, End: 1, State: "T"})
		var unresolved *seqrepo.UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
	})

	t.Run("invalid interval", func(t *testing.T) {
		_, err := f.VRSAllele(ctx, Params{Accession: "NC_000002.12", Start: 5, End: 3, State: "T"})
		var ie *vrs.InvalidIntervalError
		require.ErrorAs(t, err, &ie)
	})
}

func TestFHIRAllele(t *testing.T) {
	f := New(testRepo(t))

	record, err := f.FHIRAllele(context.Background(), Params{
		Accession: "NC_000002.12",
		Start:     4,
		End:       5,
		State:     "T",
		Normalize: true,
	})
	require.NoError(t, err)

	assert.Equal(t, fhir.ResourceTypeMolecularDefinition, record.ResourceType)
	require.NotEmpty(t, record.Identifier)
	assert.Equal(t, "ref-to-NC_000002.12", record.Identifier[0].Value)
	require.Len(t, record.Representation, 1)
	assert.Equal(t, "T", record.Representation[0].Literal.Value)
}
