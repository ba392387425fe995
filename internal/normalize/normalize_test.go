package normalize

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// repeatRepo loads a small reference with an AC-repeat tract so shift
// behavior is easy to trace by hand:
//
//	index:  0 1 2 3 4 5 6 7 8
//	base:   G C A C A C A C T
func repeatRepo(t *testing.T) (*seqrepo.Memory, *seqrepo.Handle) {
	t.Helper()
	repo := seqrepo.NewMemory()
	h := repo.Add("NC_000001.11", "GCACACACT")
	return repo, h
}

func location(h *seqrepo.Handle, start, end int64) *vrs.SequenceLocation {
	return &vrs.SequenceLocation{
		SequenceReference: h.SequenceReference(),
		Start:             start,
		End:               end,
	}
}

func TestNormalizeSubstitution(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)

	// G>T at position 0: nothing shared with the reference, nothing moves.
	loc, state, err := n.Normalize(context.Background(), location(h, 0, 1), &vrs.LiteralSequenceExpression{Sequence: "T"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), loc.Start)
	assert.Equal(t, int64(1), loc.End)
	assert.Equal(t, "T", state.(*vrs.LiteralSequenceExpression).Sequence)
}

func TestNormalizeTrimsSharedResidues(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)

	// State equals the reference inside the interval: trims to an empty
	// change at the interval start.
	loc, state, err := n.Normalize(context.Background(), location(h, 2, 5), &vrs.LiteralSequenceExpression{Sequence: "ACA"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), loc.Start)
	assert.Equal(t, int64(2), loc.End)
	assert.Equal(t, "", state.(*vrs.LiteralSequenceExpression).Sequence)
}

func TestNormalizeDeletionLeftShift(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)

	// Deleting "CA" at [5, 7) is equivalent to deleting any repeat unit
	// in the tract; canonical form has the minimal start.
	loc, state, err := n.Normalize(context.Background(), location(h, 5, 7), &vrs.LiteralSequenceExpression{Sequence: ""})
	require.NoError(t, err)
	assert.Equal(t, int64(1), loc.Start)
	assert.Equal(t, int64(3), loc.End)
	assert.Equal(t, "", state.(*vrs.LiteralSequenceExpression).Sequence)
}

func TestNormalizeInsertionLeftShift(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)

	// Inserting "AC" at interbase 8 extends the repeat tract; the
	// canonical placement is at the tract's left edge, with the unit
	// rotated accordingly.
	loc, state, err := n.Normalize(context.Background(), location(h, 8, 8), &vrs.LiteralSequenceExpression{Sequence: "AC"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), loc.Start)
	assert.Equal(t, int64(1), loc.End)
	assert.Equal(t, "CA", state.(*vrs.LiteralSequenceExpression).Sequence)
}

func TestNormalizeIdempotent(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)
	ctx := context.Background()

	cases := []struct {
		name  string
		start int64
		end   int64
		state string
	}{
		{"substitution", 0, 1, "T"},
		{"deletion in repeat", 5, 7, ""},
		{"insertion in repeat", 8, 8, "AC"},
		{"delins", 2, 6, "TT"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			loc1, st1, err := n.Normalize(ctx, location(h, tt.start, tt.end), &vrs.LiteralSequenceExpression{Sequence: tt.state})
			require.NoError(t, err)
			loc2, st2, err := n.Normalize(ctx, loc1, st1)
			require.NoError(t, err)
			assert.Equal(t, loc1.Start, loc2.Start)
			assert.Equal(t, loc1.End, loc2.End)
			assert.Equal(t, st1, st2)
		})
	}
}

func TestNormalizeLengthOnlyPassThrough(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)

	in := &vrs.ReferenceLengthExpression{Length: 8, RepeatSubunit: 2, Sequence: "CA"}
	loc, state, err := n.Normalize(context.Background(), location(h, 1, 9), in)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loc.Start)
	assert.Equal(t, int64(9), loc.End)
	assert.Equal(t, in, state)

	// Pass-through still returns copies, not the inputs.
	assert.NotSame(t, in, state)
}

func TestNormalizeErrors(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)
	ctx := context.Background()

	t.Run("invalid interval", func(t *testing.T) {
		_, _, err := n.Normalize(ctx, location(h, 5, 3), &vrs.LiteralSequenceExpression{Sequence: "T"})
		var ie *vrs.InvalidIntervalError
		require.ErrorAs(t, err, &ie)
	})

	t.Run("unresolved reference", func(t *testing.T) {
		loc := &vrs.SequenceLocation{
			SequenceReference: &vrs.SequenceReference{RefgetAccession: "SQ.unknown"},
			Start:             0,
			End:               1,
		}
		_, _, err := n.Normalize(ctx, loc, &vrs.LiteralSequenceExpression{Sequence: "T"})
		var unresolved *seqrepo.UnresolvedReferenceError
		require.ErrorAs(t, err, &unresolved)
	})

	t.Run("unclassified state", func(t *testing.T) {
		_, _, err := n.Normalize(ctx, location(h, 0, 1), &vrs.UnclassifiedState{Type: "CisPhasedBlock"})
		require.Error(t, err)
	})
}

func TestAlleleStampsIdentifiers(t *testing.T) {
	repo, h := repeatRepo(t)
	n := New(repo)

	in := &vrs.Allele{
		Location: location(h, 5, 7),
		State:    &vrs.LiteralSequenceExpression{Sequence: ""},
	}
	out, err := n.Allele(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.ID, "ga4gh:VA."))
	assert.True(t, strings.HasPrefix(out.Location.ID, "ga4gh:SL."))
	assert.Equal(t, int64(1), out.Location.Start)

	// Input allele is left untouched.
	assert.Equal(t, int64(5), in.Location.Start)
	assert.Empty(t, in.ID)
}

func TestNormalizeLongTractLeftShift(t *testing.T) {
	repo := seqrepo.NewMemory()
	// A homopolymer far longer than one flank chunk: deleting one unit
	// from the right end must still reach the tract's left edge.
	tract := strings.Repeat("A", 100)
	h := repo.Add("NC_000002.12", "G"+tract+"T")
	n := New(repo)
	ctx := context.Background()

	loc, state, err := n.Normalize(ctx, location(h, 100, 101), &vrs.LiteralSequenceExpression{Sequence: ""})
	require.NoError(t, err)
	assert.Equal(t, "", state.(*vrs.LiteralSequenceExpression).Sequence)
	assert.Equal(t, int64(1), loc.Start)
	assert.Equal(t, int64(2), loc.End)

	// Re-normalizing the canonical form changes nothing.
	loc2, state2, err := n.Normalize(ctx, loc, state)
	require.NoError(t, err)
	assert.Equal(t, loc.Start, loc2.Start)
	assert.Equal(t, loc.End, loc2.End)
	assert.Equal(t, state, state2)
}

func TestNormalizeLongTractInsertionToSequenceStart(t *testing.T) {
	repo := seqrepo.NewMemory()
	// The tract begins at position 0, so the roll must stop there rather
	// than run out of reference.
	h := repo.Add("NC_000003.12", strings.Repeat("A", 80)+"C")
	n := New(repo)

	loc, state, err := n.Normalize(context.Background(), location(h, 80, 80), &vrs.LiteralSequenceExpression{Sequence: "A"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), loc.Start)
	assert.Equal(t, int64(0), loc.End)
	assert.Equal(t, "A", state.(*vrs.LiteralSequenceExpression).Sequence)
}
