// Package normalize reduces an allele's location/state representation
// to its canonical form: trimmed against the reference and, for
// indels, left-shifted to the minimal-start equivalent.
package normalize

import (
	"context"
	"fmt"

	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// shiftMargin sizes the flanking reference chunks fetched during the
// left-shift search, relative to the rolling unit length.
const shiftMargin = 32

// Normalizer canonicalizes alleles against a sequence repository.
type Normalizer struct {
	repo seqrepo.Repository
}

// New creates a Normalizer backed by the given repository.
func New(repo seqrepo.Repository) *Normalizer {
	return &Normalizer{repo: repo}
}

// Allele normalizes a whole allele and stamps digest-based
// identifiers on the result. The input is not mutated.
func (n *Normalizer) Allele(ctx context.Context, a *vrs.Allele) (*vrs.Allele, error) {
	loc, state, err := n.Normalize(ctx, a.Location, a.State)
	if err != nil {
		return nil, err
	}
	out := *a
	out.Location = loc
	out.State = state
	return vrs.Identify(&out), nil
}

// Normalize canonicalizes a (location, state) pair. Deterministic and
// idempotent. Length-only states pass through after interval
// validation; literal states are trimmed against the reference inside
// the interval and indels are left-shifted to the smallest equivalent
// start position.
func (n *Normalizer) Normalize(ctx context.Context, loc *vrs.SequenceLocation, state vrs.State) (*vrs.SequenceLocation, vrs.State, error) {
	if err := loc.Validate(); err != nil {
		return nil, nil, err
	}

	switch st := state.(type) {
	case *vrs.ReferenceLengthExpression:
		// Length-only alleles carry no literal content to re-justify.
		outLoc := *loc
		outState := *st
		return &outLoc, &outState, nil
	case *vrs.LiteralSequenceExpression:
		return n.normalizeLiteral(ctx, loc, st)
	default:
		return nil, nil, fmt.Errorf("cannot normalize state type %q", state.StateType())
	}
}

func (n *Normalizer) normalizeLiteral(ctx context.Context, loc *vrs.SequenceLocation, st *vrs.LiteralSequenceExpression) (*vrs.SequenceLocation, vrs.State, error) {
	handle, err := n.resolve(ctx, loc)
	if err != nil {
		return nil, nil, err
	}

	ref, err := n.repo.Subsequence(ctx, handle, loc.Start, loc.End)
	if err != nil {
		return nil, nil, err
	}
	alt := st.Sequence
	start, end := loc.Start, loc.End

	// Trim residues shared between the reference inside the interval
	// and the state, suffix first, then prefix.
	for len(ref) > 0 && len(alt) > 0 && ref[len(ref)-1] == alt[len(alt)-1] {
		ref = ref[:len(ref)-1]
		alt = alt[:len(alt)-1]
		end--
	}
	for len(ref) > 0 && len(alt) > 0 && ref[0] == alt[0] {
		ref = ref[1:]
		alt = alt[1:]
		start++
	}

	// Pure insertion or deletion: roll left to the smallest start among
	// all equivalent placements. The rolling unit is whichever side is
	// non-empty. Flanking reference is fetched in bounded chunks; the
	// roll continues across chunks until a mismatch or position 0, so
	// the result is a fixpoint no matter how long the repeat tract is.
	if (len(ref) == 0) != (len(alt) == 0) {
		unit := ref
		if len(unit) == 0 {
			unit = alt
		}
		window := int64(len(unit) + shiftMargin)
		for start > 0 {
			winStart := start - window
			if winStart < 0 {
				winStart = 0
			}
			flank, err := n.repo.Subsequence(ctx, handle, winStart, start)
			if err != nil {
				return nil, nil, err
			}
			for len(flank) > 0 && flank[len(flank)-1] == unit[len(unit)-1] {
				unit = string(unit[len(unit)-1]) + unit[:len(unit)-1]
				flank = flank[:len(flank)-1]
				start--
				end--
			}
			if len(flank) > 0 {
				break
			}
		}
		if len(ref) > 0 {
			ref = unit
		} else {
			alt = unit
		}
	}

	outLoc := *loc
	outLoc.Start = start
	outLoc.End = end
	outLoc.Sequence = ""
	outState := *st
	outState.Sequence = alt
	return &outLoc, &outState, nil
}

func (n *Normalizer) resolve(ctx context.Context, loc *vrs.SequenceLocation) (*seqrepo.Handle, error) {
	ref := loc.SequenceReference
	if ref == nil {
		return nil, &seqrepo.UnresolvedReferenceError{Accession: ""}
	}
	if ref.RefgetAccession != "" {
		return n.repo.ResolveDigest(ctx, ref.RefgetAccession)
	}
	if ref.ID != "" {
		return n.repo.Resolve(ctx, ref.ID)
	}
	return nil, &seqrepo.UnresolvedReferenceError{Accession: ref.Name}
}
