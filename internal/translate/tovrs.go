package translate

import (
	"context"
	"strings"

	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// ToVRS reconstructs a VRS allele from a FHIR Allele profile record.
// The result is normalized and identified, so translating a record
// produced by ToFHIR yields the allele it came from.
func (t *Translator) ToVRS(ctx context.Context, a *fhir.Allele) (*vrs.Allele, error) {
	loc, err := alleleLocation(a)
	if err != nil {
		return nil, err
	}

	accession, contained, err := referenceContext(a, loc)
	if err != nil {
		return nil, err
	}
	handle, err := t.repo.Resolve(ctx, accession)
	if err != nil {
		return nil, err
	}

	start, end, err := coordinates(loc)
	if err != nil {
		return nil, err
	}

	stateRep, err := alleleStateRepresentation(a)
	if err != nil {
		return nil, err
	}
	state, err := extractState(stateRep)
	if err != nil {
		return nil, err
	}

	ref := handle.SequenceReference()
	if contained != nil {
		applyReferenceExtensions(ref, contained.Extension)
	}

	out := &vrs.Allele{
		Description: a.Description,
		Expressions: extractExpressions(stateRep.Code),
		Location: &vrs.SequenceLocation{
			ID:                loc.ID,
			SequenceReference: ref,
			Start:             start,
			End:               end,
		},
		State: state,
	}
	applyLocationExtensions(out.Location, loc.Extension)
	extractIdentity(out, a.Identifier)

	norm, err := t.norm.Allele(ctx, out)
	if err != nil {
		return nil, err
	}
	// Only digests computed here; identity carried over wins.
	if out.ID != "" {
		norm.ID = out.ID
	}
	if out.Digest != "" {
		norm.Digest = out.Digest
	}
	return norm, nil
}

// alleleLocation picks the location element carrying the sequence
// placement.
func alleleLocation(a *fhir.Allele) (*fhir.Location, error) {
	for i := range a.Location {
		if a.Location[i].SequenceLocation != nil {
			return &a.Location[i], nil
		}
	}
	return nil, &UnderspecifiedAlleleError{Missing: "location.sequenceLocation"}
}

// referenceContext resolves the contained Sequence the location points
// at and extracts its RefSeq accession.
func referenceContext(a *fhir.Allele, loc *fhir.Location) (string, *fhir.Sequence, error) {
	sc := loc.SequenceLocation.SequenceContext
	if sc == nil || sc.Reference == "" {
		return "", nil, &UnderspecifiedAlleleError{Missing: "location.sequenceLocation.sequenceContext"}
	}
	id := strings.TrimPrefix(sc.Reference, "#")
	for i := range a.Contained {
		if a.Contained[i].ID != id {
			continue
		}
		seq := &a.Contained[i]
		if acc := refseqCode(seq); acc != "" {
			return acc, seq, nil
		}
		return "", nil, &UnderspecifiedAlleleError{Missing: "contained sequence RefSeq code"}
	}
	// Tolerate records that name the accession on the reference itself.
	if sc.Display != "" {
		return sc.Display, nil, nil
	}
	return "", nil, &UnderspecifiedAlleleError{Missing: "contained sequence " + sc.Reference}
}

// refseqCode finds the RefSeq accession coded on a contained Sequence.
func refseqCode(seq *fhir.Sequence) string {
	for _, rep := range seq.Representation {
		for _, cc := range rep.Code {
			for _, c := range cc.Coding {
				if c.System == fhir.SystemRefSeq {
					return c.Code
				}
			}
		}
	}
	return ""
}

// coordinates reads the interval, converting the record's counting
// convention onto 0-based interbase.
func coordinates(loc *fhir.Location) (int64, int64, error) {
	ci := loc.SequenceLocation.CoordinateInterval
	if ci == nil || ci.StartQuantity == nil || ci.EndQuantity == nil {
		return 0, 0, &UnderspecifiedAlleleError{Missing: "location.sequenceLocation.coordinateInterval"}
	}
	adj := int64(0)
	if cs := ci.CoordinateSystem; cs != nil && cs.System != nil {
		var err error
		adj, err = fhir.StartAdjustment(coordinateSystemDisplay(cs.System))
		if err != nil {
			return 0, 0, err
		}
	}
	return ci.StartQuantity.Value + adj, ci.EndQuantity.Value, nil
}

func coordinateSystemDisplay(cc *fhir.CodeableConcept) string {
	for _, c := range cc.Coding {
		if c.Display != "" {
			return c.Display
		}
	}
	return cc.Text
}

// alleleStateRepresentation picks the representation focused on the
// allele state. A record with exactly one representation is accepted
// without a focus.
func alleleStateRepresentation(a *fhir.Allele) (*fhir.Representation, error) {
	for i := range a.Representation {
		rep := &a.Representation[i]
		if rep.Focus == nil {
			continue
		}
		for _, c := range rep.Focus.Coding {
			if c.Code == "allele-state" {
				return rep, nil
			}
		}
	}
	if len(a.Representation) == 1 {
		return &a.Representation[0], nil
	}
	return nil, &UnderspecifiedAlleleError{Missing: "allele-state representation"}
}

// extractState converts the focused representation into a VRS state.
func extractState(rep *fhir.Representation) (vrs.State, error) {
	switch {
	case rep.Literal != nil:
		seq := rep.Literal.Value
		if seq == emptyStateSentinel {
			seq = ""
		}
		st := &vrs.LiteralSequenceExpression{ID: rep.Literal.ID, Sequence: seq}
		applyLiteralExtensions(st, rep.Literal.Extension)
		return st, nil
	case rep.Repeated != nil:
		if rep.Repeated.SequenceMotif == nil || rep.Repeated.SequenceMotif.Value == "" {
			return nil, &UnderspecifiedAlleleError{Missing: "repeated representation sequenceMotif"}
		}
		motif := rep.Repeated.SequenceMotif.Value
		unit := int64(len(motif))
		return &vrs.ReferenceLengthExpression{
			Length:        rep.Repeated.CopyCount * unit,
			RepeatSubunit: unit,
			Sequence:      motif,
		}, nil
	}
	return nil, &UnderspecifiedAlleleError{Missing: "literal or repeated representation"}
}

// extractExpressions reads nomenclature renderings off the allele-state
// representation codes.
func extractExpressions(codes []fhir.CodeableConcept) []vrs.Expression {
	var exprs []vrs.Expression
	for _, cc := range codes {
		for _, c := range cc.Coding {
			exprs = append(exprs, vrs.Expression{
				ID:            cc.ID,
				Syntax:        c.Display,
				Value:         c.Code,
				SyntaxVersion: c.Version,
			})
		}
	}
	return exprs
}

// extensionValues collects every value recorded under a pointer URL.
func extensionValues(exts []fhir.Extension, url string) []string {
	var values []string
	for _, e := range exts {
		if e.URL == url {
			values = append(values, e.ValueString)
		}
	}
	return values
}

func firstExtensionValue(exts []fhir.Extension, url string) string {
	for _, e := range exts {
		if e.URL == url {
			return e.ValueString
		}
	}
	return ""
}

// applyLocationExtensions restores location metadata recorded as
// provenance extensions.
func applyLocationExtensions(loc *vrs.SequenceLocation, exts []fhir.Extension) {
	loc.Name = firstExtensionValue(exts, fhir.SequenceLocationPointers["name"])
	loc.Description = firstExtensionValue(exts, fhir.SequenceLocationPointers["description"])
	loc.Digest = firstExtensionValue(exts, fhir.SequenceLocationPointers["digest"])
	loc.Aliases = extensionValues(exts, fhir.SequenceLocationPointers["aliases"])
}

// applyLiteralExtensions restores literal-state metadata recorded as
// provenance extensions.
func applyLiteralExtensions(st *vrs.LiteralSequenceExpression, exts []fhir.Extension) {
	st.Name = firstExtensionValue(exts, fhir.LiteralExpressionPointers["name"])
	st.Description = firstExtensionValue(exts, fhir.LiteralExpressionPointers["description"])
	st.Aliases = extensionValues(exts, fhir.LiteralExpressionPointers["aliases"])
}

// applyReferenceExtensions restores sequence-reference metadata
// recorded as provenance extensions on the contained Sequence.
func applyReferenceExtensions(ref *vrs.SequenceReference, exts []fhir.Extension) {
	ref.ID = firstExtensionValue(exts, fhir.SequenceReferencePointers["id"])
	ref.Name = firstExtensionValue(exts, fhir.SequenceReferencePointers["name"])
	ref.Description = firstExtensionValue(exts, fhir.SequenceReferencePointers["description"])
	ref.Aliases = extensionValues(exts, fhir.SequenceReferencePointers["aliases"])
}
