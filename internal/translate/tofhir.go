package translate

import (
	"context"
	"fmt"

	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/normalize"
	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Translator converts alleles between the VRS model and the FHIR
// Allele profile. Stateless across calls; safe for concurrent use.
type Translator struct {
	repo seqrepo.Repository
	norm *normalize.Normalizer
}

// New creates a Translator backed by the given sequence repository.
func New(repo seqrepo.Repository) *Translator {
	return &Translator{repo: repo, norm: normalize.New(repo)}
}

// emptyStateSentinel stands in for an empty deletion sequence, which
// FHIR cannot carry as an empty string. Reversed on the way back.
const emptyStateSentinel = " "

// ToFHIR converts a VRS allele into a FHIR Allele profile record.
// Literal and length-only states translate; unclassified states fail
// with UnclassifiedStateError.
func (t *Translator) ToFHIR(ctx context.Context, a *vrs.Allele) (*fhir.Allele, error) {
	if a.Location == nil || a.Location.SequenceReference == nil {
		return nil, &UnderspecifiedAlleleError{Missing: "location.sequenceReference"}
	}
	if err := a.Location.Validate(); err != nil {
		return nil, err
	}
	switch a.State.(type) {
	case *vrs.LiteralSequenceExpression, *vrs.ReferenceLengthExpression:
	default:
		typ := ""
		if a.State != nil {
			typ = a.State.StateType()
		}
		return nil, &UnclassifiedStateError{Type: typ}
	}

	handle, err := t.repo.ResolveDigest(ctx, a.Location.SequenceReference.RefgetAccession)
	if err != nil {
		return nil, err
	}
	accession := handle.Accession
	molType, err := vrs.DetectMoleculeType(accession)
	if err != nil {
		return nil, err
	}
	moleculeType := fhir.MoleculeTypeConcept(molType)

	contained := t.buildContainedSequence(a.Location.SequenceReference, accession, moleculeType)

	stateRep, err := t.buildStateRepresentation(a)
	if err != nil {
		return nil, err
	}

	identifiers := mapIdentity(a)
	if identifiers == nil {
		// Default-identifier convention for records with no identity
		// metadata of their own.
		identifiers = []fhir.Identifier{{
			System: fhir.AllelePointers["id"],
			Value:  "ref-to-" + accession,
		}}
	}

	location := fhir.Location{
		ID:        a.Location.ID,
		Extension: locationExtensions(a.Location),
		SequenceLocation: &fhir.SequenceLocation{
			SequenceContext: &fhir.Reference{
				Reference: "#" + contained.ID,
				Type:      fhir.ResourceTypeMolecularDefinition,
				Display:   accession,
			},
			CoordinateInterval: &fhir.CoordinateInterval{
				CoordinateSystem: fhir.ZeroBasedIntervalCoordinateSystem(),
				StartQuantity:    &fhir.Quantity{Value: a.Location.Start},
				EndQuantity:      &fhir.Quantity{Value: a.Location.End},
			},
		},
	}

	return &fhir.Allele{
		ResourceType:   fhir.ResourceTypeMolecularDefinition,
		Meta:           &fhir.Meta{Profile: []string{fhir.AlleleProfileURL}},
		Text:           narrative(a, accession),
		Identifier:     identifiers,
		Contained:      []fhir.Sequence{contained},
		Description:    a.Description,
		MoleculeType:   moleculeType,
		Location:       []fhir.Location{location},
		Representation: []fhir.Representation{stateRep},
	}, nil
}

// buildContainedSequence synthesizes the contained Sequence profile
// that carries the reference-sequence context.
func (t *Translator) buildContainedSequence(ref *vrs.SequenceReference, accession string, moleculeType *fhir.CodeableConcept) fhir.Sequence {
	return fhir.Sequence{
		ResourceType: fhir.ResourceTypeMolecularDefinition,
		ID:           "ref-to-" + vrs.FHIRResourceID(accession),
		Meta:         &fhir.Meta{Profile: []string{fhir.SequenceProfileURL}},
		Extension:    referenceExtensions(ref),
		MoleculeType: moleculeType,
		Representation: []fhir.Representation{{
			Code: []fhir.CodeableConcept{{
				Coding: []fhir.Coding{{System: fhir.SystemRefSeq, Code: accession}},
			}},
		}},
	}
}

// buildStateRepresentation renders the allele state, plus any source
// expressions, as the focused allele-state representation.
func (t *Translator) buildStateRepresentation(a *vrs.Allele) (fhir.Representation, error) {
	rep := fhir.Representation{
		Focus: fhir.AlleleStateFocus(),
		Code:  mapExpressions(a.Expressions),
	}

	switch st := a.State.(type) {
	case *vrs.LiteralSequenceExpression:
		value := st.Sequence
		if value == "" {
			value = emptyStateSentinel
		}
		rep.Literal = &fhir.RepresentationLiteral{
			ID:        st.ID,
			Extension: literalExtensions(st),
			Value:     value,
		}
	case *vrs.ReferenceLengthExpression:
		unit := int64(len(st.Sequence))
		if unit == 0 {
			return rep, &UnsupportedStateError{Reason: "length-only state without a repeat unit"}
		}
		if st.Length%unit != 0 {
			return rep, &UnsupportedStateError{
				Reason: fmt.Sprintf("length %d is not a multiple of repeat unit length %d", st.Length, unit),
			}
		}
		rep.Repeated = &fhir.RepresentationRepeated{
			SequenceMotif: &fhir.RepresentationLiteral{Value: st.Sequence},
			CopyCount:     st.Length / unit,
		}
	}
	return rep, nil
}

// mapExpressions renders VRS expressions as codeable concepts on the
// allele-state representation.
func mapExpressions(exprs []vrs.Expression) []fhir.CodeableConcept {
	if len(exprs) == 0 {
		return nil
	}
	ccs := make([]fhir.CodeableConcept, 0, len(exprs))
	for _, e := range exprs {
		ccs = append(ccs, fhir.CodeableConcept{
			ID: e.ID,
			Coding: []fhir.Coding{{
				Display: e.Syntax,
				Code:    e.Value,
				Version: e.SyntaxVersion,
			}},
		})
	}
	return ccs
}

func narrative(a *vrs.Allele, accession string) *fhir.Narrative {
	var change string
	switch st := a.State.(type) {
	case *vrs.LiteralSequenceExpression:
		if st.Sequence == "" {
			change = "deletion"
		} else {
			change = "alternate state " + st.Sequence
		}
	case *vrs.ReferenceLengthExpression:
		change = fmt.Sprintf("reference-length state of %d residues", st.Length)
	}
	div := fmt.Sprintf(`<div xmlns="http://www.w3.org/1999/xhtml">Allele on %s at [%d, %d): %s</div>`,
		accession, a.Location.Start, a.Location.End, change)
	return &fhir.Narrative{Status: "generated", Div: div}
}

// locationExtensions records sequence-location metadata as provenance
// extensions so it survives the round trip.
func locationExtensions(loc *vrs.SequenceLocation) []fhir.Extension {
	var exts []fhir.Extension
	add := func(key, value string) {
		if value != "" {
			exts = append(exts, fhir.Extension{URL: fhir.SequenceLocationPointers[key], ValueString: value})
		}
	}
	add("name", loc.Name)
	add("description", loc.Description)
	add("digest", loc.Digest)
	for _, alias := range loc.Aliases {
		exts = append(exts, fhir.Extension{URL: fhir.SequenceLocationPointers["aliases"], ValueString: alias})
	}
	return exts
}

// literalExtensions records literal-state metadata as provenance
// extensions.
func literalExtensions(st *vrs.LiteralSequenceExpression) []fhir.Extension {
	var exts []fhir.Extension
	add := func(key, value string) {
		if value != "" {
			exts = append(exts, fhir.Extension{URL: fhir.LiteralExpressionPointers[key], ValueString: value})
		}
	}
	add("name", st.Name)
	add("description", st.Description)
	for _, alias := range st.Aliases {
		exts = append(exts, fhir.Extension{URL: fhir.LiteralExpressionPointers["aliases"], ValueString: alias})
	}
	return exts
}

// referenceExtensions records sequence-reference metadata as
// provenance extensions on the contained Sequence.
func referenceExtensions(ref *vrs.SequenceReference) []fhir.Extension {
	var exts []fhir.Extension
	add := func(key, value string) {
		if value != "" {
			exts = append(exts, fhir.Extension{URL: fhir.SequenceReferencePointers[key], ValueString: value})
		}
	}
	add("id", ref.ID)
	add("name", ref.Name)
	add("description", ref.Description)
	for _, alias := range ref.Aliases {
		exts = append(exts, fhir.Extension{URL: fhir.SequenceReferencePointers["aliases"], ValueString: alias})
	}
	return exts
}
