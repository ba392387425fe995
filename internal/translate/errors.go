// Package translate converts alleles between the VRS model and the
// FHIR MolecularDefinition Allele profile, in both directions, driven
// by a declarative field-correspondence table.
package translate

import "fmt"

// UnclassifiedStateError reports a state tag that is neither literal
// nor length-only; such alleles are representable but not translatable.
type UnclassifiedStateError struct {
	Type string
}

func (e *UnclassifiedStateError) Error() string {
	return fmt.Sprintf("cannot translate unclassified state type %q", e.Type)
}

// UnderspecifiedAlleleError reports a target-schema record missing a
// field required to reconstruct a VRS allele.
type UnderspecifiedAlleleError struct {
	Missing string
}

func (e *UnderspecifiedAlleleError) Error() string {
	return fmt.Sprintf("allele profile missing required %s", e.Missing)
}

// UnsupportedStateError reports a state shape the target schema cannot
// represent.
type UnsupportedStateError struct {
	Reason string
}

func (e *UnsupportedStateError) Error() string {
	return "unsupported state: " + e.Reason
}
