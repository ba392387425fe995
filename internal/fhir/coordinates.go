package fhir

import (
	"fmt"
	"strings"
)

// Terminology systems used by synthesized records.
const (
	SystemLOINC               = "http://loinc.org"
	SystemSequenceType        = "http://hl7.org/fhir/sequence-type"
	SystemMolecularFocus      = "http://hl7.org/fhir/moleculardefinition-focus"
	SystemRefSeq              = "http://www.ncbi.nlm.nih.gov/refseq"
	SystemCoordinateOrigin    = "http://hl7.org/fhir/uv/molecular-definition-data-types/CodeSystem/coordinate-origin"
	SystemNormalizationMethod = "http://hl7.org/fhir/uv/molecular-definition-data-types/CodeSystem/normalization-method"
)

// Coordinate counting conventions.
const (
	DisplayZeroBasedInterval  = "0-based interval counting"
	DisplayZeroBasedCharacter = "0-based character counting"
	DisplayOneBasedCharacter  = "1-based character counting"

	codeZeroBasedInterval = "LA30100-4"
	codeOneBasedCharacter = "LA30102-0"
)

// UnsupportedCoordinateSystemError reports a coordinate-system display
// the translator cannot adjust for.
type UnsupportedCoordinateSystemError struct {
	System string
}

func (e *UnsupportedCoordinateSystemError) Error() string {
	return fmt.Sprintf("unsupported coordinate system %q", e.System)
}

// startAdjustments converts a coordinate-system display to the offset
// added to start positions to reach 0-based interbase counting.
var startAdjustments = map[string]int64{
	DisplayZeroBasedInterval:  0,
	DisplayZeroBasedCharacter: 1,
	DisplayOneBasedCharacter:  -1,
}

// StartAdjustment returns the offset that maps a start coordinate in
// the named counting convention onto 0-based interbase.
func StartAdjustment(display string) (int64, error) {
	adj, ok := startAdjustments[display]
	if !ok {
		return 0, &UnsupportedCoordinateSystemError{System: display}
	}
	return adj, nil
}

// ZeroBasedIntervalCoordinateSystem builds the fixed coordinate-system
// element stamped on records synthesized from VRS alleles: 0-based
// interval counting from the sequence start, fully-justified.
func ZeroBasedIntervalCoordinateSystem() *CoordinateSystem {
	return &CoordinateSystem{
		System: &CodeableConcept{Coding: []Coding{{
			System:  SystemLOINC,
			Code:    codeZeroBasedInterval,
			Display: DisplayZeroBasedInterval,
		}}},
		Origin: &CodeableConcept{Coding: []Coding{{
			System:  SystemCoordinateOrigin,
			Code:    "sequence-start",
			Display: "Sequence start",
		}}},
		NormalizationMethod: &CodeableConcept{Coding: []Coding{{
			System:  SystemNormalizationMethod,
			Code:    "fully-justified",
			Display: "Fully justified",
		}}},
	}
}

// AlleleStateFocus builds the fixed focus element marking the
// allele-state representation.
func AlleleStateFocus() *CodeableConcept {
	return &CodeableConcept{Coding: []Coding{{
		System:  SystemMolecularFocus,
		Code:    "allele-state",
		Display: "Allele State",
	}}}
}

// MoleculeTypeConcept builds the moleculeType element for a detected
// sequence type (DNA, RNA, protein).
func MoleculeTypeConcept(sequenceType string) *CodeableConcept {
	return &CodeableConcept{Coding: []Coding{{
		System:  SystemSequenceType,
		Code:    strings.ToLower(sequenceType),
		Display: sequenceType + " Sequence",
	}}}
}
