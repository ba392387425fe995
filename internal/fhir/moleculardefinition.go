package fhir

// Resource type tags and the profile URLs stamped on synthesized
// resources.
const (
	ResourceTypeMolecularDefinition = "MolecularDefinition"

	AlleleProfileURL   = "http://hl7.org/fhir/uv/molecular-definition/StructureDefinition/allele"
	SequenceProfileURL = "http://hl7.org/fhir/uv/molecular-definition/StructureDefinition/sequence"
)

// CoordinateSystem qualifies how interval coordinates are counted.
type CoordinateSystem struct {
	System              *CodeableConcept `json:"system,omitempty"`
	Origin              *CodeableConcept `json:"origin,omitempty"`
	NormalizationMethod *CodeableConcept `json:"normalizationMethod,omitempty"`
}

// CoordinateInterval is a coordinate-system-qualified interval.
type CoordinateInterval struct {
	CoordinateSystem *CoordinateSystem `json:"coordinateSystem,omitempty"`
	StartQuantity    *Quantity         `json:"startQuantity,omitempty"`
	EndQuantity      *Quantity         `json:"endQuantity,omitempty"`
}

// SequenceLocation places an interval on a context sequence.
type SequenceLocation struct {
	SequenceContext    *Reference          `json:"sequenceContext,omitempty"`
	CoordinateInterval *CoordinateInterval `json:"coordinateInterval,omitempty"`
}

// Location is the location element of a MolecularDefinition.
type Location struct {
	ID               string            `json:"id,omitempty"`
	Extension        []Extension       `json:"extension,omitempty"`
	SequenceLocation *SequenceLocation `json:"sequenceLocation,omitempty"`
}

// RepresentationLiteral spells a sequence out residue by residue.
type RepresentationLiteral struct {
	ID        string           `json:"id,omitempty"`
	Extension []Extension      `json:"extension,omitempty"`
	Encoding  *CodeableConcept `json:"encoding,omitempty"`
	Value     string           `json:"value"`
}

// RepresentationRepeated describes a sequence as a motif repeated a
// fixed number of times.
type RepresentationRepeated struct {
	SequenceMotif *RepresentationLiteral `json:"sequenceMotif,omitempty"`
	CopyCount     int64                  `json:"copyCount"`
}

// Representation is one rendering of the molecule: literal, repeated,
// or an external code, optionally scoped by a focus.
type Representation struct {
	Focus    *CodeableConcept        `json:"focus,omitempty"`
	Code     []CodeableConcept       `json:"code,omitempty"`
	Literal  *RepresentationLiteral  `json:"literal,omitempty"`
	Repeated *RepresentationRepeated `json:"repeated,omitempty"`
}

// Sequence is the MolecularDefinition Sequence profile, used as a
// contained resource carrying the reference-sequence context.
type Sequence struct {
	ResourceType   string           `json:"resourceType"`
	ID             string           `json:"id,omitempty"`
	Meta           *Meta            `json:"meta,omitempty"`
	Extension      []Extension      `json:"extension,omitempty"`
	MoleculeType   *CodeableConcept `json:"moleculeType,omitempty"`
	Representation []Representation `json:"representation,omitempty"`
}

// Allele is the MolecularDefinition Allele profile.
type Allele struct {
	ResourceType   string           `json:"resourceType"`
	ID             string           `json:"id,omitempty"`
	Meta           *Meta            `json:"meta,omitempty"`
	Text           *Narrative       `json:"text,omitempty"`
	Identifier     []Identifier     `json:"identifier,omitempty"`
	Contained      []Sequence       `json:"contained,omitempty"`
	Description    string           `json:"description,omitempty"`
	MoleculeType   *CodeableConcept `json:"moleculeType,omitempty"`
	Location       []Location       `json:"location,omitempty"`
	Representation []Representation `json:"representation,omitempty"`
}
