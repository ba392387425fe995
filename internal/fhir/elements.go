// Package fhir models the FHIR MolecularDefinition Allele and Sequence
// profiles plus the general-purpose elements they are built from. Only
// the subset of FHIR the translator exchanges is modeled; structural
// validation beyond that is out of scope.
package fhir

// Coding is a reference to a code defined by a terminology system.
type Coding struct {
	System  string `json:"system,omitempty"`
	Version string `json:"version,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// CodeableConcept is text and/or codes drawn from terminologies.
type CodeableConcept struct {
	ID     string   `json:"id,omitempty"`
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

// Quantity carries a measured amount. Coordinates use integral values.
type Quantity struct {
	Value int64 `json:"value"`
}

// Reference points at another resource, possibly contained.
type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

// Identifier is a business identifier with the system URI recording
// which source-schema property it was derived from.
type Identifier struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Extension is additional content defined by a URL-identified slot.
type Extension struct {
	ID          string      `json:"id,omitempty"`
	URL         string      `json:"url,omitempty"`
	ValueString string      `json:"valueString,omitempty"`
	Extension   []Extension `json:"extension,omitempty"`
}

// Narrative is the human-readable rendering of a resource.
type Narrative struct {
	Status string `json:"status"`
	Div    string `json:"div"`
}

// Meta carries resource metadata; Profile records the profiles the
// resource claims conformance to.
type Meta struct {
	Profile []string `json:"profile,omitempty"`
}
