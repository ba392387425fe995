// Package vrs provides the GA4GH VRS allele data model shared by the
// normalizer, the expression parsers and the FHIR translator.
package vrs

import (
	"encoding/json"
	"fmt"
)

// Type discriminators used on the wire.
const (
	TypeAllele                    = "Allele"
	TypeSequenceLocation          = "SequenceLocation"
	TypeSequenceReference         = "SequenceReference"
	TypeLiteralSequenceExpression = "LiteralSequenceExpression"
	TypeReferenceLengthExpression = "ReferenceLengthExpression"
)

// InvalidIntervalError reports a malformed half-open interval.
type InvalidIntervalError struct {
	Start int64
	End   int64
}

func (e *InvalidIntervalError) Error() string {
	return fmt.Sprintf("invalid interval [%d, %d): require 0 <= start <= end", e.Start, e.End)
}

// SequenceReference identifies a reference sequence by a content-derived
// RefGet accession. Immutable once constructed.
type SequenceReference struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	Aliases         []string `json:"aliases,omitempty"`
	RefgetAccession string   `json:"refgetAccession"`
	ResidueAlphabet string   `json:"residueAlphabet,omitempty"`
	MoleculeType    string   `json:"moleculeType,omitempty"`
	Sequence        string   `json:"sequence,omitempty"`
}

// SequenceLocation is a half-open interval [Start, End) of 0-based
// interbase coordinates over a SequenceReference. Start == End denotes
// an insertion point.
type SequenceLocation struct {
	ID                string             `json:"id,omitempty"`
	Name              string             `json:"name,omitempty"`
	Description       string             `json:"description,omitempty"`
	Aliases           []string           `json:"aliases,omitempty"`
	Digest            string             `json:"digest,omitempty"`
	SequenceReference *SequenceReference `json:"sequenceReference,omitempty"`
	Start             int64              `json:"start"`
	End               int64              `json:"end"`
	Sequence          string             `json:"sequence,omitempty"`
}

// NewSequenceLocation constructs a location, rejecting malformed intervals.
func NewSequenceLocation(ref *SequenceReference, start, end int64) (*SequenceLocation, error) {
	if start < 0 || start > end {
		return nil, &InvalidIntervalError{Start: start, End: end}
	}
	return &SequenceLocation{SequenceReference: ref, Start: start, End: end}, nil
}

// Validate checks the interval invariant on an already-built location.
func (l *SequenceLocation) Validate() error {
	if l.Start < 0 || l.Start > l.End {
		return &InvalidIntervalError{Start: l.Start, End: l.End}
	}
	return nil
}

// Width returns the number of reference residues the interval spans.
func (l *SequenceLocation) Width() int64 {
	return l.End - l.Start
}

// Expression carries a textual rendering of the allele in an external
// nomenclature (HGVS, SPDI, ...).
type Expression struct {
	ID            string `json:"id,omitempty"`
	Syntax        string `json:"syntax"`
	Value         string `json:"value"`
	SyntaxVersion string `json:"syntax_version,omitempty"`
}

// State is the tagged union of allele state shapes.
type State interface {
	StateType() string
}

// LiteralSequenceExpression is an explicit residue string. An empty
// sequence denotes pure deletion.
type LiteralSequenceExpression struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Sequence    string   `json:"sequence"`
}

// StateType implements State.
func (*LiteralSequenceExpression) StateType() string { return TypeLiteralSequenceExpression }

// ReferenceLengthExpression is a length-only state: the resulting
// length of the changed region plus, optionally, a reference-derived
// repeat unit. Used for tandem-repeat alleles whose literal sequence is
// not spelled out.
type ReferenceLengthExpression struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	Length        int64  `json:"length"`
	RepeatSubunit int64  `json:"repeatSubunitLength,omitempty"`
	Sequence      string `json:"sequence,omitempty"`
}

// StateType implements State.
func (*ReferenceLengthExpression) StateType() string { return TypeReferenceLengthExpression }

// UnclassifiedState carries any state shape the model does not know.
// It is representable but never normalized or translated.
type UnclassifiedState struct {
	Type string
	Raw  json.RawMessage
}

// StateType implements State.
func (s *UnclassifiedState) StateType() string { return s.Type }

// Allele is a SequenceLocation plus a State, with optional identity
// metadata. Value object: constructed per call, never mutated after.
type Allele struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Aliases     []string          `json:"aliases,omitempty"`
	Digest      string            `json:"digest,omitempty"`
	Expressions []Expression      `json:"expressions,omitempty"`
	Location    *SequenceLocation `json:"location"`
	State       State             `json:"state"`
}

// WellFormed reports whether the allele can be normalized and
// translated: location with a reference present, valid interval, and a
// literal or length-only state.
func (a *Allele) WellFormed() bool {
	if a.Location == nil || a.Location.SequenceReference == nil || a.State == nil {
		return false
	}
	if a.Location.Validate() != nil {
		return false
	}
	switch a.State.(type) {
	case *LiteralSequenceExpression, *ReferenceLengthExpression:
		return true
	}
	return false
}

// stateEnvelope wraps a State with its wire discriminator.
type stateEnvelope struct {
	Type string `json:"type"`
}

// MarshalJSON emits the allele with type discriminators on the allele,
// location and state objects.
func (a *Allele) MarshalJSON() ([]byte, error) {
	type alias Allele
	raw, err := json.Marshal((*alias)(a))
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m["type"] = json.RawMessage(`"` + TypeAllele + `"`)
	if a.Location != nil {
		loc, err := marshalWithType(a.Location, TypeSequenceLocation)
		if err != nil {
			return nil, err
		}
		m["location"] = loc
	}
	if a.State != nil {
		st, err := MarshalState(a.State)
		if err != nil {
			return nil, err
		}
		m["state"] = st
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the state union by its type discriminator.
func (a *Allele) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID          string            `json:"id"`
		Name        string            `json:"name"`
		Description string            `json:"description"`
		Aliases     []string          `json:"aliases"`
		Digest      string            `json:"digest"`
		Expressions []Expression      `json:"expressions"`
		Location    *SequenceLocation `json:"location"`
		State       json.RawMessage   `json:"state"`
	}
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	a.ID = tmp.ID
	a.Name = tmp.Name
	a.Description = tmp.Description
	a.Aliases = tmp.Aliases
	a.Digest = tmp.Digest
	a.Expressions = tmp.Expressions
	a.Location = tmp.Location
	if len(tmp.State) > 0 {
		st, err := UnmarshalState(tmp.State)
		if err != nil {
			return err
		}
		a.State = st
	}
	return nil
}

// MarshalState serializes a State with its type discriminator.
func MarshalState(s State) (json.RawMessage, error) {
	if u, ok := s.(*UnclassifiedState); ok {
		return u.Raw, nil
	}
	return marshalWithType(s, s.StateType())
}

// UnmarshalState decodes a state object into the matching union case.
// Unknown types are preserved opaquely as UnclassifiedState.
func UnmarshalState(data json.RawMessage) (State, error) {
	var env stateEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	switch env.Type {
	case TypeLiteralSequenceExpression:
		var lse LiteralSequenceExpression
		if err := json.Unmarshal(data, &lse); err != nil {
			return nil, fmt.Errorf("decode literal state: %w", err)
		}
		return &lse, nil
	case TypeReferenceLengthExpression:
		var rle ReferenceLengthExpression
		if err := json.Unmarshal(data, &rle); err != nil {
			return nil, fmt.Errorf("decode length state: %w", err)
		}
		return &rle, nil
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return &UnclassifiedState{Type: env.Type, Raw: raw}, nil
	}
}

func marshalWithType(v any, typ string) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m["type"] = json.RawMessage(`"` + typ + `"`)
	return json.Marshal(m)
}
