package translate

import (
	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// FieldMapping is one row of the VRS<->FHIR correspondence table.
// Symmetric rows round-trip; target-only rows are synthesized with
// fixed values on VRS->FHIR and discarded without error on FHIR->VRS.
type FieldMapping struct {
	VRS       string
	FHIR      string
	Symmetric bool
}

// AlleleFieldTable is the full correspondence table. It exists to keep
// the asymmetry explicit; the identity rows below and the two
// translation directions are written against it.
var AlleleFieldTable = []FieldMapping{
	{VRS: "location.sequenceReference.refgetAccession", FHIR: "contained[ref].representation.code", Symmetric: true},
	{VRS: "location.start", FHIR: "location.sequenceLocation.coordinateInterval.startQuantity", Symmetric: true},
	{VRS: "location.end", FHIR: "location.sequenceLocation.coordinateInterval.endQuantity", Symmetric: true},
	{VRS: "state.sequence (literal)", FHIR: "representation[allele-state].literal.value", Symmetric: true},
	{VRS: "state.length/repeatSubunitLength (length-only)", FHIR: "representation[allele-state].repeated", Symmetric: true},
	{VRS: "id/name/aliases/digest", FHIR: "identifier[]", Symmetric: true},
	{VRS: "expressions[]", FHIR: "representation[allele-state].code[]", Symmetric: true},
	{VRS: "", FHIR: "resourceType", Symmetric: false},
	{VRS: "", FHIR: "meta.profile", Symmetric: false},
	{VRS: "", FHIR: "text", Symmetric: false},
	{VRS: "", FHIR: "moleculeType", Symmetric: false},
	{VRS: "", FHIR: "location.coordinateSystem", Symmetric: false},
}

// identityRow maps one allele-identity attribute onto FHIR identifier
// entries carrying the matching provenance system.
type identityRow struct {
	system string
	get    func(a *vrs.Allele) []string
	set    func(a *vrs.Allele, value string)
}

func one(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// identityRows drives the identifier mapping in both directions.
var identityRows = []identityRow{
	{
		system: fhir.AllelePointers["id"],
		get:    func(a *vrs.Allele) []string { return one(a.ID) },
		set:    func(a *vrs.Allele, v string) { a.ID = v },
	},
	{
		system: fhir.AllelePointers["name"],
		get:    func(a *vrs.Allele) []string { return one(a.Name) },
		set:    func(a *vrs.Allele, v string) { a.Name = v },
	},
	{
		system: fhir.AllelePointers["aliases"],
		get:    func(a *vrs.Allele) []string { return a.Aliases },
		set:    func(a *vrs.Allele, v string) { a.Aliases = append(a.Aliases, v) },
	},
	{
		system: fhir.AllelePointers["digest"],
		get:    func(a *vrs.Allele) []string { return one(a.Digest) },
		set:    func(a *vrs.Allele, v string) { a.Digest = v },
	},
}

// mapIdentity renders allele identity metadata as FHIR identifiers.
func mapIdentity(a *vrs.Allele) []fhir.Identifier {
	var ids []fhir.Identifier
	for _, row := range identityRows {
		for _, v := range row.get(a) {
			ids = append(ids, fhir.Identifier{System: row.system, Value: v})
		}
	}
	return ids
}

// extractIdentity restores allele identity metadata from FHIR
// identifiers. Identifiers with unknown systems are ignored.
func extractIdentity(a *vrs.Allele, ids []fhir.Identifier) {
	for _, id := range ids {
		for _, row := range identityRows {
			if id.System == row.system {
				row.set(a, id.Value)
				break
			}
		}
	}
}
