package fhir

// VRSSchemaBase is the root of the VRS JSON schema definitions that
// provenance annotations point into.
const VRSSchemaBase = "https://w3id.org/ga4gh/schema/vrs/2.0.1/json"

// PropertyPointer builds the canonical schema-definition locator for a
// source-schema property: <schema-base>/<EntityName>#properties/<field>.
func PropertyPointer(entity, field string) string {
	return VRSSchemaBase + "/" + entity + "#properties/" + field
}

// Provenance annotation systems for Allele-level identifiers. Attached
// verbatim when building target records and never altered on
// round-trip.
var (
	AllelePointers = map[string]string{
		"id":      PropertyPointer("Allele", "id"),
		"name":    PropertyPointer("Allele", "name"),
		"aliases": PropertyPointer("Allele", "aliases"),
		"digest":  PropertyPointer("Allele", "digest"),
	}

	SequenceLocationPointers = map[string]string{
		"id":          PropertyPointer("SequenceLocation", "id"),
		"name":        PropertyPointer("SequenceLocation", "name"),
		"description": PropertyPointer("SequenceLocation", "description"),
		"digest":      PropertyPointer("SequenceLocation", "digest"),
		"aliases":     PropertyPointer("SequenceLocation", "aliases"),
	}

	SequenceReferencePointers = map[string]string{
		"id":              PropertyPointer("SequenceReference", "id"),
		"name":            PropertyPointer("SequenceReference", "name"),
		"description":     PropertyPointer("SequenceReference", "description"),
		"aliases":         PropertyPointer("SequenceReference", "aliases"),
		"refgetAccession": PropertyPointer("SequenceReference", "refgetAccession"),
		"residueAlphabet": PropertyPointer("SequenceReference", "residueAlphabet"),
		"moleculeType":    PropertyPointer("SequenceReference", "moleculeType"),
	}

	LiteralExpressionPointers = map[string]string{
		"id":          PropertyPointer("LiteralSequenceExpression", "id"),
		"name":        PropertyPointer("LiteralSequenceExpression", "name"),
		"description": PropertyPointer("LiteralSequenceExpression", "description"),
		"aliases":     PropertyPointer("LiteralSequenceExpression", "aliases"),
	}
)
