package vrs

import (
	"fmt"
	"regexp"
	"strings"
)

// refseqPattern matches versioned NCBI RefSeq accessions, e.g. NM_000769.4.
var refseqPattern = regexp.MustCompile(`^(NC_|NG_|NM_|NR_|NP_|NW_|NT_)\d+\.\d+$`)

// refseqMoleculeTypes maps RefSeq accession prefixes to molecule types.
var refseqMoleculeTypes = map[string]string{
	"NC_": "DNA",
	"NG_": "DNA",
	"NW_": "DNA",
	"NT_": "DNA",
	"NM_": "RNA",
	"NR_": "RNA",
	"NP_": "protein",
}

// ValidateAccession checks that an accession is a versioned RefSeq
// identifier and returns it unchanged.
func ValidateAccession(accession string) (string, error) {
	if !refseqPattern.MatchString(accession) {
		return "", fmt.Errorf("invalid accession %q: expected a versioned NCBI RefSeq ID (e.g. NM_000769.4)", accession)
	}
	return accession, nil
}

// DetectMoleculeType derives the molecule type (DNA, RNA, protein) from
// a RefSeq accession prefix.
func DetectMoleculeType(accession string) (string, error) {
	for prefix, molType := range refseqMoleculeTypes {
		if strings.HasPrefix(accession, prefix) {
			return molType, nil
		}
	}
	return "", fmt.Errorf("unknown sequence type for accession %q", accession)
}

// FHIRResourceID derives a FHIR-compatible resource id from a RefSeq
// accession: version dropped, underscores removed, lowercased
// (NM_000769.4 -> nm000769).
func FHIRResourceID(accession string) string {
	base, _, _ := strings.Cut(accession, ".")
	return strings.ToLower(strings.ReplaceAll(base, "_", ""))
}
