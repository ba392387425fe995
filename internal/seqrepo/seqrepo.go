// Package seqrepo provides access to reference sequences: resolving
// accessions to content-addressed handles and fetching subsequences.
// The translation core depends only on the Repository interface so it
// can be tested against a deterministic in-memory implementation.
package seqrepo

import (
	"context"
	"fmt"

	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Handle is a resolved reference-sequence identity. Immutable.
type Handle struct {
	Accession       string // versioned RefSeq accession, e.g. NC_000001.11
	RefgetAccession string // content digest, e.g. SQ.Ya6Rs7DHhDeg7YaOSg1EoNi3U_nQ9SvO
	MoleculeType    string // DNA, RNA or protein
	Length          int64
}

// SequenceReference derives the canonical VRS reference for the handle.
func (h *Handle) SequenceReference() *vrs.SequenceReference {
	alphabet := ""
	switch h.MoleculeType {
	case "DNA", "RNA":
		alphabet = "na"
	case "protein":
		alphabet = "aa"
	}
	return &vrs.SequenceReference{
		RefgetAccession: h.RefgetAccession,
		ResidueAlphabet: alphabet,
		MoleculeType:    h.MoleculeType,
	}
}

// UnresolvedReferenceError reports an accession the repository cannot
// resolve. Callers treat adapter timeouts the same way.
type UnresolvedReferenceError struct {
	Accession string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("cannot resolve reference sequence %q", e.Accession)
}

// Repository resolves accessions and serves subsequences by 0-based
// half-open interval. Implementations may cache resolved handles;
// cache lifetime is their concern.
type Repository interface {
	// Resolve maps a RefSeq accession to a handle.
	Resolve(ctx context.Context, accession string) (*Handle, error)
	// ResolveDigest maps a RefGet accession back to a handle.
	ResolveDigest(ctx context.Context, refgetAccession string) (*Handle, error)
	// Subsequence returns the reference residues in [start, end).
	Subsequence(ctx context.Context, h *Handle, start, end int64) (string, error)
}
