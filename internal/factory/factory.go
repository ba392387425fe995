// Package factory builds well-formed alleles, in either schema,
// directly from primitive inputs.
package factory

import (
	"context"

	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/normalize"
	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/translate"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Params are the primitive inputs an allele is built from. ID is
// optional; when empty the default-identifier convention applies
// ("ref-to-" plus the accession). Normalize selects canonicalization
// of the built allele.
type Params struct {
	Accession string
	Start     int64
	End       int64
	State     string
	ID        string
	Normalize bool
}

// Factory assembles alleles against a sequence repository.
type Factory struct {
	repo  seqrepo.Repository
	norm  *normalize.Normalizer
	trans *translate.Translator
}

// New creates a Factory backed by the given repository.
func New(repo seqrepo.Repository) *Factory {
	return &Factory{
		repo:  repo,
		norm:  normalize.New(repo),
		trans: translate.New(repo),
	}
}

// VRSAllele builds a well-formed VRS allele from primitives.
func (f *Factory) VRSAllele(ctx context.Context, p Params) (*vrs.Allele, error) {
	accession, err := vrs.ValidateAccession(p.Accession)
	if err != nil {
		return nil, err
	}
	handle, err := f.repo.Resolve(ctx, accession)
	if err != nil {
		return nil, err
	}
	loc, err := vrs.NewSequenceLocation(handle.SequenceReference(), p.Start, p.End)
	if err != nil {
		return nil, err
	}

	a := &vrs.Allele{
		Location: loc,
		State:    &vrs.LiteralSequenceExpression{Sequence: p.State},
	}
	if p.Normalize {
		if a, err = f.norm.Allele(ctx, a); err != nil {
			return nil, err
		}
	}

	// Identity is applied last so normalization cannot overwrite it.
	a.ID = p.ID
	if a.ID == "" {
		a.ID = "ref-to-" + accession
	}
	return a, nil
}

// FHIRAllele builds an Allele profile record from the same primitives
// by translating the VRS allele the factory assembles.
func (f *Factory) FHIRAllele(ctx context.Context, p Params) (*fhir.Allele, error) {
	a, err := f.VRSAllele(ctx, p)
	if err != nil {
		return nil, err
	}
	return f.trans.ToFHIR(ctx, a)
}
