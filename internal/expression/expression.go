// Package expression parses textual variant expressions (SPDI and an
// HGVS subset) into normalized VRS alleles.
package expression

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinbio/vrs-bridge/internal/normalize"
	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Expression syntax tags recorded on parsed alleles.
const (
	SyntaxSPDI        = "spdi"
	SyntaxHGVSGenomic = "hgvs.g"
	SyntaxHGVSCoding  = "hgvs.c"
	SyntaxHGVSProtein = "hgvs.p"
)

// MalformedExpressionError reports text that does not parse as a
// variant expression.
type MalformedExpressionError struct {
	Expression string
	Reason     string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression %q: %s", e.Expression, e.Reason)
}

// UnsupportedHgvsOperationError reports a syntactically valid HGVS
// expression whose edit type is outside the supported subset.
type UnsupportedHgvsOperationError struct {
	Expression string
	Operation  string
}

func (e *UnsupportedHgvsOperationError) Error() string {
	return fmt.Sprintf("unsupported HGVS operation %q in %q", e.Operation, e.Expression)
}

// Parser turns SPDI and HGVS text into normalized VRS alleles.
type Parser struct {
	repo seqrepo.Repository
	norm *normalize.Normalizer
}

// NewParser creates a Parser backed by the given sequence repository.
func NewParser(repo seqrepo.Repository) *Parser {
	return &Parser{repo: repo, norm: normalize.New(repo)}
}

// Parse dispatches on the expression shape: HGVS when the text carries
// a coordinate-type prefix (g., c., p., ...), SPDI otherwise.
func (p *Parser) Parse(ctx context.Context, expr string) (*vrs.Allele, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &MalformedExpressionError{Expression: expr, Reason: "empty expression"}
	}
	if hgvsPattern.MatchString(expr) {
		return p.ParseHGVS(ctx, expr)
	}
	return p.ParseSPDI(ctx, expr)
}

// build resolves the accession, assembles the allele and normalizes it.
func (p *Parser) build(ctx context.Context, accession string, start, end int64, state string, syntax, expr string) (*vrs.Allele, error) {
	handle, err := p.repo.Resolve(ctx, accession)
	if err != nil {
		return nil, err
	}
	return p.assemble(ctx, handle, start, end, state, syntax, expr)
}

// assemble builds the allele over an already-resolved handle and
// normalizes it.
func (p *Parser) assemble(ctx context.Context, handle *seqrepo.Handle, start, end int64, state string, syntax, expr string) (*vrs.Allele, error) {
	loc, err := vrs.NewSequenceLocation(handle.SequenceReference(), start, end)
	if err != nil {
		return nil, err
	}
	a := &vrs.Allele{
		Expressions: []vrs.Expression{{Syntax: syntax, Value: expr}},
		Location:    loc,
		State:       &vrs.LiteralSequenceExpression{Sequence: state},
	}
	return p.norm.Allele(ctx, a)
}
