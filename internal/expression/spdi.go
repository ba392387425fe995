package expression

import (
	"context"
	"strconv"
	"strings"

	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// ParseSPDI parses an SPDI expression
// (accession:position:deletion:insertion, deletion given as a length
// or as the literal deleted residues) into a normalized allele.
func (p *Parser) ParseSPDI(ctx context.Context, expr string) (*vrs.Allele, error) {
	fields := strings.Split(strings.TrimSpace(expr), ":")
	if len(fields) != 4 {
		return nil, &MalformedExpressionError{
			Expression: expr,
			Reason:     "expected four colon-separated fields",
		}
	}
	accession := strings.TrimSpace(fields[0])
	if _, err := vrs.ValidateAccession(accession); err != nil {
		return nil, &MalformedExpressionError{Expression: expr, Reason: err.Error()}
	}

	start, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || start < 0 {
		return nil, &MalformedExpressionError{
			Expression: expr,
			Reason:     "position is not a non-negative integer",
		}
	}

	// The deletion field is a residue count or the deleted residues
	// themselves; either way only its length matters.
	delLen, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		delLen = int64(len(fields[2]))
	} else if delLen < 0 {
		return nil, &MalformedExpressionError{
			Expression: expr,
			Reason:     "deletion length is negative",
		}
	}

	return p.build(ctx, accession, start, start+delLen, fields[3], SyntaxSPDI, expr)
}
