package expression

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Regexes for the supported HGVS subset. Positions are plain 1-based
// residue numbers; intronic offsets do not match and are reported as
// unsupported.
var (
	hgvsPattern = regexp.MustCompile(`^([A-Z]{2}_\d+\.\d+):([gmcnp])\.(.+)$`)

	reSub      = regexp.MustCompile(`^(\d+)([ACGTUN])>([ACGTUN])$`)
	reDelins   = regexp.MustCompile(`^(\d+)(?:_(\d+))?delins([ACGTUN]+)$`)
	reDel      = regexp.MustCompile(`^(\d+)(?:_(\d+))?del([ACGTUN]*)$`)
	reIns      = regexp.MustCompile(`^(\d+)_(\d+)ins([ACGTUN]+)$`)
	reDup      = regexp.MustCompile(`^(\d+)(?:_(\d+))?dup([ACGTUN]*)$`)
	reIdentity = regexp.MustCompile(`^(\d+)(?:_(\d+))?=$`)

	reProteinSub = regexp.MustCompile(`^([A-Z][a-z]{2})(\d+)([A-Z][a-z]{2}|\*)$`)
)

// hgvsOperations, in match order, names the edit keywords used to
// classify expressions the subset cannot handle.
var hgvsOperations = []string{"delins", "del", "dup", "ins", "inv", "con", "ext", "fs", ">", "="}

// ParseHGVS parses the supported HGVS subset (substitution, deletion,
// insertion, delins, duplication and identity on g./m./c./n.
// references; substitution on p. references) into a normalized allele.
func (p *Parser) ParseHGVS(ctx context.Context, expr string) (*vrs.Allele, error) {
	expr = strings.TrimSpace(expr)
	m := hgvsPattern.FindStringSubmatch(expr)
	if m == nil {
		return nil, &MalformedExpressionError{
			Expression: expr,
			Reason:     "expected accession:<coordinate-type>.<edit>",
		}
	}
	accession, coordType, edit := m[1], m[2], m[3]
	if _, err := vrs.ValidateAccession(accession); err != nil {
		return nil, &MalformedExpressionError{Expression: expr, Reason: err.Error()}
	}

	if coordType == "p" {
		return p.parseProteinEdit(ctx, accession, edit, expr)
	}
	return p.parseNucleotideEdit(ctx, accession, coordType, edit, expr)
}

func (p *Parser) parseNucleotideEdit(ctx context.Context, accession, coordType, edit, expr string) (*vrs.Allele, error) {
	syntax := SyntaxHGVSGenomic
	if coordType == "c" || coordType == "n" {
		syntax = SyntaxHGVSCoding
	}

	handle, err := p.repo.Resolve(ctx, accession)
	if err != nil {
		return nil, err
	}

	var start, end int64
	var state string
	switch {
	case reSub.MatchString(edit):
		f := reSub.FindStringSubmatch(edit)
		pos := mustPos(f[1])
		start, end, state = pos-1, pos, f[3]

	case reDelins.MatchString(edit):
		f := reDelins.FindStringSubmatch(edit)
		start, end = editInterval(f[1], f[2])
		state = f[3]

	case reDel.MatchString(edit):
		f := reDel.FindStringSubmatch(edit)
		start, end = editInterval(f[1], f[2])
		state = ""

	case reIns.MatchString(edit):
		f := reIns.FindStringSubmatch(edit)
		first, second := mustPos(f[1]), mustPos(f[2])
		if second != first+1 {
			return nil, &MalformedExpressionError{
				Expression: expr,
				Reason:     "insertion positions must be adjacent",
			}
		}
		start, end, state = first, first, f[3]

	case reDup.MatchString(edit):
		f := reDup.FindStringSubmatch(edit)
		start, end = editInterval(f[1], f[2])
		ref, err := p.repo.Subsequence(ctx, handle, start, end)
		if err != nil {
			return nil, err
		}
		state = ref + ref

	case reIdentity.MatchString(edit):
		f := reIdentity.FindStringSubmatch(edit)
		start, end = editInterval(f[1], f[2])
		state, err = p.repo.Subsequence(ctx, handle, start, end)
		if err != nil {
			return nil, err
		}

	default:
		return nil, classifyUnmatched(expr, edit)
	}

	return p.assemble(ctx, handle, start, end, state, syntax, expr)
}

func (p *Parser) parseProteinEdit(ctx context.Context, accession, edit, expr string) (*vrs.Allele, error) {
	f := reProteinSub.FindStringSubmatch(edit)
	if f == nil {
		return nil, classifyUnmatched(expr, edit)
	}
	if _, ok := aminoAcidThreeToSingle[f[1]]; !ok {
		return nil, &MalformedExpressionError{
			Expression: expr,
			Reason:     "unknown amino acid code " + f[1],
		}
	}
	alt, ok := aminoAcidThreeToSingle[f[3]]
	if !ok {
		return nil, &MalformedExpressionError{
			Expression: expr,
			Reason:     "unknown amino acid code " + f[3],
		}
	}

	handle, err := p.repo.Resolve(ctx, accession)
	if err != nil {
		return nil, err
	}
	pos := mustPos(f[2])
	return p.assemble(ctx, handle, pos-1, pos, string(alt), SyntaxHGVSProtein, expr)
}

// classifyUnmatched distinguishes an out-of-subset edit from text that
// is not HGVS at all.
func classifyUnmatched(expr, edit string) error {
	if strings.ContainsAny(edit, "+-") {
		return &UnsupportedHgvsOperationError{Expression: expr, Operation: "intronic position"}
	}
	for _, op := range hgvsOperations {
		if strings.Contains(edit, op) {
			return &UnsupportedHgvsOperationError{Expression: expr, Operation: op}
		}
	}
	return &MalformedExpressionError{Expression: expr, Reason: "unrecognized edit " + strconv.Quote(edit)}
}

// editInterval converts 1-based residue positions (pos or pos_pos) to
// a 0-based half-open interval.
func editInterval(first, second string) (int64, int64) {
	start := mustPos(first)
	end := start
	if second != "" {
		end = mustPos(second)
	}
	return start - 1, end
}

// mustPos parses a position already vetted as digits by the regex.
func mustPos(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}

// aminoAcidThreeToSingle maps three-letter amino acid codes, plus the
// Ter/* stop spellings, to single-letter residues.
var aminoAcidThreeToSingle = map[string]byte{
	"Ala": 'A', "Cys": 'C', "Asp": 'D', "Glu": 'E',
	"Phe": 'F', "Gly": 'G', "His": 'H', "Ile": 'I',
	"Lys": 'K', "Leu": 'L', "Met": 'M', "Asn": 'N',
	"Pro": 'P', "Gln": 'Q', "Arg": 'R', "Ser": 'S',
	"Thr": 'T', "Val": 'V', "Trp": 'W', "Tyr": 'Y',
	"Ter": '*', "Xaa": 'X', "*": '*',
}
