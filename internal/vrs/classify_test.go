package vrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyState(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  StateClass
	}{
		{"literal", &LiteralSequenceExpression{Sequence: "T"}, ClassLiteral},
		{"empty literal", &LiteralSequenceExpression{}, ClassLiteral},
		{"length-only", &ReferenceLengthExpression{Length: 6}, ClassLengthOnly},
		{"unclassified", &UnclassifiedState{Type: "CisPhasedBlock"}, ClassOther},
		{"nil", nil, ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyState(tt.state))
		})
	}
}

func TestTallyStates(t *testing.T) {
	loc := &SequenceLocation{SequenceReference: &SequenceReference{RefgetAccession: "SQ.x"}, Start: 0, End: 1}
	alleles := []*Allele{
		{Location: loc, State: &LiteralSequenceExpression{Sequence: "A"}},
		{Location: loc, State: &LiteralSequenceExpression{Sequence: ""}},
		{Location: loc, State: &ReferenceLengthExpression{Length: 4, RepeatSubunit: 2}},
		{Location: loc, State: &UnclassifiedState{Type: "Adjacency"}},
		{Location: loc, State: nil},
	}

	tally := TallyStates(alleles)
	assert.Equal(t, 2, tally.Literal)
	assert.Equal(t, 1, tally.LengthOnly)
	assert.Equal(t, 2, tally.Other)

	// The three buckets always account for every allele.
	assert.Equal(t, len(alleles), tally.Total())
}

func TestStateClassString(t *testing.T) {
	assert.Equal(t, "literal", ClassLiteral.String())
	assert.Equal(t, "length-only", ClassLengthOnly.String())
	assert.Equal(t, "other", ClassOther.String())
}
