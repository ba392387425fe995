package vrs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA512t24u(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// Reference digest from the GA4GH computed-identifier spec.
		{"ACGT", "ACGT", "aKF498dAxcJAqme6QYQ7EZ07-fiw8Kw2"},
		{"empty", "", "z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SHA512t24u([]byte(tt.in)))
		})
	}
}

func TestIdentify(t *testing.T) {
	newAllele := func(start, end int64, seq string) *Allele {
		return &Allele{
			Location: &SequenceLocation{
				SequenceReference: &SequenceReference{RefgetAccession: "SQ.aKF498dAxcJAqme6QYQ7EZ07-fiw8Kw2"},
				Start:             start,
				End:               end,
			},
			State: &LiteralSequenceExpression{Sequence: seq},
		}
	}

	a := Identify(newAllele(100, 101, "T"))
	require.True(t, strings.HasPrefix(a.ID, "ga4gh:VA."))
	require.True(t, strings.HasPrefix(a.Location.ID, "ga4gh:SL."))
	assert.Equal(t, "ga4gh:VA."+a.Digest, a.ID)
	assert.Equal(t, "ga4gh:SL."+a.Location.Digest, a.Location.ID)

	// Deterministic: same content, same identifiers.
	b := Identify(newAllele(100, 101, "T"))
	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a.Location.ID, b.Location.ID)

	// Content-sensitive: a different state changes the allele digest
	// but not the location digest.
	c := Identify(newAllele(100, 101, "G"))
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, a.Location.ID, c.Location.ID)

	// Length-only states digest too.
	d := newAllele(100, 110, "")
	d.State = &ReferenceLengthExpression{Length: 12, RepeatSubunit: 2}
	Identify(d)
	assert.True(t, strings.HasPrefix(d.ID, "ga4gh:VA."))
	assert.NotEqual(t, a.Digest, d.Digest)
}
