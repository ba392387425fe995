package vrs

// StateClass buckets allele states by their translation behavior.
type StateClass int

const (
	ClassLiteral StateClass = iota
	ClassLengthOnly
	ClassOther
)

// String returns the report label for a state class.
func (c StateClass) String() string {
	switch c {
	case ClassLiteral:
		return "literal"
	case ClassLengthOnly:
		return "length-only"
	default:
		return "other"
	}
}

// ClassifyState maps a state to its class tag.
func ClassifyState(s State) StateClass {
	switch s.(type) {
	case *LiteralSequenceExpression:
		return ClassLiteral
	case *ReferenceLengthExpression:
		return ClassLengthOnly
	default:
		return ClassOther
	}
}

// StateTally holds per-class counts for a collection of alleles.
type StateTally struct {
	Literal    int `json:"literal"`
	LengthOnly int `json:"length_only"`
	Other      int `json:"other"`
}

// Add records one allele's state class.
func (t *StateTally) Add(s State) {
	t.AddClass(ClassifyState(s))
}

// AddClass records an already-classified state.
func (t *StateTally) AddClass(c StateClass) {
	switch c {
	case ClassLiteral:
		t.Literal++
	case ClassLengthOnly:
		t.LengthOnly++
	default:
		t.Other++
	}
}

// Total returns the number of alleles tallied.
func (t StateTally) Total() int {
	return t.Literal + t.LengthOnly + t.Other
}

// TallyStates counts state classes across a collection of alleles.
func TallyStates(alleles []*Allele) StateTally {
	var t StateTally
	for _, a := range alleles {
		t.Add(a.State)
	}
	return t
}
