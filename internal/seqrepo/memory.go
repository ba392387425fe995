package seqrepo

import (
	"context"
	"fmt"
	"sync"

	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Memory is an in-memory Repository. It backs tests and small
// interactive runs; sequences are loaded up front with Add or via the
// FASTA loader.
type Memory struct {
	mu        sync.RWMutex
	sequences map[string]*memoryRecord // by accession
	byDigest  map[string]string        // refget accession -> accession
}

type memoryRecord struct {
	handle   Handle
	sequence string
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		sequences: make(map[string]*memoryRecord),
		byDigest:  make(map[string]string),
	}
}

// Add registers a sequence under an accession. The RefGet accession is
// derived from the sequence content. Molecule type is derived from the
// accession prefix when recognized, else left empty.
func (m *Memory) Add(accession, sequence string) *Handle {
	molType, _ := vrs.DetectMoleculeType(accession)
	refget := "SQ." + vrs.SHA512t24u([]byte(sequence))

	m.mu.Lock()
	defer m.mu.Unlock()
	rec := &memoryRecord{
		handle: Handle{
			Accession:       accession,
			RefgetAccession: refget,
			MoleculeType:    molType,
			Length:          int64(len(sequence)),
		},
		sequence: sequence,
	}
	m.sequences[accession] = rec
	m.byDigest[refget] = accession
	return &rec.handle
}

// Resolve implements Repository.
func (m *Memory) Resolve(_ context.Context, accession string) (*Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sequences[accession]
	if !ok {
		return nil, &UnresolvedReferenceError{Accession: accession}
	}
	h := rec.handle
	return &h, nil
}

// ResolveDigest implements Repository.
func (m *Memory) ResolveDigest(ctx context.Context, refget string) (*Handle, error) {
	m.mu.RLock()
	accession, ok := m.byDigest[refget]
	m.mu.RUnlock()
	if !ok {
		return nil, &UnresolvedReferenceError{Accession: refget}
	}
	return m.Resolve(ctx, accession)
}

// Subsequence implements Repository.
func (m *Memory) Subsequence(_ context.Context, h *Handle, start, end int64) (string, error) {
	if start < 0 || start > end {
		return "", fmt.Errorf("subsequence %s: bad interval [%d, %d)", h.Accession, start, end)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sequences[h.Accession]
	if !ok {
		return "", &UnresolvedReferenceError{Accession: h.Accession}
	}
	if end > int64(len(rec.sequence)) {
		return "", fmt.Errorf("subsequence %s: interval [%d, %d) beyond sequence length %d",
			h.Accession, start, end, len(rec.sequence))
	}
	return rec.sequence[start:end], nil
}

// SequenceCount returns the number of loaded sequences.
func (m *Memory) SequenceCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sequences)
}
