package seqrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Store is a DuckDB-backed Repository. Sequences are stored whole and
// subsequences are sliced in the database, so large references never
// need to live in process memory.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens or creates a DuckDB sequence store at the given path.
// Use an empty string for an in-memory database.
func OpenStore(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		accession VARCHAR PRIMARY KEY,
		refget_accession VARCHAR NOT NULL,
		molecule_type VARCHAR,
		length BIGINT NOT NULL,
		seq VARCHAR NOT NULL
	)`)
	return err
}

// AddSequence inserts or replaces a sequence. Implements FailableSink,
// so the FASTA loader surfaces write failures instead of dropping them.
func (s *Store) AddSequence(accession, sequence string) (*Handle, error) {
	molType, _ := vrs.DetectMoleculeType(accession)
	refget := "SQ." + vrs.SHA512t24u([]byte(sequence))
	h := &Handle{
		Accession:       accession,
		RefgetAccession: refget,
		MoleculeType:    molType,
		Length:          int64(len(sequence)),
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO sequences (accession, refget_accession, molecule_type, length, seq)
		 VALUES (?, ?, ?, ?, ?)`,
		accession, refget, molType, h.Length, sequence)
	if err != nil {
		return nil, fmt.Errorf("store sequence %q: %w", accession, err)
	}
	return h, nil
}

// Add implements SequenceSink.
func (s *Store) Add(accession, sequence string) *Handle {
	h, _ := s.AddSequence(accession, sequence)
	return h
}

// Resolve implements Repository.
func (s *Store) Resolve(ctx context.Context, accession string) (*Handle, error) {
	return s.lookup(ctx, `accession = ?`, accession)
}

// ResolveDigest implements Repository.
func (s *Store) ResolveDigest(ctx context.Context, refget string) (*Handle, error) {
	return s.lookup(ctx, `refget_accession = ?`, refget)
}

func (s *Store) lookup(ctx context.Context, where, key string) (*Handle, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT accession, refget_accession, molecule_type, length FROM sequences WHERE `+where, key)
	var h Handle
	var molType sql.NullString
	if err := row.Scan(&h.Accession, &h.RefgetAccession, &molType, &h.Length); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &UnresolvedReferenceError{Accession: key}
		}
		return nil, fmt.Errorf("lookup sequence %q: %w", key, err)
	}
	h.MoleculeType = molType.String
	return &h, nil
}

// Subsequence implements Repository. The slice happens in SQL;
// substring is 1-based in DuckDB.
func (s *Store) Subsequence(ctx context.Context, h *Handle, start, end int64) (string, error) {
	if start < 0 || start > end {
		return "", fmt.Errorf("subsequence %s: bad interval [%d, %d)", h.Accession, start, end)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT substring(seq, ?, ?) FROM sequences WHERE accession = ?`,
		start+1, end-start, h.Accession)
	var sub string
	if err := row.Scan(&sub); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", &UnresolvedReferenceError{Accession: h.Accession}
		}
		return "", fmt.Errorf("subsequence %s: %w", h.Accession, err)
	}
	if int64(len(sub)) != end-start {
		return "", fmt.Errorf("subsequence %s: interval [%d, %d) beyond sequence length", h.Accession, start, end)
	}
	return sub, nil
}

// SequenceCount returns the number of stored sequences.
func (s *Store) SequenceCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sequences`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sequences: %w", err)
	}
	return n, nil
}
