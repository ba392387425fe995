package seqrepo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// SequenceSink receives sequences parsed from a FASTA stream.
type SequenceSink interface {
	Add(accession, sequence string) *Handle
}

// FailableSink is a sink whose writes can fail. The FASTA loader
// prefers it over SequenceSink so storage errors stop the load instead
// of silently dropping sequences.
type FailableSink interface {
	AddSequence(accession, sequence string) (*Handle, error)
}

// FASTALoader reads reference sequences from FASTA files into a
// repository. Headers are keyed by their first whitespace- or
// pipe-delimited token (the accession).
type FASTALoader struct {
	path string
}

// NewFASTALoader creates a loader for the given FASTA path. Files
// ending in .gz are decompressed transparently.
func NewFASTALoader(path string) *FASTALoader {
	return &FASTALoader{path: path}
}

// Load parses the FASTA file and feeds every record into the sink.
// Returns the number of sequences loaded.
func (l *FASTALoader) Load(sink SequenceSink) (int, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return 0, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parse(reader, sink)
}

func (l *FASTALoader) parse(reader io.Reader, sink SequenceSink) (int, error) {
	scanner := bufio.NewScanner(reader)
	// Large buffer for long sequence lines.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var accession string
	var seq strings.Builder
	count := 0

	flush := func() error {
		if accession != "" && seq.Len() > 0 {
			if fs, ok := sink.(FailableSink); ok {
				if _, err := fs.AddSequence(accession, seq.String()); err != nil {
					return err
				}
			} else {
				sink.Add(accession, seq.String())
			}
			count++
		}
		seq.Reset()
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			if err := flush(); err != nil {
				return count, err
			}
			accession = parseFASTAHeader(line)
		} else {
			seq.WriteString(strings.TrimSpace(line))
		}
	}
	if err := flush(); err != nil {
		return count, err
	}

	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan FASTA: %w", err)
	}
	return count, nil
}

// parseFASTAHeader extracts the accession from a FASTA header line.
// Handles ">NC_000001.11 Homo sapiens ..." and pipe-delimited headers.
func parseFASTAHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " |\t"); idx != -1 {
		return header[:idx]
	}
	return header
}
