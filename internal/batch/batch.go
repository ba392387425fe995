// Package batch drives translation over line-delimited record files:
// one JSON object per line, allele-bearing entries under "members".
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/translate"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

// Direction selects which way records are translated.
type Direction int

const (
	VRSToFHIR Direction = iota
	FHIRToVRS
)

func (d Direction) String() string {
	if d == FHIRToVRS {
		return "fhir-to-vrs"
	}
	return "vrs-to-fhir"
}

// record is one input line; allele-bearing entries ride in members.
type record struct {
	Members []json.RawMessage `json:"members"`
}

// memberEnvelope sniffs the member's type tags without decoding it.
type memberEnvelope struct {
	Type         string `json:"type"`
	ResourceType string `json:"resourceType"`
}

// Summary aggregates one run.
type Summary struct {
	RunID      string
	Records    int
	Alleles    int
	Translated int
	Failed     int
	Skipped    int
	Invalid    int
	Duration   time.Duration
	Tally      vrs.StateTally
}

// workItem is one allele member queued for translation.
type workItem struct {
	seq  int
	line int
	raw  json.RawMessage
}

// workResult is the translated member or its error.
type workResult struct {
	seq   int
	line  int
	out   json.RawMessage
	class vrs.StateClass
	err   error
}

// Runner translates line-delimited record streams through a worker
// pool. Results are written in input order.
type Runner struct {
	trans   *translate.Translator
	logger  *zap.Logger
	workers int
}

// NewRunner creates a Runner backed by the given sequence repository.
func NewRunner(repo seqrepo.Repository) *Runner {
	return &Runner{
		trans:  translate.New(repo),
		logger: zap.NewNop(),
	}
}

// SetLogger replaces the default no-op logger.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetWorkers overrides the worker count; 0 means runtime.NumCPU().
func (r *Runner) SetWorkers(n int) {
	r.workers = n
}

// Run reads records from in, translates each allele member in dir,
// and writes one JSON object per translated allele to out. Undecodable
// lines and failed members are logged and counted, not fatal; read or
// write errors abort the run.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer, dir Direction) (*Summary, error) {
	started := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	r.logger.Info("batch run starting",
		zap.String("run_id", summary.RunID),
		zap.String("direction", dir.String()))

	workers := r.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	items := make(chan workItem, 2*workers)
	results := r.translateParallel(ctx, items, dir, workers)

	scanErr := make(chan error, 1)
	go func() {
		scanErr <- r.scan(in, items, summary)
	}()

	enc := json.NewEncoder(out)
	collectErr := orderedCollect(results, func(res workResult) error {
		if res.err != nil {
			summary.Failed++
			r.logger.Warn("member translation failed",
				zap.String("run_id", summary.RunID),
				zap.Int("line", res.line),
				zap.Error(res.err))
			return nil
		}
		summary.Translated++
		summary.Tally.AddClass(res.class)
		return enc.Encode(res.out)
	})

	summary.Duration = time.Since(started)
	if err := <-scanErr; err != nil {
		return summary, err
	}
	if collectErr != nil {
		return summary, collectErr
	}

	r.logger.Info("batch run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("records", summary.Records),
		zap.Int("alleles", summary.Alleles),
		zap.Int("translated", summary.Translated),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("invalid", summary.Invalid),
		zap.Duration("duration", summary.Duration),
		zap.Int("literal", summary.Tally.Literal),
		zap.Int("length_only", summary.Tally.LengthOnly),
		zap.Int("other", summary.Tally.Other))
	return summary, nil
}

// scan feeds allele members into the work channel and closes it.
// Lines or members that do not decode are logged and counted as
// invalid, and the scan moves on.
func (r *Runner) scan(in io.Reader, items chan<- workItem, summary *Summary) error {
	defer close(items)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	seq := 0
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		summary.Records++

		var rec record
		if err := json.Unmarshal(text, &rec); err != nil {
			summary.Invalid++
			r.logger.Warn("record line does not decode",
				zap.String("run_id", summary.RunID),
				zap.Int("line", line),
				zap.Error(err))
			continue
		}
		for _, member := range rec.Members {
			var env memberEnvelope
			if err := json.Unmarshal(member, &env); err != nil {
				summary.Invalid++
				r.logger.Warn("record member does not decode",
					zap.String("run_id", summary.RunID),
					zap.Int("line", line),
					zap.Error(err))
				continue
			}
			if env.Type != vrs.TypeAllele && env.ResourceType != fhir.ResourceTypeMolecularDefinition {
				summary.Skipped++
				continue
			}
			summary.Alleles++
			items <- workItem{seq: seq, line: line, raw: member}
			seq++
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan records: %w", err)
	}
	return nil
}

// translateParallel translates work items using a pool of workers.
// Results arrive out of order; orderedCollect restores input order.
func (r *Runner) translateParallel(ctx context.Context, items <-chan workItem, dir Direction, workers int) <-chan workResult {
	results := make(chan workResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				out, class, err := r.translateMember(ctx, item.raw, dir)
				results <- workResult{seq: item.seq, line: item.line, out: out, class: class, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()
	return results
}

// translateMember translates one decoded allele member.
func (r *Runner) translateMember(ctx context.Context, raw json.RawMessage, dir Direction) (json.RawMessage, vrs.StateClass, error) {
	switch dir {
	case FHIRToVRS:
		var in fhir.Allele
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, 0, fmt.Errorf("decode allele profile: %w", err)
		}
		out, err := r.trans.ToVRS(ctx, &in)
		if err != nil {
			return nil, 0, err
		}
		encoded, err := json.Marshal(out)
		return encoded, vrs.ClassifyState(out.State), err
	default:
		var in vrs.Allele
		if err := json.Unmarshal(raw, &in); err != nil {
			return nil, 0, fmt.Errorf("decode allele: %w", err)
		}
		out, err := r.trans.ToFHIR(ctx, &in)
		if err != nil {
			return nil, vrs.ClassifyState(in.State), err
		}
		encoded, err := json.Marshal(out)
		return encoded, vrs.ClassifyState(in.State), err
	}
}

// orderedCollect calls fn for each result in sequence order, buffering
// out-of-order arrivals until the next expected sequence is available.
func orderedCollect(results <-chan workResult, fn func(workResult) error) error {
	pending := make(map[int]workResult)
	next := 0

	for res := range results {
		pending[res.seq] = res
		for {
			cur, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := fn(cur); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}
	return nil
}
