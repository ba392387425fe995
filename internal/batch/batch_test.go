package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinbio/vrs-bridge/internal/fhir"
	"github.com/clinbio/vrs-bridge/internal/seqrepo"
	"github.com/clinbio/vrs-bridge/internal/translate"
	"github.com/clinbio/vrs-bridge/internal/vrs"
)

const testAccession = "NC_000002.12"

func testRepo(t *testing.T) *seqrepo.Memory {
	t.Helper()
	repo := seqrepo.NewMemory()
	repo.Add(testAccession, "AAAACAAAA")
	return repo
}

// substitutionJSON marshals a well-formed substitution allele at
// [start, start+1) on the test sequence.
func substitutionJSON(t *testing.T, repo *seqrepo.Memory, start int64) json.RawMessage {
	t.Helper()
	h, err := repo.Resolve(t.Context(), testAccession)
	require.NoError(t, err)
	loc, err := vrs.NewSequenceLocation(h.SequenceReference(), start, start+1)
	require.NoError(t, err)
	raw, err := json.Marshal(&vrs.Allele{
		Location: loc,
		State:    &vrs.LiteralSequenceExpression{Sequence: "T"},
	})
	require.NoError(t, err)
	return raw
}

func recordLine(t *testing.T, members ...json.RawMessage) string {
	t.Helper()
	raw, err := json.Marshal(record{Members: members})
	require.NoError(t, err)
	return string(raw)
}

func TestRunVRSToFHIR(t *testing.T) {
	repo := testRepo(t)

	good := substitutionJSON(t, repo, 4)
	gene := json.RawMessage(`{"type":"Gene","id":"hgnc:1101"}`)
	bad := json.RawMessage(`{"type":"Allele","location":{"type":"SequenceLocation",` +
		`"sequenceReference":{"type":"SequenceReference","refgetAccession":"SQ.missing"},` +
		`"start":0,"end":1},"state":{"type":"LiteralSequenceExpression","sequence":"T"}}`)

	input := strings.Join([]string{
		recordLine(t, good, gene),
		"",
		recordLine(t, bad),
	}, "\n")

	var out bytes.Buffer
	runner := NewRunner(repo)
	summary, err := runner.Run(t.Context(), strings.NewReader(input), &out, VRSToFHIR)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 2, summary.Alleles)
	assert.Equal(t, 1, summary.Translated)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, summary.Translated, summary.Tally.Total())
	assert.Equal(t, 1, summary.Tally.Literal)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)
	var profile fhir.Allele
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &profile))
	assert.Equal(t, fhir.ResourceTypeMolecularDefinition, profile.ResourceType)
}

func TestRunFHIRToVRS(t *testing.T) {
	repo := testRepo(t)
	ctx := t.Context()

	var in vrs.Allele
	require.NoError(t, json.Unmarshal(substitutionJSON(t, repo, 4), &in))
	profile, err := translate.New(repo).ToFHIR(ctx, &in)
	require.NoError(t, err)
	member, err := json.Marshal(profile)
	require.NoError(t, err)

	var out bytes.Buffer
	summary, err := NewRunner(repo).Run(ctx, strings.NewReader(recordLine(t, member)), &out, FHIRToVRS)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Translated)

	var back vrs.Allele
	require.NoError(t, json.Unmarshal(out.Bytes(), &back))
	assert.Equal(t, "ref-to-"+testAccession, back.ID)
	assert.Equal(t, int64(4), back.Location.Start)
	assert.IsType(t, &vrs.LiteralSequenceExpression{}, back.State)
}

func TestRunPreservesInputOrder(t *testing.T) {
	repo := testRepo(t)

	var lines []string
	for start := int64(0); start < 9; start++ {
		lines = append(lines, recordLine(t, substitutionJSON(t, repo, start)))
	}

	var out bytes.Buffer
	runner := NewRunner(repo)
	runner.SetWorkers(4)
	summary, err := runner.Run(t.Context(), strings.NewReader(strings.Join(lines, "\n")), &out, VRSToFHIR)
	require.NoError(t, err)
	require.Equal(t, 9, summary.Translated)

	scanner := bufio.NewScanner(&out)
	var starts []int64
	for scanner.Scan() {
		var profile fhir.Allele
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &profile))
		starts = append(starts, profile.Location[0].SequenceLocation.CoordinateInterval.StartQuantity.Value)
	}
	require.Len(t, starts, 9)
	for i, start := range starts {
		assert.Equal(t, int64(i), start)
	}
}

func TestRunContinuesPastInvalidLines(t *testing.T) {
	repo := testRepo(t)

	// Garbage lines and undecodable members are counted, not fatal;
	// the surrounding alleles still translate.
	input := strings.Join([]string{
		recordLine(t, substitutionJSON(t, repo, 4)),
		"{not json",
		`{"members":["oops"]}`,
		recordLine(t, substitutionJSON(t, repo, 7)),
	}, "\n")

	var out bytes.Buffer
	summary, err := NewRunner(repo).Run(t.Context(), strings.NewReader(input), &out, VRSToFHIR)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Records)
	assert.Equal(t, 2, summary.Invalid)
	assert.Equal(t, 2, summary.Alleles)
	assert.Equal(t, 2, summary.Translated)
	assert.Zero(t, summary.Failed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 2)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "vrs-to-fhir", VRSToFHIR.String())
	assert.Equal(t, "fhir-to-vrs", FHIRToVRS.String())
}

func TestOpenInputCreateOutputGzip(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"records.jsonl", "records.jsonl.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)

			w, err := CreateOutput(path)
			require.NoError(t, err)
			_, err = fmt.Fprintln(w, `{"members":[]}`)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := OpenInput(path)
			require.NoError(t, err)
			defer r.Close()

			scanner := bufio.NewScanner(r)
			require.True(t, scanner.Scan())
			assert.JSONEq(t, `{"members":[]}`, scanner.Text())
		})
	}
}
