package app

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqwork/go-cutadapt/pkg/cutadapt"
	"github.com/seqwork/go-cutadapt/pkg/sequence"
)

// stubRunner stands in for the external tool: it records invocations and
// creates empty outputs at the paths named by -o and -p.
type stubRunner struct {
	mu    sync.Mutex
	calls [][]string
}

func (s *stubRunner) Run(_ context.Context, _ string, args ...string) error {
	s.mu.Lock()
	s.calls = append(s.calls, args)
	s.mu.Unlock()

	for idx, arg := range args {
		if arg == "-o" || arg == "-p" {
			if err := sequence.WriteEmpty(args[idx+1]); err != nil {
				return err
			}
		}
	}

	return nil
}

func run(t *testing.T, stub *stubRunner, argv ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := RunContext(context.Background(), argv, &stdout, &stderr, stub)

	return code, stdout.String(), stderr.String()
}

func stageSingleEnd(t *testing.T, ids ...string) string {
	t.Helper()

	seqs, err := sequence.NewPerSampleDir()
	require.NoError(t, err)

	for _, id := range ids {
		name := sequence.ReadName{
			SampleID: id, BarcodeID: "00", Lane: 1, Read: 1, Set: 1,
		}.String()
		require.NoError(t, sequence.WriteRecords(seqs.FilePath(name), []sequence.Record{
			{Header: "@" + id, Sequence: "ACGT", Quality: "IIII"},
		}))
		require.NoError(t, seqs.Add(sequence.Sample{ID: id, Forward: name}))
	}
	require.NoError(t, seqs.SaveManifest())

	dest := filepath.Join(t.TempDir(), "input")
	require.NoError(t, moveDir(dest, seqs.Path()))

	return dest
}

func TestRunWithoutArguments(t *testing.T) {
	t.Parallel()

	code, stdout, _ := run(t, &stubRunner{})
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "trim-single")
	assert.Contains(t, stdout, "demux-paired")
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	code, stdout, _ := run(t, &stubRunner{}, "version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, cutadapt.Version)
}

func TestRunActions(t *testing.T) {
	t.Parallel()

	code, stdout, _ := run(t, &stubRunner{}, "actions")
	assert.Equal(t, 0, code)
	for _, name := range []string{"trim-single", "trim-paired", "demux-single", "demux-paired"} {
		assert.Contains(t, stdout, name)
	}
}

func TestRunGraph(t *testing.T) {
	t.Parallel()

	code, stdout, _ := run(t, &stubRunner{}, "graph")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "digraph")
	assert.Contains(t, stdout, "demux-single")
	assert.Contains(t, stdout, cutadapt.TypeSingleEnd)
}

func TestRunUnknownAction(t *testing.T) {
	t.Parallel()

	code, _, stderr := run(t, &stubRunner{}, "no-such-action")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "unknown action")
}

func TestRunTrimSingle(t *testing.T) {
	t.Parallel()

	input := stageSingleEnd(t, "sample-a", "sample-b")
	output := filepath.Join(t.TempDir(), "trimmed")
	stub := &stubRunner{}

	code, _, stderr := run(t, stub,
		"trim-single",
		"--demultiplexed-sequences", input,
		"--trimmed-sequences", output,
		"--adapter", "GATTACA",
		"--adapter", "ACATTAG",
		"--error-rate", "0.2",
	)
	require.Equal(t, 0, code, stderr)

	trimmed, err := sequence.OpenPerSampleDir(output)
	require.NoError(t, err)
	assert.Len(t, trimmed.Samples(), 2)

	require.Len(t, stub.calls, 2)
	for _, call := range stub.calls {
		assert.Contains(t, call, "GATTACA")
		assert.Contains(t, call, "ACATTAG")
		assert.Contains(t, call, "0.2")
	}
}

func TestRunTrimSingleMissingOutputFlag(t *testing.T) {
	t.Parallel()

	input := stageSingleEnd(t, "sample-a")

	code, _, stderr := run(t, &stubRunner{},
		"trim-single", "--demultiplexed-sequences", input)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "--trimmed-sequences")
}

func TestRunTrimSingleMissingInput(t *testing.T) {
	t.Parallel()

	code, _, stderr := run(t, &stubRunner{},
		"trim-single", "--trimmed-sequences", filepath.Join(t.TempDir(), "out"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "demultiplexed_sequences")
}

func TestRunTrimSingleRejectsBadFlagValue(t *testing.T) {
	t.Parallel()

	code, _, _ := run(t, &stubRunner{},
		"trim-single", "--error-rate", "not-a-number")
	assert.Equal(t, 2, code)
}

func TestColumnRefSet(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		value  string
		file   string
		column string
		valid  bool
	}{
		{value: "metadata.tsv:barcode", file: "metadata.tsv", column: "barcode", valid: true},
		{value: "/data/sheet.tsv:forward-barcode", file: "/data/sheet.tsv", column: "forward-barcode", valid: true},
		{value: "metadata.tsv", valid: false},
		{value: ":barcode", valid: false},
		{value: "metadata.tsv:", valid: false},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.value, func(t *testing.T) {
			t.Parallel()

			var ref columnRef
			err := ref.Set(tc.value)
			if !tc.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.file, ref.file)
			assert.Equal(t, tc.column, ref.column)
		})
	}
}
