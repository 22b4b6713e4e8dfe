package sequence_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqwork/go-cutadapt/pkg/sequence"
)

var testRecords = []sequence.Record{
	{Header: "@read1", Sequence: "ACGTACGT", Quality: "IIIIIIII"},
	{Header: "@read2", Sequence: "TTTTAAAA", Quality: "FFFFFFFF"},
}

func TestWriteReadRecords(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.fastq.gz")
	require.NoError(t, sequence.WriteRecords(path, testRecords))

	got, err := sequence.ReadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, testRecords, got)

	count, err := sequence.CountRecords(path)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestWriteEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.fastq.gz")
	require.NoError(t, sequence.WriteEmpty(path))

	count, err := sequence.CountRecords(path)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAppendFileConcatenatesMembers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first.fastq.gz")
	second := filepath.Join(dir, "second.fastq.gz")
	require.NoError(t, sequence.WriteRecords(first, testRecords[:1]))
	require.NoError(t, sequence.WriteRecords(second, testRecords[1:]))

	require.NoError(t, sequence.AppendFile(first, second))

	got, err := sequence.ReadRecords(first)
	require.NoError(t, err)
	assert.Equal(t, testRecords, got)
}

func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.fastq.gz")
	dst := filepath.Join(dir, "dst.fastq.gz")
	require.NoError(t, sequence.WriteRecords(src, testRecords))

	require.NoError(t, sequence.CopyFile(dst, src))

	got, err := sequence.ReadRecords(dst)
	require.NoError(t, err)
	assert.Equal(t, testRecords, got)
}

func TestReadRecordsRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "MissingAtHeader", content: "read1\nACGT\n+\nIIII\n"},
		{name: "MissingPlus", content: "@read1\nACGT\nACGT\nIIII\n"},
		{name: "LengthMismatch", content: "@read1\nACGT\n+\nII\n"},
		{name: "Truncated", content: "@read1\nACGT\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "bad.fastq.gz")
			require.NoError(t, writeGzipString(t, path, tc.content))

			_, err := sequence.ReadRecords(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, sequence.ErrBadRecord)
		})
	}
}

func writeGzipString(t *testing.T, path, content string) error {
	t.Helper()

	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	gwr := pgzip.NewWriter(file)
	_, err = gwr.Write([]byte(content))
	require.NoError(t, err)

	return gwr.Close()
}
