package sequence_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqwork/go-cutadapt/pkg/sequence"
)

func TestPerSampleDirRoundTrip(t *testing.T) {
	t.Parallel()

	dir, err := sequence.NewPerSampleDir()
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir.Path()) })

	require.NoError(t, dir.Add(sequence.Sample{
		ID:      "sample1",
		Forward: "sample1_AACC_L001_R1_001.fastq.gz",
		Reverse: "sample1_AACC_L001_R2_001.fastq.gz",
	}))
	require.NoError(t, dir.Add(sequence.Sample{
		ID:      "sample2",
		Forward: "sample2_GGTT_L001_R1_001.fastq.gz",
		Reverse: "sample2_GGTT_L001_R2_001.fastq.gz",
	}))
	require.NoError(t, dir.SaveManifest())

	reopened, err := sequence.OpenPerSampleDir(dir.Path())
	require.NoError(t, err)
	assert.True(t, reopened.Paired())
	assert.Equal(t, dir.Samples(), reopened.Samples())

	sample, err := reopened.Sample("sample2")
	require.NoError(t, err)
	assert.Equal(t, "sample2_GGTT_L001_R1_001.fastq.gz", sample.Forward)
	assert.Equal(t,
		filepath.Join(reopened.Path(), sample.Forward),
		reopened.FilePath(sample.Forward))
}

func TestPerSampleDirSingleEnd(t *testing.T) {
	t.Parallel()

	dir, err := sequence.NewPerSampleDir()
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir.Path()) })

	require.NoError(t, dir.Add(sequence.Sample{
		ID:      "sample1",
		Forward: "sample1_AACC_L001_R1_001.fastq.gz",
	}))
	require.NoError(t, dir.SaveManifest())

	reopened, err := sequence.OpenPerSampleDir(dir.Path())
	require.NoError(t, err)
	assert.False(t, reopened.Paired())
}

func TestPerSampleDirDuplicate(t *testing.T) {
	t.Parallel()

	dir, err := sequence.NewPerSampleDir()
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir.Path()) })

	require.NoError(t, dir.Add(sequence.Sample{ID: "sample1", Forward: "a.fastq.gz"}))
	err = dir.Add(sequence.Sample{ID: "sample1", Forward: "b.fastq.gz"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sequence.ErrDuplicateSample)
}

func TestPerSampleDirUnknownSample(t *testing.T) {
	t.Parallel()

	dir, err := sequence.NewPerSampleDir()
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir.Path()) })

	_, err = dir.Sample("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, sequence.ErrUnknownSample)
}

func TestOpenPerSampleDirBadManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, sequence.ManifestName),
		[]byte("sample-id,filename,direction\nsample1,a.fastq.gz,sideways\n"),
		0o644))

	_, err := sequence.OpenPerSampleDir(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, sequence.ErrBadManifest)
}

func TestMultiplexedDir(t *testing.T) {
	t.Parallel()

	mux, err := sequence.NewMultiplexedDir(true)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(mux.Path()) })

	require.NoError(t, sequence.WriteEmpty(mux.ForwardPath()))
	require.NoError(t, sequence.WriteEmpty(mux.ReversePath()))

	reopened, err := sequence.OpenMultiplexedDir(mux.Path())
	require.NoError(t, err)
	assert.True(t, reopened.Paired())
	assert.Equal(t, mux.ForwardPath(), reopened.ForwardPath())
}

func TestOpenMultiplexedDirSingleEnd(t *testing.T) {
	t.Parallel()

	mux, err := sequence.NewMultiplexedDir(false)
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(mux.Path()) })

	require.NoError(t, sequence.WriteEmpty(mux.ForwardPath()))

	reopened, err := sequence.OpenMultiplexedDir(mux.Path())
	require.NoError(t, err)
	assert.False(t, reopened.Paired())
}

func TestOpenMultiplexedDirMissingForward(t *testing.T) {
	t.Parallel()

	_, err := sequence.OpenMultiplexedDir(t.TempDir())
	assert.Error(t, err)
}
