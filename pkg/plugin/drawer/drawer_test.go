package drawer_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqwork/go-cutadapt/pkg/plugin"
	"github.com/seqwork/go-cutadapt/pkg/plugin/drawer"
)

func testPlugin(t *testing.T) *plugin.Plugin {
	t.Helper()

	p := plugin.New(plugin.Info{Name: "cutadapt"})
	err := p.Register(&plugin.Action{
		Name: "trim-single",
		Inputs: []plugin.Port{
			{Name: "demultiplexed_sequences", Type: "SampleData[SequencesWithQuality]"},
		},
		Outputs: []plugin.Port{
			{Name: "trimmed_sequences", Type: "SampleData[SequencesWithQuality]"},
		},
		Execute: func(_ context.Context, _ plugin.Arguments) (plugin.Outputs, error) {
			return nil, nil
		},
	})
	require.NoError(t, err)

	err = p.Register(&plugin.Action{
		Name: "demux-single",
		Inputs: []plugin.Port{
			{Name: "seqs", Type: "MultiplexedSingleEndBarcodeInSequence"},
		},
		Outputs: []plugin.Port{
			{Name: "per_sample_sequences", Type: "SampleData[SequencesWithQuality]"},
			{Name: "untrimmed_sequences", Type: "MultiplexedSingleEndBarcodeInSequence"},
		},
		Execute: func(_ context.Context, _ plugin.Arguments) (plugin.Outputs, error) {
			return nil, nil
		},
	})
	require.NoError(t, err)

	return p
}

func TestDrawPlugin(t *testing.T) {
	t.Parallel()

	d, err := drawer.NewDOT()
	require.NoError(t, err)
	require.NoError(t, d.AddPlugin(testPlugin(t)))

	var buf bytes.Buffer
	require.NoError(t, d.Draw(&buf))

	out := buf.String()
	assert.Contains(t, out, "strict digraph")
	assert.Contains(t, out, `"trim-single"`)
	assert.Contains(t, out, `"demux-single"`)
	assert.Contains(t, out, `"SampleData[SequencesWithQuality]"`)
	assert.Contains(t, out, `"MultiplexedSingleEndBarcodeInSequence"`)
	assert.Contains(t, out, `"SampleData[SequencesWithQuality]" -> "trim-single"`)
	assert.Contains(t, out, `"demux-single" -> "MultiplexedSingleEndBarcodeInSequence"`)
}

func TestSharedTypeAddedOnce(t *testing.T) {
	t.Parallel()

	d, err := drawer.NewDOT()
	require.NoError(t, err)

	require.NoError(t, d.AddType("SampleData[SequencesWithQuality]"))
	require.NoError(t, d.AddType("SampleData[SequencesWithQuality]"))

	var buf bytes.Buffer
	require.NoError(t, d.Draw(&buf))
	assert.Contains(t, buf.String(), `"SampleData[SequencesWithQuality]"`)
}

func TestDrawFile(t *testing.T) {
	t.Parallel()

	d, err := drawer.NewDOT()
	require.NoError(t, err)
	require.NoError(t, d.AddPlugin(testPlugin(t)))

	name := t.TempDir() + "/plugin.dot"
	require.NoError(t, d.DrawFile(name))
	assert.FileExists(t, name)
}
