package plugin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqwork/go-cutadapt/pkg/plugin"
	"github.com/seqwork/go-cutadapt/pkg/plugin/schema"
)

func noopExecute(_ context.Context, _ plugin.Arguments) (plugin.Outputs, error) {
	return plugin.Outputs{}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	t.Parallel()

	p := plugin.New(plugin.Info{Name: "cutadapt", Version: "dev"})

	first := &plugin.Action{Name: "trim-single", Execute: noopExecute}
	second := &plugin.Action{Name: "trim-paired", Execute: noopExecute}
	require.NoError(t, p.Register(first))
	require.NoError(t, p.Register(second))

	got, err := p.Action("trim-single")
	require.NoError(t, err)
	assert.Same(t, first, got)

	assert.Equal(t, []*plugin.Action{first, second}, p.Actions())
}

func TestRegisterDuplicate(t *testing.T) {
	t.Parallel()

	p := plugin.New(plugin.Info{Name: "cutadapt"})
	require.NoError(t, p.Register(&plugin.Action{Name: "trim-single", Execute: noopExecute}))

	err := p.Register(&plugin.Action{Name: "trim-single", Execute: noopExecute})
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrDuplicateAction)
}

func TestRegisterInvalid(t *testing.T) {
	t.Parallel()

	p := plugin.New(plugin.Info{Name: "cutadapt"})

	err := p.Register(&plugin.Action{Execute: noopExecute})
	assert.ErrorIs(t, err, plugin.ErrActionName)

	err = p.Register(&plugin.Action{Name: "trim-single"})
	assert.ErrorIs(t, err, plugin.ErrNilExecute)
}

func TestUnknownAction(t *testing.T) {
	t.Parallel()

	p := plugin.New(plugin.Info{Name: "cutadapt"})

	_, err := p.Action("demux-single")
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrUnknownAction)
}

func TestActionRunValidatesBeforeExecute(t *testing.T) {
	t.Parallel()

	executed := false
	action := &plugin.Action{
		Name:   "trim-single",
		Inputs: []plugin.Port{{Name: "demultiplexed_sequences", Type: "SampleData[SequencesWithQuality]"}},
		Params: schema.MustParams(
			schema.FloatRange("error_rate", 0.1, 0, 1, "doc"),
		),
		Execute: func(_ context.Context, _ plugin.Arguments) (plugin.Outputs, error) {
			executed = true
			return plugin.Outputs{}, nil
		},
	}

	_, err := action.Run(context.Background(), plugin.Arguments{
		Inputs: map[string]string{"demultiplexed_sequences": "/tmp/in"},
		Params: map[string]any{"error_rate": 1.5},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrOutOfRange)
	assert.False(t, executed)

	_, err = action.Run(context.Background(), plugin.Arguments{
		Params: map[string]any{"error_rate": 0.1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, plugin.ErrMissingInput)
	assert.False(t, executed)
}

func TestActionRunResolvesDefaults(t *testing.T) {
	t.Parallel()

	var seen map[string]any
	action := &plugin.Action{
		Name: "trim-single",
		Params: schema.MustParams(
			schema.FloatRange("error_rate", 0.1, 0, 1, "doc"),
			schema.IntMin("overlap", 3, 1, "doc"),
		),
		Execute: func(_ context.Context, args plugin.Arguments) (plugin.Outputs, error) {
			seen = args.Params
			return plugin.Outputs{"trimmed_sequences": "/tmp/out"}, nil
		},
	}

	outputs, err := action.Run(context.Background(), plugin.Arguments{
		Params: map[string]any{"overlap": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, plugin.Outputs{"trimmed_sequences": "/tmp/out"}, outputs)
	assert.Equal(t, map[string]any{"error_rate": 0.1, "overlap": 10}, seen)
}
