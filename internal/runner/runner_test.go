package runner_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqwork/go-cutadapt/internal/runner"
)

func TestExecRunSuccess(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	run := runner.NewExec(&out)

	err := run.Run(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Running: sh -c echo hello")
	assert.Contains(t, out.String(), "hello")
}

func TestExecRunNonZeroExit(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	run := runner.NewExec(&out)

	err := run.Run(context.Background(), "sh", "-c", "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command failed")
}

func TestExecRunMissingBinary(t *testing.T) {
	t.Parallel()

	run := runner.NewExec(&bytes.Buffer{})

	err := run.Run(context.Background(), "definitely-not-a-binary-6f2a")
	assert.Error(t, err)
}

func TestExecRunCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run := runner.NewExec(&bytes.Buffer{})
	err := run.Run(ctx, "sh", "-c", "sleep 5")
	assert.Error(t, err)
}

func TestNewExecDefaultsWriter(t *testing.T) {
	t.Parallel()

	run := runner.NewExec(nil)
	assert.NotNil(t, run.Out)
}
