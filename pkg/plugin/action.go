package plugin

import (
	"context"

	"github.com/pkg/errors"

	"github.com/seqwork/go-cutadapt/pkg/plugin/schema"
)

// Port describes one input or output artifact of an action.
type Port struct {
	Name string
	// Type is the artifact type label shown to the host, for example
	// "SampleData[SequencesWithQuality]".
	Type        string
	Description string
}

// Arguments is what a caller hands to an action: artifact paths for the
// declared inputs and values for the declared parameters.
type Arguments struct {
	Inputs map[string]string
	Params map[string]any
}

// Outputs maps declared output names to the artifact paths produced.
type Outputs map[string]string

// Action is one callable operation of the plugin.
type Action struct {
	Name string
	// About is the one-line human name of the action.
	About       string
	Description string
	Inputs      []Port
	Outputs     []Port
	Params      *schema.Params
	Execute     func(ctx context.Context, args Arguments) (Outputs, error)
}

// Validate checks the arguments against the action's declaration without
// executing anything: every declared input must be present and every provided
// parameter must satisfy its schema.
func (a *Action) Validate(args Arguments) error {
	for _, port := range a.Inputs {
		if args.Inputs[port.Name] == "" {
			return errors.Wrapf(ErrMissingInput, "%s: input %q", a.Name, port.Name)
		}
	}
	if a.Params != nil {
		if err := a.Params.Validate(args.Params); err != nil {
			return errors.Wrap(err, a.Name)
		}
	}

	return nil
}

// Run validates the arguments, fills in parameter defaults and executes the
// action. Execution never starts when validation fails.
func (a *Action) Run(ctx context.Context, args Arguments) (Outputs, error) {
	if err := a.Validate(args); err != nil {
		return nil, err
	}

	if a.Params != nil {
		resolved, err := a.Params.Resolve(args.Params)
		if err != nil {
			return nil, errors.Wrap(err, a.Name)
		}
		args.Params = resolved
	}

	outputs, err := a.Execute(ctx, args)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to run action %s", a.Name)
	}

	return outputs, nil
}
