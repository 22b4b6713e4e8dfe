// Package app wires the registered plugin actions to a command line
// interface. Every action becomes a subcommand whose flags are generated
// from the action's parameter schema.
package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/seqwork/go-cutadapt/internal/runner"
	"github.com/seqwork/go-cutadapt/pkg/cutadapt"
	"github.com/seqwork/go-cutadapt/pkg/plugin"
	"github.com/seqwork/go-cutadapt/pkg/plugin/drawer"
	"github.com/seqwork/go-cutadapt/pkg/plugin/schema"
)

// Run executes the command line and returns the process exit code.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr, runner.NewExec(stderr))
}

// RunContext is Run with a caller-supplied context and tool runner.
func RunContext(ctx context.Context, argv []string, stdout, stderr io.Writer, run runner.Runner) int {
	p, err := cutadapt.NewPlugin(run)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if len(argv) == 0 {
		printUsage(stdout, p)
		return 0
	}

	switch argv[0] {
	case "help", "-h", "--help":
		printUsage(stdout, p)
		return 0
	case "version", "--version":
		fmt.Fprintf(stdout, "%s version %s\n", p.Name, p.Version)
		return 0
	case "actions":
		for _, action := range p.Actions() {
			fmt.Fprintf(stdout, "%-14s %s\n", action.Name, action.About)
		}
		return 0
	case "graph":
		return runGraph(p, argv[1:], stdout, stderr)
	}

	action, err := p.Action(argv[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		printUsage(stderr, p)
		return 2
	}

	return runAction(ctx, action, argv[1:], stderr)
}

func printUsage(out io.Writer, p *plugin.Plugin) {
	fmt.Fprintf(out, "%s - %s\n\n", p.Name, p.ShortDescription)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s <action> [flags]\n\n", p.Name)
	fmt.Fprintln(out, "Actions:")
	for _, action := range p.Actions() {
		fmt.Fprintf(out, "  %-14s %s\n", action.Name, action.About)
	}
	fmt.Fprintln(out, "  actions        List the available actions.")
	fmt.Fprintln(out, "  graph          Render the action graph as DOT.")
	fmt.Fprintln(out, "  version        Print the version.")
	fmt.Fprintf(out, "\nRun '%s <action> -h' for the flags of one action.\n", p.Name)
}

func runGraph(p *plugin.Plugin, argv []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("output", "", "Write the DOT graph to this file instead of stdout.")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	dot, err := drawer.NewDOT()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := dot.AddPlugin(p); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if *output != "" {
		err = dot.DrawFile(*output)
	} else {
		err = dot.Draw(stdout)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	return 0
}

func runAction(ctx context.Context, action *plugin.Action, argv []string, stderr io.Writer) int {
	flags, err := newActionFlags(action, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if err := flags.fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	args := flags.arguments()
	for name, dest := range flags.outputs {
		if *dest == "" {
			fmt.Fprintf(stderr, "missing required flag --%s\n", flagName(name))
			return 2
		}
	}

	outputs, err := action.Run(ctx, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	for name, dest := range flags.outputs {
		if err := moveDir(*dest, outputs[name]); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	return 0
}

// actionFlags is the flag set generated from one action's declaration.
// Inputs and outputs become path flags, parameters follow their schema kind.
type actionFlags struct {
	fs      *flag.FlagSet
	inputs  map[string]*string
	outputs map[string]*string
	getters map[string]func() any
}

func flagName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

func newActionFlags(action *plugin.Action, stderr io.Writer) (*actionFlags, error) {
	flags := &actionFlags{
		fs:      flag.NewFlagSet(action.Name, flag.ContinueOnError),
		inputs:  make(map[string]*string),
		outputs: make(map[string]*string),
		getters: make(map[string]func() any),
	}
	flags.fs.SetOutput(stderr)

	for _, port := range action.Inputs {
		flags.inputs[port.Name] = flags.fs.String(flagName(port.Name), "", port.Description)
	}
	for _, port := range action.Outputs {
		flags.outputs[port.Name] = flags.fs.String(flagName(port.Name),
			"", port.Description+" Written to this directory.")
	}

	for _, spec := range action.Params.All() {
		spec := spec
		name := flagName(spec.Name)

		switch spec.Kind {
		case schema.KindInt, schema.KindThreads:
			def, _ := spec.Default.(int)
			ptr := flags.fs.Int(name, def, spec.Description)
			flags.getters[spec.Name] = func() any { return *ptr }
		case schema.KindFloat:
			def, _ := spec.Default.(float64)
			ptr := flags.fs.Float64(name, def, spec.Description)
			flags.getters[spec.Name] = func() any { return *ptr }
		case schema.KindBool:
			def, _ := spec.Default.(bool)
			ptr := flags.fs.Bool(name, def, spec.Description)
			flags.getters[spec.Name] = func() any { return *ptr }
		case schema.KindStr:
			def, _ := spec.Default.(string)
			ptr := flags.fs.String(name, def, spec.Description)
			flags.getters[spec.Name] = func() any { return *ptr }
		case schema.KindStrList:
			list := &stringList{}
			flags.fs.Var(list, name, spec.Description+" May be repeated.")
			flags.getters[spec.Name] = func() any { return []string(*list) }
		case schema.KindColumn:
			col := &columnRef{}
			flags.fs.Var(col, name, spec.Description+" Format: FILE:COLUMN.")
			flags.getters[spec.Name] = func() any {
				return schema.ColumnRef{File: col.file, Column: col.column}
			}
		default:
			return nil, errors.Errorf("action %s: parameter %s has unsupported kind %s",
				action.Name, spec.Name, spec.Kind)
		}
	}

	return flags, nil
}

// arguments collects the parsed inputs and the parameters the caller
// actually set, so schema defaults and optional parameters keep working.
func (f *actionFlags) arguments() plugin.Arguments {
	set := make(map[string]struct{})
	f.fs.Visit(func(fl *flag.Flag) { set[fl.Name] = struct{}{} })

	params := make(map[string]any)
	for name, get := range f.getters {
		if _, ok := set[flagName(name)]; ok {
			params[name] = get()
		}
	}

	inputs := make(map[string]string, len(f.inputs))
	for name, value := range f.inputs {
		inputs[name] = *value
	}

	return plugin.Arguments{Inputs: inputs, Params: params}
}

// stringList accumulates repeated flag values.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

// columnRef parses FILE:COLUMN flag values.
type columnRef struct {
	file   string
	column string
}

func (c *columnRef) String() string {
	if c.file == "" {
		return ""
	}

	return c.file + ":" + c.column
}

func (c *columnRef) Set(value string) error {
	idx := strings.LastIndex(value, ":")
	if idx <= 0 || idx == len(value)-1 {
		return errors.Errorf("expected FILE:COLUMN, got %q", value)
	}
	c.file, c.column = value[:idx], value[idx+1:]

	return nil
}

// moveDir moves the staged artifact directory to its destination, copying
// when a plain rename crosses file systems.
func moveDir(dst, src string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyDir(dst, src); err != nil {
		return err
	}

	return errors.Wrapf(os.RemoveAll(src), "unable to clean up %s", src)
}

func copyDir(dst, src string) error {
	err := filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(target, content, 0o644)
	})

	return errors.Wrapf(err, "unable to copy %s to %s", src, dst)
}
