// Package drawer renders a plugin's action graph.
//
// Artifact types and actions become vertices, inputs and outputs become
// directed edges, and the result is written as DOT so any graphviz toolchain
// can turn it into SVG.
package drawer

import (
	"io"
	"os"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/seqwork/go-cutadapt/pkg/plugin"
)

// DOTDrawer accumulates the plugin graph and renders it as DOT.
type DOTDrawer struct {
	graph   graph.Graph[string, string]
	actions map[string]struct{}
	types   map[string]struct{}

	actionFill string
	typeFill   string
}

// NewDOT creates an empty drawer.
func NewDOT() (*DOTDrawer, error) {
	drawer := &DOTDrawer{
		graph:   graph.New(graph.StringHash, graph.Directed()),
		actions: make(map[string]struct{}),
		types:   make(map[string]struct{}),
	}

	actionFill, err := colors.RGB(191, 213, 255)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build action colour")
	}
	typeFill, err := colors.RGB(255, 229, 180)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build type colour")
	}
	drawer.actionFill = actionFill.ToHEX().String()
	drawer.typeFill = typeFill.ToHEX().String()

	return drawer, nil
}

// AddAction adds an action vertex.
func (d *DOTDrawer) AddAction(name string) error {
	if _, ok := d.actions[name]; ok {
		return nil
	}

	err := d.graph.AddVertex(name,
		graph.VertexAttribute("shape", "box"),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", d.actionFill),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add action vertex %s", name)
	}
	d.actions[name] = struct{}{}

	return nil
}

// AddType adds an artifact type vertex. Types shared by several actions are
// added once.
func (d *DOTDrawer) AddType(name string) error {
	if _, ok := d.types[name]; ok {
		return nil
	}

	err := d.graph.AddVertex(name,
		graph.VertexAttribute("shape", "ellipse"),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", d.typeFill),
	)
	if err != nil {
		return errors.Wrapf(err, "unable to add type vertex %s", name)
	}
	d.types[name] = struct{}{}

	return nil
}

// AddFlow adds a directed edge between two existing vertices.
func (d *DOTDrawer) AddFlow(from, to string) error {
	err := d.graph.AddEdge(from, to)
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return errors.Wrapf(err, "unable to add edge from %s to %s", from, to)
	}

	return nil
}

// AddPlugin walks every registered action and records its input and output
// artifact types as flows through the action.
func (d *DOTDrawer) AddPlugin(p *plugin.Plugin) error {
	for _, action := range p.Actions() {
		err := d.AddAction(action.Name)
		if err != nil {
			return err
		}

		for _, port := range action.Inputs {
			if err := d.AddType(port.Type); err != nil {
				return err
			}
			if err := d.AddFlow(port.Type, action.Name); err != nil {
				return err
			}
		}
		for _, port := range action.Outputs {
			if err := d.AddType(port.Type); err != nil {
				return err
			}
			if err := d.AddFlow(action.Name, port.Type); err != nil {
				return err
			}
		}
	}

	return nil
}

// Draw renders the accumulated graph as DOT.
func (d *DOTDrawer) Draw(wrt io.Writer) error {
	err := dot(d.graph, wrt)
	if err != nil {
		return errors.Wrap(err, "unable to render plugin graph")
	}

	return nil
}

// DrawFile renders the accumulated graph into a file.
func (d *DOTDrawer) DrawFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", name)
	}
	defer file.Close()

	return d.Draw(file)
}
