package plugin

import (
	"github.com/pkg/errors"
)

// Info carries the descriptive fields of a plugin.
type Info struct {
	Name             string
	Version          string
	Website          string
	Description      string
	ShortDescription string
}

// Plugin is an ordered registry of actions.
type Plugin struct {
	Info

	actions []*Action
	index   map[string]int
}

// New creates an empty plugin registry.
func New(info Info) *Plugin {
	return &Plugin{
		Info:  info,
		index: make(map[string]int),
	}
}

// Register adds an action to the registry. Registration order is preserved.
func (p *Plugin) Register(action *Action) error {
	if action.Name == "" {
		return ErrActionName
	}
	if action.Execute == nil {
		return errors.Wrap(ErrNilExecute, action.Name)
	}
	if _, ok := p.index[action.Name]; ok {
		return errors.Wrap(ErrDuplicateAction, action.Name)
	}

	p.index[action.Name] = len(p.actions)
	p.actions = append(p.actions, action)

	return nil
}

// Action returns the action registered under name.
func (p *Plugin) Action(name string) (*Action, error) {
	idx, ok := p.index[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownAction, name)
	}

	return p.actions[idx], nil
}

// Actions returns every registered action in registration order.
func (p *Plugin) Actions() []*Action {
	return p.actions
}
