package schema

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the value type a parameter carries.
type Kind string

const (
	KindInt     Kind = "int"
	KindFloat   Kind = "float"
	KindBool    Kind = "bool"
	KindStr     Kind = "str"
	KindStrList Kind = "str-list"
	KindThreads Kind = "threads"
	KindColumn  Kind = "column"
)

var (
	ErrUnknownParam  = errors.New("unknown parameter")
	ErrWrongType     = errors.New("wrong value type")
	ErrOutOfRange    = errors.New("value out of range")
	ErrDuplicateName = errors.New("duplicate parameter name")
)

// ColumnRef points at a single column of a sample metadata file.
type ColumnRef struct {
	File   string
	Column string
}

// Spec is the declaration of one parameter.
type Spec struct {
	Name        string
	Kind        Kind
	Description string
	// Default is the value used when the caller does not provide one.
	// A nil default marks the parameter as optional.
	Default any
	// Check holds the range constraint, if any.
	Check func(value any) error
}

// Validate checks that value matches the spec's kind and range.
func (s Spec) Validate(value any) error {
	if err := checkKind(s.Kind, value); err != nil {
		return errors.Wrapf(err, "parameter %q", s.Name)
	}
	if s.Check != nil {
		if err := s.Check(value); err != nil {
			return errors.Wrapf(err, "parameter %q", s.Name)
		}
	}

	return nil
}

func checkKind(kind Kind, value any) error {
	switch kind {
	case KindInt, KindThreads:
		if _, ok := value.(int); !ok {
			return errors.Wrapf(ErrWrongType, "expected int, got %T", value)
		}
	case KindFloat:
		if _, ok := value.(float64); !ok {
			return errors.Wrapf(ErrWrongType, "expected float64, got %T", value)
		}
	case KindBool:
		if _, ok := value.(bool); !ok {
			return errors.Wrapf(ErrWrongType, "expected bool, got %T", value)
		}
	case KindStr:
		if _, ok := value.(string); !ok {
			return errors.Wrapf(ErrWrongType, "expected string, got %T", value)
		}
	case KindStrList:
		if _, ok := value.([]string); !ok {
			return errors.Wrapf(ErrWrongType, "expected []string, got %T", value)
		}
	case KindColumn:
		if _, ok := value.(ColumnRef); !ok {
			return errors.Wrapf(ErrWrongType, "expected schema.ColumnRef, got %T", value)
		}
	default:
		return errors.Errorf("unknown kind %q", kind)
	}

	return nil
}

// Int declares an unconstrained integer parameter.
func Int(name string, def int, doc string) Spec {
	return Spec{Name: name, Kind: KindInt, Description: doc, Default: def}
}

// IntMin declares an integer parameter with an inclusive lower bound.
func IntMin(name string, def, min int, doc string) Spec {
	return Spec{
		Name: name, Kind: KindInt, Description: doc, Default: def,
		Check: func(value any) error {
			if v := value.(int); v < min {
				return errors.Wrapf(ErrOutOfRange, "%d < %d", v, min)
			}
			return nil
		},
	}
}

// FloatRange declares a float parameter bounded inclusively on both ends.
func FloatRange(name string, def, min, max float64, doc string) Spec {
	return Spec{
		Name: name, Kind: KindFloat, Description: doc, Default: def,
		Check: func(value any) error {
			if v := value.(float64); v < min || v > max {
				return errors.Wrapf(ErrOutOfRange, "%v not in [%v, %v]", v, min, max)
			}
			return nil
		},
	}
}

// FloatMin declares an optional float parameter with an inclusive lower bound.
// It has no default; absent means the matching tool flag is omitted.
func FloatMin(name string, min float64, doc string) Spec {
	return Spec{
		Name: name, Kind: KindFloat, Description: doc,
		Check: func(value any) error {
			if v := value.(float64); v < min {
				return errors.Wrapf(ErrOutOfRange, "%v < %v", v, min)
			}
			return nil
		},
	}
}

// Bool declares a boolean parameter.
func Bool(name string, def bool, doc string) Spec {
	return Spec{Name: name, Kind: KindBool, Description: doc, Default: def}
}

// StrList declares an optional repeatable string parameter.
func StrList(name, doc string) Spec {
	return Spec{Name: name, Kind: KindStrList, Description: doc}
}

// Threads declares a CPU count parameter forwarded to the tool.
func Threads(name string, def int, doc string) Spec {
	return Spec{
		Name: name, Kind: KindThreads, Description: doc, Default: def,
		Check: func(value any) error {
			if v := value.(int); v < 1 {
				return errors.Wrapf(ErrOutOfRange, "%d < 1", v)
			}
			return nil
		},
	}
}

// Column declares a metadata column parameter. Columns have no default;
// whether absence is an error is up to the action.
func Column(name, doc string) Spec {
	return Spec{Name: name, Kind: KindColumn, Description: doc}
}

// Params is an ordered parameter collection.
type Params struct {
	specs []Spec
	index map[string]int
}

// NewParams builds a collection from specs, preserving declaration order.
func NewParams(specs ...Spec) (*Params, error) {
	params := &Params{index: make(map[string]int, len(specs))}
	for _, spec := range specs {
		if _, ok := params.index[spec.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateName, spec.Name)
		}
		params.index[spec.Name] = len(params.specs)
		params.specs = append(params.specs, spec)
	}

	return params, nil
}

// MustParams is NewParams for static declarations.
func MustParams(specs ...Spec) *Params {
	params, err := NewParams(specs...)
	if err != nil {
		panic(err)
	}

	return params
}

// Get returns the spec registered under name.
func (p *Params) Get(name string) (Spec, bool) {
	idx, ok := p.index[name]
	if !ok {
		return Spec{}, false
	}

	return p.specs[idx], true
}

// All returns the specs in declaration order.
func (p *Params) All() []Spec {
	return p.specs
}

// Defaults returns a value map holding every non-nil default.
func (p *Params) Defaults() map[string]any {
	values := make(map[string]any, len(p.specs))
	for _, spec := range p.specs {
		if spec.Default != nil {
			values[spec.Name] = spec.Default
		}
	}

	return values
}

// Validate checks every provided value against its spec. Values for unknown
// parameters are rejected; parameters absent from values fall back to their
// defaults and are not checked here.
func (p *Params) Validate(values map[string]any) error {
	for name, value := range values {
		spec, ok := p.Get(name)
		if !ok {
			return errors.Wrap(ErrUnknownParam, name)
		}
		if err := spec.Validate(value); err != nil {
			return err
		}
	}

	return nil
}

// Resolve merges values over the defaults and validates the result.
func (p *Params) Resolve(values map[string]any) (map[string]any, error) {
	if err := p.Validate(values); err != nil {
		return nil, err
	}

	resolved := p.Defaults()
	for name, value := range values {
		resolved[name] = value
	}

	return resolved, nil
}

// String describes the spec the way usage text expects it.
func (s Spec) String() string {
	if s.Default == nil {
		return fmt.Sprintf("%s (%s, optional)", s.Name, s.Kind)
	}

	return fmt.Sprintf("%s (%s, default %v)", s.Name, s.Kind, s.Default)
}
