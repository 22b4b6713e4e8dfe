// Package plugin is the registration layer a workflow host talks to.
//
// A Plugin is a named collection of actions. Each action declares what it
// consumes and produces (artifact directory formats addressed by path), the
// typed parameters it accepts, and the function that does the work. The host
// discovers actions through the registry, resolves and validates parameters
// against the declared schema, and only then lets the action execute.
//
// The package defines no behaviour of its own beyond bookkeeping: validation
// is driven entirely by the schema declarations, and execution is whatever
// function the action was registered with.
package plugin
