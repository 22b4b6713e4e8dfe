// Package schema describes the typed parameters an action accepts.
//
// Every parameter is declared once, with its kind, default and optional range
// constraint, and the declaration drives everything downstream: validation
// before an action runs, default resolution, and the flag sets the command
// line interface builds. Keeping the declaration in one place means the
// registry, the documentation and the CLI cannot drift apart.
package schema
