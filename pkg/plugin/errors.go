package plugin

import "github.com/pkg/errors"

var (
	ErrDuplicateAction = errors.New("action already registered")
	ErrUnknownAction   = errors.New("unknown action")
	ErrActionName      = errors.New("action name must be set")
	ErrNilExecute      = errors.New("action execute function must be set")
	ErrMissingInput    = errors.New("required input not provided")
)
