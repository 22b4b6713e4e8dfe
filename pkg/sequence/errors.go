package sequence

import "github.com/pkg/errors"

var (
	ErrBadReadName     = errors.New("file name is not in Casava layout")
	ErrBadManifest     = errors.New("malformed manifest")
	ErrDuplicateSample = errors.New("duplicate sample id")
	ErrUnknownSample   = errors.New("unknown sample id")
	ErrBadRecord       = errors.New("malformed fastq record")
)
