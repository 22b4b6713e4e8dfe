package cutadapt

import "github.com/pkg/errors"

var (
	ErrInvalidOption    = errors.New("invalid option")
	ErrDuplicateBarcode = errors.New("duplicated barcode")
	ErrBatchSize        = errors.New("batch size cannot exceed the number of samples")
	ErrNoReads          = errors.New("no reads were assigned to any sample")
	ErrCutMismatch      = errors.New("mixed orientation requires equal forward and reverse cuts")
	ErrMissingBarcodes  = errors.New("barcode column must be set")
)
