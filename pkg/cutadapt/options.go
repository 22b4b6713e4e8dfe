package cutadapt

import (
	"github.com/pkg/errors"

	"github.com/seqwork/go-cutadapt/pkg/metadata"
)

// TrimOptions configures trimming of demultiplexed single-end reads. The
// zero value is not usable; start from DefaultTrimOptions.
type TrimOptions struct {
	// Adapter, Front and Anywhere are 3', 5' and either-end adapter
	// sequences, searched in that order of flags.
	Adapter  []string
	Front    []string
	Anywhere []string
	// Cut unconditionally removes bases before adapter trimming; positive
	// from the 5' end, negative from the 3' end.
	Cut                   int
	ErrorRate             float64
	Indels                bool
	Times                 int
	Overlap               int
	MatchReadWildcards    bool
	MatchAdapterWildcards bool
	MinimumLength         int
	DiscardUntrimmed      bool
	// MaxExpectedErrors and MaxN are forwarded only when set.
	MaxExpectedErrors *float64
	MaxN              *float64
	QualityCutoff5End int
	QualityCutoff3End int
	QualityBase       int
	Cores             int
	// Jobs bounds how many cutadapt processes run at once, one per sample.
	Jobs int
}

// DefaultTrimOptions mirrors the registered parameter defaults.
func DefaultTrimOptions() TrimOptions {
	return TrimOptions{
		ErrorRate:             0.1,
		Indels:                true,
		Times:                 1,
		Overlap:               3,
		MatchAdapterWildcards: true,
		MinimumLength:         1,
		QualityBase:           33,
		Cores:                 1,
		Jobs:                  1,
	}
}

func (o TrimOptions) validate() error {
	return validateTrimCommon(o.ErrorRate, o.Times, o.Overlap, o.MinimumLength,
		o.QualityCutoff5End, o.QualityCutoff3End, o.QualityBase, o.Cores, o.Jobs)
}

// TrimPairedOptions configures trimming of demultiplexed paired-end reads.
type TrimPairedOptions struct {
	AdapterF  []string
	FrontF    []string
	AnywhereF []string
	AdapterR  []string
	FrontR    []string
	AnywhereR []string

	ForwardCut            int
	ReverseCut            int
	ErrorRate             float64
	Indels                bool
	Times                 int
	Overlap               int
	MatchReadWildcards    bool
	MatchAdapterWildcards bool
	MinimumLength         int
	DiscardUntrimmed      bool
	MaxExpectedErrors     *float64
	MaxN                  *float64
	QualityCutoff5End     int
	QualityCutoff3End     int
	QualityBase           int
	Cores                 int
	Jobs                  int
}

// DefaultTrimPairedOptions mirrors the registered parameter defaults.
func DefaultTrimPairedOptions() TrimPairedOptions {
	return TrimPairedOptions{
		ErrorRate:             0.1,
		Indels:                true,
		Times:                 1,
		Overlap:               3,
		MatchAdapterWildcards: true,
		MinimumLength:         1,
		QualityBase:           33,
		Cores:                 1,
		Jobs:                  1,
	}
}

func (o TrimPairedOptions) validate() error {
	return validateTrimCommon(o.ErrorRate, o.Times, o.Overlap, o.MinimumLength,
		o.QualityCutoff5End, o.QualityCutoff3End, o.QualityBase, o.Cores, o.Jobs)
}

func validateTrimCommon(errorRate float64, times, overlap, minimumLength,
	cutoff5, cutoff3, qualityBase, cores, jobs int,
) error {
	switch {
	case errorRate < 0 || errorRate > 1:
		return errors.Wrap(ErrInvalidOption, "error rate must be in [0, 1]")
	case times < 1:
		return errors.Wrap(ErrInvalidOption, "times must be at least 1")
	case overlap < 1:
		return errors.Wrap(ErrInvalidOption, "overlap must be at least 1")
	case minimumLength < 1:
		return errors.Wrap(ErrInvalidOption, "minimum length must be at least 1")
	case cutoff5 < 0 || cutoff3 < 0:
		return errors.Wrap(ErrInvalidOption, "quality cutoffs must not be negative")
	case qualityBase < 0:
		return errors.Wrap(ErrInvalidOption, "quality base must not be negative")
	case cores < 1:
		return errors.Wrap(ErrInvalidOption, "cores must be at least 1")
	case jobs < 1:
		return errors.Wrap(ErrInvalidOption, "jobs must be at least 1")
	}

	return nil
}

// DemuxOptions configures single-end demultiplexing.
type DemuxOptions struct {
	// Barcodes lists the per-sample barcode sequences.
	Barcodes *metadata.Column
	// ErrorRate is the barcode match tolerance; 0 means exact matching.
	ErrorRate float64
	// AnchorBarcode requires the full barcode at the 5' end of the read.
	AnchorBarcode bool
	// BatchSize is how many samples are demultiplexed per tool invocation;
	// 0 processes all samples at once.
	BatchSize     int
	MinimumLength int
	// Cut removes bases before demultiplexing; positive from the start,
	// negative from the end.
	Cut   int
	Cores int
}

// DefaultDemuxOptions mirrors the registered parameter defaults.
func DefaultDemuxOptions() DemuxOptions {
	return DemuxOptions{
		ErrorRate:     0.1,
		MinimumLength: 1,
		Cores:         1,
	}
}

func (o DemuxOptions) validate() error {
	if o.Barcodes == nil {
		return ErrMissingBarcodes
	}

	return validateDemuxCommon(o.ErrorRate, o.BatchSize, o.MinimumLength, o.Cores, o.Barcodes.Len())
}

// DemuxPairedOptions configures paired-end demultiplexing.
type DemuxPairedOptions struct {
	ForwardBarcodes *metadata.Column
	// ReverseBarcodes is optional; when set the tool requires both barcodes
	// of a pair to match (dual indexing).
	ReverseBarcodes      *metadata.Column
	ForwardCut           int
	ReverseCut           int
	ErrorRate            float64
	AnchorForwardBarcode bool
	AnchorReverseBarcode bool
	BatchSize            int
	MinimumLength        int
	// MixedOrientation demultiplexes a second time with the leftover reads
	// swapped, for runs where forward and reverse reads share a file.
	MixedOrientation bool
	Cores            int
}

// DefaultDemuxPairedOptions mirrors the registered parameter defaults.
func DefaultDemuxPairedOptions() DemuxPairedOptions {
	return DemuxPairedOptions{
		ErrorRate:     0.1,
		MinimumLength: 1,
		Cores:         1,
	}
}

func (o DemuxPairedOptions) validate() error {
	if o.ForwardBarcodes == nil {
		return ErrMissingBarcodes
	}
	if o.MixedOrientation && o.ForwardCut != o.ReverseCut {
		return ErrCutMismatch
	}
	if o.ReverseBarcodes != nil && o.ReverseBarcodes.Len() != o.ForwardBarcodes.Len() {
		return errors.Wrap(ErrInvalidOption, "forward and reverse barcode columns differ in length")
	}

	return validateDemuxCommon(o.ErrorRate, o.BatchSize, o.MinimumLength, o.Cores, o.ForwardBarcodes.Len())
}

func validateDemuxCommon(errorRate float64, batchSize, minimumLength, cores, samples int) error {
	switch {
	case errorRate < 0 || errorRate > 1:
		return errors.Wrap(ErrInvalidOption, "error rate must be in [0, 1]")
	case batchSize < 0:
		return errors.Wrap(ErrInvalidOption, "batch size must not be negative")
	case batchSize > samples:
		return errors.Wrapf(ErrBatchSize, "%d > %d", batchSize, samples)
	case minimumLength < 1:
		return errors.Wrap(ErrInvalidOption, "minimum length must be at least 1")
	case cores < 1:
		return errors.Wrap(ErrInvalidOption, "cores must be at least 1")
	}

	return nil
}
