package cutadapt

import (
	"context"

	"github.com/pkg/errors"

	"github.com/seqwork/go-cutadapt/internal/runner"
	"github.com/seqwork/go-cutadapt/pkg/metadata"
	"github.com/seqwork/go-cutadapt/pkg/plugin"
	"github.com/seqwork/go-cutadapt/pkg/plugin/schema"
	"github.com/seqwork/go-cutadapt/pkg/sequence"
)

// Version of the plugin.
const Version = "0.1.0"

// Artifact type labels used by the registered actions.
const (
	TypeSingleEnd      = "SampleData[SequencesWithQuality]"
	TypePairedEnd      = "SampleData[PairedEndSequencesWithQuality]"
	TypeMuxedSingleEnd = "MultiplexedSingleEndBarcodeInSequence"
	TypeMuxedPairedEnd = "MultiplexedPairedEndBarcodeInSequence"
)

// NewPlugin builds the plugin with all four actions registered, executing
// the tool through run.
func NewPlugin(run runner.Runner) (*plugin.Plugin, error) {
	p := plugin.New(plugin.Info{
		Name:    "cutadapt",
		Version: Version,
		Website: "https://github.com/seqwork/go-cutadapt",
		Description: "This plugin uses cutadapt to work with adapters " +
			"(e.g. barcodes, primers) in sequence data.",
		ShortDescription: "Plugin for removing adapter sequences, primers, and " +
			"other unwanted sequence from sequence data.",
	})
	if err := Register(p, run); err != nil {
		return nil, err
	}

	return p, nil
}

// Register adds the trim and demux actions to an existing plugin.
func Register(p *plugin.Plugin, run runner.Runner) error {
	for _, action := range []*plugin.Action{
		trimSingleAction(run),
		trimPairedAction(run),
		demuxSingleAction(run),
		demuxPairedAction(run),
	} {
		if err := p.Register(action); err != nil {
			return errors.Wrap(err, "unable to register cutadapt actions")
		}
	}

	return nil
}

const (
	adapterDoc = "Sequence of an adapter ligated to the 3' end. The adapter " +
		"and any subsequent bases are trimmed. If a `$` is appended, the " +
		"adapter is only found if it is at the end of the read."
	frontDoc = "Sequence of an adapter ligated to the 5' end. The adapter " +
		"and any preceding bases are trimmed. Partial matches at the 5' end " +
		"are allowed. If a `^` character is prepended, the adapter is only " +
		"found if it is at the beginning of the read."
	anywhereDoc = "Sequence of an adapter that may be ligated to the 5' or " +
		"3' end. Both types of matches as described under `adapter` and " +
		"`front` are allowed. This option is mostly for rescuing failed " +
		"library preparations - do not use if you know which end your " +
		"adapter was ligated to."
	cutDoc = "Unconditionally remove bases from the beginning or end of " +
		"each read. Cutting is applied before adapter trimming. Use a " +
		"positive integer to remove bases from the 5' end and a negative " +
		"integer to remove bases from the 3' end."
	minimumLengthDoc = "Discard reads shorter than specified value. Note, " +
		"the cutadapt default of 0 has been overridden, because that value " +
		"produces empty sequence records."
	maxNDoc = "Discard reads with more than COUNT N bases. If " +
		"COUNT_or_FRACTION is a number between 0 and 1, it is interpreted " +
		"as a fraction of the read length."
	batchSizeDoc = "The number of samples cutadapt demultiplexes " +
		"concurrently. Demultiplexing in smaller batches will yield the " +
		"same result with marginal speed loss, and may solve \"too many " +
		"files\" errors related to sample quantity. Set to \"0\" to process " +
		"all samples at once."
	jobsDoc = "Number of cutadapt invocations to run concurrently, one " +
		"invocation per sample."
)

func trimCommonParams(paired bool) []schema.Spec {
	specs := []schema.Spec{
		schema.FloatRange("error_rate", 0.1, 0, 1, "Maximum allowed error rate."),
		schema.Bool("indels", true,
			"Allow insertions or deletions of bases when matching adapters."),
		schema.IntMin("times", 1, 1,
			"Remove multiple occurrences of an adapter if it is repeated, up to `times` times."),
		schema.IntMin("overlap", 3, 1,
			"Require at least `overlap` bases of overlap between read and adapter for an adapter to be found."),
		schema.Bool("match_read_wildcards", false,
			"Interpret IUPAC wildcards (e.g., N) in reads."),
		schema.Bool("match_adapter_wildcards", true,
			"Interpret IUPAC wildcards (e.g., N) in adapters."),
		schema.IntMin("minimum_length", 1, 1, minimumLengthDoc),
		schema.Bool("discard_untrimmed", false,
			"Discard reads in which no adapter was found."),
		schema.FloatMin("max_expected_errors", 0,
			"Discard reads that exceed maximum expected erroneous nucleotides."),
		schema.FloatMin("max_n", 0, maxNDoc),
		schema.IntMin("quality_cutoff_5end", 0, 0,
			"Trim nucleotides with Phred score quality lower than threshold from 5 prime end."),
		schema.IntMin("quality_cutoff_3end", 0, 0,
			"Trim nucleotides with Phred score quality lower than threshold from 3 prime end."),
		schema.IntMin("quality_base", 33, 0,
			"How the Phred score is encoded (33 or 64)."),
		schema.Threads("cores", 1, "Number of CPU cores to use."),
		schema.IntMin("jobs", 1, 1, jobsDoc),
	}
	if paired {
		return append([]schema.Spec{
			schema.StrList("adapter_f", adapterDoc+" Search in forward read."),
			schema.StrList("front_f", frontDoc+" Search in forward read."),
			schema.StrList("anywhere_f", anywhereDoc+" Search in forward read."),
			schema.StrList("adapter_r", adapterDoc+" Search in reverse read."),
			schema.StrList("front_r", frontDoc+" Search in reverse read."),
			schema.StrList("anywhere_r", anywhereDoc+" Search in reverse read."),
			schema.Int("forward_cut", 0, cutDoc+" Applied to the forward read."),
			schema.Int("reverse_cut", 0, cutDoc+" Applied to the reverse read."),
		}, specs...)
	}

	return append([]schema.Spec{
		schema.StrList("adapter", adapterDoc),
		schema.StrList("front", frontDoc),
		schema.StrList("anywhere", anywhereDoc),
		schema.Int("cut", 0, cutDoc),
	}, specs...)
}

func trimSingleAction(run runner.Runner) *plugin.Action {
	return &plugin.Action{
		Name:  "trim-single",
		About: "Find and remove adapters in demultiplexed single-end sequences.",
		Description: "Search demultiplexed single-end sequences for adapters " +
			"and remove them. The parameter descriptions in this method are " +
			"adapted from the official cutadapt docs - please see those docs " +
			"at https://cutadapt.readthedocs.io for complete details.",
		Inputs: []plugin.Port{{
			Name: "demultiplexed_sequences", Type: TypeSingleEnd,
			Description: "The single-end sequences to be trimmed.",
		}},
		Outputs: []plugin.Port{{
			Name: "trimmed_sequences", Type: TypeSingleEnd,
			Description: "The resulting trimmed sequences.",
		}},
		Params: schema.MustParams(trimCommonParams(false)...),
		Execute: func(ctx context.Context, args plugin.Arguments) (plugin.Outputs, error) {
			seqs, err := sequence.OpenPerSampleDir(args.Inputs["demultiplexed_sequences"])
			if err != nil {
				return nil, err
			}

			opts := TrimOptions{
				Adapter:               strListParam(args.Params, "adapter"),
				Front:                 strListParam(args.Params, "front"),
				Anywhere:              strListParam(args.Params, "anywhere"),
				Cut:                   intParam(args.Params, "cut"),
				ErrorRate:             floatParam(args.Params, "error_rate"),
				Indels:                boolParam(args.Params, "indels"),
				Times:                 intParam(args.Params, "times"),
				Overlap:               intParam(args.Params, "overlap"),
				MatchReadWildcards:    boolParam(args.Params, "match_read_wildcards"),
				MatchAdapterWildcards: boolParam(args.Params, "match_adapter_wildcards"),
				MinimumLength:         intParam(args.Params, "minimum_length"),
				DiscardUntrimmed:      boolParam(args.Params, "discard_untrimmed"),
				MaxExpectedErrors:     optFloatParam(args.Params, "max_expected_errors"),
				MaxN:                  optFloatParam(args.Params, "max_n"),
				QualityCutoff5End:     intParam(args.Params, "quality_cutoff_5end"),
				QualityCutoff3End:     intParam(args.Params, "quality_cutoff_3end"),
				QualityBase:           intParam(args.Params, "quality_base"),
				Cores:                 intParam(args.Params, "cores"),
				Jobs:                  intParam(args.Params, "jobs"),
			}

			trimmed, err := TrimSingle(ctx, run, seqs, opts)
			if err != nil {
				return nil, err
			}

			return plugin.Outputs{"trimmed_sequences": trimmed.Path()}, nil
		},
	}
}

func trimPairedAction(run runner.Runner) *plugin.Action {
	return &plugin.Action{
		Name:  "trim-paired",
		About: "Find and remove adapters in demultiplexed paired-end sequences.",
		Description: "Search demultiplexed paired-end sequences for adapters " +
			"and remove them. The parameter descriptions in this method are " +
			"adapted from the official cutadapt docs - please see those docs " +
			"at https://cutadapt.readthedocs.io for complete details.",
		Inputs: []plugin.Port{{
			Name: "demultiplexed_sequences", Type: TypePairedEnd,
			Description: "The paired-end sequences to be trimmed.",
		}},
		Outputs: []plugin.Port{{
			Name: "trimmed_sequences", Type: TypePairedEnd,
			Description: "The resulting trimmed sequences.",
		}},
		Params: schema.MustParams(trimCommonParams(true)...),
		Execute: func(ctx context.Context, args plugin.Arguments) (plugin.Outputs, error) {
			seqs, err := sequence.OpenPerSampleDir(args.Inputs["demultiplexed_sequences"])
			if err != nil {
				return nil, err
			}

			opts := TrimPairedOptions{
				AdapterF:              strListParam(args.Params, "adapter_f"),
				FrontF:                strListParam(args.Params, "front_f"),
				AnywhereF:             strListParam(args.Params, "anywhere_f"),
				AdapterR:              strListParam(args.Params, "adapter_r"),
				FrontR:                strListParam(args.Params, "front_r"),
				AnywhereR:             strListParam(args.Params, "anywhere_r"),
				ForwardCut:            intParam(args.Params, "forward_cut"),
				ReverseCut:            intParam(args.Params, "reverse_cut"),
				ErrorRate:             floatParam(args.Params, "error_rate"),
				Indels:                boolParam(args.Params, "indels"),
				Times:                 intParam(args.Params, "times"),
				Overlap:               intParam(args.Params, "overlap"),
				MatchReadWildcards:    boolParam(args.Params, "match_read_wildcards"),
				MatchAdapterWildcards: boolParam(args.Params, "match_adapter_wildcards"),
				MinimumLength:         intParam(args.Params, "minimum_length"),
				DiscardUntrimmed:      boolParam(args.Params, "discard_untrimmed"),
				MaxExpectedErrors:     optFloatParam(args.Params, "max_expected_errors"),
				MaxN:                  optFloatParam(args.Params, "max_n"),
				QualityCutoff5End:     intParam(args.Params, "quality_cutoff_5end"),
				QualityCutoff3End:     intParam(args.Params, "quality_cutoff_3end"),
				QualityBase:           intParam(args.Params, "quality_base"),
				Cores:                 intParam(args.Params, "cores"),
				Jobs:                  intParam(args.Params, "jobs"),
			}

			trimmed, err := TrimPaired(ctx, run, seqs, opts)
			if err != nil {
				return nil, err
			}

			return plugin.Outputs{"trimmed_sequences": trimmed.Path()}, nil
		},
	}
}

func demuxSingleAction(run runner.Runner) *plugin.Action {
	return &plugin.Action{
		Name:  "demux-single",
		About: "Demultiplex single-end sequence data with barcodes in-sequence.",
		Description: "Demultiplex sequence data (i.e., map barcode reads to " +
			"sample ids). Barcodes are expected to be located within the " +
			"sequence data (versus the header, or a separate barcode file).",
		Inputs: []plugin.Port{{
			Name: "seqs", Type: TypeMuxedSingleEnd,
			Description: "The single-end sequences to be demultiplexed.",
		}},
		Outputs: []plugin.Port{
			{
				Name: "per_sample_sequences", Type: TypeSingleEnd,
				Description: "The resulting demultiplexed sequences.",
			},
			{
				Name: "untrimmed_sequences", Type: TypeMuxedSingleEnd,
				Description: "The sequences that were unmatched to barcodes.",
			},
		},
		Params: schema.MustParams(
			schema.Column("barcodes",
				"The sample metadata column listing the per-sample barcodes."),
			schema.FloatRange("error_rate", 0.1, 0, 1,
				"The level of error tolerance, specified as the maximum allowable error rate."),
			schema.Bool("anchor_barcode", false,
				"Anchor the barcode. The barcode is then expected to occur in full length at "+
					"the beginning (5' end) of the sequence. Can speed up demultiplexing if used."),
			schema.IntMin("batch_size", 0, 0, batchSizeDoc),
			schema.IntMin("minimum_length", 1, 1, minimumLengthDoc),
			schema.Int("cut", 0,
				"Remove the specified number of bases from the sequences. Bases are removed "+
					"before demultiplexing."),
			schema.Threads("cores", 1, "Number of CPU cores to use."),
		),
		Execute: func(ctx context.Context, args plugin.Arguments) (plugin.Outputs, error) {
			seqs, err := sequence.OpenMultiplexedDir(args.Inputs["seqs"])
			if err != nil {
				return nil, err
			}
			barcodes, err := columnParam(args.Params, "barcodes")
			if err != nil {
				return nil, err
			}

			opts := DemuxOptions{
				Barcodes:      barcodes,
				ErrorRate:     floatParam(args.Params, "error_rate"),
				AnchorBarcode: boolParam(args.Params, "anchor_barcode"),
				BatchSize:     intParam(args.Params, "batch_size"),
				MinimumLength: intParam(args.Params, "minimum_length"),
				Cut:           intParam(args.Params, "cut"),
				Cores:         intParam(args.Params, "cores"),
			}

			perSample, untrimmed, err := DemuxSingle(ctx, run, seqs, opts)
			if err != nil {
				return nil, err
			}

			return plugin.Outputs{
				"per_sample_sequences": perSample.Path(),
				"untrimmed_sequences":  untrimmed.Path(),
			}, nil
		},
	}
}

func demuxPairedAction(run runner.Runner) *plugin.Action {
	return &plugin.Action{
		Name:  "demux-paired",
		About: "Demultiplex paired-end sequence data with barcodes in-sequence.",
		Description: "Demultiplex sequence data (i.e., map barcode reads to " +
			"sample ids). Barcodes are expected to be located within the " +
			"sequence data (versus the header, or a separate barcode file).",
		Inputs: []plugin.Port{{
			Name: "seqs", Type: TypeMuxedPairedEnd,
			Description: "The paired-end sequences to be demultiplexed.",
		}},
		Outputs: []plugin.Port{
			{
				Name: "per_sample_sequences", Type: TypePairedEnd,
				Description: "The resulting demultiplexed sequences.",
			},
			{
				Name: "untrimmed_sequences", Type: TypeMuxedPairedEnd,
				Description: "The sequences that were unmatched to barcodes.",
			},
		},
		Params: schema.MustParams(
			schema.Column("forward_barcodes",
				"The sample metadata column listing the per-sample barcodes for the forward reads."),
			schema.Column("reverse_barcodes",
				"The sample metadata column listing the per-sample barcodes for the reverse reads."),
			schema.Int("forward_cut", 0,
				"Remove the specified number of bases from the forward sequences. Bases are "+
					"removed before demultiplexing. If --p-mixed-orientation is set, then both "+
					"--p-forward-cut and --p-reverse-cut must be set to the same value."),
			schema.Int("reverse_cut", 0,
				"Remove the specified number of bases from the reverse sequences. Bases are "+
					"removed before demultiplexing. If --p-mixed-orientation is set, then both "+
					"--p-forward-cut and --p-reverse-cut must be set to the same value."),
			schema.FloatRange("error_rate", 0.1, 0, 1,
				"The level of error tolerance, specified as the maximum allowable error rate."),
			schema.Bool("anchor_forward_barcode", false,
				"Anchor the forward barcode. The barcode is then expected to occur in full "+
					"length at the beginning (5' end) of the forward sequence."),
			schema.Bool("anchor_reverse_barcode", false,
				"Anchor the reverse barcode. The barcode is then expected to occur in full "+
					"length at the beginning (5' end) of the reverse sequence."),
			schema.IntMin("batch_size", 0, 0, batchSizeDoc),
			schema.IntMin("minimum_length", 1, 1, minimumLengthDoc),
			schema.Bool("mixed_orientation", false,
				"Handle demultiplexing of mixed orientation reads (i.e. when forward and "+
					"reverse reads coexist in the same file)."),
			schema.Threads("cores", 1, "Number of CPU cores to use."),
		),
		Execute: func(ctx context.Context, args plugin.Arguments) (plugin.Outputs, error) {
			seqs, err := sequence.OpenMultiplexedDir(args.Inputs["seqs"])
			if err != nil {
				return nil, err
			}
			forward, err := columnParam(args.Params, "forward_barcodes")
			if err != nil {
				return nil, err
			}
			reverse, err := optColumnParam(args.Params, "reverse_barcodes")
			if err != nil {
				return nil, err
			}

			opts := DemuxPairedOptions{
				ForwardBarcodes:      forward,
				ReverseBarcodes:      reverse,
				ForwardCut:           intParam(args.Params, "forward_cut"),
				ReverseCut:           intParam(args.Params, "reverse_cut"),
				ErrorRate:            floatParam(args.Params, "error_rate"),
				AnchorForwardBarcode: boolParam(args.Params, "anchor_forward_barcode"),
				AnchorReverseBarcode: boolParam(args.Params, "anchor_reverse_barcode"),
				BatchSize:            intParam(args.Params, "batch_size"),
				MinimumLength:        intParam(args.Params, "minimum_length"),
				MixedOrientation:     boolParam(args.Params, "mixed_orientation"),
				Cores:                intParam(args.Params, "cores"),
			}

			perSample, untrimmed, err := DemuxPaired(ctx, run, seqs, opts)
			if err != nil {
				return nil, err
			}

			return plugin.Outputs{
				"per_sample_sequences": perSample.Path(),
				"untrimmed_sequences":  untrimmed.Path(),
			}, nil
		},
	}
}

func intParam(params map[string]any, name string) int {
	value, _ := params[name].(int)
	return value
}

func floatParam(params map[string]any, name string) float64 {
	value, _ := params[name].(float64)
	return value
}

func boolParam(params map[string]any, name string) bool {
	value, _ := params[name].(bool)
	return value
}

func strListParam(params map[string]any, name string) []string {
	value, _ := params[name].([]string)
	return value
}

func optFloatParam(params map[string]any, name string) *float64 {
	value, ok := params[name].(float64)
	if !ok {
		return nil
	}

	return &value
}

func columnParam(params map[string]any, name string) (*metadata.Column, error) {
	ref, ok := params[name].(schema.ColumnRef)
	if !ok {
		return nil, errors.Wrapf(ErrMissingBarcodes, "parameter %q", name)
	}

	return metadata.LoadColumn(ref.File, ref.Column)
}

func optColumnParam(params map[string]any, name string) (*metadata.Column, error) {
	if _, ok := params[name]; !ok {
		return nil, nil
	}

	return columnParam(params, name)
}
