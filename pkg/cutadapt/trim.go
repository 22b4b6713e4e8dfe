package cutadapt

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/seqwork/go-cutadapt/internal/runner"
	"github.com/seqwork/go-cutadapt/pkg/sequence"
)

// TrimSingle removes adapters from demultiplexed single-end reads. The tool
// is invoked once per sample; output files keep their input names inside a
// fresh artifact directory.
func TrimSingle(ctx context.Context, run runner.Runner, seqs *sequence.PerSampleDir, opts TrimOptions) (*sequence.PerSampleDir, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if seqs.Paired() {
		return nil, errors.Wrap(ErrInvalidOption, "input is not single end")
	}

	spec := trimSpec{
		adapterF:              opts.Adapter,
		frontF:                opts.Front,
		anywhereF:             opts.Anywhere,
		forwardCut:            opts.Cut,
		errorRate:             opts.ErrorRate,
		indels:                opts.Indels,
		times:                 opts.Times,
		overlap:               opts.Overlap,
		matchReadWildcards:    opts.MatchReadWildcards,
		matchAdapterWildcards: opts.MatchAdapterWildcards,
		minimumLength:         opts.MinimumLength,
		discardUntrimmed:      opts.DiscardUntrimmed,
		maxExpectedErrors:     opts.MaxExpectedErrors,
		maxN:                  opts.MaxN,
		qualityCutoff5:        opts.QualityCutoff5End,
		qualityCutoff3:        opts.QualityCutoff3End,
		qualityBase:           opts.QualityBase,
		cores:                 opts.Cores,
	}

	return trimAll(ctx, run, seqs, spec, false, opts.Jobs)
}

// TrimPaired removes adapters from demultiplexed paired-end reads.
func TrimPaired(ctx context.Context, run runner.Runner, seqs *sequence.PerSampleDir, opts TrimPairedOptions) (*sequence.PerSampleDir, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if !seqs.Paired() {
		return nil, errors.Wrap(ErrInvalidOption, "input is not paired end")
	}

	spec := trimSpec{
		adapterF:              opts.AdapterF,
		frontF:                opts.FrontF,
		anywhereF:             opts.AnywhereF,
		adapterR:              opts.AdapterR,
		frontR:                opts.FrontR,
		anywhereR:             opts.AnywhereR,
		forwardCut:            opts.ForwardCut,
		reverseCut:            opts.ReverseCut,
		errorRate:             opts.ErrorRate,
		indels:                opts.Indels,
		times:                 opts.Times,
		overlap:               opts.Overlap,
		matchReadWildcards:    opts.MatchReadWildcards,
		matchAdapterWildcards: opts.MatchAdapterWildcards,
		minimumLength:         opts.MinimumLength,
		discardUntrimmed:      opts.DiscardUntrimmed,
		maxExpectedErrors:     opts.MaxExpectedErrors,
		maxN:                  opts.MaxN,
		qualityCutoff5:        opts.QualityCutoff5End,
		qualityCutoff3:        opts.QualityCutoff3End,
		qualityBase:           opts.QualityBase,
		cores:                 opts.Cores,
	}

	return trimAll(ctx, run, seqs, spec, true, opts.Jobs)
}

func trimAll(ctx context.Context, run runner.Runner, seqs *sequence.PerSampleDir, spec trimSpec, paired bool, jobs int) (*sequence.PerSampleDir, error) {
	trimmed, err := sequence.NewPerSampleDir()
	if err != nil {
		return nil, errors.Wrap(err, "unable to stage trimmed sequences")
	}

	errGrp, gCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(jobs)
	for _, sample := range seqs.Samples() {
		sample := sample
		errGrp.Go(func() error {
			reverse := ""
			if paired {
				reverse = seqs.FilePath(sample.Reverse)
			}
			args := buildTrimArgs(seqs.FilePath(sample.Forward), reverse, trimmed.Path(), spec)
			err := run.Run(gCtx, Tool, args...)

			return errors.Wrapf(err, "sample %s", sample.ID)
		})
	}
	if err := errGrp.Wait(); err != nil {
		return nil, err
	}

	// Output names equal input names, so the manifest carries over.
	for _, sample := range seqs.Samples() {
		if !paired {
			sample.Reverse = ""
		}
		if err := trimmed.Add(sample); err != nil {
			return nil, err
		}
	}
	if err := trimmed.SaveManifest(); err != nil {
		return nil, err
	}

	return trimmed, nil
}
