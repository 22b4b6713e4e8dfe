package cutadapt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/seqwork/go-cutadapt/internal/runner"
	"github.com/seqwork/go-cutadapt/pkg/metadata"
	"github.com/seqwork/go-cutadapt/pkg/sequence"
)

// DemuxSingle assigns multiplexed single-end reads to per-sample files using
// in-sequence barcodes. It returns the per-sample artifact and a multiplexed
// artifact holding the reads no barcode matched.
func DemuxSingle(ctx context.Context, run runner.Runner, seqs *sequence.MultiplexedDir, opts DemuxOptions) (*sequence.PerSampleDir, *sequence.MultiplexedDir, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if seqs.Paired() {
		return nil, nil, errors.Wrap(ErrInvalidOption, "input is not single end")
	}

	pairs := opts.Barcodes.Pairs()
	if err := checkBarcodes(pairs); err != nil {
		return nil, nil, err
	}

	perSample, err := sequence.NewPerSampleDir()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to stage per-sample sequences")
	}

	// Every sample starts with an empty output so samples the tool never
	// matched still appear in the artifact.
	for _, pair := range pairs {
		name := sequence.ReadName{
			SampleID: pair.SampleID, BarcodeID: pair.Value, Lane: 1, Read: 1, Set: 1,
		}.String()
		if err := sequence.WriteEmpty(perSample.FilePath(name)); err != nil {
			return nil, nil, err
		}
		if err := perSample.Add(sequence.Sample{ID: pair.SampleID, Forward: name}); err != nil {
			return nil, nil, err
		}
	}

	work, err := os.MkdirTemp("", "go-cutadapt-demux-")
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create work dir")
	}
	defer os.RemoveAll(work)

	currentInput := seqs.ForwardPath()
	for idx, batch := range batches(pairs, opts.BatchSize) {
		batchDir := filepath.Join(work, fmt.Sprintf("batch-%d", idx))
		if err := os.MkdirAll(batchDir, 0o755); err != nil {
			return nil, nil, errors.Wrapf(err, "unable to create %s", batchDir)
		}

		fasta := filepath.Join(batchDir, "forward_barcodes.fasta")
		if err := writeBarcodeFasta(fasta, batch, opts.AnchorBarcode); err != nil {
			return nil, nil, err
		}

		spec := demuxSpec{
			forwardBarcodes: fasta,
			forwardRead:     currentInput,
			outDir:          batchDir,
			untrimmedFwd:    filepath.Join(batchDir, "untrimmed.fastq.gz"),
			errorRate:       opts.ErrorRate,
			minimumLength:   opts.MinimumLength,
			forwardCut:      opts.Cut,
			cores:           opts.Cores,
		}
		if err := run.Run(ctx, Tool, buildDemuxArgs(spec)...); err != nil {
			return nil, nil, err
		}

		for _, pair := range batch {
			src := filepath.Join(batchDir, pair.SampleID+".fastq.gz")
			if _, err := os.Stat(src); err != nil {
				continue
			}
			sample, err := perSample.Sample(pair.SampleID)
			if err != nil {
				return nil, nil, err
			}
			if err := sequence.AppendFile(perSample.FilePath(sample.Forward), src); err != nil {
				return nil, nil, err
			}
		}

		if err := ensureFile(spec.untrimmedFwd); err != nil {
			return nil, nil, err
		}
		currentInput = spec.untrimmedFwd
	}

	if err := requireAssignedReads(perSample); err != nil {
		return nil, nil, err
	}
	if err := perSample.SaveManifest(); err != nil {
		return nil, nil, err
	}

	untrimmed, err := sequence.NewMultiplexedDir(false)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to stage untrimmed sequences")
	}
	if err := sequence.CopyFile(untrimmed.ForwardPath(), currentInput); err != nil {
		return nil, nil, err
	}

	return perSample, untrimmed, nil
}

// DemuxPaired assigns multiplexed paired-end reads to per-sample files.
// With MixedOrientation set, the reads left over after the first pass are
// demultiplexed again with the files swapped and appended to the same
// per-sample outputs.
func DemuxPaired(ctx context.Context, run runner.Runner, seqs *sequence.MultiplexedDir, opts DemuxPairedOptions) (*sequence.PerSampleDir, *sequence.MultiplexedDir, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	if !seqs.Paired() {
		return nil, nil, errors.Wrap(ErrInvalidOption, "input is not paired end")
	}

	fwdPairs := opts.ForwardBarcodes.Pairs()

	var revPairs []metadata.Pair
	if opts.ReverseBarcodes != nil {
		var err error
		revPairs, err = reversePairs(fwdPairs, opts.ReverseBarcodes)
		if err != nil {
			return nil, nil, err
		}
		if err := checkBarcodes(combinedPairs(fwdPairs, revPairs)); err != nil {
			return nil, nil, err
		}
	} else if err := checkBarcodes(fwdPairs); err != nil {
		return nil, nil, err
	}

	perSample, err := sequence.NewPerSampleDir()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to stage per-sample sequences")
	}
	for _, pair := range fwdPairs {
		forward := sequence.ReadName{
			SampleID: pair.SampleID, BarcodeID: pair.Value, Lane: 1, Read: 1, Set: 1,
		}.String()
		reverse := sequence.ReadName{
			SampleID: pair.SampleID, BarcodeID: pair.Value, Lane: 1, Read: 2, Set: 1,
		}.String()
		if err := sequence.WriteEmpty(perSample.FilePath(forward)); err != nil {
			return nil, nil, err
		}
		if err := sequence.WriteEmpty(perSample.FilePath(reverse)); err != nil {
			return nil, nil, err
		}
		err := perSample.Add(sequence.Sample{ID: pair.SampleID, Forward: forward, Reverse: reverse})
		if err != nil {
			return nil, nil, err
		}
	}

	work, err := os.MkdirTemp("", "go-cutadapt-demux-")
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create work dir")
	}
	defer os.RemoveAll(work)

	pass := demuxPass{
		run:       run,
		perSample: perSample,
		fwdPairs:  fwdPairs,
		revPairs:  revPairs,
		opts:      opts,
	}

	untrimmedFwd, untrimmedRev, err := pass.demux(ctx,
		seqs.ForwardPath(), seqs.ReversePath(), filepath.Join(work, "pass-1"))
	if err != nil {
		return nil, nil, err
	}

	if opts.MixedOrientation {
		// The leftover reads are retried with the files swapped; the final
		// leftovers are swapped back so orientation is preserved.
		untrimmedRev, untrimmedFwd, err = pass.demux(ctx,
			untrimmedRev, untrimmedFwd, filepath.Join(work, "pass-2"))
		if err != nil {
			return nil, nil, err
		}
	}

	if err := requireAssignedReads(perSample); err != nil {
		return nil, nil, err
	}
	if err := perSample.SaveManifest(); err != nil {
		return nil, nil, err
	}

	untrimmed, err := sequence.NewMultiplexedDir(true)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to stage untrimmed sequences")
	}
	if err := sequence.CopyFile(untrimmed.ForwardPath(), untrimmedFwd); err != nil {
		return nil, nil, err
	}
	if err := sequence.CopyFile(untrimmed.ReversePath(), untrimmedRev); err != nil {
		return nil, nil, err
	}

	return perSample, untrimmed, nil
}

// demuxPass runs the batched invocations of one orientation over the input
// pair and appends matches to the per-sample outputs.
type demuxPass struct {
	run       runner.Runner
	perSample *sequence.PerSampleDir
	fwdPairs  []metadata.Pair
	revPairs  []metadata.Pair
	opts      DemuxPairedOptions
}

func (p demuxPass) demux(ctx context.Context, forwardIn, reverseIn, passDir string) (string, string, error) {
	currentFwd, currentRev := forwardIn, reverseIn

	batchedFwd := batches(p.fwdPairs, p.opts.BatchSize)
	batchedRev := batches(p.revPairs, p.opts.BatchSize)

	for idx, batch := range batchedFwd {
		batchDir := filepath.Join(passDir, fmt.Sprintf("batch-%d", idx))
		if err := os.MkdirAll(batchDir, 0o755); err != nil {
			return "", "", errors.Wrapf(err, "unable to create %s", batchDir)
		}

		fwdFasta := filepath.Join(batchDir, "forward_barcodes.fasta")
		if err := writeBarcodeFasta(fwdFasta, batch, p.opts.AnchorForwardBarcode); err != nil {
			return "", "", err
		}
		revFasta := ""
		if p.revPairs != nil {
			revFasta = filepath.Join(batchDir, "reverse_barcodes.fasta")
			if err := writeBarcodeFasta(revFasta, batchedRev[idx], p.opts.AnchorReverseBarcode); err != nil {
				return "", "", err
			}
		}

		spec := demuxSpec{
			forwardBarcodes: fwdFasta,
			reverseBarcodes: revFasta,
			forwardRead:     currentFwd,
			reverseRead:     currentRev,
			outDir:          batchDir,
			untrimmedFwd:    filepath.Join(batchDir, "untrimmed.1.fastq.gz"),
			untrimmedRev:    filepath.Join(batchDir, "untrimmed.2.fastq.gz"),
			errorRate:       p.opts.ErrorRate,
			minimumLength:   p.opts.MinimumLength,
			forwardCut:      p.opts.ForwardCut,
			reverseCut:      p.opts.ReverseCut,
			cores:           p.opts.Cores,
		}
		if err := p.run.Run(ctx, Tool, buildDemuxArgs(spec)...); err != nil {
			return "", "", err
		}

		for _, pair := range batch {
			sample, err := p.perSample.Sample(pair.SampleID)
			if err != nil {
				return "", "", err
			}
			srcFwd := filepath.Join(batchDir, pair.SampleID+".1.fastq.gz")
			if _, err := os.Stat(srcFwd); err == nil {
				if err := sequence.AppendFile(p.perSample.FilePath(sample.Forward), srcFwd); err != nil {
					return "", "", err
				}
			}
			srcRev := filepath.Join(batchDir, pair.SampleID+".2.fastq.gz")
			if _, err := os.Stat(srcRev); err == nil {
				if err := sequence.AppendFile(p.perSample.FilePath(sample.Reverse), srcRev); err != nil {
					return "", "", err
				}
			}
		}

		if err := ensureFile(spec.untrimmedFwd); err != nil {
			return "", "", err
		}
		if err := ensureFile(spec.untrimmedRev); err != nil {
			return "", "", err
		}
		currentFwd, currentRev = spec.untrimmedFwd, spec.untrimmedRev
	}

	return currentFwd, currentRev, nil
}

// combinedPairs merges forward and reverse barcodes per sample so dual-index
// uniqueness is checked on the combination.
func combinedPairs(forward, reverse []metadata.Pair) []metadata.Pair {
	combined := make([]metadata.Pair, len(forward))
	for idx, pair := range forward {
		combined[idx] = metadata.Pair{
			SampleID: pair.SampleID,
			Value:    pair.Value + "+" + reverse[idx].Value,
		}
	}

	return combined
}

// ensureFile writes an empty fastq.gz when the tool produced nothing, which
// happens when every read matched a barcode.
func ensureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	return sequence.WriteEmpty(path)
}

// requireAssignedReads fails when demultiplexing matched nothing at all.
func requireAssignedReads(perSample *sequence.PerSampleDir) error {
	for _, sample := range perSample.Samples() {
		count, err := sequence.CountRecords(perSample.FilePath(sample.Forward))
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
	}

	return ErrNoReads
}
