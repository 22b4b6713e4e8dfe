package cutadapt

import (
	"bufio"
	"os"

	"github.com/pkg/errors"

	"github.com/seqwork/go-cutadapt/pkg/metadata"
)

// checkBarcodes rejects barcode values shared by more than one sample: the
// tool would silently send all matching reads to the first sample.
func checkBarcodes(pairs []metadata.Pair) error {
	seen := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if other, ok := seen[pair.Value]; ok {
			return errors.Wrapf(ErrDuplicateBarcode, "%s shared by %s and %s", pair.Value, other, pair.SampleID)
		}
		seen[pair.Value] = pair.SampleID
	}

	return nil
}

// batches splits pairs into runs of size samples, preserving order. A size
// of 0 yields a single batch.
func batches(pairs []metadata.Pair, size int) [][]metadata.Pair {
	if size == 0 || size >= len(pairs) {
		return [][]metadata.Pair{pairs}
	}

	var out [][]metadata.Pair
	for start := 0; start < len(pairs); start += size {
		end := start + size
		if end > len(pairs) {
			end = len(pairs)
		}
		out = append(out, pairs[start:end])
	}

	return out
}

// writeBarcodeFasta writes one FASTA entry per sample. Anchored barcodes are
// prefixed with '^' so the tool requires a full-length match at the 5' end.
func writeBarcodeFasta(path string, pairs []metadata.Pair, anchor bool) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create barcode file %s", path)
	}
	defer file.Close()

	wrt := bufio.NewWriter(file)
	for _, pair := range pairs {
		barcode := pair.Value
		if anchor {
			barcode = "^" + barcode
		}
		if _, err := wrt.WriteString(">" + pair.SampleID + "\n" + barcode + "\n"); err != nil {
			return errors.Wrapf(err, "unable to write barcode file %s", path)
		}
	}

	return errors.Wrapf(wrt.Flush(), "unable to flush barcode file %s", path)
}

// reversePairs aligns the reverse barcode column with the forward column's
// sample order.
func reversePairs(forward []metadata.Pair, reverse *metadata.Column) ([]metadata.Pair, error) {
	pairs := make([]metadata.Pair, 0, len(forward))
	for _, pair := range forward {
		value, ok := reverse.Value(pair.SampleID)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidOption, "sample %s has no reverse barcode", pair.SampleID)
		}
		pairs = append(pairs, metadata.Pair{SampleID: pair.SampleID, Value: value})
	}

	return pairs, nil
}
