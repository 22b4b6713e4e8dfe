package cutadapt

import (
	"path/filepath"
	"strconv"
)

// Tool is the executable resolved through PATH.
const Tool = "cutadapt"

// trimSpec is the flattened flag set shared by single and paired trimming.
// Reverse-read fields are ignored when reverseRead is empty.
type trimSpec struct {
	adapterF  []string
	frontF    []string
	anywhereF []string
	adapterR  []string
	frontR    []string
	anywhereR []string

	forwardCut            int
	reverseCut            int
	errorRate             float64
	indels                bool
	times                 int
	overlap               int
	matchReadWildcards    bool
	matchAdapterWildcards bool
	minimumLength         int
	discardUntrimmed      bool
	maxExpectedErrors     *float64
	maxN                  *float64
	qualityCutoff5        int
	qualityCutoff3        int
	qualityBase           int
	cores                 int
}

// buildTrimArgs builds one trimming invocation. The flag order is part of
// the tool contract and is asserted by tests; do not reorder.
func buildTrimArgs(forwardRead, reverseRead, outDir string, spec trimSpec) []string {
	args := []string{
		"-u", strconv.Itoa(spec.forwardCut),
		"--error-rate", formatFloat(spec.errorRate),
		"--times", strconv.Itoa(spec.times),
		"--overlap", strconv.Itoa(spec.overlap),
		"--minimum-length", strconv.Itoa(spec.minimumLength),
		"-q", strconv.Itoa(spec.qualityCutoff5) + "," + strconv.Itoa(spec.qualityCutoff3),
		"--quality-base", strconv.Itoa(spec.qualityBase),
		"--cores", strconv.Itoa(spec.cores),
		"-o", filepath.Join(outDir, filepath.Base(forwardRead)),
	}

	if reverseRead != "" {
		args = append(args, "-p", filepath.Join(outDir, filepath.Base(reverseRead)))
	}

	for _, adapter := range spec.adapterF {
		args = append(args, "--adapter", adapter)
	}
	for _, adapter := range spec.frontF {
		args = append(args, "--front", adapter)
	}
	for _, adapter := range spec.anywhereF {
		args = append(args, "--anywhere", adapter)
	}

	// The reverse-read variants have no long-form flags.
	for _, adapter := range spec.adapterR {
		args = append(args, "-A", adapter)
	}
	for _, adapter := range spec.frontR {
		args = append(args, "-G", adapter)
	}
	for _, adapter := range spec.anywhereR {
		args = append(args, "-B", adapter)
	}

	if reverseRead != "" {
		args = append(args, "-U", strconv.Itoa(spec.reverseCut))
	}

	if !spec.indels {
		args = append(args, "--no-indels")
	}
	if spec.matchReadWildcards {
		args = append(args, "--match-read-wildcards")
	}
	if !spec.matchAdapterWildcards {
		args = append(args, "--no-match-adapter-wildcards")
	}
	if spec.discardUntrimmed {
		args = append(args, "--discard-untrimmed")
	}

	args = append(args, forwardRead)
	if reverseRead != "" {
		args = append(args, reverseRead)
	}

	if spec.maxExpectedErrors != nil {
		args = append(args, "--max-expected-errors", formatFloat(*spec.maxExpectedErrors))
	}
	if spec.maxN != nil {
		args = append(args, "--max-n", formatFloat(*spec.maxN))
	}

	return args
}

// demuxSpec is one demultiplexing invocation over a sample batch.
type demuxSpec struct {
	forwardBarcodes string // barcode FASTA for the forward reads
	reverseBarcodes string // barcode FASTA for the reverse reads, optional

	forwardRead string
	reverseRead string // empty for single end

	outDir        string
	untrimmedFwd  string
	untrimmedRev  string
	errorRate     float64
	minimumLength int
	forwardCut    int
	reverseCut    int
	cores         int
}

// nameTemplate is expanded by the tool to each barcode's FASTA header.
const nameTemplate = "{name}"

func (s demuxSpec) paired() bool { return s.reverseRead != "" }

// forwardTemplate is the per-sample output pattern for forward reads.
func (s demuxSpec) forwardTemplate() string {
	if s.paired() {
		return filepath.Join(s.outDir, nameTemplate+".1.fastq.gz")
	}

	return filepath.Join(s.outDir, nameTemplate+".fastq.gz")
}

// reverseTemplate is the per-sample output pattern for reverse reads.
func (s demuxSpec) reverseTemplate() string {
	return filepath.Join(s.outDir, nameTemplate+".2.fastq.gz")
}

// buildDemuxArgs builds one demultiplexing invocation. As with trimming, the
// flag order is fixed.
func buildDemuxArgs(spec demuxSpec) []string {
	args := []string{"-g", "file:" + spec.forwardBarcodes}

	if spec.paired() && spec.reverseBarcodes != "" {
		args = append(args, "-G", "file:"+spec.reverseBarcodes, "--pair-adapters")
	}

	args = append(args,
		"--error-rate", formatFloat(spec.errorRate),
		"--minimum-length", strconv.Itoa(spec.minimumLength),
		"-u", strconv.Itoa(spec.forwardCut),
	)
	if spec.paired() {
		args = append(args, "-U", strconv.Itoa(spec.reverseCut))
	}

	args = append(args,
		"--cores", strconv.Itoa(spec.cores),
		"-o", spec.forwardTemplate(),
	)
	if spec.paired() {
		args = append(args, "-p", spec.reverseTemplate())
	}

	args = append(args, "--untrimmed-output", spec.untrimmedFwd)
	if spec.paired() {
		args = append(args, "--untrimmed-paired-output", spec.untrimmedRev)
	}

	args = append(args, spec.forwardRead)
	if spec.paired() {
		args = append(args, spec.reverseRead)
	}

	return args
}

// formatFloat renders floats the way the tool expects them on the command
// line, without exponent notation for the ranges used here.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
