package sequence

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newStagingDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "go-cutadapt-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "unable to create staging dir %s", dir)
	}

	return dir, nil
}

// PerSampleDir is a demultiplexed artifact: one Casava-named fastq.gz per
// sample and direction plus a MANIFEST.
type PerSampleDir struct {
	path    string
	samples []Sample
	index   map[string]int
}

// NewPerSampleDir stages an empty per-sample directory under the system
// temp root.
func NewPerSampleDir() (*PerSampleDir, error) {
	dir, err := newStagingDir()
	if err != nil {
		return nil, err
	}

	return &PerSampleDir{path: dir, index: make(map[string]int)}, nil
}

// OpenPerSampleDir loads an existing per-sample directory through its
// manifest.
func OpenPerSampleDir(path string) (*PerSampleDir, error) {
	samples, err := readManifest(filepath.Join(path, ManifestName))
	if err != nil {
		return nil, err
	}

	dir := &PerSampleDir{path: path, samples: samples, index: make(map[string]int, len(samples))}
	for idx, sample := range samples {
		dir.index[sample.ID] = idx
	}

	return dir, nil
}

// Path returns the directory root.
func (d *PerSampleDir) Path() string { return d.path }

// Samples returns the samples in manifest order.
func (d *PerSampleDir) Samples() []Sample { return d.samples }

// Paired reports whether the directory holds reverse reads.
func (d *PerSampleDir) Paired() bool {
	return len(d.samples) > 0 && d.samples[0].Reverse != ""
}

// Sample returns the sample registered under id.
func (d *PerSampleDir) Sample(id string) (Sample, error) {
	idx, ok := d.index[id]
	if !ok {
		return Sample{}, errors.Wrap(ErrUnknownSample, id)
	}

	return d.samples[idx], nil
}

// Add registers a sample. File names are relative to the directory root.
func (d *PerSampleDir) Add(sample Sample) error {
	if _, ok := d.index[sample.ID]; ok {
		return errors.Wrap(ErrDuplicateSample, sample.ID)
	}

	d.index[sample.ID] = len(d.samples)
	d.samples = append(d.samples, sample)

	return nil
}

// FilePath resolves a manifest-relative file name.
func (d *PerSampleDir) FilePath(name string) string {
	return filepath.Join(d.path, name)
}

// SaveManifest writes the MANIFEST reflecting the registered samples.
func (d *PerSampleDir) SaveManifest() error {
	return writeManifest(filepath.Join(d.path, ManifestName), d.samples)
}

// Multiplexed file names inside a multiplexed directory.
const (
	ForwardReads = "forward.fastq.gz"
	ReverseReads = "reverse.fastq.gz"
)

// MultiplexedDir is a barcode-in-sequence artifact: one forward.fastq.gz and,
// for paired reads, one reverse.fastq.gz.
type MultiplexedDir struct {
	path   string
	paired bool
}

// NewMultiplexedDir stages an empty multiplexed directory.
func NewMultiplexedDir(paired bool) (*MultiplexedDir, error) {
	dir, err := newStagingDir()
	if err != nil {
		return nil, err
	}

	return &MultiplexedDir{path: dir, paired: paired}, nil
}

// OpenMultiplexedDir loads an existing multiplexed directory. Paired layout
// is detected from the presence of reverse reads.
func OpenMultiplexedDir(path string) (*MultiplexedDir, error) {
	if _, err := os.Stat(filepath.Join(path, ForwardReads)); err != nil {
		return nil, errors.Wrapf(err, "unable to open multiplexed dir %s", path)
	}

	_, err := os.Stat(filepath.Join(path, ReverseReads))

	return &MultiplexedDir{path: path, paired: err == nil}, nil
}

// Path returns the directory root.
func (m *MultiplexedDir) Path() string { return m.path }

// Paired reports whether the directory holds reverse reads.
func (m *MultiplexedDir) Paired() bool { return m.paired }

// ForwardPath returns the multiplexed forward read file.
func (m *MultiplexedDir) ForwardPath() string {
	return filepath.Join(m.path, ForwardReads)
}

// ReversePath returns the multiplexed reverse read file.
func (m *MultiplexedDir) ReversePath() string {
	return filepath.Join(m.path, ReverseReads)
}
