package sequence

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

// ManifestName is the file recording the sample-to-file mapping inside a
// per-sample directory.
const ManifestName = "MANIFEST"

const (
	directionForward = "forward"
	directionReverse = "reverse"
)

var manifestHeader = []string{"sample-id", "filename", "direction"}

// Sample is one row group of a manifest: the sample id and its read files,
// relative to the directory root. Reverse is empty for single-end data.
type Sample struct {
	ID      string
	Forward string
	Reverse string
}

func writeManifest(path string, samples []Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create manifest %s", path)
	}
	defer file.Close()

	wrt := csv.NewWriter(file)
	if err := wrt.Write(manifestHeader); err != nil {
		return errors.Wrap(err, "unable to write manifest header")
	}
	for _, sample := range samples {
		err := wrt.Write([]string{sample.ID, sample.Forward, directionForward})
		if err != nil {
			return errors.Wrapf(err, "unable to write manifest row for %s", sample.ID)
		}
		if sample.Reverse == "" {
			continue
		}
		err = wrt.Write([]string{sample.ID, sample.Reverse, directionReverse})
		if err != nil {
			return errors.Wrapf(err, "unable to write manifest row for %s", sample.ID)
		}
	}
	wrt.Flush()

	return errors.Wrap(wrt.Error(), "unable to flush manifest")
}

func readManifest(path string) ([]Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open manifest %s", path)
	}
	defer file.Close()

	rdr := csv.NewReader(file)
	rdr.FieldsPerRecord = len(manifestHeader)
	rows, err := rdr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read manifest %s", path)
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrBadManifest, "missing header")
	}

	var samples []Sample
	index := make(map[string]int)
	for _, row := range rows[1:] {
		id, filename, direction := row[0], row[1], row[2]
		idx, ok := index[id]
		if !ok {
			idx = len(samples)
			index[id] = idx
			samples = append(samples, Sample{ID: id})
		}
		switch direction {
		case directionForward:
			samples[idx].Forward = filename
		case directionReverse:
			samples[idx].Reverse = filename
		default:
			return nil, errors.Wrapf(ErrBadManifest, "direction %q", direction)
		}
	}

	for _, sample := range samples {
		if sample.Forward == "" {
			return nil, errors.Wrapf(ErrBadManifest, "sample %s has no forward reads", sample.ID)
		}
	}

	return samples, nil
}
