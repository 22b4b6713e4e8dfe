package sequence

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// Record is one fastq read.
type Record struct {
	Header   string
	Sequence string
	Quality  string
}

// ReadRecords loads every record of a fastq.gz file.
func ReadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}
	defer file.Close()

	grd, err := pgzip.NewReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decompress %s", path)
	}
	defer grd.Close()

	var records []Record
	scanner := bufio.NewScanner(grd)
	for scanner.Scan() {
		header := scanner.Text()
		if !strings.HasPrefix(header, "@") {
			return nil, errors.Wrapf(ErrBadRecord, "expected '@' header, got %q", header)
		}
		if !scanner.Scan() {
			return nil, errors.Wrap(ErrBadRecord, "truncated record")
		}
		seq := scanner.Text()
		if !scanner.Scan() || !strings.HasPrefix(scanner.Text(), "+") {
			return nil, errors.Wrap(ErrBadRecord, "missing '+' separator")
		}
		if !scanner.Scan() {
			return nil, errors.Wrap(ErrBadRecord, "truncated record")
		}
		qual := scanner.Text()
		if len(seq) != len(qual) {
			return nil, errors.Wrapf(ErrBadRecord, "sequence and quality length differ: %d and %d", len(seq), len(qual))
		}
		records = append(records, Record{Header: header, Sequence: seq, Quality: qual})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "unable to read %s", path)
	}

	return records, nil
}

// CountRecords returns the number of reads in a fastq.gz file.
func CountRecords(path string) (int, error) {
	records, err := ReadRecords(path)
	if err != nil {
		return 0, err
	}

	return len(records), nil
}

// WriteRecords writes records as a fastq.gz file, replacing any existing
// file. An empty record list produces a valid empty file.
func WriteRecords(path string, records []Record) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", path)
	}
	defer file.Close()

	gwr := pgzip.NewWriter(file)
	wrt := bufio.NewWriter(gwr)
	for _, record := range records {
		for _, line := range []string{record.Header, record.Sequence, "+", record.Quality} {
			if _, err := wrt.WriteString(line + "\n"); err != nil {
				return errors.Wrapf(err, "unable to write %s", path)
			}
		}
	}
	if err := wrt.Flush(); err != nil {
		return errors.Wrapf(err, "unable to flush %s", path)
	}

	return errors.Wrapf(gwr.Close(), "unable to close %s", path)
}

// WriteEmpty writes an empty but valid fastq.gz file.
func WriteEmpty(path string) error {
	return WriteRecords(path, nil)
}

// AppendFile appends the raw bytes of src to dst. Concatenated gzip files
// are themselves valid gzip files, so this appends fastq records without
// recompressing.
func AppendFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", src)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s for append", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "unable to append %s to %s", src, dst)
	}

	return nil
}

// CopyFile copies src over dst.
func CopyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", src)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "unable to create %s", dst)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrapf(err, "unable to copy %s to %s", src, dst)
	}

	return nil
}
