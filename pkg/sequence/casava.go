package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadName is the parsed form of a Casava 1.8 read file name, for example
// sample1_AACC_L001_R1_001.fastq.gz.
type ReadName struct {
	SampleID  string
	BarcodeID string
	Lane      int
	// Read is 1 for forward reads and 2 for reverse reads.
	Read int
	Set  int
}

const readNameSuffix = ".fastq.gz"

// String formats the name back into the Casava layout.
func (n ReadName) String() string {
	return fmt.Sprintf("%s_%s_L%03d_R%d_%03d%s",
		n.SampleID, n.BarcodeID, n.Lane, n.Read, n.Set, readNameSuffix)
}

// ParseReadName parses a Casava file name. Sample ids may contain
// underscores, so the fixed fields are taken from the right.
func ParseReadName(name string) (ReadName, error) {
	if !strings.HasSuffix(name, readNameSuffix) {
		return ReadName{}, errors.Wrap(ErrBadReadName, name)
	}
	base := strings.TrimSuffix(name, readNameSuffix)

	fields := strings.Split(base, "_")
	if len(fields) < 5 {
		return ReadName{}, errors.Wrap(ErrBadReadName, name)
	}

	lane := fields[len(fields)-3]
	read := fields[len(fields)-2]
	set := fields[len(fields)-1]
	if !strings.HasPrefix(lane, "L") || !strings.HasPrefix(read, "R") {
		return ReadName{}, errors.Wrap(ErrBadReadName, name)
	}

	laneNo, err := strconv.Atoi(strings.TrimPrefix(lane, "L"))
	if err != nil {
		return ReadName{}, errors.Wrap(ErrBadReadName, name)
	}
	readNo, err := strconv.Atoi(strings.TrimPrefix(read, "R"))
	if err != nil {
		return ReadName{}, errors.Wrap(ErrBadReadName, name)
	}
	setNo, err := strconv.Atoi(set)
	if err != nil {
		return ReadName{}, errors.Wrap(ErrBadReadName, name)
	}

	return ReadName{
		SampleID:  strings.Join(fields[:len(fields)-4], "_"),
		BarcodeID: fields[len(fields)-4],
		Lane:      laneNo,
		Read:      readNo,
		Set:       setNo,
	}, nil
}
