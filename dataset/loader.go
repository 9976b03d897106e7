package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// NumColumns is the fixed arity of the raw file: specimen id, nine
// measurements, class label.
const NumColumns = 11

// RawTable is the parsed but not yet normalized file: every cell is still
// a string, including the "?" missing-value markers.
type RawTable struct {
	Header  []string
	Records [][]string
}

// ReadCSV parses the raw specimen file. The distributed file has no
// header row; pass hasHeader=true for exports that carry one. Every
// record must have exactly NumColumns fields.
func ReadCSV(r io.Reader, hasHeader bool) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = NumColumns
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: failed to parse specimen file")
	}
	if len(records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset: specimen file has no records")
	}

	raw := &RawTable{}
	if hasHeader {
		raw.Header = records[0]
		raw.Records = records[1:]
	} else {
		raw.Records = records
	}
	if len(raw.Records) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset: specimen file has a header but no rows")
	}
	return raw, nil
}

// Load reads and normalizes the specimen file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: cannot open %s", path)
	}
	defer f.Close()

	hasHeader := false
	// Sniff a header by peeking at the extension convention: exported
	// files carry headers, the raw distribution does not.
	if strings.HasSuffix(path, ".csv") {
		hasHeader = sniffHeader(f)
	}

	raw, err := ReadCSV(f, hasHeader)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// sniffHeader reports whether the first line looks like column names
// rather than data, and rewinds the file either way.
func sniffHeader(f *os.File) bool {
	buf := make([]byte, 256)
	n, _ := f.Read(buf)
	defer func() { _, _ = f.Seek(0, io.SeekStart) }()

	line := string(buf[:n])
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	for _, field := range strings.Split(line, ",") {
		field = strings.TrimSpace(field)
		if field == "" || field == "?" {
			continue
		}
		for _, r := range field {
			if (r < '0' || r > '9') && r != '.' && r != '-' {
				return true
			}
		}
	}
	return false
}
