package results

import (
	"fmt"
	"strconv"
	"strings"
)

// MinLineLength is the shortest line (in bytes) we accept as a data row.
// Shorter lines are typically blank separators or truncated trailing
// output and are skipped without comment.
const MinLineLength = 170

// Record is a single measured run of one compression/serialization
// algorithm against one dataset, as found in the fixed-width results file.
// All values are kept as trimmed text; consumers convert to numbers
// lazily via the *Sec()/*Num() accessors. A Record is never mutated
// after parsing.
type Record struct {
	Algorithm    string
	Dataset      string
	NumLogs      string
	InputBytes   string
	OutputBytes  string
	Ratio        string
	ComputeTime  string
	OutputTime   string
	MaxTime      string
	ProcessingBW string
	SavedBW      string
	LogBW        string
	AvgMsgSize   string

	// Line is the trimmed source line the record was extracted from.
	// We keep it for error reporting as the file has no line numbers
	// a user could relate to (rows get reordered between benchmark runs).
	Line string
}

func field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return strings.TrimSpace(line[from:to])
}

func newRecord(line string) *Record {
	return &Record{
		Algorithm:    field(line, 0, 10),
		Dataset:      field(line, 10, 30),
		NumLogs:      field(line, 30, 40),
		InputBytes:   field(line, 40, 55),
		OutputBytes:  field(line, 55, 70),
		Ratio:        field(line, 70, 80),
		ComputeTime:  field(line, 80, 95),
		OutputTime:   field(line, 95, 110),
		MaxTime:      field(line, 110, 125),
		ProcessingBW: field(line, 125, 145),
		SavedBW:      field(line, 145, 160),
		LogBW:        field(line, 160, 170),
		AvgMsgSize:   field(line, 170, 180),
		Line:         strings.TrimSpace(line),
	}
}

// ParseLine extracts a Record from one fixed-width line. Lines shorter
// than MinLineLength yield nil, which is not an error.
func ParseLine(line string) *Record {
	if len(line) < MinLineLength {
		return nil
	}
	return newRecord(line)
}

func (rec *Record) numField(name, value string) (float64, error) {
	ans, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q in result line %q", name, value, rec.Line)
	}
	return ans, nil
}

// ComputeTimeSec returns the compute time column as seconds.
func (rec *Record) ComputeTimeSec() (float64, error) {
	return rec.numField("compute time", rec.ComputeTime)
}

// OutputTimeSec returns the output time column as seconds.
func (rec *Record) OutputTimeSec() (float64, error) {
	return rec.numField("output time", rec.OutputTime)
}

// OutputBytesNum returns the output size column as a number of bytes.
func (rec *Record) OutputBytesNum() (float64, error) {
	return rec.numField("output bytes", rec.OutputBytes)
}

// expected header labels, in record field order
var headerLabels = [][2]string{
	{"algorithm", "#Algorithm"},
	{"dataset", "Dataset"},
	{"numLogs", "NumLogs"},
	{"inputBytes", "Input Bytes"},
	{"outputBytes", "Output Bytes"},
	{"ratio", "Ratio"},
	{"computeTime", "Compute (s)"},
	{"outputTime", "Output (s)"},
	{"maxTime", "Max (s)"},
	{"processingBW", "MB/s Processing"},
	{"savedBW", "MB/s saved"},
	{"logBW", "Mlogs/s"},
	{"avgMsgSize", "B/msg"},
}

func (rec *Record) fieldsInOrder() []string {
	return []string{
		rec.Algorithm, rec.Dataset, rec.NumLogs, rec.InputBytes,
		rec.OutputBytes, rec.Ratio, rec.ComputeTime, rec.OutputTime,
		rec.MaxTime, rec.ProcessingBW, rec.SavedBW, rec.LogBW,
		rec.AvgMsgSize,
	}
}

// CheckHeader compares a parsed header line against the expected column
// labels and returns a description of each mismatch. A mismatch means
// either the file format drifted or the columns were reordered; we only
// warn about it and keep reading with the fixed offsets, as the offsets
// have been stable across benchmark versions while the labels have not.
func CheckHeader(rec *Record) []string {
	var ans []string
	values := rec.fieldsInOrder()
	for i, lab := range headerLabels {
		if values[i] != lab[1] {
			ans = append(
				ans,
				fmt.Sprintf("header field %s: expected %q, found %q", lab[0], lab[1], values[i]),
			)
		}
	}
	return ans
}
