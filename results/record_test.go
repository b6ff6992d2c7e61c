package results

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkLine(algorithm, dataset, numLogs, inputBytes, outputBytes, ratio,
	computeTime, outputTime, maxTime, processingBW, savedBW, logBW, avgMsgSize string) string {
	return fmt.Sprintf(
		"%-10s%-20s%-10s%-15s%-15s%-10s%-15s%-15s%-15s%-20s%-15s%-10s%-10s",
		algorithm, dataset, numLogs, inputBytes, outputBytes, ratio,
		computeTime, outputTime, maxTime, processingBW, savedBW, logBW, avgMsgSize,
	)
}

func mkHeaderLine() string {
	return mkLine(
		"#Algorithm", "Dataset", "NumLogs", "Input Bytes", "Output Bytes",
		"Ratio", "Compute (s)", "Output (s)", "Max (s)", "MB/s Processing",
		"MB/s saved", "Mlogs/s", "B/msg",
	)
}

func TestParseLineExtractsTrimmedFields(t *testing.T) {
	line := mkLine(
		"zlib", "A12-34-weekly", "1000", "1048576", "524288", "2.0",
		"0.125", "0.5", "0.5", "8.39", "4.19", "8.0", "100",
	)
	rec := ParseLine(line)
	require.NotNil(t, rec)
	assert.Equal(t, "zlib", rec.Algorithm)
	assert.Equal(t, "A12-34-weekly", rec.Dataset)
	assert.Equal(t, "1000", rec.NumLogs)
	assert.Equal(t, "1048576", rec.InputBytes)
	assert.Equal(t, "524288", rec.OutputBytes)
	assert.Equal(t, "2.0", rec.Ratio)
	assert.Equal(t, "0.125", rec.ComputeTime)
	assert.Equal(t, "0.5", rec.OutputTime)
	assert.Equal(t, "0.5", rec.MaxTime)
	assert.Equal(t, "8.39", rec.ProcessingBW)
	assert.Equal(t, "4.19", rec.SavedBW)
	assert.Equal(t, "8.0", rec.LogBW)
	assert.Equal(t, "100", rec.AvgMsgSize)
	assert.Equal(t, strings.TrimSpace(line), rec.Line)
}

func TestParseLineShortLinesAreAbsent(t *testing.T) {
	assert.Nil(t, ParseLine(""))
	assert.Nil(t, ParseLine("zlib      A12-34-weekly"))
	assert.Nil(t, ParseLine(strings.Repeat("x", MinLineLength-1)))
}

func TestParseLineMinLengthHasNoAvgMsgSize(t *testing.T) {
	line := mkLine(
		"zlib", "ds1", "10", "100", "50", "2.0",
		"0.1", "0.2", "0.2", "1.0", "0.5", "0.1", "77",
	)[:MinLineLength]
	rec := ParseLine(line)
	require.NotNil(t, rec)
	assert.Equal(t, "zlib", rec.Algorithm)
	assert.Equal(t, "", rec.AvgMsgSize)
}

func TestNumericAccessors(t *testing.T) {
	rec := &Record{ComputeTime: "0.25", OutputTime: "1.5", OutputBytes: "1024"}
	v, err := rec.ComputeTimeSec()
	assert.NoError(t, err)
	assert.Equal(t, 0.25, v)
	v, err = rec.OutputTimeSec()
	assert.NoError(t, err)
	assert.Equal(t, 1.5, v)
	v, err = rec.OutputBytesNum()
	assert.NoError(t, err)
	assert.Equal(t, 1024.0, v)
}

func TestNumericAccessorErrorNamesRawLine(t *testing.T) {
	rec := &Record{ComputeTime: "n/a", Line: "the raw source line"}
	_, err := rec.ComputeTimeSec()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the raw source line")
}

func TestCheckHeaderAccepts(t *testing.T) {
	problems := CheckHeader(newRecord(mkHeaderLine()))
	assert.Empty(t, problems)
}

func TestCheckHeaderReportsMismatches(t *testing.T) {
	line := mkLine(
		"#Algo", "Dataset", "NumLogs", "Input Bytes", "Output Bytes",
		"Ratio", "Compute (s)", "Output (s)", "Max (s)", "MB/s Processing",
		"MB/s saved", "Mlogs/s", "B/msg",
	)
	problems := CheckHeader(newRecord(line))
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0], "#Algorithm")
	assert.Contains(t, problems[0], "#Algo")
}
