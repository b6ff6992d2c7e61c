// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
// Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package report renders sweep results and the distribution/frequency
// index into flat text artifacts (pivot tables and change logs).
package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/czcorpus/bwpivot/results"
	"github.com/czcorpus/bwpivot/sweep"
	"github.com/rs/zerolog/log"
)

// the artifacts keep the CRLF convention of the original benchmark
// tooling so existing plotting scripts keep working
const eol = "\r\n"

// Emitter writes report artifacts into a single output directory.
// Later runs overwrite same-named artifacts.
type Emitter struct {
	outputDir string
}

// NewEmitter creates the output directory if needed. Failure to create
// it is not recoverable for any report, so it surfaces here.
func NewEmitter(outputDir string) (*Emitter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Emitter{outputDir: outputDir}, nil
}

func (emitter *Emitter) path(name string) string {
	return filepath.Join(emitter.outputDir, name)
}

func writeFile(path string, fn func(w *bufio.Writer) error) error {
	fw, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	defer fw.Close()
	w := bufio.NewWriter(fw)
	if err := fn(w); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// writePivot renders one row per bandwidth point and one column per
// algorithm; cell() provides the formatted cell value.
func writePivot(w *bufio.Writer, res *sweep.Result, cell func(p *sweep.Point, algorithm string) string) error {
	fmt.Fprintf(w, "%-10s", "MB/s")
	for _, algorithm := range res.Algorithms {
		fmt.Fprintf(w, "%15s", algorithm)
	}
	w.WriteString(eol)
	for _, point := range res.Points {
		fmt.Fprintf(w, "%-10d", point.Bandwidth)
		for _, algorithm := range res.Algorithms {
			fmt.Fprintf(w, "%15s", cell(point, algorithm))
		}
		w.WriteString(eol)
	}
	fmt.Fprintf(
		w,
		"# Data sets included in this calculation: [%s]%s",
		strings.Join(res.Datasets, ", "), eol,
	)
	return nil
}

func writeChangeLog(w *bufio.Writer, res *sweep.Result) error {
	for _, point := range res.Points {
		if !point.PartitionChanged {
			continue
		}
		fmt.Fprintf(w, "Bandwidth: %-10d%s", point.Bandwidth, eol)

		counts := make([]int, 0, len(res.Algorithms))
		for _, algorithm := range res.Algorithms {
			counts = append(counts, len(point.Wins[algorithm]))
		}
		sort.Sort(sort.Reverse(sort.IntSlice(counts)))
		counts = uniqueInts(counts)

		for _, count := range counts {
			if count == 0 {
				continue
			}
			for _, algorithm := range res.Algorithms {
				if len(point.Wins[algorithm]) != count {
					continue
				}
				fmt.Fprintf(
					w,
					"\t%s:[%s]%s%s",
					algorithm, strings.Join(point.Wins[algorithm], ", "), eol, eol,
				)
			}
		}
		fmt.Fprintf(w, "Total Output Times(s)%s", eol)
		for _, algorithm := range res.Algorithms {
			fmt.Fprintf(w, "%10s:%10d%s", algorithm, int64(point.TotalTime[algorithm]), eol)
		}
		w.WriteString(eol)
	}
	return nil
}

func uniqueInts(sorted []int) []int {
	ans := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != ans[len(ans)-1] {
			ans = append(ans, v)
		}
	}
	return ans
}

// WriteSweep renders one report run: the win-count pivot table
// (<label>.txt), the regime-boundary change log (<label>-detailed.dat)
// and, when enabled, the aggregate-time pivot (<label>-absolute.txt).
// It also emits a progress line each time the globally best algorithm
// changes along the bandwidth axis.
func (emitter *Emitter) WriteSweep(label string, res *sweep.Result, withAbsolute bool) error {
	log.Info().
		Str("label", label).
		Int("numDatasets", len(res.Datasets)).
		Msg("running bandwidth calculations")

	for _, point := range res.Points {
		if point.BestChanged {
			log.Info().
				Int("bandwidthMBs", point.Bandwidth).
				Str("algorithm", point.Best).
				Float64("winRatePct", point.BestWinRate).
				Msg("globally best algorithm changed")
		}
	}

	err := writeFile(emitter.path(label+".txt"), func(w *bufio.Writer) error {
		return writePivot(w, res, func(p *sweep.Point, algorithm string) string {
			return fmt.Sprintf("%d", len(p.Wins[algorithm]))
		})
	})
	if err != nil {
		return err
	}
	err = writeFile(emitter.path(label+"-detailed.dat"), func(w *bufio.Writer) error {
		return writeChangeLog(w, res)
	})
	if err != nil {
		return err
	}
	if withAbsolute {
		err = writeFile(emitter.path(label+"-absolute.txt"), func(w *bufio.Writer) error {
			return writePivot(w, res, func(p *sweep.Point, algorithm string) string {
				return fmt.Sprintf("%8.6f", p.TotalTime[algorithm])
			})
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteDistributionGrids renders, for every matched distribution
// prefix, a frequency x algorithm grid of max(computeTime, outputTime)
// into <distribution>.txt. The grid is built directly from the
// distribution/frequency index and uses the full (pre-exclusion)
// algorithm set.
func (emitter *Emitter) WriteDistributionGrids(index *results.Index) error {
	for _, distribution := range index.Distributions {
		err := writeFile(emitter.path(distribution+".txt"), func(w *bufio.Writer) error {
			fmt.Fprintf(w, "# %s%s", distribution, eol)
			w.WriteString("Frequency ")
			for _, algorithm := range index.Algorithms {
				w.WriteString(algorithm + " ")
			}
			w.WriteString(eol)
			for _, frequency := range index.Frequencies {
				if index.HasDistFreq(distribution, frequency) {
					w.WriteString(frequency + " ")
					for _, algorithm := range index.Algorithms {
						key := results.DistFreqKey{
							Distribution: distribution,
							Frequency:    frequency,
							Algorithm:    algorithm,
						}
						rec, ok := index.DistFreq[key]
						if !ok {
							w.WriteString("0 ")
							continue
						}
						computeTime, err := rec.ComputeTimeSec()
						if err != nil {
							return err
						}
						outputTime, err := rec.OutputTimeSec()
						if err != nil {
							return err
						}
						fmt.Fprintf(w, "%10.5f ", max(computeTime, outputTime))
					}
				}
				w.WriteString(eol)
			}
			w.WriteString(eol)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
