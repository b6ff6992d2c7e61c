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

// Package sweep simulates a range of output bandwidths over grouped
// benchmark records and determines, for each bandwidth value, which
// algorithm minimizes the end-to-end processing time of each dataset.
package sweep

import (
	"fmt"
	"slices"
	"sort"

	"github.com/czcorpus/bwpivot/results"
	"github.com/schollz/progressbar/v3"
)

const bytesPerMB = 1024 * 1024

// BandwidthDomain returns the swept bandwidth values in MB/s, in
// increasing order. The sequence is piecewise: fine-grained where I/O
// dominates and rankings shift quickly, coarse where compute dominates
// and rankings have stabilized.
func BandwidthDomain() []int {
	var ans []int
	for b := 1; b < 500; b++ {
		ans = append(ans, b)
	}
	for b := 500; b < 5000; b += 50 {
		ans = append(ans, b)
	}
	for b := 5000; b < 100000; b += 100 {
		ans = append(ans, b)
	}
	return ans
}

// Point captures the outcome of the win determination at one simulated
// bandwidth value.
type Point struct {
	Bandwidth int

	// Wins maps each algorithm to the datasets it won at this bandwidth
	// (dataset names sorted).
	Wins map[string][]string

	// TotalTime is each algorithm's selection time summed over all
	// datasets at this bandwidth.
	TotalTime map[string]float64

	// Best is the algorithm with the largest win count, ties broken by
	// earliest allow-list position.
	Best string

	// BestWinRate is Best's share of datasets won, in percent.
	BestWinRate float64

	// PartitionChanged is true when the full win partition differs from
	// the previous point (always true for the first point).
	PartitionChanged bool

	// BestChanged is true when Best differs from the previous point
	// (always true for the first point).
	BestChanged bool
}

// Result is an ordered sequence of sweep points plus the identifiers
// the report layer needs to render them.
type Result struct {
	Points []*Point

	// Algorithms is the allow-list the sweep ran with (column order).
	Algorithms []string

	// Datasets lists all datasets that took part, sorted.
	Datasets []string
}

// competitor is a record pre-resolved to numbers so the inner loop of
// the sweep does no string parsing.
type competitor struct {
	algorithm   string
	computeTime float64
	outputBytes float64
}

type contest struct {
	dataset     string
	competitors []competitor
}

// Engine runs the bandwidth sweep over one filtered view of the dataset
// groups. Engines are cheap; a new one is created per report run.
type Engine struct {
	groups    map[string][]*results.Record
	allowList []string
}

func NewEngine(groups map[string][]*results.Record, allowList []string) *Engine {
	return &Engine{
		groups:    groups,
		allowList: allowList,
	}
}

// prepare resolves numeric fields once and orders each dataset's
// records by allow-list position. The allow-list order is what breaks
// selection-time ties, so it must be applied here and nowhere else.
// Datasets with no allowed record are left out entirely.
func (eng *Engine) prepare() ([]contest, error) {
	datasets := make([]string, 0, len(eng.groups))
	for name := range eng.groups {
		datasets = append(datasets, name)
	}
	sort.Strings(datasets)

	ans := make([]contest, 0, len(datasets))
	for _, name := range datasets {
		var cst contest
		cst.dataset = name
		for _, algorithm := range eng.allowList {
			for _, rec := range eng.groups[name] {
				if rec.Algorithm != algorithm {
					continue
				}
				computeTime, err := rec.ComputeTimeSec()
				if err != nil {
					return nil, fmt.Errorf("failed to prepare sweep: %w", err)
				}
				outputBytes, err := rec.OutputBytesNum()
				if err != nil {
					return nil, fmt.Errorf("failed to prepare sweep: %w", err)
				}
				cst.competitors = append(cst.competitors, competitor{
					algorithm:   algorithm,
					computeTime: computeTime,
					outputBytes: outputBytes,
				})
			}
		}
		if len(cst.competitors) > 0 {
			ans = append(ans, cst)
		}
	}
	return ans, nil
}

func (eng *Engine) evalPoint(bandwidthMBs int, contests []contest) *Point {
	ans := &Point{
		Bandwidth: bandwidthMBs,
		Wins:      make(map[string][]string),
		TotalTime: make(map[string]float64),
	}
	for _, algorithm := range eng.allowList {
		ans.Wins[algorithm] = []string{}
	}
	for _, cst := range contests {
		var winner string
		winnerTime := -1.0
		for _, cmp := range cst.competitors {
			ioTime := cmp.outputBytes / float64(bandwidthMBs*bytesPerMB)
			selectionTime := max(cmp.computeTime, ioTime)
			ans.TotalTime[cmp.algorithm] += selectionTime
			if winnerTime < 0 || selectionTime < winnerTime {
				winnerTime = selectionTime
				winner = cmp.algorithm
			}
		}
		ans.Wins[winner] = append(ans.Wins[winner], cst.dataset)
	}
	bestCount := -1
	for _, algorithm := range eng.allowList {
		if len(ans.Wins[algorithm]) > bestCount {
			bestCount = len(ans.Wins[algorithm])
			ans.Best = algorithm
		}
	}
	ans.BestWinRate = float64(bestCount) * 100 / float64(len(contests))
	return ans
}

func sameWins(w1, w2 map[string][]string) bool {
	if len(w1) != len(w2) {
		return false
	}
	for algorithm, d1 := range w1 {
		d2, ok := w2[algorithm]
		if !ok || !slices.Equal(d1, d2) {
			return false
		}
	}
	return true
}

// Run evaluates the win determination at every bandwidth value of the
// domain and flags regime boundaries against the immediately preceding
// point. A nil Result (with nil error) means the filtered subset was
// empty after allow-list filtering and there is nothing to report.
// A record with a malformed numeric field makes the whole run fail,
// naming the offending line.
func (eng *Engine) Run(showProgress bool) (*Result, error) {
	contests, err := eng.prepare()
	if err != nil {
		return nil, err
	}
	if len(contests) == 0 {
		return nil, nil
	}

	domain := BandwidthDomain()
	ans := &Result{
		Points:     make([]*Point, 0, len(domain)),
		Algorithms: eng.allowList,
		Datasets:   make([]string, 0, len(contests)),
	}
	for _, cst := range contests {
		ans.Datasets = append(ans.Datasets, cst.dataset)
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(domain)), "sweeping bandwidth")
	}
	var prev *Point
	for _, bandwidthMBs := range domain {
		point := eng.evalPoint(bandwidthMBs, contests)
		point.PartitionChanged = prev == nil || !sameWins(prev.Wins, point.Wins)
		point.BestChanged = prev == nil || prev.Best != point.Best
		ans.Points = append(ans.Points, point)
		prev = point
		if bar != nil {
			bar.Add(1)
		}
	}
	return ans, nil
}
