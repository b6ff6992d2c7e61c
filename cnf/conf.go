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

package cnf

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/czcorpus/cnc-gokit/logging"
	"github.com/rs/zerolog/log"
)

const (
	dfltResultsPath = "results.txt"
	dfltOutputDir   = "details"

	FilterAll    = "all"
	FilterPrefix = "prefix"
	FilterRegex  = "regex"
)

// dfltExcludedAlgorithms lists algorithm variants that are measured by
// the benchmark but never candidates for deployment, so they are left
// out of the win determination (not out of the distribution grids).
var dfltExcludedAlgorithms = []string{
	"gzip,1+s", "gzip,6+s", "gzip,9+s",
	"s+gzip,1", "s+gzip,6", "s+gzip,9",
}

// DatasetFilter selects which datasets participate in a report run.
type DatasetFilter struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
}

// Matcher compiles the filter into a dataset-name predicate.
func (filter DatasetFilter) Matcher() (func(dataset string) bool, error) {
	switch filter.Type {
	case FilterAll, "":
		return func(dataset string) bool { return true }, nil
	case FilterPrefix:
		return func(dataset string) bool {
			return strings.HasPrefix(dataset, filter.Pattern)
		}, nil
	case FilterRegex:
		rx, err := regexp.Compile(filter.Pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile dataset filter: %w", err)
		}
		return rx.MatchString, nil
	default:
		return nil, fmt.Errorf("unknown dataset filter type: %s", filter.Type)
	}
}

// ReportRun is one named pass of the bandwidth sweep over a filtered
// subset of the datasets.
type ReportRun struct {
	Label  string        `json:"label"`
	Filter DatasetFilter `json:"filter"`

	// AbsoluteTable enables the additional aggregate-time pivot
	// artifact (<label>-absolute.txt) for this run.
	AbsoluteTable bool `json:"absoluteTable"`
}

func dfltReportRuns() []ReportRun {
	contains := func(label, word string) ReportRun {
		return ReportRun{
			Label:         label,
			Filter:        DatasetFilter{Type: FilterRegex, Pattern: ".*" + word + ".*"},
			AbsoluteTable: true,
		}
	}
	return []ReportRun{
		{Label: "all", Filter: DatasetFilter{Type: FilterAll}, AbsoluteTable: true},
		{Label: "e_rand", Filter: DatasetFilter{Type: FilterPrefix, Pattern: "Rand"}, AbsoluteTable: true},
		{Label: "e_incr", Filter: DatasetFilter{Type: FilterPrefix, Pattern: "Incr"}, AbsoluteTable: true},
		contains("s_small", "Small"),
		contains("s_reg", "Reg"),
		contains("s_big", "Big"),
		contains("t_double", "Double"),
		contains("t_int", "Int"),
		contains("t_long", "Long"),
		contains("t_string", "Chars"),
	}
}

type Conf struct {
	srcPath            string
	Logging            logging.LoggingConf `json:"logging"`
	ResultsPath        string              `json:"resultsPath"`
	OutputDir          string              `json:"outputDir"`
	ExcludedAlgorithms []string            `json:"excludedAlgorithms"`
	ReportRuns         []ReportRun         `json:"reportRuns"`
}

func (conf *Conf) GetSourcePath() string {
	return conf.srcPath
}

func LoadConfig(path string) *Conf {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Conf
	conf.srcPath = path
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}

func ValidateAndDefaults(conf *Conf) {
	if conf.ResultsPath == "" {
		conf.ResultsPath = dfltResultsPath
		log.Warn().
			Str("path", dfltResultsPath).
			Msg("resultsPath not specified, using default")
	}
	if conf.OutputDir == "" {
		conf.OutputDir = dfltOutputDir
		log.Warn().
			Str("path", dfltOutputDir).
			Msg("outputDir not specified, using default")
	}
	if conf.ExcludedAlgorithms == nil {
		conf.ExcludedAlgorithms = dfltExcludedAlgorithms
		log.Warn().
			Strs("algorithms", dfltExcludedAlgorithms).
			Msg("excludedAlgorithms not specified, using default")
	}
	if len(conf.ReportRuns) == 0 {
		conf.ReportRuns = dfltReportRuns()
		log.Warn().Msg("reportRuns not specified, using the default run list")
	}
	seen := make(map[string]bool)
	for _, run := range conf.ReportRuns {
		if run.Label == "" {
			log.Fatal().Msg("invalid report run - label must not be empty")
		}
		if seen[run.Label] {
			log.Fatal().Str("label", run.Label).Msg("invalid report runs - duplicate label")
		}
		seen[run.Label] = true
		if _, err := run.Filter.Matcher(); err != nil {
			log.Fatal().Err(err).Str("label", run.Label).Msg("invalid report run")
		}
	}
}
