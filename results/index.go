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

package results

import (
	"regexp"

	"github.com/czcorpus/cnc-gokit/collections"
)

// distFreqPattern extracts the (distribution, frequency) classification
// out of dataset names like `A12-34-weekly`. Names without the prefix
// still form regular dataset groups, they just carry no classification.
var distFreqPattern = regexp.MustCompile(`^([BA]\d+-\d+)-(\S+)`)

// DistFreqKey is the composite key of the distribution/frequency index.
type DistFreqKey struct {
	Distribution string
	Frequency    string
	Algorithm    string
}

// Index is the product of a single pass over all parsed records.
// It is built once and read-only afterwards; the filtered views
// handed to individual report runs all share the same record values.
type Index struct {

	// Groups maps a dataset name to its records in file arrival order
	// (one record per algorithm tested on the dataset).
	Groups map[string][]*Record

	// Algorithms contains all observed algorithm ids, sorted.
	Algorithms []string

	// Frequencies contains all frequency names observed in matching
	// dataset names, sorted.
	Frequencies []string

	// Distributions contains all distribution prefixes observed in
	// matching dataset names, sorted.
	Distributions []string

	// DistFreq holds at most one record per (distribution, frequency,
	// algorithm) triple; the first occurrence wins and later duplicates
	// are dropped.
	DistFreq map[DistFreqKey]*Record
}

// Build groups records by dataset, derives the global algorithm set and
// populates the distribution/frequency index from matching dataset names.
func Build(records []*Record) *Index {
	ans := &Index{
		Groups:   make(map[string][]*Record),
		DistFreq: make(map[DistFreqKey]*Record),
	}
	algorithms := collections.NewSet[string]()
	frequencies := collections.NewSet[string]()
	distributions := collections.NewSet[string]()

	for _, rec := range records {
		ans.Groups[rec.Dataset] = append(ans.Groups[rec.Dataset], rec)
		algorithms.Add(rec.Algorithm)

		if srch := distFreqPattern.FindStringSubmatch(rec.Dataset); srch != nil {
			distributions.Add(srch[1])
			frequencies.Add(srch[2])
			key := DistFreqKey{
				Distribution: srch[1],
				Frequency:    srch[2],
				Algorithm:    rec.Algorithm,
			}
			if _, ok := ans.DistFreq[key]; !ok {
				ans.DistFreq[key] = rec
			}
		}
	}
	ans.Algorithms = algorithms.ToOrderedSlice()
	ans.Frequencies = frequencies.ToOrderedSlice()
	ans.Distributions = distributions.ToOrderedSlice()
	return ans
}

// AllowedAlgorithms returns the global algorithm set minus the provided
// exclusion list, keeping the sorted order. This is computed once and
// applied to every report run.
func (index *Index) AllowedAlgorithms(excluded []string) []string {
	exclSet := collections.NewSet[string](excluded...)
	ans := make([]string, 0, len(index.Algorithms))
	for _, algorithm := range index.Algorithms {
		if !exclSet.Contains(algorithm) {
			ans = append(ans, algorithm)
		}
	}
	return ans
}

// FilterGroups returns the subset of dataset groups whose names satisfy
// the predicate. The returned map is an independent view sharing the
// immutable records, so distinct report runs cannot affect each other.
func (index *Index) FilterGroups(pred func(dataset string) bool) map[string][]*Record {
	ans := make(map[string][]*Record)
	for name, group := range index.Groups {
		if pred(name) {
			ans[name] = group
		}
	}
	return ans
}

// HasDistFreq tests whether any algorithm produced a record for the
// provided distribution and frequency.
func (index *Index) HasDistFreq(distribution, frequency string) bool {
	for _, algorithm := range index.Algorithms {
		key := DistFreqKey{Distribution: distribution, Frequency: frequency, Algorithm: algorithm}
		if _, ok := index.DistFreq[key]; ok {
			return true
		}
	}
	return false
}
