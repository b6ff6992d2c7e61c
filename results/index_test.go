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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkRecord(algorithm, dataset string) *Record {
	return &Record{Algorithm: algorithm, Dataset: dataset}
}

func TestBuildGroupsPreserveArrivalOrder(t *testing.T) {
	index := Build([]*Record{
		mkRecord("zlib", "ds1"),
		mkRecord("snappy", "ds2"),
		mkRecord("raw", "ds1"),
		mkRecord("zlib", "ds2"),
	})
	require.Len(t, index.Groups, 2)
	assert.Equal(t, "zlib", index.Groups["ds1"][0].Algorithm)
	assert.Equal(t, "raw", index.Groups["ds1"][1].Algorithm)
	assert.Equal(t, "snappy", index.Groups["ds2"][0].Algorithm)
	assert.Equal(t, "zlib", index.Groups["ds2"][1].Algorithm)
}

func TestBuildAlgorithmSetIsSorted(t *testing.T) {
	index := Build([]*Record{
		mkRecord("zlib", "ds1"),
		mkRecord("raw", "ds1"),
		mkRecord("snappy", "ds1"),
		mkRecord("raw", "ds2"),
	})
	assert.Equal(t, []string{"raw", "snappy", "zlib"}, index.Algorithms)
}

func TestBuildDistFreqClassification(t *testing.T) {
	index := Build([]*Record{
		mkRecord("zlib", "A12-34-weekly"),
		mkRecord("zlib", "weekly-only"),
		mkRecord("raw", "B1-2-daily"),
	})
	assert.Equal(t, []string{"A12-34", "B1-2"}, index.Distributions)
	assert.Equal(t, []string{"daily", "weekly"}, index.Frequencies)

	_, ok := index.DistFreq[DistFreqKey{"A12-34", "weekly", "zlib"}]
	assert.True(t, ok)
	_, ok = index.DistFreq[DistFreqKey{"B1-2", "daily", "raw"}]
	assert.True(t, ok)

	// a name without the classification prefix still forms a plain group
	assert.Len(t, index.Groups["weekly-only"], 1)
	assert.Len(t, index.DistFreq, 2)
}

func TestBuildDistFreqFirstOccurrenceWins(t *testing.T) {
	first := &Record{Algorithm: "zlib", Dataset: "A1-1-hourly", ComputeTime: "1.0"}
	second := &Record{Algorithm: "zlib", Dataset: "A1-1-hourly", ComputeTime: "2.0"}
	index := Build([]*Record{first, second})
	rec := index.DistFreq[DistFreqKey{"A1-1", "hourly", "zlib"}]
	require.NotNil(t, rec)
	assert.Same(t, first, rec)
	// the duplicate still lands in the dataset group
	assert.Len(t, index.Groups["A1-1-hourly"], 2)
}

func TestAllowedAlgorithms(t *testing.T) {
	index := Build([]*Record{
		mkRecord("gzip,6+s", "ds1"),
		mkRecord("zlib", "ds1"),
		mkRecord("raw", "ds1"),
	})
	assert.Equal(
		t,
		[]string{"raw", "zlib"},
		index.AllowedAlgorithms([]string{"gzip,6+s"}),
	)
	// exclusion never mutates the global set
	assert.Equal(t, []string{"gzip,6+s", "raw", "zlib"}, index.Algorithms)
}

func TestFilterGroups(t *testing.T) {
	index := Build([]*Record{
		mkRecord("zlib", "RandSmallInts"),
		mkRecord("zlib", "IncrSmallInts"),
		mkRecord("zlib", "RandBigDoubles"),
	})
	subset := index.FilterGroups(func(dataset string) bool {
		return strings.HasPrefix(dataset, "Rand")
	})
	require.Len(t, subset, 2)
	assert.Contains(t, subset, "RandSmallInts")
	assert.Contains(t, subset, "RandBigDoubles")
	// the view shares the records with the full index
	assert.Same(t, index.Groups["RandSmallInts"][0], subset["RandSmallInts"][0])
}
