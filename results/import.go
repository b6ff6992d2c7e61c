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
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// ImportFile reads a fixed-width results file and returns all valid
// records. The first non-blank line is treated as the header row; its
// labels are validated against the expected set and any mismatch is
// logged as a warning while parsing continues with the fixed offsets.
// Data lines shorter than MinLineLength are skipped silently.
func ImportFile(path string) ([]*Record, error) {
	fr, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to import results file: %w", err)
	}
	defer fr.Close()

	var ans []*Record
	headerSeen := false
	scanner := bufio.NewScanner(fr)
	for scanner.Scan() {
		line := scanner.Text()
		if !headerSeen {
			if strings.TrimSpace(line) == "" {
				continue
			}
			headerSeen = true
			for _, problem := range CheckHeader(newRecord(line)) {
				log.Warn().Str("file", path).Msg(problem)
			}
			continue
		}
		if rec := ParseLine(line); rec != nil {
			ans = append(ans, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to import results file: %w", err)
	}
	log.Info().
		Str("file", path).
		Int("numRecords", len(ans)).
		Msg("imported benchmark results")
	return ans, nil
}
