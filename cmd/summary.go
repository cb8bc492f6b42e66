/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/zachstanford/wrapped-reimagined/internal/pipeline"
)

// Report is a closing summary printed after a command finishes: a table
// of per-stage record counts plus a one-line footer.
type Report struct {
	results [][]string
	summary string
}

func (r Report) String() string {
	out := new(bytes.Buffer)
	table := tablewriter.NewWriter(out)
	table.Header(r.results[0])
	for _, row := range r.results[1:] {
		if err := table.Append(row); err != nil {
			return fmt.Sprintf("Error rendering table: %v", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Sprintf("Error rendering table: %v", err)
	}
	fmt.Fprintf(out, "%s\n", r.summary)
	return out.String()
}

func stageRow(name string, counts pipeline.StageCounts) []string {
	return []string{
		name,
		strconv.Itoa(counts.Parsed),
		strconv.Itoa(counts.Failed),
		strconv.Itoa(counts.Dropped),
		strconv.Itoa(counts.Kept),
	}
}

func stageReport(name string, counts pipeline.StageCounts) Report {
	return Report{
		results: [][]string{
			{"Stage", "Parsed", "Failed", "Dropped", "Kept"},
			stageRow(name, counts),
		},
		summary: fmt.Sprintf("Kept %d of %d records", counts.Kept, counts.Parsed),
	}
}

func runReport(diag *pipeline.Diagnostics) Report {
	results := [][]string{
		{"Stage", "Parsed", "Failed", "Dropped", "Kept"},
		stageRow("Spotify", diag.Spotify),
	}
	summary := fmt.Sprintf("Consolidated %d events", diag.Consolidated)
	if diag.SpotifyOnly {
		summary += " (Spotify only)"
	} else {
		results = append(results, stageRow("Apple Music", diag.Apple))
		summary += fmt.Sprintf("; artist matches: %d exact, %d fuzzy, %d unmatched",
			diag.Resolution.ExactCount, diag.Resolution.FuzzyCount, diag.Resolution.UnmatchedCount)
	}
	return Report{results: results, summary: summary}
}
