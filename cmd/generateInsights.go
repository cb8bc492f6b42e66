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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zachstanford/wrapped-reimagined/internal/pipeline"
)

var generateInsightsCmd = &cobra.Command{
	Use:   "generate-insights [consolidated.json]",
	Short: "Generates lifetime, annual, and per-artist statistics",
	Long: `Reads the consolidated event log and writes the lifetime statistics,
annual recaps, and artist summary JSON files. The log path defaults to
the one in the output directory.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runGenerateInsights(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(generateInsightsCmd)
}

func runGenerateInsights(args []string) error {
	cfg := pipelineConfig(nil, "")

	path := filepath.Join(cfg.OutputDir, pipeline.ConsolidatedFile)
	if len(args) > 0 {
		path = args[0]
	}
	events, err := pipeline.ReadEvents(path)
	if err != nil {
		return fmt.Errorf("loading consolidated log (run consolidate first): %w", err)
	}

	insights := pipeline.GenerateInsights(events, time.Now().UTC())
	if err := pipeline.WriteInsights(cfg.OutputDir, insights); err != nil {
		return err
	}
	fmt.Printf("Generated insights for %d events into %s\n", len(events), cfg.OutputDir)
	return nil
}
