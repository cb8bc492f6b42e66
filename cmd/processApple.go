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

	"github.com/spf13/cobra"

	"github.com/zachstanford/wrapped-reimagined/internal/pipeline"
)

var processAppleCmd = &cobra.Command{
	Use:   "process-apple <export.csv> [spotify_clean.json]",
	Short: "Cleans an Apple Music play activity export",
	Long: `Parses an Apple Music play activity CSV, drops non-music and invalid
plays, and reconciles artist names against the clean Spotify log. Writes
the clean Apple Music event log and the artist mapping summary. The
Spotify log defaults to the one in the output directory.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runProcessApple(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processAppleCmd)
}

func runProcessApple(args []string) error {
	cfg := pipelineConfig(nil, args[0])

	spotifyPath := filepath.Join(cfg.OutputDir, pipeline.SpotifyCleanFile)
	if len(args) > 1 {
		spotifyPath = args[1]
	}
	spotifyEvents, err := pipeline.ReadEvents(spotifyPath)
	if err != nil {
		return fmt.Errorf("loading spotify log (run process-spotify first): %w", err)
	}

	events, counts, summary, err := pipeline.ProcessApple(cfg, pipeline.ArtistNames(spotifyEvents))
	if err != nil {
		return err
	}
	if err := pipeline.WriteArtifact(cfg.OutputDir, pipeline.AppleCleanFile, events); err != nil {
		return err
	}
	if err := pipeline.WriteArtifact(cfg.OutputDir, pipeline.MappingSummaryFile, summary); err != nil {
		return err
	}
	fmt.Println(stageReport("Apple Music", counts))
	return nil
}
