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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/zachstanford/wrapped-reimagined/internal/consolidate"
	"github.com/zachstanford/wrapped-reimagined/internal/model"
	"github.com/zachstanford/wrapped-reimagined/internal/pipeline"
)

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [spotify_clean.json] [apple_clean.json]",
	Short: "Merges the clean provider logs into one consolidated log",
	Long: `Merges the clean Spotify and Apple Music event logs into a single
time-ordered log. Paths default to the files in the output directory; a
missing Apple Music log means a Spotify-only merge.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runConsolidate(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(args []string) error {
	cfg := pipelineConfig(nil, "")

	spotifyPath := filepath.Join(cfg.OutputDir, pipeline.SpotifyCleanFile)
	applePath := filepath.Join(cfg.OutputDir, pipeline.AppleCleanFile)
	if len(args) > 0 {
		spotifyPath = args[0]
	}
	if len(args) > 1 {
		applePath = args[1]
	}

	spotifyEvents, err := pipeline.ReadEvents(spotifyPath)
	if err != nil {
		return fmt.Errorf("loading spotify log (run process-spotify first): %w", err)
	}

	var appleEvents []model.StreamEvent
	if appleEvents, err = pipeline.ReadEvents(applePath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading apple music log: %w", err)
		}
		cfg.Log.Warn().Str("file", applePath).Msg("no apple music log, consolidating spotify only")
		appleEvents = nil
	}

	merged := consolidate.Merge(spotifyEvents, appleEvents)
	if err := pipeline.WriteArtifact(cfg.OutputDir, pipeline.ConsolidatedFile, merged); err != nil {
		return err
	}
	fmt.Printf("Consolidated %d events into %s\n",
		len(merged), filepath.Join(cfg.OutputDir, pipeline.ConsolidatedFile))
	return nil
}
