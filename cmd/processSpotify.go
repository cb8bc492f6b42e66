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

	"github.com/spf13/cobra"

	"github.com/zachstanford/wrapped-reimagined/internal/pipeline"
)

var processSpotifyCmd = &cobra.Command{
	Use:   "process-spotify <export.json>...",
	Short: "Cleans Spotify extended streaming history exports",
	Long: `Parses one or more Spotify extended streaming history JSON files, drops
podcasts, skips, and private sessions, and writes the clean event log.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runProcessSpotify(args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processSpotifyCmd)
}

func runProcessSpotify(files []string) error {
	cfg := pipelineConfig(files, "")
	events, counts, err := pipeline.ProcessSpotify(cfg)
	if err != nil {
		return err
	}
	if err := pipeline.WriteArtifact(cfg.OutputDir, pipeline.SpotifyCleanFile, events); err != nil {
		return err
	}
	fmt.Println(stageReport("Spotify", counts))
	return nil
}
