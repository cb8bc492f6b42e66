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

var processAllApple string
var processAllCmd = &cobra.Command{
	Use:   "process-all <spotify.json>...",
	Short: "Runs the full pipeline end to end",
	Long: `Cleans the Spotify exports, cleans and reconciles the Apple Music
export when given via --apple, consolidates everything into one log, and
generates all statistics. Without --apple the run is Spotify-only.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := runProcessAll(args, processAllApple)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(processAllCmd)

	processAllCmd.Flags().StringVarP(
		&processAllApple, "apple", "a", "", "Apple Music play activity CSV")
}

func runProcessAll(spotifyFiles []string, appleFile string) error {
	cfg := pipelineConfig(spotifyFiles, appleFile)
	diag, err := pipeline.Run(cfg)
	if err != nil {
		return err
	}
	fmt.Println(runReport(diag))
	return nil
}
