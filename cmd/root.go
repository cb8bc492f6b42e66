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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/zachstanford/wrapped-reimagined/internal/pipeline"
)

var cfgFile string
var outputDir string
var fuzzyThreshold float64
var fuzzyTopN int
var minSkipMs int64
var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wrapped-reimagined",
	Short: "Processes streaming history exports into listening statistics",
	Long: `Reads Spotify and Apple Music streaming history exports, cleans and
consolidates them into one listening log, and generates lifetime, annual,
and per-artist statistics as JSON files.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.wrapped-reimagined.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&outputDir, "output", "o", "./output", "directory to write JSON artifacts to")
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.PersistentFlags().Float64Var(
		&fuzzyThreshold, "fuzzy-threshold", 0.8, "minimum similarity for fuzzy artist matches")
	viper.BindPFlag("fuzzy-threshold", rootCmd.PersistentFlags().Lookup("fuzzy-threshold"))

	rootCmd.PersistentFlags().IntVar(
		&fuzzyTopN, "fuzzy-top-n", 50, "number of high-volume unmatched artists to fuzzy match")
	viper.BindPFlag("fuzzy-top-n", rootCmd.PersistentFlags().Lookup("fuzzy-top-n"))

	rootCmd.PersistentFlags().Int64Var(
		&minSkipMs, "min-skip-ms", 30000, "skipped plays shorter than this are dropped")
	viper.BindPFlag("min-skip-ms", rootCmd.PersistentFlags().Lookup("min-skip-ms"))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".wrapped-reimagined" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".wrapped-reimagined")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()
}

// pipelineConfig collects the persistent flag values into a run config.
func pipelineConfig(spotifyFiles []string, appleFile string) pipeline.Config {
	return pipeline.Config{
		SpotifyFiles:   spotifyFiles,
		AppleFile:      appleFile,
		OutputDir:      viper.GetString("output"),
		FuzzyThreshold: viper.GetFloat64("fuzzy-threshold"),
		FuzzyTopN:      viper.GetInt("fuzzy-top-n"),
		MinSkipMs:      viper.GetInt64("min-skip-ms"),
		Log:            newLogger(),
	}
}
