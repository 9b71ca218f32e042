// Copyright 2025 gorse Project Authors
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

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gorse-io/gorse-libfm/base/log"
	"github.com/gorse-io/gorse-libfm/cmd/version"
	"github.com/gorse-io/gorse-libfm/config"
	"github.com/gorse-io/gorse-libfm/dataset"
	"github.com/gorse-io/gorse-libfm/libfm"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var libfmCommand = &cobra.Command{
	Use:   "gorse-libfm <train output> <test output>",
	Short: "Convert coupon purchase data to libFM training and test sets.",
	Args: func(cmd *cobra.Command, args []string) error {
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			return nil
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		defer log.CloseLogger()

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}

		progress, _ := cmd.PersistentFlags().GetBool("progress")
		summary, err := convert(conf, args[0], args[1], progress)
		if err != nil {
			log.Logger().Fatal("failed to convert", zap.String("error", errors.ErrorStack(err)))
		}
		if err = renderSummary(os.Stdout, summary); err != nil {
			log.Logger().Fatal("failed to render summary", zap.Error(err))
		}
	},
}

func init() {
	log.AddFlags(libfmCommand.PersistentFlags())
	libfmCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	libfmCommand.PersistentFlags().BoolP("version", "v", false, "gorse-libfm version")
	libfmCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	libfmCommand.PersistentFlags().Bool("progress", false, "show progress bars while writing tables")
}

func main() {
	if err := libfmCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}

func convert(conf *config.Config, trainPath, testPath string, progress bool) (libfm.Summary, error) {
	log.Logger().Info("load tables")
	tables, err := dataset.LoadTables(conf)
	if err != nil {
		return libfm.Summary{}, errors.Trace(err)
	}
	converter := libfm.NewConverter(conf, tables)
	converter.Progress = progress
	if err = converter.Convert(); err != nil {
		return libfm.Summary{}, errors.Trace(err)
	}
	if err = converter.Write(trainPath, testPath); err != nil {
		return libfm.Summary{}, errors.Trace(err)
	}
	log.Logger().Info("complete conversion",
		zap.String("train", log.RedactURL(trainPath)),
		zap.String("test", log.RedactURL(testPath)))
	return converter.Summary(), nil
}

func renderSummary(w io.Writer, summary libfm.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Table", "Rows")
	for _, row := range [][]string{
		{"users", strconv.Itoa(summary.Users)},
		{"train items", strconv.Itoa(summary.TrainItems)},
		{"test items", strconv.Itoa(summary.TestItems)},
		{"positive examples", strconv.Itoa(summary.Positives)},
		{"negative examples", strconv.Itoa(summary.Negatives)},
		{"skipped negative examples", strconv.Itoa(summary.SkippedNegatives)},
		{"test examples", strconv.Itoa(summary.TestRows)},
	} {
		if err := table.Append(row); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
