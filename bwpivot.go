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

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/czcorpus/bwpivot/cnf"
	"github.com/czcorpus/cnc-gokit/logging"
)

const (
	actionAnalyze = "analyze"
	actionVersion = "version"
	actionHelp    = "help"

	exitErrorGeneralFailure = iota
	exitErrorImportFailed
	exitErrorAnalysisFailed
)

var (
	version   string
	buildDate string
	gitCommit string
)

// VersionInfo provides a detailed information about the actual build
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

func topLevelUsage() {
	fmt.Fprintf(os.Stderr, "BWPIVOT - a compression benchmark bandwidth-sweep analyzer\n")
	fmt.Fprintf(os.Stderr, "-----------------------------\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "\t%s\t\tshow version info\n", actionVersion)
	fmt.Fprintf(os.Stderr, "\t%s\t\trun all configured report runs over a results file\n", actionAnalyze)
	fmt.Fprintf(os.Stderr, "\nUse `bwpivot help ACTION` for information about a specific action\n\n")
}

func setup(confPath string) *cnf.Conf {
	conf := cnf.LoadConfig(confPath)
	if conf.Logging.Level == "" {
		conf.Logging.Level = "info"
	}
	logging.SetupLogging(conf.Logging)
	cnf.ValidateAndDefaults(conf)
	return conf
}

func cleanVersionInfo(v string) string {
	return strings.TrimLeft(strings.Trim(v, "'"), "v")
}

func runActionVersion(ver VersionInfo) {
	fmt.Fprintln(os.Stderr, "BWPivot version: ", ver)
}

func main() {
	version := VersionInfo{
		Version:   cleanVersionInfo(version),
		BuildDate: cleanVersionInfo(buildDate),
		GitCommit: cleanVersionInfo(gitCommit),
	}

	cmdAnalyze := flag.NewFlagSet(actionAnalyze, flag.ExitOnError)
	analyzeResults := cmdAnalyze.String(
		"results", "", "path to a results file (overrides resultsPath from the config)")
	analyzeNoProgress := cmdAnalyze.Bool(
		"no-progress", false, "disable the terminal progress bar during sweeps")
	cmdAnalyze.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"Usage:\t%s %s [options] config.json\n",
			filepath.Base(os.Args[0]), actionAnalyze)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		cmdAnalyze.PrintDefaults()
	}

	cmdVersion := flag.NewFlagSet(actionVersion, flag.ExitOnError)
	cmdVersion.Usage = func() {
		cmdVersion.PrintDefaults()
	}

	cmdHelp := flag.NewFlagSet(actionHelp, flag.ExitOnError)
	cmdHelp.Usage = func() {
		cmdHelp.PrintDefaults()
	}

	action := actionHelp
	if len(os.Args) > 1 {
		action = os.Args[1]
	}

	switch action {
	case actionHelp:
		var subj string
		if len(os.Args) > 2 {
			cmdHelp.Parse(os.Args[2:])
			subj = cmdHelp.Arg(0)
		}
		if subj == "" {
			topLevelUsage()
			return
		}
		switch subj {
		case actionAnalyze:
			cmdAnalyze.Usage()
		case actionVersion:
			cmdVersion.PrintDefaults()
		}
	case actionVersion:
		cmdVersion.Parse(os.Args[2:])
		runActionVersion(version)
	case actionAnalyze:
		cmdAnalyze.Parse(os.Args[2:])
		conf := setup(cmdAnalyze.Arg(0))
		runAnalyze(conf, *analyzeResults, *analyzeNoProgress)
	default:
		fmt.Fprintf(os.Stderr, "Unknown action: %s\n\n", action)
		topLevelUsage()
		os.Exit(exitErrorGeneralFailure)
	}
}
