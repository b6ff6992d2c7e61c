package main

import (
	"os"

	"github.com/czcorpus/bwpivot/cnf"
	"github.com/czcorpus/bwpivot/report"
	"github.com/czcorpus/bwpivot/results"
	"github.com/czcorpus/bwpivot/sweep"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
)

const (
	errColor = color.FgHiRed
)

// runAnalyze is the single end-to-end pipeline: ingest the results
// file, build the index, write the distribution grids and then run
// every configured report over its filtered dataset subset.
func runAnalyze(conf *cnf.Conf, resultsPath string, noProgress bool) {
	if resultsPath == "" {
		resultsPath = conf.ResultsPath
	}
	records, err := results.ImportFile(resultsPath)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorImportFailed)
	}
	index := results.Build(records)
	if len(index.Groups) == 0 {
		log.Warn().Str("file", resultsPath).Msg("results file contains no data rows")
		return
	}

	emitter, err := report.NewEmitter(conf.OutputDir)
	if err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorAnalysisFailed)
	}
	if err := emitter.WriteDistributionGrids(index); err != nil {
		color.New(errColor).Fprintln(os.Stderr, err)
		os.Exit(exitErrorAnalysisFailed)
	}

	allowList := index.AllowedAlgorithms(conf.ExcludedAlgorithms)
	log.Info().Strs("algorithms", allowList).Msg("algorithm allow-list for all report runs")

	for _, run := range conf.ReportRuns {
		pred, err := run.Filter.Matcher()
		if err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorAnalysisFailed)
		}
		groups := index.FilterGroups(pred)
		engine := sweep.NewEngine(groups, allowList)
		res, err := engine.Run(!noProgress)
		if err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorAnalysisFailed)
		}
		if res == nil {
			log.Warn().
				Str("label", run.Label).
				Msg("report run has no data, skipping")
			continue
		}
		if err := emitter.WriteSweep(run.Label, res, run.AbsoluteTable); err != nil {
			color.New(errColor).Fprintln(os.Stderr, err)
			os.Exit(exitErrorAnalysisFailed)
		}
	}
}
