package main

import (
	"io"
	"os"
	"strconv"

	"github.com/mattn/go-isatty"

	"absubmit/internal/eligibility"
	"absubmit/internal/pipeline"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorCount(value int, color string, colorize bool) string {
	text := strconv.Itoa(value)
	if !colorize || value == 0 {
		return text
	}
	return color + text + ansiReset
}

func renderSummary(summary pipeline.Summary, colorize bool) string {
	rows := [][]string{
		{"Items", strconv.Itoa(summary.Total)},
		{"Submitted", colorCount(summary.Submitted, ansiGreen, colorize)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
	}
	for _, reason := range []eligibility.Reason{
		eligibility.ReasonAlreadyAnalyzed,
		eligibility.ReasonMissingIdentifier,
		eligibility.ReasonUnsupportedFormat,
	} {
		if count := summary.Skips[reason]; count > 0 {
			rows = append(rows, []string{"  " + string(reason), strconv.Itoa(count)})
		}
	}
	rows = append(rows, []string{"Failed", colorCount(summary.Failed, ansiRed, colorize)})
	return renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}
