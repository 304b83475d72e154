// Package ghlog configures the process-wide structured logger used by every
// octoguard command and package. It mirrors the teacher's logging setup:
// charmbracelet/log for level-aware structured output, styled with
// charmbracelet/lipgloss, with a quiet default and a verbose mode that adds
// timestamps and caller info.
package ghlog

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Logger is the package-level logger every other package logs through.
var Logger *log.Logger

func init() {
	Configure(false)
}

// Configure (re)creates the package-level Logger for the given verbosity.
// Calling it again reconfigures the existing instance in place so that
// loggers captured by value elsewhere keep working.
func Configure(verbose bool) {
	var level log.Level
	var reportCaller, reportTimestamp bool
	var timeFormat string

	if verbose {
		reportCaller = true
		reportTimestamp = true
		timeFormat = "2006/01/02 15:04:05"
		level = log.DebugLevel
	} else {
		reportCaller = false
		reportTimestamp = false
		timeFormat = ""
		level = log.InfoLevel
	}

	var instance *log.Logger
	if Logger == nil {
		instance = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    reportCaller,
			ReportTimestamp: reportTimestamp,
			TimeFormat:      timeFormat,
			Level:           level,
		})
	} else {
		instance = Logger
		instance.SetLevel(level)
		instance.SetReportTimestamp(reportTimestamp)
		instance.SetTimeFormat(timeFormat)
		instance.SetReportCaller(reportCaller)
	}

	styles := log.DefaultStyles()
	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString(strings.ToUpper(log.DebugLevel.String())).
		Bold(true).Foreground(lipgloss.Color("14"))
	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString(strings.ToUpper(log.WarnLevel.String())).
		Bold(true).Foreground(lipgloss.Color("11"))
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString(strings.ToUpper(log.ErrorLevel.String())).
		Bold(true).Foreground(lipgloss.Color("9"))
	instance.SetStyles(styles)

	Logger = instance
	log.SetDefault(Logger)
}

// SeverityStyle returns a lipgloss style for coloring a finding severity in
// the plain renderer.
func SeverityStyle(severity string) lipgloss.Style {
	switch severity {
	case "high":
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	case "medium":
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	case "low":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}
