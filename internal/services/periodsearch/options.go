package periodsearch

import (
	"github.com/Paintersrp/periodsearch/internal/config"
	"github.com/Paintersrp/periodsearch/internal/destination"
	"github.com/Paintersrp/periodsearch/internal/report"
)

// ReportOptions maps workspace search settings onto formatter options.
func ReportOptions(cfg config.SearchConfig) report.Options {
	return report.Options{
		HeadingLevel:       cfg.HeadingLevel,
		HighlightResults:   cfg.HighlightResults,
		HighlightMarker:    cfg.HighlightMarker,
		ResultQuoteLength:  cfg.ResultQuoteLength,
		GroupResultsByNote: cfg.GroupResultsByNote,
		ResultPrefix:       cfg.ResultPrefix,
		ShowEmptyResults:   cfg.ShowEmptyResults,
		DateStyle:          cfg.DateStyle,
	}
}

// RouterSettings maps workspace search settings onto router settings.
func RouterSettings(cfg config.SearchConfig) destination.Settings {
	return destination.Settings{
		HeadingLevel:  cfg.HeadingLevel,
		FolderToStore: cfg.FolderToStore,
		SearchHeading: cfg.SearchHeading,
		OpenResults:   cfg.OpenResults,
	}
}
