// Package loader fetches the static chart documents and decodes them into series.
package loader

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"chartfolio/domain/core"
	"chartfolio/domain/series"
)

// Loader fetches and decodes chart documents. Every failure is returned as a *core.LoadError.
type Loader struct {
	src Source
}

// New returns a Loader reading from src.
func New(src Source) *Loader {
	return &Loader{src: src}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	b, err := l.src.Open(ctx, url)
	if err != nil {
		log.Printf("[Loader] fetch %s failed: %v", url, err)
		return nil, core.NewLoadError(url, wrapFetch(err))
	}
	return b, nil
}

// Anomaly loads an api_metrics document.
func (l *Loader) Anomaly(ctx context.Context, url string) (series.Series[series.AnomalySample], error) {
	b, err := l.fetch(ctx, url)
	if err != nil {
		return series.Series[series.AnomalySample]{}, err
	}
	s, err := DecodeAnomaly(b)
	if err != nil {
		log.Printf("[Loader] decode %s failed: %v", url, err)
		return series.Series[series.AnomalySample]{}, core.NewLoadError(url, err)
	}
	log.Printf("[Loader] %s: %d anomaly samples", url, s.Len())
	return s, nil
}

// Survival loads a survival_data document.
func (l *Loader) Survival(ctx context.Context, url string) (series.Series[series.SurvivalSample], error) {
	b, err := l.fetch(ctx, url)
	if err != nil {
		return series.Series[series.SurvivalSample]{}, err
	}
	s, err := DecodeSurvival(b)
	if err != nil {
		log.Printf("[Loader] decode %s failed: %v", url, err)
		return series.Series[series.SurvivalSample]{}, core.NewLoadError(url, err)
	}
	log.Printf("[Loader] %s: %d survival samples", url, s.Len())
	return s, nil
}

// Features loads feature summaries. JSON documents carry summaries directly;
// .csv and .xlsx documents hold raw columns that are summarized on load.
func (l *Loader) Features(ctx context.Context, url string) (series.Features, error) {
	ext := extension(url)
	switch ext {
	case ".json", "", ".csv", ".xlsx":
	default:
		return nil, core.NewLoadError(url, core.ErrUnsupportedFT)
	}
	b, err := l.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	var fs series.Features
	switch ext {
	case ".csv":
		var rows [][]string
		if rows, err = readCSV(b); err == nil {
			fs, err = SummarizeColumns(rows)
		}
	case ".xlsx":
		var rows [][]string
		if rows, err = readXLSX(b); err == nil {
			fs, err = SummarizeColumns(rows)
		}
	default:
		fs, err = DecodeFeatures(b)
	}
	if err != nil {
		log.Printf("[Loader] decode %s failed: %v", url, err)
		return nil, core.NewLoadError(url, err)
	}
	log.Printf("[Loader] %s: %d features", url, len(fs))
	return fs, nil
}

// Scatter loads an X,Y table from .csv or .xlsx.
func (l *Loader) Scatter(ctx context.Context, url string) (series.Series[series.ScatterPoint], error) {
	ext := extension(url)
	switch ext {
	case ".xlsx", ".csv", ".txt", "":
	default:
		return series.Series[series.ScatterPoint]{}, core.NewLoadError(url, core.ErrUnsupportedFT)
	}
	b, err := l.fetch(ctx, url)
	if err != nil {
		return series.Series[series.ScatterPoint]{}, err
	}

	var s series.Series[series.ScatterPoint]
	if ext == ".xlsx" {
		s, err = DecodeScatterXLSX(b)
	} else {
		s, err = DecodeScatterCSV(b)
	}
	if err != nil {
		log.Printf("[Loader] decode %s failed: %v", url, err)
		return series.Series[series.ScatterPoint]{}, core.NewLoadError(url, err)
	}
	log.Printf("[Loader] %s: %d scatter points", url, s.Len())
	return s, nil
}

func extension(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	return strings.ToLower(path.Ext(url))
}

func wrapFetch(err error) error {
	return fmt.Errorf("%w: %w", core.ErrFetch, err)
}
