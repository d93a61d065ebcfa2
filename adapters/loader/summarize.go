package loader

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"chartfolio/domain/core"
	"chartfolio/domain/series"

	"github.com/montanaflynn/stats"
)

// SummarizeColumns turns a headered table of raw numeric columns into feature summaries.
// Non-numeric and empty cells are skipped; a column with no numeric values is an error.
func SummarizeColumns(rows [][]string) (series.Features, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header", core.ErrSchema)
	}
	header := rows[0]
	out := make(series.Features, 0, len(header))
	for col, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			continue
		}
		values := make(stats.Float64Data, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: column %q has no numeric values", core.ErrSchema, name)
		}
		st, err := summarize(values)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %v", core.ErrSchema, name, err)
		}
		out = append(out, series.Feature{Name: name, Stats: st})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no named columns", core.ErrSchema)
	}
	return out, nil
}

func summarize(values stats.Float64Data) (series.FeatureStats, error) {
	var st series.FeatureStats
	var err error
	if st.Min, err = stats.Min(values); err != nil {
		return st, err
	}
	if st.Max, err = stats.Max(values); err != nil {
		return st, err
	}
	if st.Mean, err = stats.Mean(values); err != nil {
		return st, err
	}
	if len(values) > 1 {
		if st.Std, err = stats.StandardDeviationSample(values); err != nil {
			return st, err
		}
	}
	if st.Q25, err = quantile(values, 25); err != nil {
		return st, err
	}
	if st.Q75, err = quantile(values, 75); err != nil {
		return st, err
	}
	return st, st.Validate()
}

// quantile interpolates where the sample is large enough and falls back to nearest rank.
func quantile(values stats.Float64Data, percent float64) (float64, error) {
	if v, err := stats.Percentile(values, percent); err == nil {
		return v, nil
	}
	return stats.PercentileNearestRank(values, percent)
}
