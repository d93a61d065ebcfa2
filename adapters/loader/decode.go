package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chartfolio/domain/core"
	"chartfolio/domain/series"

	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

// DecodeAnomaly parses {api_metrics: [...]} into an x-ordered series.
func DecodeAnomaly(b []byte) (series.Series[series.AnomalySample], error) {
	var doc anomalyDocument
	if err := strictUnmarshal(b, &doc); err != nil {
		return series.Series[series.AnomalySample]{}, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	if err := validate.Struct(doc); err != nil {
		return series.Series[series.AnomalySample]{}, fmt.Errorf("%w: %v", core.ErrSchema, schemaError(err))
	}

	samples := make([]series.AnomalySample, len(doc.APIMetrics))
	for i, r := range doc.APIMetrics {
		ts, err := core.ParseInstant(r.Timestamp)
		if err != nil {
			return series.Series[series.AnomalySample]{}, fmt.Errorf("%w: api_metrics[%d]: %v", core.ErrSchema, i, err)
		}
		samples[i] = series.AnomalySample{
			Timestamp:    ts,
			Latency:      float64(*r.Latency),
			RequestCount: int(*r.RequestCount),
			ErrorRate:    float64(*r.ErrorRate),
			IsAnomaly:    bool(*r.IsAnomaly),
		}
	}
	return series.NewSeries(samples), nil
}

// DecodeSurvival parses {survival_data: [...]} and enforces lower_ci <= survival_prob <= upper_ci.
func DecodeSurvival(b []byte) (series.Series[series.SurvivalSample], error) {
	var doc survivalDocument
	if err := strictUnmarshal(b, &doc); err != nil {
		return series.Series[series.SurvivalSample]{}, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	if err := validate.Struct(doc); err != nil {
		return series.Series[series.SurvivalSample]{}, fmt.Errorf("%w: %v", core.ErrSchema, schemaError(err))
	}

	samples := make([]series.SurvivalSample, len(doc.SurvivalData))
	for i, r := range doc.SurvivalData {
		samples[i] = series.SurvivalSample{
			Time:         float64(*r.Time),
			SurvivalProb: float64(*r.SurvivalProb),
			LowerCI:      float64(*r.LowerCI),
			UpperCI:      float64(*r.UpperCI),
		}
	}
	s := series.NewSeries(samples)
	if err := s.Validate(); err != nil {
		return series.Series[series.SurvivalSample]{}, fmt.Errorf("%w: %v", core.ErrSchema, err)
	}
	return s, nil
}

var featureFields = []string{"min", "max", "mean", "std", "q25", "q75"}

// DecodeFeatures parses an object of feature name -> summary, keeping document order.
func DecodeFeatures(b []byte) (series.Features, error) {
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%w: invalid JSON", core.ErrDecode)
	}
	root := gjson.ParseBytes(b)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: features document must be an object", core.ErrSchema)
	}

	var out series.Features
	var ferr error
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			ferr = fmt.Errorf("%w: feature %q is not an object", core.ErrSchema, key.String())
			return false
		}
		vals := make(map[string]float64, len(featureFields))
		for _, f := range featureFields {
			v := value.Get(f)
			n, err := resultFloat(v)
			if err != nil {
				ferr = fmt.Errorf("%w: feature %q field %s: %v", core.ErrSchema, key.String(), f, err)
				return false
			}
			vals[f] = n
		}
		st := series.FeatureStats{
			Min: vals["min"], Max: vals["max"], Mean: vals["mean"],
			Std: vals["std"], Q25: vals["q25"], Q75: vals["q75"],
		}
		if err := st.Validate(); err != nil {
			ferr = fmt.Errorf("%w: feature %q: %v", core.ErrSchema, key.String(), err)
			return false
		}
		out = append(out, series.Feature{Name: key.String(), Stats: st})
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	return out, nil
}

func resultFloat(v gjson.Result) (float64, error) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), nil
	case gjson.String:
		return strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	case gjson.Null:
		if !v.Exists() {
			return 0, fmt.Errorf("missing")
		}
	}
	return 0, fmt.Errorf("not a number: %s", v.Raw)
}

// DecodeScatterCSV parses a headered X,Y CSV document.
func DecodeScatterCSV(b []byte) (series.Series[series.ScatterPoint], error) {
	rows, err := readCSV(b)
	if err != nil {
		return series.Series[series.ScatterPoint]{}, err
	}
	return scatterFromRows(rows)
}

// DecodeScatterXLSX reads the first sheet of a workbook laid out like the CSV document.
func DecodeScatterXLSX(b []byte) (series.Series[series.ScatterPoint], error) {
	rows, err := readXLSX(b)
	if err != nil {
		return series.Series[series.ScatterPoint]{}, err
	}
	return scatterFromRows(rows)
}

func readCSV(b []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(b []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrSchema)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	return rows, nil
}

// columnIndex maps trimmed header names to their column positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func scatterFromRows(rows [][]string) (series.Series[series.ScatterPoint], error) {
	if len(rows) == 0 {
		return series.Series[series.ScatterPoint]{}, fmt.Errorf("%w: missing header", core.ErrSchema)
	}
	idx := columnIndex(rows[0])
	xi, okX := idx["X"]
	yi, okY := idx["Y"]
	if !okX || !okY {
		return series.Series[series.ScatterPoint]{}, fmt.Errorf("%w: header must contain X and Y, got %v", core.ErrSchema, rows[0])
	}

	var pts []series.ScatterPoint
	for n, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		x, err := cellFloat(row, xi)
		if err != nil {
			return series.Series[series.ScatterPoint]{}, fmt.Errorf("%w: row %d column X: %v", core.ErrSchema, n+2, err)
		}
		y, err := cellFloat(row, yi)
		if err != nil {
			return series.Series[series.ScatterPoint]{}, fmt.Errorf("%w: row %d column Y: %v", core.ErrSchema, n+2, err)
		}
		pts = append(pts, series.ScatterPoint{X: x, Y: y})
	}
	return series.NewSeries(pts), nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellFloat(row []string, i int) (float64, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("missing cell")
	}
	return strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
}

// strictUnmarshal rejects trailing data after the top-level value.
func strictUnmarshal(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after document")
	}
	return nil
}
