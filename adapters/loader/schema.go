package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// flexFloat accepts a JSON number or a numeric string. null is rejected; schema
// fields hold a *flexFloat so an absent or null value fails the required check.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("not a number: null")
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// flexBool accepts true/false, "true"/"false" and 0/1. null is rejected like flexFloat.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("not a boolean: %s", b)
	}
	*f = flexBool(v)
	return nil
}

type anomalyDocument struct {
	APIMetrics []anomalyRecord `json:"api_metrics" validate:"required,dive"`
}

type anomalyRecord struct {
	Timestamp    string    `json:"timestamp" validate:"required"`
	Latency      *flexFloat `json:"latency" validate:"required,gte=0"`
	RequestCount *flexFloat `json:"request_count" validate:"required,gte=0"`
	ErrorRate    *flexFloat `json:"error_rate" validate:"required,gte=0,lte=1"`
	IsAnomaly    *flexBool  `json:"isAnomaly" validate:"required"`
}

type survivalDocument struct {
	SurvivalData []survivalRecord `json:"survival_data" validate:"required,dive"`
}

type survivalRecord struct {
	Time         *flexFloat `json:"time" validate:"required,gte=0"`
	SurvivalProb *flexFloat `json:"survival_prob" validate:"required,gte=0,lte=1"`
	LowerCI      *flexFloat `json:"lower_ci" validate:"required"`
	UpperCI      *flexFloat `json:"upper_ci" validate:"required"`
}

// schemaError flattens validator output into one readable message.
func schemaError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%s", strings.Join(parts, "; "))
}
