package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Score is an optional integer score. The zero value is absent.
type Score struct {
	Value int
	Valid bool
}

func NewScore(v int) Score {
	return Score{Value: v, Valid: true}
}

// Within returns s unchanged if it lies in [min, max], otherwise an absent score.
func (s Score) Within(min, max int) Score {
	if !s.Valid || s.Value < min || s.Value > max {
		return Score{}
	}
	return s
}

// UnmarshalJSON accepts null, a number or a numeric string. Anything else
// decodes as absent instead of failing the whole candidate.
func (s *Score) UnmarshalJSON(data []byte) error {
	*s = Score{}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		*s = NewScore(int(math.Round(v)))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*s = NewScore(int(math.Round(f)))
		}
	}
	return nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}
