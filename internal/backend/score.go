package backend

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Score is an integer similarity that also accepts integral floats (7.0)
// and numeric strings ("7") in request bodies.
type Score int

func (s *Score) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if strings.HasPrefix(raw, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		raw = strings.TrimSpace(text)
	}

	if value, err := strconv.Atoi(raw); err == nil {
		*s = Score(value)
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return fmt.Errorf("similarity %s is not an integer", string(data))
	}
	if value != math.Trunc(value) {
		return fmt.Errorf("similarity %s has a fractional part", string(data))
	}
	if value >= math.MaxInt64 || value < math.MinInt64 {
		return fmt.Errorf("similarity %s is out of range", string(data))
	}
	*s = Score(int(value))
	return nil
}
