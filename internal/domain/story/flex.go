package story

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt tolerates the narrator model emitting numbers as strings. Anything
// unparseable coerces to zero; a malformed proposal field never fails the
// turn.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(coerceNumber(data))
	return nil
}

// FlexFloat is the float sibling of FlexInt.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat(coerceFloat(data))
	return nil
}

func coerceNumber(data []byte) int64 {
	return int64(coerceFloat(data))
}

func coerceFloat(data []byte) float64 {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return 0
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
