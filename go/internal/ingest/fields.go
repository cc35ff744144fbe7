package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// fields is a parsed JSON object keyed by its exact member names
type fields map[string]gjson.Result

func parseObject(raw []byte) (fields, bool) {
	if !gjson.ValidBytes(raw) {
		return nil, false
	}
	return objectFields(gjson.ParseBytes(raw))
}

func objectFields(r gjson.Result) (fields, bool) {
	if !r.IsObject() {
		return nil, false
	}
	return fields(r.Map()), true
}

// first returns the first member among names that is present and not null
func (f fields) first(names ...string) (gjson.Result, bool) {
	for _, name := range names {
		if v, ok := f[name]; ok && v.Type != gjson.Null {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func (f fields) has(names ...string) bool {
	_, ok := f.first(names...)
	return ok
}

func (f fields) number(names ...string) float64 {
	v, ok := f.first(names...)
	if !ok {
		return 0
	}
	return toNumber(v)
}

// integer truncates toward zero and saturates at the int range
func (f fields) integer(names ...string) int {
	n := f.number(names...)
	switch {
	case n >= float64(math.MaxInt):
		return math.MaxInt
	case n <= float64(math.MinInt):
		return math.MinInt
	}
	return int(n)
}

func (f fields) str(names ...string) string {
	v, ok := f.first(names...)
	if !ok {
		return ""
	}
	return toString(v)
}

func (f fields) identifier(names ...string) string {
	v, ok := f.first(names...)
	if !ok {
		return ""
	}
	return toIdentifier(v)
}

func (f fields) object(names ...string) (fields, bool) {
	v, ok := f.first(names...)
	if !ok {
		return nil, false
	}
	return objectFields(v)
}

// toNumber parses a JSON value as a float. Anything that does not parse, and NaN or
// infinities, collapse to 0.
func toNumber(v gjson.Result) float64 {
	var n float64
	switch v.Type {
	case gjson.Number:
		n = v.Num
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		n = parsed
	case gjson.True:
		n = 1
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func toString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number, gjson.True, gjson.False:
		return v.String()
	default:
		return ""
	}
}

// toIdentifier coerces an id to its stable string form. Mongo style {"$oid": "..."}
// objects are unwrapped.
func toIdentifier(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return strings.TrimSpace(v.Str)
	case gjson.Number:
		return v.String()
	case gjson.JSON:
		if oid, ok := v.Map()["$oid"]; ok && oid.Type == gjson.String {
			return strings.TrimSpace(oid.Str)
		}
	}
	return ""
}
