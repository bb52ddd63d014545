package webui

import (
	"math"
	"time"

	"github.com/aicorp/aicorp/internal/observability"
)

// timeoutParam is reserved: it sets the transport deadline and is never
// forwarded in the payload.
const timeoutParam = "timeout"

type paramKind int

const (
	kindFloat paramKind = iota
	kindInt
	kindBool
	kindStop // string or list of strings
)

// paramSpec declares the expected type and, where applicable, the inclusive
// numeric range of an allow-listed parameter.
type paramSpec struct {
	kind     paramKind
	min, max float64
	ranged   bool
}

// allowedParams is the fixed allow-list of extra request parameters the
// client forwards to the provider. Anything else is dropped.
var allowedParams = map[string]paramSpec{
	"max_tokens":        {kind: kindInt, min: 1, max: 32768, ranged: true},
	"temperature":       {kind: kindFloat, min: 0.0, max: 2.0, ranged: true},
	"top_p":             {kind: kindFloat, min: 0.0, max: 1.0, ranged: true},
	"top_k":             {kind: kindInt, min: 1, max: 100, ranged: true},
	"frequency_penalty": {kind: kindFloat, min: -2.0, max: 2.0, ranged: true},
	"presence_penalty":  {kind: kindFloat, min: -2.0, max: 2.0, ranged: true},
	"stream":            {kind: kindBool},
	"stop":              {kind: kindStop},
	"seed":              {kind: kindInt},
}

// filterParams applies the allow-list to params. A parameter of the wrong
// type or outside its range is dropped with a warning; it never fails the
// request. The reserved timeout key is skipped here and consumed by the
// transport.
func filterParams(params map[string]any, log *observability.Logger) map[string]any {
	out := map[string]any{}
	for key, value := range params {
		if key == timeoutParam {
			continue
		}
		spec, ok := allowedParams[key]
		if !ok {
			log.Warn("ignoring unsupported parameter", "param", key)
			continue
		}
		if !spec.accepts(value) {
			log.Warn("dropping invalid parameter", "param", key, "value", value)
			continue
		}
		out[key] = value
	}
	return out
}

// accepts reports whether value has the declared type and, for numeric
// parameters, lies within the declared inclusive range.
func (s paramSpec) accepts(value any) bool {
	switch s.kind {
	case kindFloat, kindInt:
		f, ok := asNumber(value)
		if !ok {
			return false
		}
		if s.kind == kindInt && f != math.Trunc(f) {
			return false
		}
		if s.ranged && (f < s.min || f > s.max) {
			return false
		}
		return true
	case kindBool:
		_, ok := value.(bool)
		return ok
	case kindStop:
		switch v := value.(type) {
		case string:
			return true
		case []string:
			return true
		case []any:
			for _, item := range v {
				if _, ok := item.(string); !ok {
					return false
				}
			}
			return true
		default:
			return false
		}
	}
	return false
}

// asNumber normalizes the numeric types a caller can plausibly hand us.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// timeoutFromParams extracts the reserved timeout parameter, in seconds.
func timeoutFromParams(params map[string]any) (time.Duration, bool) {
	v, ok := params[timeoutParam]
	if !ok {
		return 0, false
	}
	f, ok := asNumber(v)
	if !ok || f <= 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}
