// Package entity defines data models for the wxpay client.
package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Params is a gateway parameter set, used both as request payload and as
// decoded response. Integer values are stored as decimal text.
type Params map[string]string

// NewParams converts a loosely typed map into Params.
// Strings are kept as is, integers and other scalars are formatted as text.
func NewParams(values map[string]any) Params {
	params := make(Params, len(values))
	for k, v := range values {
		params[k] = FormatValue(v)
	}
	return params
}

// FormatValue renders a scalar the way it appears on the wire.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Get returns the value of key, or an empty string when absent.
// Safe on a nil Params.
func (p Params) Get(key string) string {
	return p[key]
}

// Has reports whether key is present with a non-empty value.
func (p Params) Has(key string) bool {
	return p[key] != ""
}

func (p Params) Set(key, value string) {
	p[key] = value
}

func (p Params) SetInt(key string, value int64) {
	p[key] = strconv.FormatInt(value, 10)
}

// Clone returns an independent copy; a nil Params clones to an empty one.
func (p Params) Clone() Params {
	clone := make(Params, len(p)+4)
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

// JSON renders the parameters as a JSON object with sorted keys.
func (p Params) JSON() (string, error) {
	data, err := json.Marshal(map[string]string(p))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
