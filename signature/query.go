package signature

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"net/url"
	"strings"
	"wxpay/entity"
)

// QueryString joins params as key=value pairs with '&', keys in byte order.
// With urlencode set, each value is percent-encoded.
func QueryString(params entity.Params, urlencode bool) string {
	keys := sortedKeys(params)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := params[k]
		if urlencode {
			v = escape(v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, "&")
}

func sortedKeys(params entity.Params) []string {
	keys := maps.Keys(params)
	slices.Sort(keys)
	return keys
}

// escape percent-encodes like a path segment quoter: spaces become %20 and '/' stays literal.
func escape(value string) string {
	escaped := url.QueryEscape(value)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return strings.ReplaceAll(escaped, "%2F", "/")
}
