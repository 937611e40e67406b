package ogc

import (
	"net/url"
	"strings"
)

// BuildEndpoint produces a well-formed request URL from a registry base
// URL and a set of parameter overrides.
//
// All existing query keys are folded to lowercase so that SERVICE=,
// Service= and service= collapse into one logical key; overrides (whose
// keys must already be lowercase) take precedence over any existing
// value. url.Values.Encode sorts keys, so output is reproducible for
// identical inputs.
func BuildEndpoint(baseURL string, maxLen int, overrides map[string]string) (string, error) {
	if baseURL == "" {
		return "", &Error{Kind: KindInvalidEndpoint, Msg: "empty service url"}
	}
	if maxLen > 0 && len(baseURL) > maxLen {
		return "", &Error{Kind: KindInvalidEndpoint, Msg: "service url exceeds maximum length"}
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", &Error{Kind: KindInvalidEndpoint, Msg: "unparsable service url", Err: err}
	}
	if !strings.EqualFold(u.Scheme, "https") {
		return "", &Error{Kind: KindInvalidEndpoint, Msg: "only https:// urls are allowed"}
	}

	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", &Error{Kind: KindInvalidEndpoint, Msg: "unparsable query string", Err: err}
	}

	folded := url.Values{}
	for key, vals := range q {
		lk := strings.ToLower(key)
		for _, v := range vals {
			// Last value wins per logical key, matching dict semantics.
			folded.Set(lk, v)
		}
	}
	for key, v := range overrides {
		folded.Set(key, v)
	}

	u.RawQuery = folded.Encode()
	return u.String(), nil
}
