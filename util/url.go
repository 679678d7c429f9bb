package util

import "net/url"

// IsValidURL reports whether raw parses as an absolute http or https URL
// with a host. It is the default syntactic predicate for the shortener
// engine; callers may supply their own.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
