package appconfig

import "net/url"

// ValidateURL reports whether raw is an absolute URL with both a scheme and an
// authority. Parse failures count as invalid.
func ValidateURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
