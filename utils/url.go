package utils

import "strings"

// StripQuery cuts the query string and fragment off a resource url.
func StripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}
