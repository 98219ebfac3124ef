package rfc9110

import (
	"net/http"
	"strings"
)

// §  13.1.  Preconditions
// §
// §     Preconditions are usually defined with respect to a state of the
// §     target resource as a whole (its current value set) or the state as
// §     observed in a previously obtained representation (one value in that
// §     set).

// §  13.1.1.  If-Match
// §
// §     The "If-Match" header field makes the request method conditional on
// §     the recipient origin server either having at least one current
// §     representation of the target resource, when the field value is "*",
// §     or having a current representation of the target resource that has
// §     an entity tag matching a member of the list of entity tags provided
// §     in the field value.
// §
// §    If-Match = "*" / #entity-tag

// §  13.1.2.  If-None-Match
// §
// §     The "If-None-Match" header field makes the request method conditional
// §     on a recipient cache or origin server either not having any current
// §     representation of the target resource, when the field value is "*",
// §     or having a selected representation with an entity tag that does not
// §     match any of those listed in the field value.
// §
// §    If-None-Match = "*" / #entity-tag

// MatchesETag reports whether a conditional field value matches the given entity tag.
// The values may hold "*" or a comma-separated list of (possibly quoted or weak) tags.
func MatchesETag(values []string, etag string) bool {
	want := opaqueTag(etag)
	for _, value := range values {
		for _, member := range strings.Split(value, ",") {
			member = strings.TrimSpace(member)
			if member == "*" {
				return true
			}
			if member != "" && opaqueTag(member) == want {
				return true
			}
		}
	}
	return false
}

// opaqueTag returns the opaque-tag of an entity tag, without the weak indicator and quotes.
//
// §    entity-tag = [ weak ] opaque-tag
// §    weak       = %s"W/"
// §    opaque-tag = DQUOTE *etagc DQUOTE
func opaqueTag(tag string) string {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
	return strings.Trim(tag, "\"")
}

// §  13.1.3.  If-Modified-Since
// §
// §     The "If-Modified-Since" header field makes a GET or HEAD request
// §     method conditional on the selected representation's modification
// §     date being more recent than the date provided in the field value.

// HasValidators reports whether the request carries If-Modified-Since or If-None-Match,
// regardless of the field values.
func HasValidators(header http.Header) bool {
	return present(header, "If-Modified-Since") || present(header, "If-None-Match")
}

func present(header http.Header, name string) bool {
	for _, value := range header.Values(name) {
		if strings.TrimSpace(value) != "" {
			return true
		}
	}
	return false
}
