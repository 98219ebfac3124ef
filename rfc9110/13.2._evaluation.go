package rfc9110

import "net/http"

// Outcome is the result of evaluating the preconditions of a request.
type Outcome int

const (
	// Proceed means the request is answered normally (200).
	Proceed Outcome = iota
	// NotModified means the client's representation is current (304).
	NotModified
	// PreconditionFailed means If-Match did not match (412).
	PreconditionFailed
)

// StatusCode returns the HTTP status code for the outcome.
func (o Outcome) StatusCode() int {
	switch o {
	case NotModified:
		return http.StatusNotModified
	case PreconditionFailed:
		return http.StatusPreconditionFailed
	}
	return http.StatusOK
}

// §  13.2.2.  Precedence of Preconditions
// §
// §     When more than one conditional request header field is present in a
// §     request, the order in which the fields are evaluated becomes
// §     important.  In practice, the fields defined in this document are
// §     consistently implemented in a single, logical order, since "lost
// §     update" preconditions have more strict requirements than cache
// §     validation, a validated cache is more efficient than a partial
// §     response, and entity tags are presumed to be more accurate than date
// §     validators.
// §
// §     A recipient cache or origin server MUST evaluate the request
// §     preconditions defined by this specification in the following order:
// §
// §     1.  When recipient is the origin server and If-Match is present,
// §         evaluate the If-Match precondition:
// §
// §         *  if true, continue to step 3
// §
// §         *  if false, respond 412 (Precondition Failed) unless it can be
// §            determined that the state-changing request has already
// §            succeeded (see Section 13.1.1)
// §
// §     [...]
// §
// §     3.  When If-None-Match is present, evaluate the If-None-Match
// §         precondition:
// §
// §         *  if true, continue to step 5
// §
// §         *  if false for GET/HEAD, respond 304 (Not Modified)
// §
// §         *  if false for other methods, respond 412 (Precondition Failed)

// EvaluateETag evaluates If-Match and then If-None-Match against the entity tag
// of the target resource.
//
// A present If-Match decides on its own: a match proceeds, anything else fails.
// Only without If-Match is If-None-Match consulted, where a match means the
// client's copy is current.
func EvaluateETag(header http.Header, etag string) Outcome {
	if ifMatch := header.Values("If-Match"); present(header, "If-Match") {
		if MatchesETag(ifMatch, etag) {
			return Proceed
		}
		return PreconditionFailed
	}
	if ifNoneMatch := header.Values("If-None-Match"); present(header, "If-None-Match") {
		if MatchesETag(ifNoneMatch, etag) {
			return NotModified
		}
	}
	return Proceed
}
