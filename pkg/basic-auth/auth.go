package basicauth

import (
	"encoding/base64"
	"errors"
	"strings"
)

var (
	// ErrMissing is returned when there are no credentials of the expected scheme.
	ErrMissing = errors.New("missing credentials")
	// ErrMalformed is returned when the credentials cannot be decoded.
	ErrMalformed = errors.New("malformed credentials")
)

// Parse returns the user and password of an `Authorization: Basic` header value.
// The decoded credentials are split on the first colon only,
// so the password may itself contain colons.
func Parse(header string) (string, string, error) {
	encoded, ok := credentials(header, "Basic")
	if !ok {
		return "", "", ErrMissing
	}
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", ErrMalformed
	}
	user, pass, ok := strings.Cut(string(decoded), ":")
	if !ok {
		return "", "", ErrMalformed
	}
	return user, pass, nil
}

// Verify reports whether the header carries exactly the given user and password.
func Verify(header, user, pass string) bool {
	u, p, err := Parse(header)
	return err == nil && u == user && p == pass
}

// ParseBearer returns the token of an `Authorization: Bearer` header value.
func ParseBearer(header string) (string, error) {
	token, ok := credentials(header, "Bearer")
	if !ok || token == "" {
		return "", ErrMissing
	}
	return token, nil
}

// credentials strips the auth scheme, which is compared case-insensitively.
func credentials(header, scheme string) (string, bool) {
	if len(header) <= len(scheme) || header[len(scheme)] != ' ' {
		return "", false
	}
	if !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	return strings.TrimSpace(header[len(scheme)+1:]), true
}
