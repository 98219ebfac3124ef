package basicauth

import (
	"encoding/base64"
	"errors"
	"testing"
)

func basic(credentials string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

func TestParse(t *testing.T) {
	user, pass, err := Parse(basic("alice:secret"))
	if err != nil || user != "alice" || pass != "secret" {
		t.Fatalf("Parsed %s:%s (%v)", user, pass, err)
	}
}

func TestParsePasswordWithColons(t *testing.T) {
	user, pass, err := Parse(basic("bob:a:b:c"))
	if err != nil || user != "bob" || pass != "a:b:c" {
		t.Fatalf("Parsed %s:%s (%v)", user, pass, err)
	}
}

func TestParseFailures(t *testing.T) {
	cases := map[string]error{
		"":                    ErrMissing,
		"Basic":               ErrMissing,
		"Digest abc":          ErrMissing,
		"Basic !!!":           ErrMalformed,
		basic("nocolon"):      ErrMalformed,
		"Bearer " + "token":   ErrMissing,
		"basic " + "YTpi":     nil,
		"BASIC " + "YTpi":     nil,
		"Basic   " + " YTpi ": nil,
	}
	for header, want := range cases {
		if _, _, err := Parse(header); !errors.Is(err, want) {
			t.Fatalf("%q: error is %v, expected %v", header, err, want)
		}
	}
}

func TestVerify(t *testing.T) {
	if !Verify(basic("alice:secret"), "alice", "secret") {
		t.Fatal("Matching credentials rejected")
	}
	if Verify(basic("alice:wrong"), "alice", "secret") {
		t.Fatal("Wrong password accepted")
	}
}

func TestParseBearer(t *testing.T) {
	if token, err := ParseBearer("Bearer abc123"); err != nil || token != "abc123" {
		t.Fatalf("Token is %s (%v)", token, err)
	}
	if _, err := ParseBearer("Bearer "); !errors.Is(err, ErrMissing) {
		t.Fatalf("Error is %v", err)
	}
}
