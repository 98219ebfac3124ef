package httpbin

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/always-cache/httpbin/assets"
	"github.com/always-cache/httpbin/pkg/codec"

	"github.com/google/uuid"
)

func TestBasicAuth(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	credentials := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pa:ss"))

	req := httptest.NewRequest(http.MethodGet, "/basic-auth/user/pa:ss", nil)
	req.Header.Set("Authorization", credentials)
	rr, body := serve(h, req)
	if rr.Code != http.StatusOK || string(body) != `{"authenticated":true,"user":"user"}`+"\n" {
		t.Fatalf("Valid credentials got %d %s", rr.Code, body)
	}

	for _, target := range []string{"/basic-auth/user/other", "/basic-auth/user"} {
		req = httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set("Authorization", credentials)
		rr, _ = serve(h, req)
		if rr.Code != http.StatusUnauthorized || rr.Header().Get("WWW-Authenticate") != fakeRealm {
			t.Fatalf("%s got %d %v", target, rr.Code, rr.Header())
		}
	}

	rr, _ = get(t, h, "/basic-auth/user/pa:ss")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Missing credentials got %d", rr.Code)
	}

	rr, _ = get(t, h, "/hidden-basic-auth/user/pa:ss")
	if rr.Code != http.StatusNotFound || rr.Header().Get("WWW-Authenticate") != "" {
		t.Fatalf("Hidden auth failure got %d %v", rr.Code, rr.Header())
	}
	req = httptest.NewRequest(http.MethodGet, "/hidden-basic-auth/user/pa:ss", nil)
	req.Header.Set("Authorization", credentials)
	if rr, _ = serve(h, req); rr.Code != http.StatusOK {
		t.Fatalf("Hidden auth success got %d", rr.Code)
	}
}

func TestBearer(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	rr, _ := get(t, h, "/bearer")
	if rr.Code != http.StatusUnauthorized || rr.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("Missing token got %d %v", rr.Code, rr.Header())
	}
	req := httptest.NewRequest(http.MethodGet, "/bearer", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	_, body := serve(h, req)
	if string(body) != `{"authenticated":true,"token":"abc123"}`+"\n" {
		t.Fatalf("Body is %s", body)
	}
}

func TestCompressedEcho(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	for _, tc := range []struct {
		target, encoding, flag string
	}{
		{"/gzip", codec.EncodingGzip, `"gzipped":true`},
		{"/deflate", codec.EncodingDeflate, `"deflated":true`},
		{"/brotli", codec.EncodingBrotli, `"brotli":true`},
	} {
		rr, body := get(t, h, tc.target)
		if rr.Header().Get("Content-Encoding") != tc.encoding {
			t.Fatalf("%s: Content-Encoding is %q", tc.target, rr.Header().Get("Content-Encoding"))
		}
		decoded, err := codec.Decode(tc.encoding, body)
		if err != nil {
			t.Fatalf("%s: %v", tc.target, err)
		}
		if !strings.Contains(string(decoded), tc.flag) {
			t.Fatalf("%s: decoded body is %s", tc.target, decoded)
		}
	}
}

func TestBase64(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	for _, target := range []string{
		"/base64/SFRUUEJJTiBpcyBhd2Vzb21l",
		"/base64/SFRUUEJJTiBpcyBhd2Vzb21l==",
	} {
		rr, body := get(t, h, target)
		if rr.Code != http.StatusOK || string(body) != "HTTPBIN is awesome" {
			t.Fatalf("%s decoded to %d %q", target, rr.Code, body)
		}
	}
	_, body := get(t, h, "/base64/"+base64.RawURLEncoding.EncodeToString([]byte{0xfb, 0xff}))
	if !bytes.Equal(body, []byte{0xfb, 0xff}) {
		t.Fatalf("URL-safe alphabet decoded to %v", body)
	}
	if rr, _ := get(t, h, "/base64/!!!"); rr.Code != http.StatusBadRequest {
		t.Fatalf("Invalid base64 returned %d", rr.Code)
	}
}

func TestUUID(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	_, body := get(t, h, "/uuid")
	var res struct {
		UUID string `json:"uuid"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(res.UUID); err != nil {
		t.Fatalf("Not a uuid: %s", body)
	}
}

func TestLinks(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	rr, _ := get(t, h, "/links/3")
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/links/3/0" {
		t.Fatalf("/links/3 got %d %v", rr.Code, rr.Header())
	}
	_, body := get(t, h, "/links/3/1")
	if n := strings.Count(string(body), "<a href="); n != 2 {
		t.Fatalf("Page has %d links: %s", n, body)
	}
	if strings.Contains(string(body), "/links/3/1'") {
		t.Fatalf("Current page is linked: %s", body)
	}
}

func TestStaticContent(t *testing.T) {
	h, _ := newTestBin(t, Config{})
	for _, tc := range []struct {
		target, contentType, prefix string
	}{
		{"/html", "text/html; charset=utf-8", "<!DOCTYPE html>"},
		{"/xml", "application/xml", "<?xml"},
		{"/image/png", "image/png", "\x89PNG"},
		{"/image/jpeg", "image/jpeg", "\xff\xd8"},
		{"/robots.txt", "text/plain", "User-agent: *"},
		{"/deny", "text/plain", "\n"},
	} {
		rr, body := get(t, h, tc.target)
		if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != tc.contentType {
			t.Fatalf("%s: got %d %q", tc.target, rr.Code, rr.Header().Get("Content-Type"))
		}
		if !bytes.HasPrefix(body, []byte(tc.prefix)) {
			t.Fatalf("%s: body does not start with %q", tc.target, tc.prefix)
		}
	}
}

type brokenAssets struct{}

func (brokenAssets) Get(name string) ([]byte, error) {
	return nil, assets.ErrNotFound
}

func TestMissingAssetIsInternalError(t *testing.T) {
	h, _ := newTestBin(t, Config{Assets: brokenAssets{}})
	if rr, _ := get(t, h, "/html"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("Missing asset returned %d", rr.Code)
	}
}

func TestSQLiteAssetsOverrideContent(t *testing.T) {
	db, err := assets.NewSQLiteAssets(t.TempDir() + "/assets.db")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Put(assets.HTML, []byte("<html>custom</html>")); err != nil {
		t.Fatal(err)
	}
	h, _ := newTestBin(t, Config{Assets: db})
	if _, body := get(t, h, "/html"); string(body) != "<html>custom</html>" {
		t.Fatalf("/html is %q", body)
	}
}
