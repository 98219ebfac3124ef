package httpbin

import (
	"net/http"
	"strings"

	basicauth "github.com/always-cache/httpbin/pkg/basic-auth"
)

type authenticated struct {
	Authenticated bool   `json:"authenticated"`
	User          string `json:"user,omitempty"`
	Token         string `json:"token,omitempty"`
}

func (h *HttpBin) basicAuth(r *Request) (*Response, error) {
	return h.checkBasicAuth(r, NewResponse(http.StatusUnauthorized).Add("WWW-Authenticate", fakeRealm))
}

// hiddenBasicAuth answers failures with 404, as if the endpoint did not exist.
func (h *HttpBin) hiddenBasicAuth(r *Request) (*Response, error) {
	return h.checkBasicAuth(r, NewResponse(http.StatusNotFound))
}

// checkBasicAuth compares the credentials with /{user}/{pass} from the path.
func (h *HttpBin) checkBasicAuth(r *Request, failure *Response) (*Response, error) {
	user, pass, ok := strings.Cut(r.Tail, "/")
	if !ok {
		return failure, nil
	}
	if !basicauth.Verify(r.Header.Get("Authorization"), user, pass) {
		return failure, nil
	}
	return jsonResponse(http.StatusOK, authenticated{Authenticated: true, User: user})
}

func (h *HttpBin) bearer(r *Request) (*Response, error) {
	token, err := basicauth.ParseBearer(r.Header.Get("Authorization"))
	if err != nil {
		return NewResponse(http.StatusUnauthorized).Add("WWW-Authenticate", "Bearer"), nil
	}
	return jsonResponse(http.StatusOK, authenticated{Authenticated: true, Token: token})
}
