package httpbin

import (
	"net/http"
	"strconv"

	redirectchain "github.com/always-cache/httpbin/pkg/redirect-chain"
)

const (
	redirectFamily         = "/redirect/"
	relativeRedirectFamily = "/relative-redirect/"
	absoluteRedirectFamily = "/absolute-redirect/"
)

func redirectResponse(status int, location string) *Response {
	return NewResponse(status).Add("Location", location)
}

// redirectTo redirects to the literal url parameter.
// status_code is honored when it is a redirection code, otherwise 302 is used.
func (h *HttpBin) redirectTo(r *Request) (*Response, error) {
	location := r.Query.Get("url")
	if location == "" {
		return errorResponse(http.StatusBadRequest, "Missing url parameter"), nil
	}
	status := http.StatusFound
	if param := r.Query.Get("status_code"); param != "" {
		code, err := strconv.Atoi(param)
		if err != nil {
			return errorResponse(http.StatusBadRequest, "Invalid status_code parameter"), nil
		}
		if code >= 300 && code < 400 {
			status = code
		}
	}
	return redirectResponse(status, location), nil
}

func (h *HttpBin) redirect(r *Request) (*Response, error) {
	return h.countedRedirect(r, redirectFamily, false)
}

func (h *HttpBin) relativeRedirect(r *Request) (*Response, error) {
	return h.countedRedirect(r, relativeRedirectFamily, false)
}

func (h *HttpBin) absoluteRedirect(r *Request) (*Response, error) {
	return h.countedRedirect(r, absoluteRedirectFamily, true)
}

// countedRedirect takes one hop of a redirect chain.
// A hop is absolute when its family is, or when the request has absolute=true;
// an absolute hop always continues in the absolute family, so the flag does not
// need to travel with the Location.
func (h *HttpBin) countedRedirect(r *Request, family string, absolute bool) (*Response, error) {
	n, err := redirectchain.ParseCount(r.Tail)
	if err != nil {
		return errorResponse(http.StatusBadRequest, err.Error()), nil
	}
	if r.Query.Get("absolute") == "true" {
		absolute = true
	}
	if absolute {
		family = absoluteRedirectFamily
	}
	location := redirectchain.Location(family, n)
	if absolute {
		location = r.BaseURL() + location
	}
	return redirectResponse(http.StatusFound, location), nil
}
