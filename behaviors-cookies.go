package httpbin

import (
	"fmt"
	"net/http"
	"strings"
)

const expiredCookie = "Expires=Thu, 01 Jan 1970 00:00:00 GMT; Max-Age=0"

// cookies returns the request cookies. For repeated names the first one wins.
func (h *HttpBin) cookies(r *Request) (*Response, error) {
	cookies := make(map[string]string, len(r.Cookies))
	for _, c := range r.Cookies {
		if _, ok := cookies[c.Name]; !ok {
			cookies[c.Name] = c.Value
		}
	}
	return jsonResponse(http.StatusOK, struct {
		Cookies map[string]string `json:"cookies"`
	}{cookies})
}

// setCookies sets one cookie per query value and redirects to /cookies.
func (h *HttpBin) setCookies(r *Request) (*Response, error) {
	res := redirectResponse(http.StatusFound, "/cookies")
	for _, name := range sortedKeys(r.Query) {
		for _, value := range r.Query[name] {
			res.Add("Set-Cookie", fmt.Sprintf("%s=%s; Path=/", name, value))
		}
	}
	return res, nil
}

// setCookie sets the cookie named in the path, /cookies/set/{name}/{value}.
func (h *HttpBin) setCookie(r *Request) (*Response, error) {
	name, value, ok := strings.Cut(r.Tail, "/")
	if !ok || name == "" {
		return errorResponse(http.StatusBadRequest, "Expected /cookies/set/{name}/{value}"), nil
	}
	res := redirectResponse(http.StatusFound, "/cookies")
	res.Add("Set-Cookie", fmt.Sprintf("%s=%s; Path=/", name, value))
	return res, nil
}

// deleteCookies expires every cookie named in the query and redirects to /cookies.
func (h *HttpBin) deleteCookies(r *Request) (*Response, error) {
	res := redirectResponse(http.StatusFound, "/cookies")
	for _, name := range sortedKeys(r.Query) {
		res.Add("Set-Cookie", fmt.Sprintf("%s=; %s; Path=/", name, expiredCookie))
	}
	return res, nil
}
