package httpbin

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

type behavior func(r *Request) (*Response, error)

// rule matches a request by exact path (optionally for one method only) or by path prefix.
type rule struct {
	method string
	path   string
	prefix bool
	handle behavior
}

func exact(path string, handle behavior) rule {
	return rule{path: path, handle: handle}
}

func exactMethod(method, path string, handle behavior) rule {
	return rule{method: method, path: path, handle: handle}
}

func prefix(path string, handle behavior) rule {
	return rule{path: path, prefix: true, handle: handle}
}

// match returns the remainder of the path when the rule applies.
func (ru rule) match(method, path string) (string, bool) {
	if ru.method != "" && ru.method != method {
		return "", false
	}
	if ru.prefix {
		if strings.HasPrefix(path, ru.path) {
			return path[len(ru.path):], true
		}
		return "", false
	}
	return "", path == ru.path
}

// name is the rule pattern, used as the route label in logs and metrics.
func (ru rule) name() string {
	if ru.prefix {
		return ru.path + "*"
	}
	return ru.path
}

// catalog returns the routing table. It is evaluated top to bottom and the first
// matching rule wins, so the order below is part of the routing contract:
//
//   - exact paths that share a prefix with a prefix rule come first
//     ("/cookies/set" before "/cookies/set/", "/cache" before "/cache/",
//     "/anything" before "/anything/")
//   - "/redirect-to" is exact and does not start with "/redirect/", so the counted
//     families never see it; the absolute family has its own prefix
//   - "/" is matched exactly, never as a prefix, and comes last
func (h *HttpBin) catalog() []rule {
	return []rule{
		prefix("/status/", h.status),
		exactMethod(http.MethodGet, "/headers", h.headers),
		exactMethod(http.MethodGet, "/ip", h.ip),
		exactMethod(http.MethodGet, "/user-agent", h.userAgent),
		exactMethod(http.MethodGet, "/get", h.get),
		exactMethod(http.MethodPost, "/post", h.echoBody),
		exactMethod(http.MethodPut, "/put", h.echoBody),
		exactMethod(http.MethodPatch, "/patch", h.echoBody),
		exactMethod(http.MethodDelete, "/delete", h.echoBody),
		exact("/anything", h.anything),
		prefix("/anything/", h.anything),

		exact("/redirect-to", h.redirectTo),
		prefix("/redirect/", h.redirect),
		prefix("/relative-redirect/", h.relativeRedirect),
		prefix("/absolute-redirect/", h.absoluteRedirect),

		exactMethod(http.MethodGet, "/response-headers", h.responseHeaders),
		exactMethod(http.MethodPost, "/response-headers", h.responseHeaders),
		exact("/cookies/set", h.setCookies),
		prefix("/cookies/set/", h.setCookie),
		exact("/cookies/delete", h.deleteCookies),
		exact("/cookies", h.cookies),

		prefix("/basic-auth/", h.basicAuth),
		prefix("/hidden-basic-auth/", h.hiddenBasicAuth),
		exact("/bearer", h.bearer),

		exact("/cache", h.cache),
		prefix("/cache/", h.cacheControl),
		prefix("/etag/", h.etag),
		prefix("/range/", h.byteRange),

		prefix("/delay/", h.delay),
		exact("/drip", h.drip),
		prefix("/stream/", h.streamLines),
		prefix("/stream-bytes/", h.streamBytes),
		prefix("/bytes/", h.randomBytes),
		prefix("/links/", h.links),

		exactMethod(http.MethodGet, "/gzip", h.gzip),
		exactMethod(http.MethodGet, "/deflate", h.deflate),
		exactMethod(http.MethodGet, "/brotli", h.brotli),
		prefix("/base64/", h.base64),
		exactMethod(http.MethodGet, "/uuid", h.uuid),

		exactMethod(http.MethodGet, "/html", h.html),
		exactMethod(http.MethodGet, "/xml", h.xml),
		exactMethod(http.MethodGet, "/image/jpeg", h.jpeg),
		exactMethod(http.MethodGet, "/image/png", h.png),
		exactMethod(http.MethodGet, "/robots.txt", h.robots),
		exactMethod(http.MethodGet, "/deny", h.deny),
		exactMethod(http.MethodGet, "/", h.home),
	}
}

// dispatch routes the request, drains whatever the behavior left of the body
// and writes the response.
func (h *HttpBin) dispatch(w http.ResponseWriter, r *http.Request) {
	req := newRequest(r)
	res := h.route(req)
	req.drain()
	h.write(w, req, res)
}

// route runs the first matching behavior.
// Behavior errors and panics end up as 500, unmatched requests as 501.
func (h *HttpBin) route(req *Request) (res *Response) {
	defer func() {
		if err := recover(); err != nil {
			h.log.WithLevel(zerolog.PanicLevel).Interface("error", err).Str("path", req.Path).Msg("Panic in behavior")
			res = NewResponse(http.StatusInternalServerError)
		}
	}()

	for _, ru := range h.routes {
		tail, ok := ru.match(req.Method, req.Path)
		if !ok {
			continue
		}
		req.Tail = tail
		setRoute(req.Context(), ru.name())
		res, err := ru.handle(req)
		if err != nil {
			h.log.Error().Err(err).Str("route", ru.name()).Str("path", req.Path).Msg("Could not build response")
			return NewResponse(http.StatusInternalServerError)
		}
		return res
	}

	h.log.Trace().Str("method", req.Method).Str("path", req.Path).Msg("No route matched")
	setRoute(req.Context(), "unmatched")
	return NewResponse(http.StatusNotImplemented)
}
