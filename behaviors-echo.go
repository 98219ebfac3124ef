package httpbin

import (
	"net/http"
	"strconv"
)

const fakeRealm = `Basic realm="Fake Realm"`

// status responds with the status code given in the path.
func (h *HttpBin) status(r *Request) (*Response, error) {
	code, err := strconv.Atoi(r.Tail)
	// net/http cannot send a final response with an informational code
	if err != nil || code < 200 || code > 599 {
		return errorResponse(http.StatusBadRequest, "Invalid status code"), nil
	}
	res := NewResponse(code)
	if code >= 300 && code < 400 {
		res.Add("Location", "/redirect/1")
	}
	if code == http.StatusUnauthorized {
		res.Add("WWW-Authenticate", fakeRealm)
	}
	return res, nil
}

func (h *HttpBin) headers(r *Request) (*Response, error) {
	return jsonResponse(http.StatusOK, struct {
		Headers MultiMap `json:"headers"`
	}{MultiMap(r.Header)})
}

func (h *HttpBin) ip(r *Request) (*Response, error) {
	return jsonResponse(http.StatusOK, struct {
		Origin string `json:"origin"`
	}{r.RemoteAddr})
}

func (h *HttpBin) userAgent(r *Request) (*Response, error) {
	return jsonResponse(http.StatusOK, struct {
		UserAgent string `json:"user-agent"`
	}{r.Header.Get("User-Agent")})
}

func (h *HttpBin) get(r *Request) (*Response, error) {
	p, err := echo(r, false)
	if err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, p)
}

// echoBody reflects the request including its body, for POST, PUT, PATCH and DELETE.
func (h *HttpBin) echoBody(r *Request) (*Response, error) {
	p, err := echo(r, true)
	if err != nil {
		return nil, err
	}
	return jsonResponse(http.StatusOK, p)
}

// anything reflects any request regardless of method.
func (h *HttpBin) anything(r *Request) (*Response, error) {
	p, err := echo(r, true)
	if err != nil {
		return nil, err
	}
	p.Method = r.Method
	return jsonResponse(http.StatusOK, p)
}

// responseHeaders sends every query parameter back as a response header.
func (h *HttpBin) responseHeaders(r *Request) (*Response, error) {
	args := MultiMap(r.Query)
	b, err := marshal(args)
	if err != nil {
		return nil, err
	}
	res := NewResponse(http.StatusOK)
	for _, name := range sortedKeys(r.Query) {
		for _, value := range r.Query[name] {
			res.Add(name, value)
		}
	}
	if !res.has("Content-Type") {
		res.Add("Content-Type", "application/json")
	}
	res.Body = BytesBody(append(b, '\n'))
	return res, nil
}
