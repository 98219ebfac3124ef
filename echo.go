package httpbin

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

// MultiMap maps names to values.
// A name with a single value serializes as a string, one with several values as a list.
type MultiMap map[string][]string

func (m MultiMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m))
	for name, values := range m {
		if len(values) == 1 {
			out[name] = values[0]
		} else {
			out[name] = values
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts both the scalar and the list form of a value.
func (m *MultiMap) UnmarshalJSON(b []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(MultiMap, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			out[name] = []string{v}
		case []interface{}:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return fmt.Errorf("value of %s is not a string: %v", name, item)
				}
				out.add(name, s)
			}
		default:
			return fmt.Errorf("value of %s is not a string or list: %v", name, value)
		}
	}
	*m = out
	return nil
}

func (m MultiMap) add(name, value string) {
	m[name] = append(m[name], value)
}

// EchoPayload is the structured reflection of a request.
type EchoPayload struct {
	Args    MultiMap    `json:"args"`
	Data    *string     `json:"data,omitempty"`
	Files   MultiMap    `json:"files,omitempty"`
	Form    MultiMap    `json:"form,omitempty"`
	Headers MultiMap    `json:"headers"`
	JSON    interface{} `json:"json,omitempty"`
	Method  string      `json:"method,omitempty"`
	Origin  string      `json:"origin"`
	URL     string      `json:"url"`

	ID       *int `json:"id,omitempty"`
	Gzipped  bool `json:"gzipped,omitempty"`
	Deflated bool `json:"deflated,omitempty"`
	Brotli   bool `json:"brotli,omitempty"`
}

// echo builds the payload for r.
// With withBody set the body is consumed and reflected as data, json or form.
func echo(r *Request, withBody bool) (*EchoPayload, error) {
	p := &EchoPayload{
		Args:    MultiMap(r.Query),
		Headers: MultiMap(r.Header),
		Origin:  r.RemoteAddr,
		URL:     r.URL(),
	}
	if p.Args == nil {
		p.Args = MultiMap{}
	}
	if !withBody {
		return p, nil
	}

	body, err := r.ReadBody()
	if err != nil {
		return nil, fmt.Errorf("could not read request body: %w", err)
	}
	data := ""
	p.Data = &data

	mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		p.Form, p.Files, err = parseMultipart(body, params["boundary"])
		if err != nil {
			return nil, err
		}
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("could not parse form body: %w", err)
		}
		p.Form = MultiMap(values)
	default:
		data = decodeUTF8(body)
		if len(body) > 0 && json.Valid(body) {
			if err := json.Unmarshal(body, &p.JSON); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
			}
		}
	}
	return p, nil
}

func parseMultipart(body []byte, boundary string) (MultiMap, MultiMap, error) {
	if boundary == "" {
		return nil, nil, fmt.Errorf("multipart body without boundary")
	}
	form, files := MultiMap{}, MultiMap{}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("could not parse multipart body: %w", err)
		}
		content, err := io.ReadAll(part)
		if err != nil {
			return nil, nil, fmt.Errorf("could not read multipart body: %w", err)
		}
		if part.FileName() != "" {
			files.add(part.FormName(), decodeUTF8(content))
		} else {
			form.add(part.FormName(), decodeUTF8(content))
		}
	}
	if len(files) == 0 {
		files = nil
	}
	return form, files, nil
}

// decodeUTF8 returns b as text, replacing invalid sequences.
func decodeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

// sortedKeys returns the names of m in a stable order.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
