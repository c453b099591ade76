package logger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// MaxBodyLogged caps how much of a body is read for logging. 1 << 20 = 1 MiB.
const MaxBodyLogged = 1 << 20

// binarySample is how much of an opaque body is kept, base64 encoded.
const binarySample = 256

// loggedHeaders are the only headers that reach the log; secret ones are masked.
var loggedHeaders = map[string]bool{
	"content-type":   true,
	"content-length": true,
	"user-agent":     true,
	"origin":         true,
	"x-trace-id":     true,
	"traceparent":    true,
	"authorization":  true,
	"x-access-token": true,
	"set-cookie":     true,
}

var secretHeaders = map[string]bool{
	"authorization":  true,
	"x-access-token": true,
	"set-cookie":     true,
}

// secretMarkers mask query, form and JSON values whose key or content mention them.
var secretMarkers = []string{"password", "api_key", "apikey", "token"}

const masked = "***"

// attrSet accumulates attributes under a common prefix such as "http" or "grpc".
type attrSet struct {
	prefix string
	attrs  []slog.Attr
}

func newAttrSet(prefix string, size int) *attrSet {
	return &attrSet{prefix: prefix, attrs: make([]slog.Attr, 0, size)}
}

func (s *attrSet) add(a ...slog.Attr) { s.attrs = append(s.attrs, a...) }

func (s *attrSet) str(key, value string) { s.add(slog.String(s.prefix+"."+key, value)) }

// headers adds the allow-listed entries of hdr, masking secrets.
func (s *attrSet) headers(hdr map[string][]string) {
	for name, values := range hdr {
		key := strings.ToLower(name)
		if !loggedHeaders[key] {
			continue
		}
		value := strings.Join(values, ", ")
		if secretHeaders[key] {
			value = masked
		}
		s.str("header."+key, value)
	}
}

// body decodes b according to its media type.
func (s *attrSet) body(contentType string, b []byte) {
	if len(b) == 0 {
		return
	}
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/json":
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			s.str("body", redact("", string(b)))
			return
		}
		flattenJSON(s.prefix+".body", v, &s.attrs)
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(b))
		if err != nil {
			s.str("body.error", err.Error())
			return
		}
		for k, vs := range form {
			s.str("body."+k, redact(k, strings.Join(vs, ", ")))
		}
	case "text/html", "text/plain":
		s.add(slog.Int(s.prefix+".body.size_bytes", len(b)))
	default:
		if len(b) <= binarySample {
			s.str("body.base64", base64.StdEncoding.EncodeToString(b))
			return
		}
		s.add(slog.Int(s.prefix+".body.size_bytes", len(b)))
		s.str("body.sample_base64", base64.StdEncoding.EncodeToString(b[:binarySample]))
	}
}

// redact masks value when its key or content looks like a credential.
func redact(key, value string) string {
	k, v := strings.ToLower(key), strings.ToLower(value)
	for _, m := range secretMarkers {
		if strings.Contains(k, m) || strings.Contains(v, m) {
			return masked
		}
	}
	return value
}

// flattenJSON appends one attribute per leaf of v. Arrays, such as a product
// list, contribute their length plus the first and last element only.
func flattenJSON(prefix string, v any, dst *[]slog.Attr) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			if s, ok := child.(string); ok {
				*dst = append(*dst, slog.String(prefix+"."+k, redact(k, s)))
				continue
			}
			flattenJSON(prefix+"."+k, child, dst)
		}
	case []any:
		*dst = append(*dst, slog.Int(prefix+".length", len(t)))
		if len(t) == 0 {
			return
		}
		flattenJSON(prefix+".0", t[0], dst)
		if last := len(t) - 1; last > 0 {
			flattenJSON(prefix+"."+strconv.Itoa(last), t[last], dst)
		}
	case string:
		*dst = append(*dst, slog.String(prefix, redact("", t)))
	case float64:
		*dst = append(*dst, slog.Float64(prefix, t))
	case bool:
		*dst = append(*dst, slog.Bool(prefix, t))
	case nil:
	default:
		*dst = append(*dst, slog.String(prefix, fmt.Sprintf("%v", t)))
	}
}

// CaptureBody reads r.Body up to MaxBodyLogged bytes and puts a fresh reader back.
func CaptureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyLogged))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func requestAttrs(r *http.Request, direction string, size int) *attrSet {
	s := newAttrSet("http", size)
	s.str("direction", direction)
	s.str("remote_addr", r.RemoteAddr)
	s.str("method", r.Method)
	s.str("path", r.URL.Path)
	for key, values := range r.URL.Query() {
		s.str("query."+key, redact(key, strings.Join(values, ",")))
	}
	return s
}

// LogHTTPRequest builds the attributes of an incoming or outgoing request. The
// body is read and replaced so the handler still sees it.
func LogHTTPRequest(ctx context.Context, r *http.Request, direction string) []slog.Attr {
	s := requestAttrs(r, direction, 16)
	s.headers(r.Header)

	body, err := CaptureBody(r)
	if err != nil {
		s.str("body.error", err.Error())
		return s.attrs
	}
	s.body(r.Header.Get("Content-Type"), body)
	return s.attrs
}

// LogHTTPResponse builds the attributes of the response to req; body is the
// copy buffered by the caller.
func LogHTTPResponse(ctx context.Context, req *http.Request, header http.Header, status int, body io.Reader, duration time.Duration, direction string) []slog.Attr {
	s := requestAttrs(req, direction, 24)
	s.add(
		slog.Int("http.status", status),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)
	s.headers(header)

	if body != nil {
		b, err := io.ReadAll(io.LimitReader(body, MaxBodyLogged))
		if err != nil {
			s.str("body.error", err.Error())
			return s.attrs
		}
		s.body(header.Get("Content-Type"), b)
	}
	return s.attrs
}
