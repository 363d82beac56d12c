package message

import (
	"io"
	"net/http"
)

// Response is one completed exchange's result: status, headers, and an
// optional payload stream.
type Response struct {
	statusCode   int
	header       http.Header
	body         Body
	effectiveURL string
}

// NewResponse builds a Response. A nil header gets an empty map; a nil
// body stays nil.
func NewResponse(statusCode int, header http.Header, body io.Reader) *Response {
	if header == nil {
		header = make(http.Header)
	}

	return &Response{
		statusCode: statusCode,
		header:     header,
		body:       NewBody(body),
	}
}

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.statusCode }

// Header returns the response header map.
func (r *Response) Header() http.Header { return r.header }

// Body returns the payload stream, nil when the response has none.
func (r *Response) Body() Body { return r.body }

// SetBody replaces the payload stream without closing the old one.
func (r *Response) SetBody(b Body) { r.body = b }

// EffectiveURL reports the URL that ultimately produced this response.
// Redirect hops update it, so after a followed chain it names the
// final location rather than the originally requested one.
func (r *Response) EffectiveURL() string { return r.effectiveURL }

// SetEffectiveURL records the URL that produced this response.
func (r *Response) SetEffectiveURL(u string) { r.effectiveURL = u }

// Close releases the payload stream. It is a no-op for bodiless
// responses.
func (r *Response) Close() error {
	if r.body == nil {
		return nil
	}

	return r.body.Close()
}
