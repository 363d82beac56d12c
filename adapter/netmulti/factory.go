package netmulti

import (
	"fmt"
	"io"
	"net/http"

	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// wireFactory builds net/http requests from engine requests.
type wireFactory struct{}

func (wireFactory) NewHandle(req *message.Request) (*Handle, error) {
	u := req.URL()

	switch u.Scheme {
	case "http", "https":
	default:
		return nil, transact.WrapRequest(req, &transact.TransportError{
			Code:   CodeUnsupportedProtocol,
			Detail: fmt.Sprintf("unsupported protocol scheme %q", u.Scheme),
		})
	}
	if u.Host == "" {
		return nil, transact.WrapRequest(req, &transact.TransportError{
			Code:   CodeBadURL,
			Detail: "url has no host",
		})
	}

	var body io.Reader
	if b := req.Body(); b != nil {
		body = b
	}

	wire, err := http.NewRequestWithContext(req.Context(), req.Method(), u.String(), body)
	if err != nil {
		return nil, transact.WrapRequest(req, &transact.TransportError{
			Code:   CodeBadURL,
			Detail: "building wire request",
			Err:    err,
		})
	}
	wire.Header = req.Header().Clone()

	return &Handle{wire: wire}, nil
}

func (wireFactory) Release(h *Handle) {
	h.wire, h.resp, h.err = nil, nil, nil
	h.cancel = nil
}
