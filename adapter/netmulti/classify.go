package netmulti

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// classify maps a transport failure onto the closed result code set.
// A nil error is a completed transfer.
func classify(err error) int {
	if err == nil {
		return CodeOK
	}

	switch {
	case errors.Is(err, context.Canceled):
		return CodeAborted
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeCouldntResolve
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	var verifyErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	var authErr x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.Is(err, http.ErrSchemeMismatch):
		return CodeTLS
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return CodeCouldntConnect
	case errors.Is(err, syscall.EPIPE):
		return CodeSendFailure
	case errors.Is(err, io.EOF):
		return CodeGotNothing
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, syscall.ECONNRESET):
		return CodeRecvFailure
	}

	return CodeRecvFailure
}

// codeDetail names a result code the way it should read in error
// messages and logs.
func codeDetail(code int) string {
	switch code {
	case CodeOK:
		return "ok"
	case CodeUnsupportedProtocol:
		return "unsupported protocol"
	case CodeBadURL:
		return "malformed url"
	case CodeCouldntResolve:
		return "could not resolve host"
	case CodeCouldntConnect:
		return "connection refused"
	case CodeTimeout:
		return "operation timed out"
	case CodeTLS:
		return "tls handshake failed"
	case CodeAborted:
		return "transfer aborted"
	case CodeGotNothing:
		return "server returned nothing"
	case CodeSendFailure:
		return "failed sending data"
	case CodeRecvFailure:
		return "failure receiving data"
	}

	return fmt.Sprintf("result code %d", code)
}
