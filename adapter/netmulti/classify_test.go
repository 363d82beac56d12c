package netmulti

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, CodeOK},
		{"canceled", context.Canceled, CodeAborted},
		{"deadline", context.DeadlineExceeded, CodeTimeout},
		{"wrapped deadline", fmt.Errorf("round trip: %w", context.DeadlineExceeded), CodeTimeout},
		{"read deadline", &net.OpError{Op: "read", Err: os.ErrDeadlineExceeded}, CodeTimeout},
		{"dns", &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}, CodeCouldntResolve},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, CodeCouldntConnect},
		{"broken pipe", &net.OpError{Op: "write", Err: syscall.EPIPE}, CodeSendFailure},
		{"reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, CodeRecvFailure},
		{"eof", io.EOF, CodeGotNothing},
		{"unexpected eof", io.ErrUnexpectedEOF, CodeRecvFailure},
		{"tls record", tls.RecordHeaderError{Msg: "first record does not look like a TLS handshake"}, CodeTLS},
		{"unknown", errors.New("mystery failure"), CodeRecvFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("expected code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestCodeDetail(t *testing.T) {
	if got := codeDetail(CodeGotNothing); got != "server returned nothing" {
		t.Errorf("expected %q, got %q", "server returned nothing", got)
	}
	if got := codeDetail(77); !strings.Contains(got, "77") {
		t.Errorf("expected unknown code in detail, got %q", got)
	}
}
