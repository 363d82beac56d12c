package save

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/adamwoolhether/courier/emitter"
	"github.com/adamwoolhether/courier/transact"
)

// Key is the request config entry naming where the response payload
// goes. Accepted values are a filesystem path (string) or an
// io.Writer.
const Key = "save_to"

// Priority places the sink after the redirect policy has settled the
// chain but ahead of default-priority listeners, so by the time
// ordinary listeners observe the response its payload is already at
// the destination.
const Priority = 800

// Subscriber drains response payloads to the destination named by the
// request's "save_to" config entry. A consumed response carries a nil
// body afterward.
type Subscriber struct {
	log  *slog.Logger
	opts []Option
}

// NewSubscriber builds the sink. A nil logger falls back to
// slog.Default(). opts apply to every path destination the subscriber
// writes; a per-response option such as WithChecksum belongs with
// [Write] instead.
func NewSubscriber(log *slog.Logger, opts ...Option) *Subscriber {
	if log == nil {
		log = slog.Default()
	}

	return &Subscriber{log: log, opts: opts}
}

// Bindings registers the sink on after-send.
func (s *Subscriber) Bindings() []emitter.Binding {
	return []emitter.Binding{
		{Name: emitter.AfterSend, Listener: s.onAfterSend, Priority: Priority},
	}
}

func (s *Subscriber) onAfterSend(ctx context.Context, ev emitter.Event) error {
	after, ok := ev.(*transact.AfterSendEvent)
	if !ok {
		return nil
	}
	tx := after.Transaction

	dest, ok := tx.Request.Config().Value(Key)
	if !ok || dest == nil {
		return nil
	}

	resp := tx.Response
	if resp == nil || resp.Body() == nil {
		return nil
	}

	switch d := dest.(type) {
	case string:
		if err := Write(ctx, resp.Body(), contentLength(resp.Header()), d, s.log, s.opts...); err != nil {
			return fmt.Errorf("saving response to %q: %w", d, err)
		}
	case io.Writer:
		if _, err := io.Copy(d, resp.Body()); err != nil {
			return fmt.Errorf("saving response: %w", err)
		}
	default:
		s.log.Debug("ignoring unsupported save destination", "type", fmt.Sprintf("%T", dest))
		return nil
	}

	if err := resp.Close(); err != nil {
		s.log.Debug("closing saved response body", "error", err)
	}
	resp.SetBody(nil)

	return nil
}

// contentLength reads the declared payload size, -1 when absent or
// unparseable.
func contentLength(h http.Header) int64 {
	v := h.Get("Content-Length")
	if v == "" {
		return -1
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return -1
	}

	return n
}
