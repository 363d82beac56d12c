package transact

import (
	"github.com/google/uuid"

	"github.com/adamwoolhether/courier/message"
)

// Sender pushes one request through the whole engine and returns the
// final outcome after every listener has had its say. The root client
// implements it; subscribers that re-enter the engine (redirects,
// retries) depend on nothing more.
type Sender interface {
	Send(req *message.Request) (*message.Response, error)
}

// Transaction pairs a request with its in-flight or completed response
// for one logical transfer. Response and Err each transition at most
// once per attempt, under adapter control; a retry reuses the same
// Transaction after [Transaction.Reset] rather than creating a new
// one.
type Transaction struct {
	// ID correlates the transaction across log lines and trace
	// spans.
	ID string
	// Client is the sender that owns this transfer. Subscribers use
	// it to push follow-up requests through the same engine.
	Client Sender
	// Request describes the exchange to perform.
	Request *message.Request
	// Response holds the outcome once an attempt succeeded or a
	// listener intercepted one.
	Response *message.Response
	// Err holds the failure when an attempt failed without
	// interception.
	Err error
}

// New builds a Transaction for one request owned by client.
func New(client Sender, req *message.Request) *Transaction {
	return &Transaction{
		ID:      uuid.New().String(),
		Client:  client,
		Request: req,
	}
}

// Reset clears the attempt outcome so the adapter can drive another
// cycle on the same Transaction.
func (t *Transaction) Reset() {
	t.Response = nil
	t.Err = nil
}
