package adapter

import (
	"errors"
	"net/http"
	"slices"
	"testing"

	"github.com/adamwoolhether/courier/message"
	"github.com/adamwoolhether/courier/transact"
)

// adapterFunc adapts a bare function to the Adapter interface.
type adapterFunc func(tx *transact.Transaction) error

func (f adapterFunc) Send(tx *transact.Transaction) error {
	return f(tx)
}

func newTestRequest(t *testing.T, rawURL string) *message.Request {
	t.Helper()

	req, err := message.NewRequest(http.MethodGet, rawURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return req
}

func TestSerialize_PassesBatchAdaptersThrough(t *testing.T) {
	var base Serial

	if got := Serialize(base); got != BatchAdapter(base) {
		t.Error("expected an existing BatchAdapter to pass through unchanged")
	}
}

func TestSerial_SendAll_InOrder(t *testing.T) {
	var sent []*transact.Transaction
	s := Serialize(adapterFunc(func(tx *transact.Transaction) error {
		sent = append(sent, tx)
		tx.Response = message.NewResponse(http.StatusOK, nil, nil)
		return nil
	}))

	txs := []*transact.Transaction{
		transact.New(nil, newTestRequest(t, "http://one.example.com")),
		transact.New(nil, newTestRequest(t, "http://two.example.com")),
		transact.New(nil, newTestRequest(t, "http://three.example.com")),
	}

	if err := s.SendAll(slices.Values(txs), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(sent, txs) {
		t.Error("expected transactions sent in sequence order")
	}
}

func TestSerial_SendAll_InvalidConcurrency(t *testing.T) {
	s := Serialize(adapterFunc(func(tx *transact.Transaction) error { return nil }))

	err := s.SendAll(slices.Values([]*transact.Transaction{}), 0)
	if !errors.Is(err, transact.ErrInvalidConcurrency) {
		t.Errorf("expected ErrInvalidConcurrency, got %v", err)
	}
}

func TestSerial_SendAll_SilentRequestFailures(t *testing.T) {
	var calls int
	s := Serialize(adapterFunc(func(tx *transact.Transaction) error {
		calls++
		if calls == 1 {
			tx.Err = transact.WrapRequest(tx.Request, errors.New("refused"))
			return tx.Err
		}
		tx.Response = message.NewResponse(http.StatusOK, nil, nil)
		return nil
	}))

	txs := []*transact.Transaction{
		transact.New(nil, newTestRequest(t, "http://bad.example.com")),
		transact.New(nil, newTestRequest(t, "http://good.example.com")),
	}

	if err := s.SendAll(slices.Values(txs), 1); err != nil {
		t.Fatalf("expected silent batch to return nil, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected both transactions attempted, got %d", calls)
	}
	if txs[0].Err == nil {
		t.Error("expected the failure recorded on its transaction")
	}
	if txs[1].Response == nil {
		t.Error("expected the second transaction to settle")
	}
}

func TestSerial_SendAll_ThrowErrorsStopsAtFirstFailure(t *testing.T) {
	var calls int
	s := Serialize(adapterFunc(func(tx *transact.Transaction) error {
		calls++
		return transact.WrapRequest(tx.Request, errors.New("refused"))
	}))

	txs := []*transact.Transaction{
		transact.New(nil, newTestRequest(t, "http://one.example.com")),
		transact.New(nil, newTestRequest(t, "http://two.example.com")),
	}

	err := s.SendAll(slices.Values(txs), 1, ThrowErrors())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 1 {
		t.Errorf("expected the batch to stop after the first failure, got %d sends", calls)
	}
}

func TestSerial_SendAll_DriverFaultAborts(t *testing.T) {
	fault := errors.New("adapter wiring broken")
	var calls int
	s := Serialize(adapterFunc(func(tx *transact.Transaction) error {
		calls++
		return fault
	}))

	txs := []*transact.Transaction{
		transact.New(nil, newTestRequest(t, "http://one.example.com")),
		transact.New(nil, newTestRequest(t, "http://two.example.com")),
	}

	err := s.SendAll(slices.Values(txs), 1)
	if !errors.Is(err, fault) {
		t.Fatalf("expected %v, got %v", fault, err)
	}
	if calls != 1 {
		t.Errorf("expected the batch aborted on the fault, got %d sends", calls)
	}
}
