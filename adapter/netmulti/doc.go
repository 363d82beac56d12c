// Package netmulti is the production adapter: it performs transfers
// over net/http while keeping a multi-handle batch architecture, where
// one driver goroutine owns the whole lifecycle and per-transfer I/O
// is the only concurrent part.
//
// # Architecture
//
// Each transfer gets a [Handle] from a [HandleFactory] and is
// registered with a [Multiplexer]. The driver loop blocks in
// [Multiplexer.Select] for finished transfers, dispatches their
// events, and backfills free slots from the input sequence until
// everything has settled. Because events run on the driver goroutine,
// listeners never race each other within one batch.
//
// Transfer outcomes carry numeric result codes ([CodeOK],
// [CodeTimeout], [CodeGotNothing], ...) classified from the underlying
// transport error. Failures become [transact.TransportError] values
// wrapped in a [transact.RequestError]; a broken multiplexer surfaces
// as [transact.AdapterError] and always aborts the batch.
//
// # Retry on empty replies
//
// A connection that closes before producing any response bytes
// ([CodeGotNothing]) is retried once per transaction without
// re-dispatching before-send, provided the request payload can be
// rewound for replay.
//
// # Usage
//
//	ad, err := netmulti.New()
//	if err != nil {
//		return err
//	}
//
//	tx := transact.New(client, req)
//	if err := ad.Send(tx); err != nil {
//		return err
//	}
//	defer tx.Response.Close()
package netmulti
