// Package save streams response payloads to disk with optional
// checksum validation and progress reporting.
//
// # Direct writes
//
// [Write] copies a payload to a temporary file alongside the
// destination path, then atomically renames it on success:
//
//	err := save.Write(ctx, resp.Body(), length, destPath, logger,
//		save.WithChecksum(sha256.New(), expectedHex),
//	)
//
// # Event-driven saves
//
// [Subscriber] does the same from inside the event cycle: a request
// carrying a "save_to" config entry has its response payload drained
// to the named path or io.Writer once the exchange settles. It runs
// below the redirect policy, so on a followed chain only the final
// hop's payload is written.
package save
