// Package adapter defines the contract between the engine and its
// transports.
//
// An [Adapter] completes one transaction; a [BatchAdapter] drives many
// concurrently under a bounded limit. Implementations emit the same
// event cycle through the shared helpers ([EmitBeforeSend],
// [EmitAfterSend], [EmitError]) so interception and error-recovery
// behave identically no matter which transport runs the transfer.
//
// [BatchContext] carries the book-keeping one SendAll run needs:
// handle-to-transaction tracking, the error-propagation policy, and
// retry eligibility.
package adapter
