// Package redirect follows 3xx responses through the same engine the
// original request ran on.
//
// The subscriber listens on after-send at [Priority]. When a response
// carries a redirect status and a Location header, it resolves the
// target against the current URL, builds a hop request, and sends it
// synchronously through the transaction's client; the hop's final
// response replaces the original via interception. Because hops are
// ordinary requests with cloned emitters, history and logging
// subscribers observe every hop.
//
// # Method policy
//
// The default loose policy downgrades POST, PUT, and PATCH to GET and
// drops the body, except for 307 and 308 which preserve both. The
// strict policy preserves method and body on every redirect status.
//
// # Configuration
//
// Following is controlled per request through the [Key] config entry:
//
//	req.Config()[redirect.Key] = false             // disable
//	req.Config()[redirect.Key] = redirect.ModeStrict
//	req.Config()[redirect.Key] = redirect.Options{Max: 10, Strict: true}
//
// Chains longer than the configured maximum (default [DefaultMax])
// fail with [transact.TooManyRedirectsError]. A body that must be
// replayed but cannot be rewound fails with
// [transact.CouldNotRewindStreamError] before any hop is sent.
package redirect
