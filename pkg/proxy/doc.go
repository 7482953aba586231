// Package proxy relays one client connection to the origin named by its
// first request.
//
// A Relay services a Job in the calling goroutine: it parses the first chunk
// from the client, resolves and dials the origin, forwards the rewritten
// request line, then copies both directions until either side closes.
// The origin-to-client direction runs on one extra goroutine that the
// worker joins before returning.
//
// # Error Pages
//
// A client whose first chunk does not parse receives a 400 page; a client
// whose origin cannot be resolved or reached receives a 502 page. When the
// client-to-origin direction ends for any reason a closing 400 is written to
// the client on a best-effort basis.
//
// # Accounting
//
// Every parsed request and recognised status line flows through a Session,
// which feeds the statistics aggregator and the Prometheus collector and
// writes the request and response log lines.
package proxy
