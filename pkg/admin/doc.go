// Package admin serves the line-oriented statistics query protocol.
//
// The admin listener handles one client at a time. Each line is matched by
// substring against the commands below, in this order, and answered with
// newline-terminated text:
//
//	packet length stats   mean and standard deviation of packet lengths
//	type count            responses per MIME category
//	status count          responses per status code
//	top <k>               the k most requested hosts
//	exit                  replies "Bye" and closes the connection
//
// Any other line is answered with "Bad Request". The protocol is
// unauthenticated; keep the listener on loopback.
package admin
