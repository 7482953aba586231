// Package httpmsg extracts routing and accounting metadata from raw HTTP/1.x
// bytes read off a proxied socket.
//
// Parsing is deliberately per chunk: each call inspects exactly one read of
// at most MaxChunkSize bytes. A chunk that carries a request line is parsed
// into a Request and the bytes after the request line are returned untouched
// for forwarding; any other chunk is passed through as opaque payload. There
// is no reassembly of a request line or header block split across reads; such
// bytes are forwarded as payload and are not accounted.
//
// Nothing in this package rewrites headers or bodies. The only transformation
// a caller applies is replacing an absolute-form request line with the
// origin-form line returned by Request.RequestLine.
package httpmsg
