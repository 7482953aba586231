package httpmsg

import "io"

// MaxChunkSize is the largest single read the proxy parses.
const MaxChunkSize = 8192

// Observer receives the chunks that parsed as a request or status line.
// Implementations must not retain chunk beyond the call.
type Observer interface {
	ObserveRequest(req *Request, chunk []byte)
	ObserveResponse(status int, chunk []byte)
}

// ReadClient performs one read from a client into buf and parses it.
//
// On success rest holds the bytes to forward after the (possibly rewritten)
// request line; for passthrough chunks req.ClientRequest is false and rest is
// the whole chunk. rest aliases buf and is only valid until the next read.
// A zero-byte read returns io.EOF or the underlying read error.
func ReadClient(r io.Reader, buf []byte, obs Observer) (req *Request, rest []byte, err error) {
	chunk, err := readChunk(r, buf)
	if err != nil {
		return nil, nil, err
	}

	req, rest, err = ParseRequest(chunk)
	if err != nil {
		return nil, nil, err
	}
	if req.ClientRequest && obs != nil {
		obs.ObserveRequest(req, chunk)
	}
	return req, rest, nil
}

// ReadServer performs one read from an origin into buf. Chunks starting with
// a status line are reported to obs; every chunk is returned for forwarding.
func ReadServer(r io.Reader, buf []byte, obs Observer) ([]byte, error) {
	chunk, err := readChunk(r, buf)
	if err != nil {
		return nil, err
	}

	if obs != nil && IsStatusLine(chunk) {
		code, _ := ParseStatusLine(chunk)
		obs.ObserveResponse(code, chunk)
	}
	return chunk, nil
}

func readChunk(r io.Reader, buf []byte) ([]byte, error) {
	if len(buf) > MaxChunkSize {
		buf = buf[:MaxChunkSize]
	}
	n, err := r.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}
