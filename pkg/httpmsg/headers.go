package httpmsg

import (
	"bytes"
	"strconv"
	"strings"
)

var (
	headerTerminator = []byte("\r\n\r\n")
	crlf             = []byte("\r\n")
)

// HeaderValue finds the first header line named name (case-insensitive) in
// the header block of chunk and returns its value up to the first space, CR,
// LF or end of chunk. Scanning stops at the first empty line.
func HeaderValue(chunk []byte, name string) (string, bool) {
	rest := chunk
	for len(rest) > 0 {
		var line []byte
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line, rest = rest[:i], rest[i+1:]
		} else {
			line, rest = rest, nil
		}
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			break
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 || !strings.EqualFold(string(line[:colon]), name) {
			continue
		}

		value := bytes.TrimLeft(line[colon+1:], " \t")
		if end := bytes.IndexAny(value, " \r\n"); end >= 0 {
			value = value[:end]
		}
		return string(value), true
	}
	return "", false
}

// Measure returns the header and body lengths used for statistics.
//
// The header length is the offset just past the first blank line, extended
// by two bytes when another CRLF follows immediately. A chunk with no blank
// line counts entirely as header. The body length is the Content-Length value
// when present and numeric, otherwise 0.
func Measure(chunk []byte) (headerLen, bodyLen int) {
	headerLen = len(chunk)
	if i := bytes.Index(chunk, headerTerminator); i >= 0 {
		headerLen = i + len(headerTerminator)
		if bytes.HasPrefix(chunk[headerLen:], crlf) {
			headerLen += len(crlf)
		}
	}

	if v, ok := HeaderValue(chunk, "Content-Length"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			bodyLen = n
		}
	}
	return headerLen, bodyLen
}
