package httpmsg

import (
	"bytes"
	"net/http"
	"strconv"
)

var statusPrefix = []byte("HTTP/1.")

// IsStatusLine reports whether chunk starts with an HTTP/1.x status line.
func IsStatusLine(chunk []byte) bool {
	return bytes.HasPrefix(chunk, statusPrefix)
}

// ParseStatusLine extracts the numeric status code following the version
// token of a status line. ok is false when chunk is not a status line or the
// code is missing.
func ParseStatusLine(chunk []byte) (code int, ok bool) {
	if !IsStatusLine(chunk) {
		return 0, false
	}

	c := newCursor(chunk)
	c.takeWhile(isToken)
	if !c.consume(' ') {
		return 0, false
	}
	digits := c.takeWhile(isToken)

	code, err := strconv.Atoi(string(digits))
	if err != nil || code <= 0 {
		return 0, false
	}
	return code, true
}

// reasonPhrases is the fixed set of codes with their own reason phrase.
var reasonPhrases = map[int]string{
	http.StatusContinue:         "Continue",
	http.StatusOK:               "OK",
	http.StatusMovedPermanently: "Moved Permanently",
	http.StatusFound:            "Found",
	http.StatusNotModified:      "Not Modified",
	http.StatusBadRequest:       "Bad Request",
	http.StatusUnauthorized:     "Unauthorized",
	http.StatusForbidden:        "Forbidden",
	http.StatusNotFound:         "Not Found",
	http.StatusMethodNotAllowed: "Method Not Allowed",
	http.StatusNotImplemented:   "Not Implemented",
	http.StatusBadGateway:       "Bad Gateway",
}

// StatusText returns the reason phrase for code. Codes outside the fixed
// table, including standard ones such as 204 or 503, read as
// "Internal Server Error".
func StatusText(code int) string {
	if text, ok := reasonPhrases[code]; ok {
		return text
	}
	return "Internal Server Error"
}
