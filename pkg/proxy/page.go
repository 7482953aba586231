package proxy

import (
	"fmt"
	"io"

	"mercator-hq/waypoint/pkg/httpmsg"
)

// ErrorPage renders the minimal HTML error response sent to clients.
func ErrorPage(code int) []byte {
	text := httpmsg.StatusText(code)
	return fmt.Appendf(nil,
		"HTTP/1.0 %d %s\r\nContent-Type: text/html\r\n\r\n<center><h1>%d %s</h1><hr></center>",
		code, text, code, text)
}

// WriteErrorPage writes ErrorPage(code) to w.
func WriteErrorPage(w io.Writer, code int) error {
	_, err := w.Write(ErrorPage(code))
	return err
}
