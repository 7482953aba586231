package httpmsg

// cursor walks a byte slice left to right without ever indexing past its end.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// takeWhile consumes the maximal run of bytes satisfying keep.
func (c *cursor) takeWhile(keep func(byte) bool) []byte {
	start := c.pos
	for c.pos < len(c.buf) && keep(c.buf[c.pos]) {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// consume advances past b if it is the next byte.
func (c *cursor) consume(b byte) bool {
	if c.pos < len(c.buf) && c.buf[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

// skipLine advances past the next LF. It reports false, without moving, when
// no LF remains.
func (c *cursor) skipLine() bool {
	for i := c.pos; i < len(c.buf); i++ {
		if c.buf[i] == '\n' {
			c.pos = i + 1
			return true
		}
	}
	return false
}

func (c *cursor) rest() []byte {
	return c.buf[c.pos:]
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

func isToken(b byte) bool {
	return b != ' ' && b != '\r' && b != '\n'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
