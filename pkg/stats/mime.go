package stats

import "strings"

// MIMEType is the coarse content category counted by the aggregator.
type MIMEType int

// Categories are declared in report order.
const (
	MIMEPlain MIMEType = iota
	MIMEHTML
	MIMEJPG
	MIMEJPEG
	MIMEPNG
	MIMECSS
	MIMEJavaScript
	MIMEPDF
)

// knownTypes lists every category in report order. MIMEPlain is the fallback
// and is never matched by prefix.
var knownTypes = []MIMEType{
	MIMEPlain, MIMEHTML, MIMEJPG, MIMEJPEG, MIMEPNG, MIMECSS, MIMEJavaScript, MIMEPDF,
}

var mimeNames = map[MIMEType]string{
	MIMEPlain:      "text/plain",
	MIMEHTML:       "text/html",
	MIMEJPG:        "image/jpg",
	MIMEJPEG:       "image/jpeg",
	MIMEPNG:        "image/png",
	MIMECSS:        "text/css",
	MIMEJavaScript: "application/javascript",
	MIMEPDF:        "application/pdf",
}

// String returns the canonical media type of the category.
func (t MIMEType) String() string {
	if name, ok := mimeNames[t]; ok {
		return name
	}
	return "unknown type"
}

// ClassifyContentType maps a Content-Type header value onto a category by
// prefix. Values that match no known category fall back to MIMEPlain.
func ClassifyContentType(value string) MIMEType {
	for _, t := range knownTypes[1:] {
		if strings.HasPrefix(value, mimeNames[t]) {
			return t
		}
	}
	return MIMEPlain
}
