package xbrl

import (
	"bytes"
	"io"

	"github.com/rotisserie/eris"
)

// sniffLen bounds how much of a document is inspected to pick a parser.
const sniffLen = 4096

// Parse detects the serialization of an instance and parses it.
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "xbrl: read document")
	}

	switch DetectFormat(data) {
	case FormatJSON:
		return ParseJSON(bytes.NewReader(data))
	case FormatInline:
		return ParseInline(bytes.NewReader(data))
	case FormatXML:
		return ParseInstance(bytes.NewReader(data))
	default:
		return nil, eris.New("xbrl: empty document")
	}
}

// DetectFormat guesses the serialization from the first bytes of a document.
// It returns "" for an empty document.
func DetectFormat(data []byte) Format {
	head := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(head) == 0 {
		return ""
	}
	if head[0] == '{' {
		return FormatJSON
	}
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	lower := bytes.ToLower(head)
	if bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype html")) {
		return FormatInline
	}
	return FormatXML
}
