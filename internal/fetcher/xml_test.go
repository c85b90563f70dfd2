package fetcher

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewXMLDecoder_Latin1(t *testing.T) {
	// 0xE9 is "é" in ISO-8859-1.
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><name>Soci\xe9t\xe9</name>"

	var v struct {
		XMLName xml.Name `xml:"name"`
		Value   string   `xml:",chardata"`
	}
	require.NoError(t, NewXMLDecoder(strings.NewReader(input)).Decode(&v))
	assert.Equal(t, "Société", v.Value)
}

func TestNewXMLDecoder_UnknownCharset(t *testing.T) {
	input := `<?xml version="1.0" encoding="x-unknown-charset"?><name>a</name>`

	var v struct{}
	err := NewXMLDecoder(strings.NewReader(input)).Decode(&v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported charset")
}
