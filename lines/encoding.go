package lines

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	unicodeenc "golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is the name of the encoding used when none is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves a WHATWG encoding label such as "utf-8",
// "utf-16le" or "windows-1252". An empty name selects UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, DefaultEncoding) {
		return unicodeenc.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}
