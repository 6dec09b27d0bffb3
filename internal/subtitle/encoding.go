package subtitle

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves a charset label such as "utf-8" or "windows-1252".
// UTF-8 tolerates and strips a leading BOM.
func lookupEncoding(name string) (encoding.Encoding, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" || label == "utf-8" || label == "utf8" {
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported text encoding %q: %w", name, err)
	}
	return enc, nil
}

// outputEncoder writes UTF-8 without a BOM
func outputEncoder(enc encoding.Encoding) transform.Transformer {
	if enc == unicode.UTF8BOM {
		return unicode.UTF8.NewEncoder()
	}
	return enc.NewEncoder()
}

// ValidateEncoding reports whether the charset label is known
func ValidateEncoding(name string) error {
	_, err := lookupEncoding(name)
	return err
}
