package helpers

import (
	"encoding/hex"
	"strings"

	"github.com/juju/errors"
)

// ParseHex accepts "0102", "01 02", "01:02" and "01.02".
func ParseHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '.', '-', '\t':
			return -1
		}
		return r
	}, s)
	b, err := hex.DecodeString(clean)
	return b, errors.Annotatef(err, "hex=%q", s)
}
