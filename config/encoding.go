package config

import (
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// Charmap used when importing legacy map files whose strings predate UTF-8.
// Maps produced by old editor builds carry Windows-1252 names and
// descriptions.
var legacyCharmap *charmap.Charmap = charmap.Windows1252

func SetLegacyEncoding(name string) error {
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				legacyCharmap = cm
				return nil
			}
		}
	}
	return errors.Errorf("failed to find encoding %q", name)
}

func ListLegacyEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

// DecodeLegacyString converts a string read from a legacy file to UTF-8 using
// the configured charmap. Strings that already are valid UTF-8 pass through
// unchanged.
func DecodeLegacyString(s string) (string, error) {
	if utf8.ValidString(s) {
		return s, nil
	}
	decoded, err := legacyCharmap.NewDecoder().String(s)
	if err != nil {
		return "", errors.Wrapf(err, "failed to decode %q as %s", s, legacyCharmap.String())
	}
	return decoded, nil
}
