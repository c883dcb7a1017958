package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// nil means mesh text files are taken as UTF-8
var currentCharMap *charmap.Charmap

// SetEncoding selects the legacy code page used to read text mesh formats.
// Empty name resets to UTF-8.
func SetEncoding(name string) error {
	if name == "" {
		currentCharMap = nil
		return nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				currentCharMap = cm
				return nil
			}
		}
	}
	return errors.Errorf("Failed to find encoding %q", name)
}

func ListEncodings() []string {
	list := make([]string, 0)
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	return list
}

func GetEncoding() *charmap.Charmap {
	return currentCharMap
}

// DecodeText converts data from the configured code page into UTF-8.
func DecodeText(data []byte) ([]byte, error) {
	cm := currentCharMap
	if cm == nil {
		return data, nil
	}
	out, err := cm.NewDecoder().Bytes(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode %v text", cm)
	}
	return out, nil
}
