package config

import (
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

// FindEncoding returns the charmap called name. An empty name means the
// input is read as is and returns nil.
func FindEncoding(name string) (*charmap.Charmap, error) {
	if name == "" {
		return nil, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			if cm.String() == name {
				return cm, nil
			}
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
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
