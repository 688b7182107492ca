package artwork

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReferenceEntry is one element of the collectible card reference list.
type ReferenceEntry struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ParseReference decodes a JSON array of {name, id} objects.
// Unknown fields are ignored so full card dumps can be used as is.
func ParseReference(r io.Reader) ([]ReferenceEntry, error) {
	var entries []ReferenceEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode reference list: %w", err)
	}
	return entries, nil
}

// LoadReference reads the reference list from path.
func LoadReference(path string) ([]ReferenceEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference list: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReference(f)
}

// LoadFile loads path into the resolver's name table.
func (r *Resolver) LoadFile(path string) error {
	entries, err := LoadReference(path)
	if err != nil {
		return err
	}
	r.SetReference(entries)
	return nil
}
