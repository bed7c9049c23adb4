package schema

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
	"gopkg.in/yaml.v3"
)

// YAML encodes the snapshot with every collection in load order.
func (i *Inspected) YAML() ([]byte, error) {
	out, err := yaml.Marshal(i)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return out, nil
}

// ToMap returns the snapshot as plain nested maps, slices and scalars.
func (i *Inspected) ToMap() (map[string]any, error) {
	encoded, err := i.YAML()
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := yaml.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return out, nil
}

// Hash is a hash of the snapshot's contents. Snapshots of the same objects hash equally regardless of load order.
func (i *Inspected) Hash() (string, error) {
	m, err := i.ToMap()
	if err != nil {
		return "", err
	}
	hashVal, err := hashstructure.Hash(m, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("hashing snapshot: %w", err)
	}
	return fmt.Sprintf("%x", hashVal), nil
}
