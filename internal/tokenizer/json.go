package tokenizer

import (
	"encoding/json"
)

type elementJSON struct {
	Surface string   `json:"surface"`
	Tags    []string `json:"tags"`
}

// MarshalJSON encodes the element as {"surface": ..., "tags": [...]}.
// Tags are always an array, never null. The value receiver keeps elements
// stored by value (slices, maps) encodable.
func (e TokenElement) MarshalJSON() ([]byte, error) {
	tags := []string(e.tags)
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(elementJSON{Surface: e.surface, Tags: tags})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (e *TokenElement) UnmarshalJSON(data []byte) error {
	var raw elementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = *NewTokenElementWithTags(raw.Surface, raw.Tags)
	return nil
}
