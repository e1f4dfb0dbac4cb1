package tokencache

import (
	"fmt"

	"fortio.org/safecast"
)

// strtab interns strings for a payload. Tag sets repeat heavily across a
// document, so each distinct string is stored once and referenced by index.
type strtab struct {
	byID  []string
	index map[string]uint32
}

func newStrtab() *strtab {
	return &strtab{index: make(map[string]uint32)}
}

func (s *strtab) intern(v string) (uint32, error) {
	if id, ok := s.index[v]; ok {
		return id, nil
	}
	id, err := safecast.Conv[uint32](len(s.byID))
	if err != nil {
		return 0, fmt.Errorf("string table overflow: %w", err)
	}
	s.byID = append(s.byID, v)
	s.index[v] = id
	return id, nil
}

func lookup(table []string, id uint32) (string, error) {
	if int64(id) >= int64(len(table)) {
		return "", fmt.Errorf("%w: string id %d out of range (%d strings)", ErrCorrupt, id, len(table))
	}
	return table[id], nil
}
