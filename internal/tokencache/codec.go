// Package tokencache persists token sequences so a document does not have to
// be re-tokenized when neither its text nor the tokenizer changed.
package tokencache

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"redpen/internal/tokenizer"
)

// Increment when the payload layout changes.
const schemaVersion uint16 = 1

var (
	// ErrSchemaMismatch is returned when a payload was written by another schema.
	ErrSchemaMismatch = errors.New("token cache schema mismatch")
	// ErrCorrupt is returned when a payload disagrees with its own header.
	ErrCorrupt = errors.New("token cache payload corrupt")
)

// Digest identifies a cached token sequence.
type Digest [sha256.Size]byte

// Key derives the cache key for text tokenized by the named tokenizer. The
// name is length-prefixed so no (name, text) split can collide with another.
func Key(text, tokenizerName string) Digest {
	h := sha256.New()
	h.Write(binary.BigEndian.AppendUint64(nil, uint64(len(tokenizerName))))
	h.Write([]byte(tokenizerName))
	h.Write([]byte(text))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

type payload struct {
	Schema  uint16
	Count   uint32
	Strings []string
	Tokens  []record
}

// record references Strings by index.
type record struct {
	Surface uint32
	Tags    []uint32
}

// Encode writes tokens to w as a msgpack payload.
func Encode(w io.Writer, tokens []*tokenizer.TokenElement) error {
	count, err := safecast.Conv[uint32](len(tokens))
	if err != nil {
		return fmt.Errorf("token count: %w", err)
	}
	tab := newStrtab()
	p := payload{
		Schema: schemaVersion,
		Count:  count,
		Tokens: make([]record, len(tokens)),
	}
	for i, tok := range tokens {
		rec := record{Tags: make([]uint32, 0, tok.Tags().Len())}
		if rec.Surface, err = tab.intern(tok.Surface()); err != nil {
			return err
		}
		for _, tag := range tok.Tags().Values() {
			id, err := tab.intern(tag)
			if err != nil {
				return err
			}
			rec.Tags = append(rec.Tags, id)
		}
		p.Tokens[i] = rec
	}
	p.Strings = tab.byID
	return msgpack.NewEncoder(w).Encode(&p)
}

// Decode reads a payload written by Encode.
func Decode(r io.Reader) ([]*tokenizer.TokenElement, error) {
	var p payload
	if err := msgpack.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, schemaVersion)
	}
	if int64(p.Count) != int64(len(p.Tokens)) {
		return nil, fmt.Errorf("%w: header count %d, %d tokens", ErrCorrupt, p.Count, len(p.Tokens))
	}
	out := make([]*tokenizer.TokenElement, len(p.Tokens))
	for i, rec := range p.Tokens {
		surface, err := lookup(p.Strings, rec.Surface)
		if err != nil {
			return nil, err
		}
		e := tokenizer.NewTokenElement(surface)
		for _, id := range rec.Tags {
			tag, err := lookup(p.Strings, id)
			if err != nil {
				return nil, err
			}
			e.AddTag(tag)
		}
		out[i] = e
	}
	return out, nil
}
