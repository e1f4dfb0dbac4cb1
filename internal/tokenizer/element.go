package tokenizer

import (
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
)

// TokenElement is one token of the input text: its surface form and tags.
type TokenElement struct {
	surface string
	tags    Tags
}

// NewTokenElement returns an element with the given surface and no tags.
func NewTokenElement(word string) *TokenElement {
	return &TokenElement{
		surface: word,
		tags:    Tags{},
	}
}

// NewTokenElementWithTag returns an element carrying exactly one tag.
func NewTokenElementWithTag(word, tag string) *TokenElement {
	e := NewTokenElement(word)
	e.tags.Add(tag)
	return e
}

// NewTokenElementWithTags returns an element whose tags are a copy of tagList.
// A nil tagList is treated as empty.
func NewTokenElementWithTags(word string, tagList []string) *TokenElement {
	e := NewTokenElement(word)
	e.tags.Add(tagList...)
	return e
}

// Surface returns the token text as it appeared in the input.
func (e *TokenElement) Surface() string {
	return e.surface
}

// Tags returns the element's own tag sequence. Mutations through the
// returned handle are visible to subsequent calls.
func (e *TokenElement) Tags() *Tags {
	return &e.tags
}

// AddTag appends tags to the element.
func (e *TokenElement) AddTag(tags ...string) {
	e.tags.Add(tags...)
}

// HasTag reports whether the element carries tag.
func (e *TokenElement) HasTag(tag string) bool {
	return e.tags.Contains(tag)
}

// Clone returns a deep copy that shares no storage with e.
func (e *TokenElement) Clone() *TokenElement {
	return NewTokenElementWithTags(e.surface, e.tags)
}

// Equal reports whether both elements have the same surface and the same tags
// in the same order.
func (e *TokenElement) Equal(other *TokenElement) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.surface == other.surface && slices.Equal(e.tags, other.tags)
}

// DisplayWidth returns the number of terminal cells the surface occupies.
func (e *TokenElement) DisplayWidth() int {
	return runewidth.StringWidth(e.surface)
}

// String renders the element as TokenElement{surface='…', tags=[…]}.
// The web front end strips the fixed prefix and the closing brace.
func (e *TokenElement) String() string {
	var b strings.Builder
	b.WriteString("TokenElement{surface='")
	b.WriteString(e.surface)
	b.WriteString("', tags=[")
	b.WriteString(strings.Join(e.tags, ", "))
	b.WriteString("]}")
	return b.String()
}
