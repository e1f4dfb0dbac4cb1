package tokenizer

import (
	"errors"
	"fmt"
	"strings"
)

// Policy decides how Factory treats questionable constructor input.
type Policy uint8

const (
	// PolicyLenient accepts any input; a nil tag list becomes empty.
	PolicyLenient Policy = iota
	// PolicyStrict rejects empty surfaces, nil tag lists and empty tags.
	PolicyStrict
)

// Normalization selects the Unicode form applied to surfaces and tags.
type Normalization uint8

const (
	// NormalizeNone keeps input byte-exact.
	NormalizeNone Normalization = iota
	// NormalizeNFC applies canonical composition.
	NormalizeNFC
)

var (
	// ErrEmptySurface is returned by a strict factory for an empty surface.
	ErrEmptySurface = errors.New("empty surface")
	// ErrNilTags is returned by a strict factory for a missing tag list.
	ErrNilTags = errors.New("missing tag list")
	// ErrEmptyTag is returned by a strict factory for an empty tag string.
	ErrEmptyTag = errors.New("empty tag")
	// ErrUnknownPolicy reports an unrecognised policy name.
	ErrUnknownPolicy = errors.New("unknown validation policy")
	// ErrUnknownNormalization reports an unrecognised normalization name.
	ErrUnknownNormalization = errors.New("unknown normalization")
)

func (p Policy) String() string {
	switch p {
	case PolicyLenient:
		return "lenient"
	case PolicyStrict:
		return "strict"
	default:
		return fmt.Sprintf("Policy(%d)", p)
	}
}

// ParsePolicy maps "lenient" or "strict" (case-insensitive) to a Policy.
// The empty string yields PolicyLenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return PolicyLenient, nil
	case "strict":
		return PolicyStrict, nil
	default:
		return PolicyLenient, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func (n Normalization) String() string {
	switch n {
	case NormalizeNone:
		return "none"
	case NormalizeNFC:
		return "nfc"
	default:
		return fmt.Sprintf("Normalization(%d)", n)
	}
}

// ParseNormalization maps "none" or "nfc" (case-insensitive) to a Normalization.
// The empty string yields NormalizeNone.
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NormalizeNone, nil
	case "nfc":
		return NormalizeNFC, nil
	default:
		return NormalizeNone, fmt.Errorf("%w: %q", ErrUnknownNormalization, s)
	}
}

func (p Policy) check(word string, tags []string) error {
	if p != PolicyStrict {
		return nil
	}
	if word == "" {
		return ErrEmptySurface
	}
	if tags == nil {
		return ErrNilTags
	}
	for i, tag := range tags {
		if tag == "" {
			return fmt.Errorf("%w at index %d", ErrEmptyTag, i)
		}
	}
	return nil
}
