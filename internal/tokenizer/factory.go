package tokenizer

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"redpen/internal/logging"
)

// FactoryOptions configures a Factory.
type FactoryOptions struct {
	Policy        Policy
	Normalization Normalization
	Logger        *slog.Logger // may be nil
}

// Factory builds elements under a validation policy. Tokenizers that want
// input checking go through a Factory; the plain constructors never validate.
type Factory struct {
	opts FactoryOptions
	log  *slog.Logger
}

// NewFactory returns a factory for opts.
func NewFactory(opts FactoryOptions) *Factory {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Factory{opts: opts, log: log}
}

// Policy returns the factory's validation policy.
func (f *Factory) Policy() Policy { return f.opts.Policy }

// Normalization returns the factory's normalization form.
func (f *Factory) Normalization() Normalization { return f.opts.Normalization }

// Make validates word and tags and builds an element.
func (f *Factory) Make(word string, tags []string) (*TokenElement, error) {
	if err := f.opts.Policy.check(word, tags); err != nil {
		f.log.Debug("token rejected", "surface", word, "policy", f.opts.Policy.String(), "error", err)
		return nil, fmt.Errorf("token %q: %w", word, err)
	}
	if f.opts.Normalization == NormalizeNFC {
		word = norm.NFC.String(word)
		if len(tags) > 0 {
			normalized := make([]string, len(tags))
			for i, tag := range tags {
				normalized[i] = norm.NFC.String(tag)
			}
			tags = normalized
		}
	}
	return NewTokenElementWithTags(word, tags), nil
}

// MakeAll builds one element per surface, pairing surfaces[i] with tags[i].
// tags may be shorter than surfaces; missing entries are nil. It stops at the
// first rejected token.
func (f *Factory) MakeAll(surfaces []string, tags [][]string) ([]*TokenElement, error) {
	out := make([]*TokenElement, 0, len(surfaces))
	for i, word := range surfaces {
		var t []string
		if i < len(tags) {
			t = tags[i]
		}
		e, err := f.Make(word, t)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		out = append(out, e)
	}
	if len(tags) > len(surfaces) {
		f.log.Warn("extra tag lists ignored", "surfaces", len(surfaces), "tag_lists", len(tags))
	}
	return out, nil
}
