// Package driver runs an external tokenizer over text with the configured
// validation policy, token cache and output format.
package driver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"redpen/internal/config"
	"redpen/internal/logging"
	"redpen/internal/observ"
	"redpen/internal/tokencache"
	"redpen/internal/tokenfmt"
	"redpen/internal/tokenizer"
)

// Tokenizer splits text into elements. Implementations build elements through
// the supplied factory so the configured policy applies.
type Tokenizer interface {
	Name() string
	Tokenize(text string, f *tokenizer.Factory) ([]*tokenizer.TokenElement, error)
}

// Driver holds the per-run state derived from a Config.
type Driver struct {
	cfg     config.Config
	factory *tokenizer.Factory
	cache   *tokencache.DiskCache
	log     *slog.Logger
}

// Options tweaks New.
type Options struct {
	Logger  *slog.Logger // nil: discard
	NoCache bool
}

// New prepares a driver. The cache directory is created on demand; failure to
// open it disables caching rather than failing the run.
func New(cfg config.Config, opts Options) (*Driver, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	factory, err := cfg.Factory(log)
	if err != nil {
		return nil, err
	}
	d := &Driver{cfg: cfg, factory: factory, log: log}
	if opts.NoCache {
		return d, nil
	}
	dir, err := cfg.CacheDir()
	if err == nil {
		d.cache, err = tokencache.Open(dir, log)
	}
	if err != nil {
		log.Warn("token cache disabled", "error", err)
		d.cache = nil
	}
	return d, nil
}

// Factory returns the factory tokenizers receive.
func (d *Driver) Factory() *tokenizer.Factory { return d.factory }

// Cache returns the token cache, nil when caching is off.
func (d *Driver) Cache() *tokencache.DiskCache { return d.cache }

// Tokenize returns the tokens for text, consulting the cache first. Cache
// errors are logged and never fail the call.
func (d *Driver) Tokenize(ctx context.Context, text string, tk Tokenizer) ([]*tokenizer.TokenElement, error) {
	timer := observ.NewTimer()
	tokens, miss, err := d.lookupOrTokenize(ctx, text, tk, timer)
	if err != nil {
		return nil, err
	}
	if miss != nil {
		phase := timer.Begin("store")
		if err := d.cache.Put(miss.Key, miss.Tokens); err != nil {
			d.log.Warn("token cache write failed", "tokenizer", tk.Name(), "error", err)
		}
		timer.End(phase, "")
	}
	d.log.Debug("tokenized", "tokenizer", tk.Name(), "tokens", len(tokens), "timings", timer)
	return tokens, nil
}

// lookupOrTokenize serves text from the cache or runs tk. On a cache miss it
// returns the entry to store; writing it is left to the caller.
func (d *Driver) lookupOrTokenize(ctx context.Context, text string, tk Tokenizer, timer *observ.Timer) ([]*tokenizer.TokenElement, *tokencache.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	key := tokencache.Key(text, d.cacheName(tk))

	phase := timer.Begin("cache")
	tokens, ok, err := d.cache.Get(key)
	if err != nil {
		d.log.Warn("token cache read failed", "tokenizer", tk.Name(), "error", err)
	}
	if ok {
		timer.End(phase, "hit")
		return tokens, nil, nil
	}
	timer.End(phase, "miss")

	phase = timer.Begin("tokenize")
	tokens, err = tk.Tokenize(text, d.factory)
	timer.End(phase, "")
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", tk.Name(), err)
	}
	return tokens, &tokencache.Entry{Key: key, Tokens: tokens}, nil
}

// TokenizeAll tokenizes texts with up to jobs goroutines; jobs <= 0 means
// GOMAXPROCS. Results keep the order of texts. The first error cancels the
// rest. Cache misses are written in one batch once every text succeeded.
func (d *Driver) TokenizeAll(ctx context.Context, texts []string, tk Tokenizer, jobs int) ([][]*tokenizer.TokenElement, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([][]*tokenizer.TokenElement, len(texts))
	misses := make([]*tokencache.Entry, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(texts)))
	for i, text := range texts {
		g.Go(func() error {
			timer := observ.NewTimer()
			tokens, miss, err := d.lookupOrTokenize(gctx, text, tk, timer)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			d.log.Debug("tokenized", "tokenizer", tk.Name(), "text", i, "tokens", len(tokens), "timings", timer)
			results[i] = tokens
			misses[i] = miss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]tokencache.Entry, 0, len(misses))
	for _, m := range misses {
		if m != nil {
			entries = append(entries, *m)
		}
	}
	if len(entries) > 0 {
		if err := d.cache.PutAll(ctx, entries); err != nil {
			d.log.Warn("token cache batch write failed", "tokenizer", tk.Name(), "entries", len(entries), "error", err)
		}
	}
	return results, nil
}

// Render writes tokens in the configured [output] format. out decides whether
// color is used in auto mode and may be nil.
func (d *Driver) Render(w io.Writer, out *os.File, tokens []*tokenizer.TokenElement) error {
	switch d.cfg.Output.Format {
	case "json":
		return tokenfmt.FormatJSON(w, tokens)
	case "pretty", "":
		return tokenfmt.FormatPretty(w, tokens, tokenfmt.PrettyOpts{
			Color: tokenfmt.UseColor(d.cfg.Output.Color, out),
		})
	default:
		return fmt.Errorf("unknown output format: %s", d.cfg.Output.Format)
	}
}

// The factory settings change what a tokenizer produces, so they are part of
// the cache key.
func (d *Driver) cacheName(tk Tokenizer) string {
	return tk.Name() + "|" + d.factory.Policy().String() + "|" + d.factory.Normalization().String()
}
