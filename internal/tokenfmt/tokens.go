// Package tokenfmt renders token sequences for people and for the web front end.
package tokenfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"redpen/internal/tokenizer"
)

// PrettyOpts controls FormatPretty.
type PrettyOpts struct {
	Color bool
}

// FormatPretty writes one line per token: index, quoted surface padded to the
// widest surface, then its tags. opts.Color overrides color.NoColor, so forced
// color survives piped output.
func FormatPretty(w io.Writer, tokens []*tokenizer.TokenElement, opts PrettyOpts) error {
	quoted := make([]string, len(tokens))
	widest := 0
	for i, tok := range tokens {
		quoted[i] = strconv.Quote(tok.Surface())
		if wd := runewidth.StringWidth(quoted[i]); wd > widest {
			widest = wd
		}
	}

	tagColor := color.New(color.FgCyan)
	if opts.Color {
		tagColor.EnableColor()
	} else {
		tagColor.DisableColor()
	}
	paint := tagColor.SprintFunc()
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %s", i+1, runewidth.FillRight(quoted[i], widest)); err != nil {
			return err
		}
		if tags := tok.Tags().Values(); len(tags) > 0 {
			if _, err := fmt.Fprintf(w, "  [%s]", paint(strings.Join(tags, ", "))); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// FormatJSON writes the tokens as an indented JSON array.
func FormatJSON(w io.Writer, tokens []*tokenizer.TokenElement) error {
	if tokens == nil {
		tokens = []*tokenizer.TokenElement{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokens)
}

// FormatStrings returns the String form of every token, the shape the web
// front end expects in a tokenize response.
func FormatStrings(tokens []*tokenizer.TokenElement) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}

// UseColor resolves an on/off/auto color mode for f.
func UseColor(mode string, f *os.File) bool {
	switch mode {
	case "on":
		return true
	case "auto":
		return f != nil && term.IsTerminal(int(f.Fd()))
	default:
		return false
	}
}
