package tokenizer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenElement(t *testing.T) {
	for _, s := range []string{"Apple", "", "日本語", "  spaced  "} {
		e := NewTokenElement(s)
		assert.Equal(t, s, e.Surface())
		assert.Equal(t, 0, e.Tags().Len(), "NewTokenElement(%q) tags", s)
		assert.NotNil(t, e.Tags().Values(), "NewTokenElement(%q) tags are nil", s)
	}
}

func TestNewTokenElementWithTag(t *testing.T) {
	e := NewTokenElementWithTag("dog", "NN")
	assert.Equal(t, "dog", e.Surface())
	assert.Equal(t, []string{"NN"}, e.Tags().Values())
	assert.True(t, e.Equal(NewTokenElementWithTags("dog", []string{"NN"})),
		"single-tag form differs from one-element list form")
}

func TestNewTokenElementWithTags(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty", []string{}, []string{}},
		{"ordered", []string{"NN", "NNS"}, []string{"NN", "NNS"}},
		{"duplicates kept", []string{"VB", "VB"}, []string{"VB", "VB"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewTokenElementWithTags("cats", tc.in)
			assert.Equal(t, tc.want, e.Tags().Values())
		})
	}
}

func TestNewTokenElementWithTagsCopiesInput(t *testing.T) {
	in := []string{"NN", "NNS"}
	e := NewTokenElementWithTags("cats", in)

	in[0] = "XX"
	assert.Equal(t, "NN", e.Tags().At(0), "caller mutation leaked into element")

	e.Tags().Add("JJ")
	(*e.Tags())[1] = "YY"
	assert.Equal(t, []string{"XX", "NNS"}, in, "element mutation leaked into caller slice")
}

func TestTagsHandleAliasesElement(t *testing.T) {
	e := NewTokenElement("run")
	e.Tags().Add("VB")
	assert.Equal(t, []string{"VB"}, e.Tags().Values())

	h := e.Tags()
	h.Add("VBP")
	e.AddTag("VBZ")
	assert.Equal(t, []string{"VB", "VBP", "VBZ"}, h.Values())
	assert.Same(t, h, e.Tags(), "Tags() returned a different handle")
	assert.True(t, e.HasTag("VBP"))
	assert.False(t, e.HasTag("NN"))
}

func TestClone(t *testing.T) {
	e := NewTokenElementWithTags("cats", []string{"NN"})
	c := e.Clone()
	require.True(t, c.Equal(e), "clone %v differs from %v", c, e)

	c.AddTag("NNS")
	assert.Equal(t, []string{"NN"}, e.Tags().Values(), "clone shares storage")
}

func TestEqual(t *testing.T) {
	a := NewTokenElementWithTags("a", []string{"X", "Y"})
	cases := []struct {
		b    *TokenElement
		want bool
	}{
		{NewTokenElementWithTags("a", []string{"X", "Y"}), true},
		{NewTokenElementWithTags("a", []string{"Y", "X"}), false},
		{NewTokenElementWithTags("b", []string{"X", "Y"}), false},
		{NewTokenElement("a"), false},
		{nil, false},
	}
	for i, tc := range cases {
		assert.Equal(t, tc.want, a.Equal(tc.b), "case %d", i)
	}
	var n *TokenElement
	assert.True(t, n.Equal(nil), "nil elements should be equal")
}

func TestString(t *testing.T) {
	cases := []struct {
		e    *TokenElement
		want string
	}{
		{NewTokenElement("Apple"), "TokenElement{surface='Apple', tags=[]}"},
		{NewTokenElementWithTag("dog", "NN"), "TokenElement{surface='dog', tags=[NN]}"},
		{NewTokenElementWithTags("cats", []string{"NN", "NNS"}), "TokenElement{surface='cats', tags=[NN, NNS]}"},
	}
	for _, tc := range cases {
		got := tc.e.String()
		require.Equal(t, tc.want, got)
		// front end: tokens[i].substr(13, len-14)
		inner := got[13 : len(got)-1]
		assert.True(t, strings.HasPrefix(inner, "surface='"+tc.e.Surface()+"'"),
			"stripped form %q does not start with the surface", inner)
	}
}

func TestDisplayWidth(t *testing.T) {
	cases := []struct {
		surface string
		want    int
	}{
		{"", 0},
		{"dog", 3},
		{"日本語", 6},
		{"na\u00efve", 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewTokenElement(tc.surface).DisplayWidth(), "DisplayWidth(%q)", tc.surface)
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewTokenElement("Apple"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"surface":"Apple","tags":[]}`, string(data))

	var zero TokenElement
	data, err = json.Marshal(&zero)
	require.NoError(t, err)
	assert.JSONEq(t, `{"surface":"","tags":[]}`, string(data))
}

func TestMarshalJSONByValue(t *testing.T) {
	e := NewTokenElementWithTag("dog", "NN")

	data, err := json.Marshal(*e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"surface":"dog","tags":["NN"]}`, string(data))

	data, err = json.Marshal(map[string]TokenElement{"k": *e})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":{"surface":"dog","tags":["NN"]}}`, string(data))

	data, err = json.Marshal([]TokenElement{*e, *NewTokenElement("Apple")})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"surface":"dog","tags":["NN"]},{"surface":"Apple","tags":[]}]`, string(data))
}

func TestUnmarshalJSON(t *testing.T) {
	var e TokenElement
	require.NoError(t, json.Unmarshal([]byte(`{"surface":"cats","tags":["NN","NNS"]}`), &e))
	assert.True(t, e.Equal(NewTokenElementWithTags("cats", []string{"NN", "NNS"})), "unmarshal = %v", &e)

	require.NoError(t, json.Unmarshal([]byte(`{"surface":"x","tags":null}`), &e))
	assert.NotNil(t, e.Tags().Values(), "null tags decoded to nil slice")

	var byValue map[string]TokenElement
	require.NoError(t, json.Unmarshal([]byte(`{"k":{"surface":"dog","tags":["NN"]}}`), &byValue))
	got := byValue["k"]
	assert.True(t, got.Equal(NewTokenElementWithTag("dog", "NN")), "map value = %v", &got)
}
