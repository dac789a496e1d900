package router

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParsePattern(t *testing.T) {
	lit := ParsePattern("/kontak-tim-suar-indonesia")
	assert.Equal(t, Literal, lit.Kind())
	assert.Empty(t, lit.Params())
	assert.Equal(t, "/kontak-tim-suar-indonesia", lit.String())

	par := ParsePattern("/matrik/:id/:tahun")
	assert.Equal(t, Parametric, par.Kind())
	assert.Equal(t, []string{"id", "tahun"}, par.Params())
	assert.Equal(t, "parametric", par.Kind().String())
}

func TestPatternMatch(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    Params
		ok      bool
	}{
		{"/artikel/:slug", "/artikel/hello-world", Params{"slug": "hello-world"}, true},
		{"/a/:id", "/a/b/c", nil, false},
		{"/a/:id", "/a", nil, false},
		{"/a/:id", "/b/1", nil, false},
		{"/", "/", Params{}, true},
		{"/berita", "/berita", Params{}, true},
		{"/berita", "/layanan", nil, false},
		{"/matrik/:id", "/matrik/42", Params{"id": "42"}, true},
		// parameter values are bound without validation
		{"/artikel/:slug", "/artikel/", Params{"slug": ""}, true},
	}
	for _, tt := range tests {
		got, ok := ParsePattern(tt.pattern).Match(tt.path)
		assert.Equal(t, tt.ok, ok, "%s vs %s", tt.pattern, tt.path)
		if tt.ok {
			assert.Equal(t, tt.want, got, "%s vs %s", tt.pattern, tt.path)
		}
	}
}

func TestSplitHash(t *testing.T) {
	tests := []struct {
		raw, path, hash string
	}{
		{"/layanan#hiv-aids", "/layanan", "hiv-aids"},
		{"/layanan", "/layanan", ""},
		{"#top", "", "top"},
		{"/a#b#c", "/a", "b#c"},
	}
	for _, tt := range tests {
		path, hash := SplitHash(tt.raw)
		assert.Equal(t, tt.path, path, tt.raw)
		assert.Equal(t, tt.hash, hash, tt.raw)
	}
}

func TestPatternProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	slugPattern := ParsePattern("/artikel/:slug")
	properties.Property("parameter segment binds the raw segment", prop.ForAll(
		func(slug string) bool {
			params, ok := slugPattern.Match("/artikel/" + slug)
			return ok && params.Get("slug") == slug
		},
		gen.Identifier(),
	))

	idPattern := ParsePattern("/a/:id")
	properties.Property("extra segments never match", prop.ForAll(
		func(x, y string) bool {
			_, ok := idPattern.Match("/a/" + x + "/" + y)
			return !ok
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("literal patterns match only themselves", prop.ForAll(
		func(a, b string) bool {
			p := ParsePattern("/" + a)
			_, ok := p.Match("/" + b)
			return ok == (a == b)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return !strings.HasPrefix(s, ParamMarker) }),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
