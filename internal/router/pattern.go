package router

import "strings"

// ParamMarker prefixes a parameter segment in a route pattern, as in /artikel/:slug.
const ParamMarker = ":"

// Kind tells literal patterns apart from parametric ones.
type Kind int

const (
	// Literal patterns contain no parameter segments and only match
	// themselves.
	Literal Kind = iota
	// Parametric patterns bind one or more path segments to names.
	Parametric
)

func (k Kind) String() string {
	if k == Parametric {
		return "parametric"
	}
	return "literal"
}

// Params maps parameter names declared in a pattern to the path segments they
// matched. Values are never coerced.
type Params map[string]string

// Get returns the value bound to name, or "" when absent.
func (p Params) Get(name string) string {
	return p[name]
}

type segment struct {
	value string
	param bool
}

// Pattern is a parsed route template made of literal and parameter segments.
type Pattern struct {
	raw      string
	kind     Kind
	segments []segment
	params   []string
}

// ParsePattern parses a path template. Parsing never fails: a pattern whose
// shape matches no real path simply never matches.
func ParsePattern(raw string) Pattern {
	p := Pattern{raw: raw, kind: Literal}
	for _, s := range strings.Split(raw, "/") {
		if strings.HasPrefix(s, ParamMarker) {
			name := strings.TrimPrefix(s, ParamMarker)
			p.segments = append(p.segments, segment{value: name, param: true})
			p.params = append(p.params, name)
			p.kind = Parametric
			continue
		}
		p.segments = append(p.segments, segment{value: s})
	}
	return p
}

// String returns the template the pattern was parsed from.
func (p Pattern) String() string { return p.raw }

// Kind reports whether the pattern is literal or parametric.
func (p Pattern) Kind() Kind { return p.kind }

// Params returns the parameter names in declaration order.
func (p Pattern) Params() []string {
	out := make([]string, len(p.params))
	copy(out, p.params)
	return out
}

// Match compares path against the pattern segment by segment. Segment counts
// must agree; literal segments must be equal; parameter segments bind
// whatever value sits in their position.
func (p Pattern) Match(path string) (Params, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}
	params := Params{}
	for i, seg := range p.segments {
		if seg.param {
			params[seg.value] = parts[i]
			continue
		}
		if seg.value != parts[i] {
			return nil, false
		}
	}
	return params, true
}

// SplitHash splits raw on the first "#" into a path and a hash without the
// leading "#". The hash is empty when raw has none.
func SplitHash(raw string) (path, hash string) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		return raw[:i], raw[i+1:]
	}
	return raw, ""
}
