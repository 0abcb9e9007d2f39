package httpvalidator

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// PathMatcher matches request paths against one OpenAPI path template.
// Matching is segment based: "/users/{user_id}" has the literal segment
// "users" followed by a capture named "user_id".
type PathMatcher struct {
	// template is the original path template (e.g., "/users/{user_id}")
	template string

	// segments holds the literal text, or the capture name when param is set
	segments []pathSegment

	// paramNames are the capture names in order of appearance
	paramNames []string

	// order is the template's declaration index, used to break ties
	order int
}

type pathSegment struct {
	text  string
	param bool
}

// NewPathMatcher creates a PathMatcher from a template such as
// "/path/{param}/more/{param2}".
//
// Returns an error if the template is malformed: unclosed or empty braces,
// a duplicate name, or a capture that shares its segment with literal text.
func NewPathMatcher(template string) (*PathMatcher, error) {
	if template == "" {
		return nil, fmt.Errorf("path template cannot be empty")
	}

	m := &PathMatcher{template: template}
	for _, raw := range splitPath(template) {
		open := strings.IndexByte(raw, '{')
		closing := strings.IndexByte(raw, '}')
		switch {
		case open == -1 && closing == -1:
			m.segments = append(m.segments, pathSegment{text: raw})
			continue
		case open == -1 || closing == -1 || closing < open:
			return nil, fmt.Errorf("unclosed path parameter in segment %q of template %q", raw, template)
		case open != 0 || closing != len(raw)-1:
			return nil, fmt.Errorf("path parameter must occupy a whole segment, got %q in template %q", raw, template)
		}

		name := raw[1 : len(raw)-1]
		if name == "" {
			return nil, fmt.Errorf("empty path parameter in template %q", template)
		}
		if strings.ContainsAny(name, "{}") {
			return nil, fmt.Errorf("path parameter must occupy a whole segment, got %q in template %q", raw, template)
		}
		for _, existing := range m.paramNames {
			if existing == name {
				return nil, fmt.Errorf("duplicate path parameter %q in template %q", name, template)
			}
		}
		m.paramNames = append(m.paramNames, name)
		m.segments = append(m.segments, pathSegment{text: name, param: true})
	}
	return m, nil
}

// Match attempts to match a request path against this template.
// Captures are percent-decoded once; a capture must not be empty.
// Returns whether it matched and the captured parameters.
func (m *PathMatcher) Match(path string) (bool, map[string]string) {
	segs := splitPath(path)
	if len(segs) != len(m.segments) {
		return false, nil
	}

	var params map[string]string
	for i, seg := range m.segments {
		if !seg.param {
			if segs[i] != seg.text {
				return false, nil
			}
			continue
		}
		value, err := url.PathUnescape(segs[i])
		if err != nil || value == "" {
			return false, nil
		}
		if params == nil {
			params = make(map[string]string, len(m.paramNames))
		}
		params[seg.text] = value
	}
	if params == nil {
		params = map[string]string{}
	}
	return true, params
}

// Template returns the original path template.
func (m *PathMatcher) Template() string {
	return m.template
}

// ParamNames returns the capture names in order of appearance.
func (m *PathMatcher) ParamNames() []string {
	return m.paramNames
}

// splitPath splits on "/" and drops empty leading and trailing segments.
// Interior empty segments ("/a//b") are kept so they never match a
// literal or a capture.
func splitPath(p string) []string {
	segs := strings.Split(p, "/")
	start, end := 0, len(segs)
	for start < end && segs[start] == "" {
		start++
	}
	for end > start && segs[end-1] == "" {
		end--
	}
	return segs[start:end]
}

// PathMatcherSet holds the matchers for every template of a document.
type PathMatcherSet struct {
	matchers []*PathMatcher
}

// NewPathMatcherSet compiles templates, given in declaration order.
// Matchers are ordered so that fewer captures win and, on a tie,
// the earlier declared template wins.
func NewPathMatcherSet(templates []string) (*PathMatcherSet, error) {
	set := &PathMatcherSet{matchers: make([]*PathMatcher, 0, len(templates))}

	for i, template := range templates {
		m, err := NewPathMatcher(template)
		if err != nil {
			return nil, err
		}
		m.order = i
		set.matchers = append(set.matchers, m)
	}

	sort.SliceStable(set.matchers, func(i, j int) bool {
		a, b := set.matchers[i], set.matchers[j]
		if len(a.paramNames) != len(b.paramNames) {
			return len(a.paramNames) < len(b.paramNames)
		}
		return a.order < b.order
	})

	return set, nil
}

// Match finds the most specific template matching path.
// Returns the template, captured parameters, and whether a match was found.
func (s *PathMatcherSet) Match(path string) (string, map[string]string, bool) {
	for _, m := range s.matchers {
		if matched, params := m.Match(path); matched {
			return m.template, params, true
		}
	}
	return "", nil, false
}

// Templates returns the templates in matching priority order.
func (s *PathMatcherSet) Templates() []string {
	out := make([]string, len(s.matchers))
	for i, m := range s.matchers {
		out[i] = m.template
	}
	return out
}
