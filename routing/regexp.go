package routing

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// defaultFragment matches a path parameter with no explicit constraint.
const defaultFragment = "[a-zA-Z0-9-_]+"

// PatternError reports a route template whose generated regular expression
// failed to compile. It aborts the Pending to Compiled transition, so it
// can only surface at startup, never at request time.
type PatternError struct {
	// Template is the offending route template.
	Template string

	// Err is the underlying regexp compile error.
	Err error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("routing: invalid pattern for route %q: %v", e.Template, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// templatePattern builds the anchored pattern for a route template under
// the given effective constraints. The template is trimmed of surrounding
// slashes and split into segments; ":"-prefixed segments are replaced by
// their constraint fragment (defaultFragment when unconstrained), literal
// segments are spliced into the pattern as-is. Literals are deliberately
// not regexp-escaped: a literal containing metacharacters changes its own
// match semantics, which the fallback template ".*" relies on.
func templatePattern(template string, constraints map[string]string) string {
	segments := strings.Split(strings.Trim(template, "/"), "/")

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			fragment, ok := constraints[name]
			if !ok {
				fragment = defaultFragment
			}
			parts = append(parts, fragment)
		} else {
			parts = append(parts, segment)
		}
	}

	joined := strings.Join(parts, "/")
	if joined == "" {
		return "^/$"
	}
	return fmt.Sprintf("^/%s/?$", joined)
}

// compileTemplate compiles a route template into its anchored regexp,
// wrapping failures in a *PatternError.
func compileTemplate(template string, constraints map[string]string) (*regexp.Regexp, error) {
	re, err := compileCached(templatePattern(template, constraints))
	if err != nil {
		return nil, &PatternError{Template: template, Err: err}
	}
	return re, nil
}

// templateParameters zips the template segments against the path segments,
// capturing the value of every ":"-prefixed template segment. The path has
// already matched the compiled regexp, so no secondary validation is
// needed.
func templateParameters(template, path string) map[string]string {
	templateSegments := strings.Split(strings.Trim(template, "/"), "/")
	pathSegments := strings.Split(strings.Trim(path, "/"), "/")

	params := make(map[string]string)
	for i, segment := range templateSegments {
		if i >= len(pathSegments) {
			break
		}
		if name, ok := strings.CutPrefix(segment, ":"); ok {
			params[name] = pathSegments[i]
		}
	}
	return params
}

// patternCache caches compiled regexps by pattern string. The number of
// unique patterns is bounded by the number of registered routes, so the
// cache grows to a fixed size and stays there; identical templates across
// recompilations share one compiled regexp.
var patternCache sync.Map

// compileCached returns a cached *regexp.Regexp for the given pattern,
// compiling and caching it on first use.
func compileCached(pattern string) (*regexp.Regexp, error) {
	if v, ok := patternCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := patternCache.LoadOrStore(pattern, re)

	return actual.(*regexp.Regexp), nil
}
