package bytecode

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// RegExpCode is a regexp payload: a code block that owns its interned source
// pattern plus the compiled matcher the executor runs.
type RegExpCode struct {
	Code
	matcher *regexp2.Regexp
	flags   string
}

// Matcher returns the compiled pattern.
func (c *RegExpCode) Matcher() *regexp2.Regexp { return c.matcher }

// Flags returns the source flags the pattern was compiled with.
func (c *RegExpCode) Flags() string { return c.flags }

// Pattern returns the source pattern text.
func (s *Space) Pattern(c *RegExpCode) string {
	return s.names.Text(c.pattern)
}

// CompileRegExp compiles a JS-flavored pattern into a regexp code block with
// reference count 1. The pattern string is interned and owned by the block;
// the final Deref releases it. Flags g and y carry no engine-level options,
// they only drive caller-side lastIndex state.
func (s *Space) CompileRegExp(pattern, flags string) (*RegExpCode, error) {
	var opts regexp2.RegexOptions
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'u':
			opts |= regexp2.Unicode
		case 'g', 'y':
			// sticky/global are matcher-state flags, not compile options
		default:
			return nil, fmt.Errorf("invalid regular expression flag %q", string(f))
		}
	}
	matcher, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("compile regexp /%s/%s: %w", pattern, flags, err)
	}

	c := &RegExpCode{
		Code: Code{
			refs:    1,
			units:   uint32(len(pattern)),
			pattern: s.names.Intern(pattern),
		},
		matcher: matcher,
		flags:   flags,
	}
	return c, nil
}
