package corpus

import (
	"regexp"
	"strings"
)

// Rule extracts a token (label code or speaker ID) from an instance name.
// Rules are total: a name the rule cannot parse yields "", which the
// assembler then rejects as an unknown label or speaker rather than
// guessing.
type Rule func(name string) string

// CharAt extracts the single character at index i. Negative i counts back
// from the end of the name.
func CharAt(i int) Rule {
	return func(name string) string {
		j := i
		if j < 0 {
			j += len(name)
		}
		if j < 0 || j >= len(name) {
			return ""
		}
		return name[j : j+1]
	}
}

// Slice extracts the characters in [lo, hi).
func Slice(lo, hi int) Rule {
	return func(name string) string {
		if lo < 0 || hi <= lo || hi > len(name) {
			return ""
		}
		return name[lo:hi]
	}
}

// SliceFromEnd extracts the characters in [len-lo, len-hi), both offsets
// counted back from the end of the name.
func SliceFromEnd(lo, hi int) Rule {
	return func(name string) string {
		if hi < 0 || lo <= hi || lo > len(name) {
			return ""
		}
		return name[len(name)-lo : len(name)-hi]
	}
}

// Prefix extracts the first n characters.
func Prefix(n int) Rule {
	return func(name string) string {
		if n <= 0 || n > len(name) {
			return ""
		}
		return name[:n]
	}
}

// Suffix extracts the last n characters.
func Suffix(n int) Rule {
	return func(name string) string {
		if n <= 0 || n > len(name) {
			return ""
		}
		return name[len(name)-n:]
	}
}

// BeforeFirst extracts everything before the first occurrence of sep.
func BeforeFirst(sep string) Rule {
	return func(name string) string {
		i := strings.Index(name, sep)
		if i <= 0 {
			return ""
		}
		return name[:i]
	}
}

// AfterLast extracts everything after the last occurrence of sep.
func AfterLast(sep string) Rule {
	return func(name string) string {
		i := strings.LastIndex(name, sep)
		if i < 0 || i+len(sep) >= len(name) {
			return ""
		}
		return name[i+len(sep):]
	}
}

// Match extracts capture group g of the first match of pattern. The pattern
// must compile; use compileMatch for patterns from external definitions.
func Match(pattern string, g int) Rule {
	return matchRule(regexp.MustCompile(pattern), g)
}

func compileMatch(pattern string, g int) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return matchRule(re, g), nil
}

func matchRule(re *regexp.Regexp, g int) Rule {
	return func(name string) string {
		m := re.FindStringSubmatch(name)
		if m == nil || g < 0 || g >= len(m) {
			return ""
		}
		return m[g]
	}
}
