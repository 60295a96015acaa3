package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// StartsWith matches strings beginning with prefix.
func StartsWith[S ~string](prefix string) Matcher[S] {
	return leaf(
		func(a S) bool { return strings.HasPrefix(string(a), prefix) },
		fmt.Sprintf("starts with prefix %q", prefix),
		fmt.Sprintf("does not start with %q", prefix),
	)
}

// EndsWith matches strings ending with suffix.
func EndsWith[S ~string](suffix string) Matcher[S] {
	return leaf(
		func(a S) bool { return strings.HasSuffix(string(a), suffix) },
		fmt.Sprintf("ends with suffix %q", suffix),
		fmt.Sprintf("does not end with %q", suffix),
	)
}

// ContainsSubstring matches strings containing substr.
func ContainsSubstring[S ~string](substr string) Matcher[S] {
	return leaf(
		func(a S) bool { return strings.Contains(string(a), substr) },
		fmt.Sprintf("contains a substring %q", substr),
		fmt.Sprintf("does not contain a substring %q", substr),
	)
}

// EqIgnoringASCIICase matches strings equal to expected when
// ASCII letters are compared case-insensitively. Non-ASCII runes
// must match exactly.
func EqIgnoringASCIICase[S ~string](expected string) Matcher[S] {
	return leaf(
		func(a S) bool { return equalFoldASCII(string(a), expected) },
		fmt.Sprintf("is equal to %q (ignoring ASCII case)", expected),
		fmt.Sprintf("isn't equal to %q (ignoring ASCII case)", expected),
	)
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// MatchesRegex matches strings that the regular expression
// matches in full. It panics if pattern does not compile; use
// MatchesRegexp with a precompiled expression to handle errors.
func MatchesRegex[S ~string](pattern string) Matcher[S] {
	return MatchesRegexp[S](regexp.MustCompile(pattern))
}

// MatchesRegexp matches strings that re matches in full.
func MatchesRegexp[S ~string](re *regexp.Regexp) Matcher[S] {
	full := regexp.MustCompile(`^(?:` + re.String() + `)$`)
	return leaf(
		func(a S) bool { return full.MatchString(string(a)) },
		fmt.Sprintf("matches the regular expression %q", re.String()),
		fmt.Sprintf("doesn't match the regular expression %q", re.String()),
	)
}

// ContainsRegex matches strings containing a match of pattern.
// It panics if pattern does not compile.
func ContainsRegex[S ~string](pattern string) Matcher[S] {
	re := regexp.MustCompile(pattern)
	return leaf(
		func(a S) bool { return re.MatchString(string(a)) },
		fmt.Sprintf("contains the regular expression %q", pattern),
		fmt.Sprintf("doesn't contain the regular expression %q", pattern),
	)
}
