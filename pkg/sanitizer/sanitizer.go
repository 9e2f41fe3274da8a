package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reSlugInvalid = regexp.MustCompile(`[^a-z0-9_-]+`)
	reMultiHyphen = regexp.MustCompile(`-+`)
)

var slugPipeline = Pipeline{
	strings.ToLower,
	func(s string) string { return strings.ReplaceAll(s, " ", "-") },
	func(s string) string { return reSlugInvalid.ReplaceAllString(s, "") },
	func(s string) string { return reMultiHyphen.ReplaceAllString(s, "-") },
	func(s string) string { return strings.Trim(s, "-") },
}

// Slugify converts a display string into a URL-safe slug. Only ASCII letters,
// digits, hyphens and underscores survive; runs of hyphens collapse to one and
// leading or trailing hyphens are removed.
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	return slugPipeline.Apply(text)
}

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NameKey is the comparison form of a person's name: trimmed and lowercased.
func NameKey(name string) string {
	return trimAndLower(name)
}

func SanitizeEmail(email string) string {
	return trimAndLower(email)
}
