package sanitizer

import "strings"

func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// NormalizeIDs trims and de-duplicates a list of referenced record ids.
func NormalizeIDs(ids []string) []string {
	return NormalizeStringSlice(ids, strings.TrimSpace)
}

func NormalizeSlugs(values []string) []string {
	return NormalizeStringSlice(values, Slugify)
}
