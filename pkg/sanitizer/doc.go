// Package sanitizer provides input normalization for contact and directory data.
//
// Every function is total: it never returns an error and handles empty or
// malformed input by returning a defined value, usually the empty string.
// Normalizers are idempotent unless noted otherwise.
//
// Normalization includes:
//   - Phone display: digits only, then "(801) 555-1234" style for US numbers
//   - Phone delivery: E.164 ("+18015551234") for SMS providers
//   - Slugs: lowercase, hyphenated, URL-safe ("Salt Lake City" becomes "salt-lake-city")
//   - Names: Unicode NFKC, collapsed whitespace, trimmed
//   - Slices: remove duplicates and empty values after normalization
package sanitizer
