// Package genre provides the canonical genre vocabulary and tag normalization.
package genre

// Canonical is the fixed genre vocabulary offered by the presentation layer.
// Tags outside this list can still appear in loaded files and are preserved.
var Canonical = []string{
	"Fiction",
	"Action",
	"Adventure",
	"Comedy",
	"Horror",
	"Non-Fiction",
	"Sci-Fi",
	"Fantasy",
	"Mystery",
	"Thriller",
	"Romance",
	"Biography",
	"History",
	"Science",
	"Self-Help",
	"Other",
}

// CanonicalAliases maps slugified legacy variations to canonical tags.
// "Science Fiction" is the tag older library files carry; every load
// remaps it to "Sci-Fi".
var CanonicalAliases = map[string]string{
	"science-fiction": "Sci-Fi",
	"scifi":           "Sci-Fi",
	"sf":              "Sci-Fi",
	"nonfiction":      "Non-Fiction",
	"self-help":       "Self-Help",
	"selfhelp":        "Self-Help",
}

// canonicalBySlug resolves the slug of each canonical tag back to its
// display form, so normalization is case- and punctuation-insensitive.
var canonicalBySlug = func() map[string]string {
	m := make(map[string]string, len(Canonical))
	for _, name := range Canonical {
		m[Slugify(name)] = name
	}
	return m
}()

// Normalize maps a raw tag to its canonical form.
// Alias matching is case-insensitive; unknown tags are returned unchanged
// so loaded data is never destroyed. Normalize is idempotent.
func Normalize(raw string) string {
	slug := Slugify(raw)
	if slug == "" {
		return raw
	}
	if canonical, ok := CanonicalAliases[slug]; ok {
		return canonical
	}
	if canonical, ok := canonicalBySlug[slug]; ok {
		return canonical
	}
	return raw
}

// NormalizeAll normalizes every tag in order, dropping duplicates that
// collapse to the same canonical form.
func NormalizeAll(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := Normalize(t)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// IsCanonical reports whether tag is part of the fixed vocabulary.
func IsCanonical(tag string) bool {
	_, ok := canonicalBySlug[Slugify(tag)]
	return ok
}
