package types

import "strings"

// Rule routes files whose extension is in Extensions into FolderName.
// Extensions are normalized (lowercase, leading dot) and unique.
type Rule struct {
	Extensions []string `json:"extensions" yaml:"extensions" toml:"extensions"`
	FolderName string   `json:"folder_name" yaml:"folder_name" toml:"folder_name"`
}

// NewRule builds a Rule, normalizing and de-duplicating extensions.
// Extensions that normalize to nothing are dropped.
func NewRule(folderName string, extensions ...string) Rule {
	r := Rule{FolderName: folderName}
	seen := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		n := NormalizeExtension(ext)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		r.Extensions = append(r.Extensions, n)
	}
	return r
}

// Has reports whether ext (in any case, with or without dot) belongs to the rule.
func (r Rule) Has(ext string) bool {
	n := NormalizeExtension(ext)
	if n == "" {
		return false
	}
	for _, e := range r.Extensions {
		if e == n {
			return true
		}
	}
	return false
}

// RuleSet is an ordered list of rules evaluated first-match-wins.
type RuleSet []Rule

// Match returns the first rule containing ext.
func (rs RuleSet) Match(ext string) (Rule, bool) {
	for _, r := range rs {
		if r.Has(ext) {
			return r, true
		}
	}
	return Rule{}, false
}

// NormalizeExtension lowercases ext and ensures a single leading dot.
// Blank input and a bare dot normalize to "".
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}
