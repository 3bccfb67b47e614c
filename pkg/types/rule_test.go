package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		".jpg":    ".jpg",
		"JPG":     ".jpg",
		" .Png ":  ".png",
		"..txt":   ".txt",
		"":        "",
		".":       "",
		"  ":      "",
		".tar.GZ": ".tar.gz",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeExtension(in), "input %q", in)
	}
}

func TestNewRule(t *testing.T) {
	r := NewRule("Images", ".JPG", "jpg", ".png", "", ".")
	assert.Equal(t, "Images", r.FolderName)
	assert.Equal(t, []string{".jpg", ".png"}, r.Extensions)

	assert.True(t, r.Has(".jpg"))
	assert.True(t, r.Has(".PNG"))
	assert.True(t, r.Has("png"))
	assert.False(t, r.Has(".gif"))
	assert.False(t, r.Has(""))
}

func TestRuleSetMatch(t *testing.T) {
	rules := RuleSet{
		NewRule("Images", ".jpg", ".png"),
		NewRule("Docs", ".txt"),
		NewRule("Notes", ".txt", ".md"),
	}

	t.Run("first match wins", func(t *testing.T) {
		r, ok := rules.Match(".txt")
		assert.True(t, ok)
		assert.Equal(t, "Docs", r.FolderName)
	})

	t.Run("later rule still reachable", func(t *testing.T) {
		r, ok := rules.Match(".MD")
		assert.True(t, ok)
		assert.Equal(t, "Notes", r.FolderName)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := rules.Match(".pdf")
		assert.False(t, ok)
	})

	t.Run("empty rule set", func(t *testing.T) {
		_, ok := RuleSet{}.Match(".jpg")
		assert.False(t, ok)
	})
}
