package analysis_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"extsort/internal/analysis"
	"extsort/internal/errors"
	"extsort/pkg/types"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRules() types.RuleSet {
	return types.RuleSet{
		types.NewRule("Images", ".jpg", ".png"),
		types.NewRule("Docs", ".txt"),
	}
}

func TestScan(t *testing.T) {
	fs := afero.NewMemMapFs()
	dir := "/inbox"
	for name, content := range map[string]string{
		"b.txt": "bb",
		"a.jpg": "a",
		"noext": "",
		"c.pdf": "ccc",
	} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, name), []byte(content), 0644))
	}
	require.NoError(t, fs.MkdirAll(filepath.Join(dir, "Images"), 0755))

	entries, err := analysis.NewWithFs(fs).Scan(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a.jpg", "b.txt", "c.pdf", "noext"}, names, "directories are excluded and order is by name")
	assert.Equal(t, int64(2), entries[1].Size)
	assert.Equal(t, filepath.Join(dir, "b.txt"), entries[1].Path)
}

func TestScanUnavailable(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/file.txt", []byte("x"), 0644))

	t.Run("missing directory", func(t *testing.T) {
		_, err := analysis.NewWithFs(fs).Scan("/does/not/exist")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryUnavailable(err))
	})

	t.Run("path is a file", func(t *testing.T) {
		_, err := analysis.NewWithFs(fs).Scan("/file.txt")
		require.Error(t, err)
		assert.True(t, errors.IsDirectoryUnavailable(err))
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestScanSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real.txt"), filepath.Join(dir, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "sub"), filepath.Join(dir, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken.txt")))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(dir, "relative.txt")))

	entries, err := analysis.New().Scan(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"link.txt", "real.txt"}, names)
}

func TestClassify(t *testing.T) {
	rules := testRules()

	c := analysis.Classify(types.NewFileEntry("/d", "photo.JPG", 1), rules)
	assert.True(t, c.Matched)
	assert.Equal(t, "Images", c.Folder())

	c = analysis.Classify(types.NewFileEntry("/d", "c.pdf", 1), rules)
	assert.False(t, c.Matched)
	assert.Equal(t, types.SkipNoRule, c.Reason)
	assert.Equal(t, "", c.Folder())

	c = analysis.Classify(types.NewFileEntry("/d", "noext", 1), rules)
	assert.False(t, c.Matched)
	assert.Equal(t, types.SkipNoExtension, c.Reason)

	// Without an extension the rules are never consulted, even a rule set
	// that would match anything
	c = analysis.Classify(types.NewFileEntry("/d", ".bashrc", 1), types.RuleSet{types.NewRule("Dot", ".bashrc")})
	assert.Equal(t, types.SkipNoExtension, c.Reason)
}

func TestSummarize(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{"a.jpg", "b.JPG", "c.txt", "d.pdf", "e.pdf", "f.pdf"} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/in", name), []byte("12"), 0644))
	}

	classified, err := analysis.NewWithFs(fs).ClassifyDirectory("/in", testRules())
	require.NoError(t, err)

	summary := analysis.Summarize(classified)
	require.Len(t, summary, 3)
	assert.Equal(t, analysis.ExtensionSummary{Extension: ".pdf", Files: 3, Bytes: 6, Folder: ""}, summary[0])
	assert.Equal(t, analysis.ExtensionSummary{Extension: ".jpg", Files: 2, Bytes: 4, Folder: "Images"}, summary[1])
	assert.Equal(t, analysis.ExtensionSummary{Extension: ".txt", Files: 1, Bytes: 2, Folder: "Docs"}, summary[2])
}
