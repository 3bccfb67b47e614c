// Package testutils holds fixtures shared by the package tests.
package testutils

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(dir, 0755))
	for name, content := range files {
		err := afero.WriteFile(fs, filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateTestFilesWithDefault creates the mixed inbox used across tests:
// two matching files, one without a rule and one without an extension.
func CreateTestFilesWithDefault(t *testing.T, fs afero.Fs, dir string) {
	files := map[string]string{
		"a.jpg": "image content",
		"b.txt": "text content",
		"c.pdf": "pdf content",
		"noext": "plain",
	}
	CreateTestFilesWithContent(t, fs, dir, files)
}

// DefaultRulesJSON matches CreateTestFilesWithDefault: .jpg/.png go to
// Images and .txt goes to Docs.
const DefaultRulesJSON = `{"rules": [
    {"extensions": [".jpg", ".png"], "folder_name": "Images"},
    {"extensions": [".txt"], "folder_name": "Docs"}
]}`

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}

// VerifyNoLeaks fails the test if goroutines started by it are still running.
//
//	func TestWatcher(t *testing.T) {
//	    defer testutils.VerifyNoLeaks(t)
//	    ...
//	}
func VerifyNoLeaks(t *testing.T, options ...goleak.Option) {
	t.Helper()
	goleak.VerifyNone(t, append(defaultLeakOptions(), options...)...)
}

// defaultLeakOptions ignores goroutines owned by the testing framework
func defaultLeakOptions() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("testing.tRunner.func1"),
		goleak.IgnoreTopFunction("testing.runTests"),
		goleak.IgnoreTopFunction("testing.(*M).Run"),
	}
}
