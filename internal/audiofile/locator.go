// Package audiofile locates pronunciation recordings inside a dump's
// per-language, per-user directory tree.
package audiofile

import (
	"fmt"
	"os"
	"path/filepath"
)

// extensions in lookup priority order.
var extensions = []string{".opus", ".mp3", ".ogg"}

// Locator checks for audio files below a dump root.
type Locator struct {
	root string
}

// NewLocator creates a Locator over the dump root directory.
func NewLocator(root string) *Locator {
	return &Locator{root: root}
}

// Locate returns the dump-relative path of the recording for
// (language, username, headword), trying each accepted extension in
// order, or false when none exists. The headword must already be
// URL-decoded by the caller.
func (l *Locator) Locate(language, username, headword string) (string, bool) {
	for _, ext := range extensions {
		name := headword + ext
		if _, err := os.Stat(filepath.Join(l.root, language, username, name)); err == nil {
			return fmt.Sprintf("%s/%s/%s", language, username, name), true
		}
	}
	return "", false
}
