package colsync

import (
	"testing"
)

func TestIgnoredName(t *testing.T) {
	ignored := []string{".git", ".svn", "CVS", ".DS_Store", "Thumbs.db", "notes.txt~", "main.go.swp", ".#index.html"}
	kept := []string{"index.html", "css", "git", "swp.xml", "data.csv"}

	for _, name := range ignored {
		if !IgnoredName(name) {
			t.Errorf("expected %v to be ignored", name)
		}
	}
	for _, name := range kept {
		if IgnoredName(name) {
			t.Errorf("expected %v to be kept", name)
		}
	}
}

func TestIgnoredPath(t *testing.T) {
	if !IgnoredPath(".git/config") {
		t.Errorf("expected .git/config to be ignored")
	}
	if !IgnoredPath("css/main.css.swp") {
		t.Errorf("expected css/main.css.swp to be ignored")
	}
	if IgnoredPath("css/main.css") {
		t.Errorf("expected css/main.css to be kept")
	}
	if IgnoredPath(".") {
		t.Errorf("expected the root to be kept")
	}
}
