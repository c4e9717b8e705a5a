package colsync

import (
	"path/filepath"
	"testing"
)

type remotePathTest struct {
	root   string
	p      string
	result string
	fails  bool
}

func TestRelativeRemotePath(t *testing.T) {
	tests := []remotePathTest{
		{root: "/db/apps/shop", p: "/db/apps/shop", result: "."},
		{root: "/db/apps/shop", p: "/db/apps/shop/", result: "."},
		{root: "/db/apps/shop", p: "/db/apps/shop/css/main.css", result: "css/main.css"},
		{root: "/db/apps/shop/", p: "/db/apps/shop/index.html", result: "index.html"},
		{root: "/db/apps/shop", p: "/db/apps/shopping", fails: true},
		{root: "/db/apps/shop", p: "/db/apps", fails: true},
		{root: "/", p: "/", result: "."},
		{root: "/", p: "/db/apps", result: "db/apps"},
	}

	for _, test := range tests {
		result, err := RelativeRemotePath(test.root, test.p)
		if test.fails {
			if err == nil {
				t.Errorf("expected error for %v under %v, got %v", test.p, test.root, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("cannot relativize %v under %v: %v", test.p, test.root, err)
		} else if result != test.result {
			t.Errorf("do not match: %v %v (from %v under %v)", test.result, result, test.p, test.root)
		}
	}
}

func TestJoinRemotePath(t *testing.T) {
	tests := [][3]string{
		{"/db/apps/shop", ".", "/db/apps/shop"},
		{"/db/apps/shop", "", "/db/apps/shop"},
		{"/db/apps/shop/", "css/main.css", "/db/apps/shop/css/main.css"},
		{"/db/apps/shop", "index.html", "/db/apps/shop/index.html"},
		{"/", ".", "/"},
		{"/", "db/apps", "/db/apps"},
	}

	for _, test := range tests {
		result := JoinRemotePath(test[0], test[1])
		if result != test[2] {
			t.Errorf("do not match: %v %v (from %v + %v)", test[2], result, test[0], test[1])
		}
	}
}

func TestEncodeRemotePath(t *testing.T) {
	tests := [][2]string{
		{"/db/apps/shop", "/db/apps/shop"},
		{"/db/apps/my shop/a b.xml", "/db/apps/my%20shop/a%20b.xml"},
		{"/db/apps/shop/100%.xml", "/db/apps/shop/100%25.xml"},
	}

	for _, test := range tests {
		result := EncodeRemotePath(test[0])
		if result != test[1] {
			t.Errorf("do not match: %v %v (from %v)", test[1], result, test[0])
		}
	}
}

func TestLocalRelativePath(t *testing.T) {
	root := filepath.Join("home", "user", "mirror")

	result, err := LocalRelativePath(root, filepath.Join(root, "css", "main.css"))
	if err != nil {
		t.Errorf("cannot relativize: %v", err)
	} else if result != "css/main.css" {
		t.Errorf("do not match: css/main.css %v", result)
	}

	_, err = LocalRelativePath(root, filepath.Join("home", "user", "elsewhere", "x"))
	if err == nil {
		t.Errorf("expected error for path outside root")
	}
}
