package target

import "testing"

func TestMatchLiteral(t *testing.T) {
	m, err := New(map[string]string{"node_modules": "node", "target": "rust"}, nil, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	match, ok := m.Match("node_modules")
	if !ok {
		t.Fatal("expected node_modules to match")
	}
	if match.Pattern != "node_modules" || match.Profile != "node" {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestMatchSuffixGlob(t *testing.T) {
	m, err := New(nil, map[string]string{"cmake-build-*": "cpp", "*.egg-info": "python"}, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := m.Match("cmake-build-debug"); !ok {
		t.Fatal("expected cmake-build-debug to match cmake-build-*")
	}
	if _, ok := m.Match("foo.egg-info"); !ok {
		t.Fatal("expected foo.egg-info to match *.egg-info")
	}
	if _, ok := m.Match("cmake-build"); ok {
		t.Fatal("cmake-build should not match cmake-build-* (no suffix)")
	}
}

func TestMatchNoMatch(t *testing.T) {
	m, err := New(map[string]string{"node_modules": "node"}, nil, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := m.Match("src"); ok {
		t.Fatal("src should not match")
	}
}

func TestExcluded(t *testing.T) {
	m, err := New(map[string]string{"node_modules": "node"}, nil, []string{"vendor"}, false)
	if err != nil {
		t.Fatal(err)
	}

	if !m.Excluded("vendor") {
		t.Fatal("vendor should be excluded")
	}
	if m.Excluded("node_modules") {
		t.Fatal("node_modules is a target, not an exclusion")
	}
}

func TestCaseInsensitiveMatching(t *testing.T) {
	m, err := New(map[string]string{"Node_Modules": "node"}, nil, []string{"VENDOR"}, true)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := m.Match("node_modules"); !ok {
		t.Fatal("expected case-insensitive literal match")
	}
	if !m.Excluded("vendor") {
		t.Fatal("expected case-insensitive exclusion match")
	}
}

func TestCaseSensitiveByDefault(t *testing.T) {
	m, err := New(map[string]string{"node_modules": "node"}, nil, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := m.Match("Node_Modules"); ok {
		t.Fatal("expected case-sensitive matching to reject differing case")
	}
}

func TestUnparsableGlobReturnsError(t *testing.T) {
	if _, err := New(nil, map[string]string{"[": "broken"}, nil, false); err == nil {
		t.Fatal("expected an error compiling an invalid glob pattern")
	}
}
