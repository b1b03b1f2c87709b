// Package profiles is the external collaborator spec.md §1 calls out as
// "profile definitions... specified by contract": a small, representative
// table mapping an ecosystem name to the target basenames that belong to
// it, used to resolve -p/--profiles into the target set the matcher
// compiles. It is deliberately not an exhaustive catalogue of every
// ecosystem's cache directories (spec.md scopes that detail out); the
// entries here are grounded on original_source/src/profiles/builtin.rs's
// PROFILES table, trimmed to the ecosystems most likely to be exercised.
package profiles

import (
	"fmt"
	"sort"
)

// Profile is a named bundle of target basenames for one ecosystem.
type Profile struct {
	Name        string
	Description string
	Targets     []string
}

// builtin is the compiled-in profile table, keyed by name.
var builtin = map[string]Profile{
	"node": {
		Name:        "node",
		Description: "Node.js dependencies and caches",
		Targets: []string{
			"node_modules", ".npm", ".next", ".nuxt", ".angular",
			".svelte-kit", ".vite", ".nx", ".turbo", ".parcel-cache",
			".eslintcache", ".cache", ".jest", "coverage",
		},
	},
	"python": {
		Name:        "python",
		Description: "Python caches and virtual environments",
		Targets:     []string{"__pycache__", ".pytest_cache", ".mypy_cache", ".venv", "venv", "*.egg-info"},
	},
	"rust": {
		Name:        "rust",
		Description: "Rust build artifacts",
		Targets:     []string{"target"},
	},
	"java": {
		Name:        "java",
		Description: "Java and Gradle build artifacts",
		Targets:     []string{"target", ".gradle", "out"},
	},
	"swift": {
		Name:        "swift",
		Description: "Swift/Xcode build artifacts",
		Targets:     []string{"DerivedData", ".swiftpm"},
	},
	"cpp": {
		Name:        "cpp",
		Description: "C++ CMake build artifacts",
		Targets:     []string{"CMakeFiles", "cmake-build-*"},
	},
	"dotnet": {
		Name:        "dotnet",
		Description: ".NET build artifacts",
		Targets:     []string{"obj", "TestResults", ".vs"},
	},
	"ruby": {
		Name:        "ruby",
		Description: "Ruby dependencies",
		Targets:     []string{".bundle"},
	},
}

// Names returns the sorted list of known profile names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns every built-in profile, sorted by name.
func List() []Profile {
	out := make([]Profile, 0, len(builtin))
	for _, name := range Names() {
		out = append(out, builtin[name])
	}
	return out
}

// ErrUnknownProfile is returned by Resolve for a name that is neither
// "all" nor a known profile.
var ErrUnknownProfile = fmt.Errorf("profiles: unknown profile")

// Resolve expands a list of profile names into the union of their target
// basenames, mapped to the profile each was first seen under. "all"
// expands to the union of every built-in profile's targets. An unknown
// profile name is a fatal configuration error (spec.md §7).
func Resolve(names []string) (map[string]string, error) {
	out := make(map[string]string)

	add := func(profile string, targets []string) {
		for _, t := range targets {
			if _, ok := out[t]; !ok {
				out[t] = profile
			}
		}
	}

	for _, name := range names {
		if name == "all" {
			for _, p := range List() {
				add(p.Name, p.Targets)
			}
			continue
		}
		p, ok := builtin[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
		}
		add(p.Name, p.Targets)
	}

	return out, nil
}

// SplitTargets partitions a target->profile map into literal basenames
// and "*"-wildcard glob patterns, the shape internal/target.New expects.
func SplitTargets(targets map[string]string) (literals map[string]string, globs map[string]string) {
	literals = make(map[string]string)
	globs = make(map[string]string)
	for name, profile := range targets {
		if hasWildcard(name) {
			globs[name] = profile
		} else {
			literals[name] = profile
		}
	}
	return literals, globs
}

func hasWildcard(pattern string) bool {
	for _, r := range pattern {
		if r == '*' {
			return true
		}
	}
	return false
}
