package walker

import (
	"path/filepath"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"
)

// ignoreEntry pairs a compiled .gitignore with the directory it was
// read from, since go-gitignore matches against paths relative to that
// directory rather than the scan root.
type ignoreEntry struct {
	base string
	m    *gitignore.GitIgnore
}

// ignoreChain is the ordered set of .gitignore files in scope for one
// directory: the scan root's own .gitignore first, then every
// intermediate directory's, mirroring how git itself layers ignore
// rules down a tree. Cross-file negation priority (a child .gitignore
// re-including something a parent excluded) is not modeled; each file's
// own "!" negation lines still work via go-gitignore.
type ignoreChain struct {
	entries []ignoreEntry
}

func (c *ignoreChain) ignored(path string) bool {
	for _, e := range c.entries {
		rel, err := filepath.Rel(e.base, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if e.m.MatchesPath(rel) {
			return true
		}
	}
	return false
}

// extend returns a new chain with dir's own .gitignore appended, if it
// has one. A directory with no .gitignore file extends the chain
// unchanged.
func (c *ignoreChain) extend(dir string) *ignoreChain {
	next := &ignoreChain{entries: append([]ignoreEntry(nil), c.entries...)}
	if m, err := gitignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil {
		next.entries = append(next.entries, ignoreEntry{base: dir, m: m})
	}
	return next
}

// ignoreCache lazily builds and caches one ignoreChain per directory
// visited during a walk, keyed by absolute path. Directories are always
// visited before their children under fastwalk's traversal order, so a
// child's lookup of its parent's chain never races the parent's own
// registration.
type ignoreCache struct {
	mu     sync.Mutex
	chains map[string]*ignoreChain
}

// newIgnoreCache seeds the cache with root's own chain so root's
// immediate children have something to consult.
func newIgnoreCache(root string) *ignoreCache {
	return &ignoreCache{chains: map[string]*ignoreChain{
		root: (&ignoreChain{}).extend(root),
	}}
}

// check reports whether path, a directory inside parent, is ignored by
// parent's accumulated .gitignore rules. If path is not ignored, its own
// chain (parent's rules plus its own .gitignore, if any) is registered
// for its children to consult later.
func (c *ignoreCache) check(parent, path string) bool {
	c.mu.Lock()
	chain, ok := c.chains[parent]
	c.mu.Unlock()
	if !ok {
		chain = &ignoreChain{}
	}

	if chain.ignored(path) {
		return true
	}

	next := chain.extend(path)
	c.mu.Lock()
	c.chains[path] = next
	c.mu.Unlock()
	return false
}
