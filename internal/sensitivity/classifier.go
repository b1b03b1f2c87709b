// Package sensitivity classifies absolute paths as protected or not: a
// pure function of path segments, with no filesystem access of its own.
// The root list is seeded from github.com/adrg/xdg's base directories
// (the same package the teacher uses to locate its own state/cache/data
// homes) plus the well-known system and application install roots the
// original Rust analyzer hard-coded.
package sensitivity

import "strings"

// Classifier marks a path as sensitive if any ancestor segment matches
// one of its configured roots or application-name substrings. Matching
// is case-insensitive and substring-based on the lowercased path, the
// same heuristic the Rust original used.
type Classifier struct {
	systemSubstrings []string
	configSubstrings []string
	appSubstrings    []appPattern
}

type appPattern struct {
	substring string
	name      string
}

// Default returns a Classifier seeded with the system/config roots and
// known application substrings a complete implementation ships with.
// xdgRoots are absolute directory paths (e.g. xdg.ConfigHome,
// xdg.DataHome) folded in as additional user-configuration roots
// alongside the hard-coded ones.
func Default(xdgRoots []string) *Classifier {
	c := &Classifier{
		systemSubstrings: []string{
			"/applications/",
			"/library/",
			"/system/",
			"program files",
			"/appdata/",
		},
		configSubstrings: []string{
			"/.config/",
			"/.local/share/",
			"/.vscode/",
		},
		appSubstrings: []appPattern{
			{"/visual studio code/", "Visual Studio Code"},
			{"/vscode/", "Visual Studio Code"},
			{"/code.app/", "Visual Studio Code"},
			{"/discord/", "Discord"},
			{"/discord.app/", "Discord"},
			{"/slack/", "Slack"},
			{"/slack.app/", "Slack"},
			{"/atom/", "Atom"},
			{"/postman/", "Postman"},
			{"/figma/", "Figma"},
			{"/notion/", "Notion"},
			{"/obsidian/", "Obsidian"},
			{"/spotify/", "Spotify"},
			{"/microsoft teams/", "Microsoft Teams"},
			{"/1password/", "1Password"},
			{"/bitwarden/", "Bitwarden"},
		},
	}
	for _, root := range xdgRoots {
		if root == "" {
			continue
		}
		c.configSubstrings = append(c.configSubstrings, strings.ToLower(root)+"/")
	}
	return c
}

// Classify reports whether path lies under a sensitive root, and if so,
// the human-readable reason to surface in the UI. System paths are
// checked first, then known application substrings, then the broader
// user-configuration roots, so a path under ~/.config/discord/ is
// attributed to Discord rather than generically to "user configuration".
func (c *Classifier) Classify(path string) (sensitive bool, reason string) {
	lower := strings.ToLower(path)

	for _, root := range c.systemSubstrings {
		if strings.Contains(lower, root) {
			return true, "system or application directory"
		}
	}
	for _, app := range c.appSubstrings {
		if strings.Contains(lower, app.substring) {
			return true, "part of " + app.name + " installation"
		}
	}
	for _, root := range c.configSubstrings {
		if strings.Contains(lower, root) {
			return true, "user configuration or application data"
		}
	}
	return false, ""
}
