package pipeline

import (
	"sort"
	"strings"
)

// Platform describes a mention target that can be linked.
type Platform struct {
	Label string
	// URL builds the profile URL for an identifier, or returns "" when the
	// identifier cannot be linked.
	URL func(id string) string
}

func profileURL(prefix string) func(string) string {
	return func(id string) string { return prefix + id }
}

// mastodonURL maps user@instance to https://instance/@user.
func mastodonURL(id string) string {
	user, instance, ok := strings.Cut(id, "@")
	if !ok || user == "" || instance == "" {
		return ""
	}
	return "https://" + instance + "/@" + user
}

var platforms = map[string]Platform{
	"github":   {Label: "GitHub", URL: profileURL("https://github.com/")},
	"twitter":  {Label: "Twitter", URL: profileURL("https://twitter.com/")},
	"bluesky":  {Label: "Bluesky", URL: profileURL("https://bsky.app/profile/")},
	"mastodon": {Label: "Mastodon", URL: mastodonURL},
	"npm":      {Label: "npm", URL: profileURL("https://www.npmjs.com/package/")},
	"linkedin": {Label: "LinkedIn", URL: profileURL("https://www.linkedin.com/in/")},
}

// LookupPlatform returns the built-in platform named name.
func LookupPlatform(name string) (Platform, bool) {
	p, ok := platforms[name]
	return p, ok
}

// Platforms returns the built-in platform names, sorted.
func Platforms() []string {
	names := make([]string, 0, len(platforms))
	for name := range platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
