// Package assets provides the stylesheets injected into standalone BFM pages.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled in with go:embed
//	    ├── FilesystemLoader  - {dir}/{name}.css from a user directory
//	    └── StyleResolver     - custom directory first, embedded fallback
//
// The built-in styles cover the classes the renderer binds to BFM
// constructs: callouts, asides, tabs, details, embeds, mentions, hashtags,
// task items and modifiers, the table of contents and endnotes.
//
// # Security
//
// Style names are validated to prevent path traversal. FilesystemLoader
// reads through os.Root, which refuses links leaving its directory.
package assets
