// Package pipeline implements the markdown-to-deck conversion stages.
//
// The stages run strictly in order:
//   - Markdown preprocessing (line endings, Unicode normalization)
//   - Tag substitution: every #kind-<...> tag is resolved to an HTML fragment
//   - Slide segmentation at top-level headings
//   - Slide rendering (goldmark, or verbatim in raw mode)
//   - Deck assembly through the reveal.js HTML template
//
// Writing artifacts, copying assets and PDF export are handled by the root
// md2deck package. Nothing in this package touches the filesystem except the
// CSV reads performed by table and chart resolvers.
package pipeline
