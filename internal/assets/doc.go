// Package assets supplies the deck template and the stylesheet.
//
// Both ship embedded in the binary (templates/deck.html, styles/custom.css).
// A presentation can override either one with a directory of the same
// shape, passed as --asset-path or assets.basePath:
//
//	{basePath}/styles/{name}.css
//	{basePath}/templates/{name}.html
//
// AssetResolver reads the override first and falls back to the embedded
// copy when a file is absent. Names are bare words and files must resolve
// inside basePath, symlinks included.
//
// The template is an html/template source executed against
// pipeline.DeckData.
package assets
