// Package md2deck turns an annotated markdown file into a reveal.js slide deck.
//
// # Quick Start
//
// Build a presentation directory containing content.md:
//
//	b, err := md2deck.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	result, err := b.Build(ctx, "talks/q3-review")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.IndexPath, result.Slides)
//
// The output directory receives index.html, styles/custom.css, the images
// copied flat to assets/images and the scripts copied flat to scripts.
//
// # Tags
//
// Inline tags are replaced by HTML before slides are rendered:
//
//	#image-<logo.png, width=200, caption="Our logo">
//	#table-<sales.csv, style=bordered, sortable=true>
//	#chart-<sales.csv, type=line, title="Revenue", height=300>
//	#youtube-<dQw4w9WgXcQ, width=640, height=360>
//	#script-<widget.js, container=widget>
//
// Table and chart tags read CSV files from the data directory. A tag that
// cannot be resolved aborts the build; nothing is written.
//
// # Slides
//
// Each line starting with "# " opens a new slide. Content before the first
// heading becomes a leading slide. Headings inside fenced code blocks do not
// split slides.
//
// # Pipeline
//
//  1. Preprocessing (line endings, Unicode NFC)
//  2. Tag substitution (image, table, chart, video, script, in that order)
//  3. Segmentation at top-level headings
//  4. Slide rendering via Goldmark (GFM, syntax highlighting), or raw
//  5. Assembly into the deck template
//  6. Optional PDF export via headless Chrome (go-rod)
//
// # Configuration
//
// A md2deck.yaml file next to content.md overrides the defaults; see
// DefaultConfig. Pass a configuration explicitly with WithConfig:
//
//	cfg := md2deck.DefaultConfig()
//	cfg.Title = "Q3 Review"
//	cfg.Render.InlineCSS = true
//	b, err := md2deck.NewBuilder(md2deck.WithConfig(cfg))
//
// # Custom Assets
//
// Override the built-in stylesheet and deck template:
//
//	b, err := md2deck.NewBuilder(md2deck.WithAssetPath("/path/to/assets"))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── deck.html
//
// # Browser Requirements
//
// PDF export requires Chrome/Chromium. go-rod downloads a managed Chromium
// on first run when none is found. Use ROD_BROWSER_BIN to point at a custom
// binary. The Chrome sandbox is disabled when ROD_NO_SANDBOX=1, CI=true or
// ROD_BROWSER_BIN is set.
package md2deck
