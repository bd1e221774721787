// Package bfm parses BFM, a Markdown dialect with directive blocks,
// footnotes, task markers and modifiers, mentions and hashtags, into an
// enriched syntax tree.
//
// # Quick Start
//
// Create a processor, process a document and render it:
//
//	proc, err := bfm.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := proc.Process(ctx, []byte("@details summary=Hi\nBody\n@enddetails\n"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html, err := proc.RenderHTML(ctx, doc)
//
// The tree (doc.Tree) uses the node kinds of package ast. Every node the
// pipeline creates is marked Synthetic; every node that has an output form
// carries a render Binding.
//
// # Processing Pipeline
//
// Process runs these stages:
//
//  1. Source preparation (line endings, byte order mark, front matter split)
//  2. Host Markdown parse via goldmark with the BFM block and inline parsers
//  3. Directive body resolution: container bodies are re-parsed with the
//     same grammar, to any depth
//  4. Fact collection and materialization (task states, TOC, bindings)
//  5. Footnote resolution into one endnotes section
//  6. Optional resolver post-pass for embeds and mentions
//
// # Configuration
//
// Use functional options to customize the grammar:
//
//	proc, err := bfm.New(
//	    bfm.WithContainers("note"),
//	    bfm.WithLeaves("chart"),
//	    bfm.WithTOCDepth(2),
//	)
//
// or load a YAML file with LoadConfig and pass it with WithConfig. The
// configuration is validated once by New and shared by every document the
// Processor handles.
//
// # Beyond the Tree
//
// A Processor also extracts metadata (word count, reading time, tasks, tags,
// links), re-serializes source in normalized form (Format) and merges
// several documents with a conflict strategy (Merge).
//
// # Parallel Processing
//
// A Processor is safe for concurrent use. ProcessorPool bounds how many
// documents are in flight:
//
//	pool := bfm.NewProcessorPool(bfm.ResolvePoolSize(0))
//	defer pool.Close()
//
//	proc, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(proc)
package bfm
