// Package pkg provides the libraries behind overlay, a placement engine for
// anchored tooltips.
//
// # Overview
//
// A tooltip body is positioned next to its trigger on a preferred side. When
// the body would be clipped by the viewport the engine tries the other sides
// in a fixed order (top, bottom, right, left), and when no side fits it caps
// the body width so the text wraps and searches again. The pkg directory is
// organized into four areas:
//
//  1. Engine: [placement], [viewport], [geom]
//  2. Page model: [dom], [style], [tooltip], [ids], [scene]
//  3. Outputs: [render/sink], [render], [pipeline], [server], [script]
//  4. Infrastructure: [cache], [config], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	TOML/JSON scene
//	       ↓
//	  [scene] package (parse, validate, build a document)
//	       ↓
//	  [tooltip] package (show, hide, reveal, reposition on resize)
//	       ↓
//	  [placement] package (fallback search against the [viewport])
//	       ↓
//	  [render/sink] package (SVG, JSON, DOT)
//
// [pipeline] wraps these steps with a [cache] for the CLI and the HTTP
// [server].
//
// # Quick Start
//
//	s, _ := scene.Load("page.toml")
//	page, _ := scene.Build(s, scene.BuildOptions{})
//	for _, p := range page.ShowAll(ctx) {
//	    fmt.Println(p.ID, p.Result.Side, p.Style)
//	}
//
// Placing against a custom element model only needs the two interfaces of
// [placement]:
//
//	solver := placement.NewSolver(viewport.New(1024, 768))
//	res := solver.Place(anchor, overlay, placement.Top)
//
// # Testing
//
//	go test ./pkg/...
//
// [placement]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/placement
// [viewport]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/viewport
// [geom]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/geom
// [dom]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/dom
// [style]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/style
// [tooltip]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/tooltip
// [ids]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/ids
// [scene]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/scene
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/render/sink
// [render]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/server
// [script]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/script
// [cache]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/overlay/pkg/buildinfo
package pkg
