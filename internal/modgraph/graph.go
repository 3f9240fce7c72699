package modgraph

import (
	"fmt"

	"github.com/tocin-lang/tocin/internal/diagnostics"
)

// color is a DFS visitation mark: white (unvisited), grey (on the
// current recursion stack), black (fully explored).
type color int

const (
	white color = iota
	grey
	black
)

// Loader parses and forward-scans one module: it returns every import
// path the module names (as raw a::b::c segments), without needing to
// have resolved or analyzed any of them yet. internal/compiler supplies
// the real implementation, backed by the lexer/parser; modgraph only
// knows about paths and colors so it has no dependency on either.
type Loader func(absPath string) (imports [][]string, err error)

// Graph walks a compilation unit's transitive import graph, resolving
// each import through a Resolver and detecting cycles via DFS with
// grey/black marking, per spec.md's name-resolution section.
type Graph struct {
	Resolver *Resolver
	Sink     *diagnostics.Sink
	load     Loader

	colors map[string]color
	stack  []string
}

// NewGraph builds a Graph rooted at resolver's search path, reporting
// diagnostics to sink and calling load to discover each module's
// imports.
func NewGraph(resolver *Resolver, sink *diagnostics.Sink, load Loader) *Graph {
	return &Graph{
		Resolver: resolver,
		Sink:     sink,
		load:     load,
		colors:   make(map[string]color),
	}
}

// Walk performs a DFS from entryPath over the import graph. A cycle is
// a fatal condition per spec.md's failure model ("cyclic imports that
// would cause infinite recursion abort the pass"): Walk reports
// G001_IMPORT_CYCLE at Fatal severity and returns a non-nil error the
// caller must treat as aborting the compilation, rather than continuing
// to collect further diagnostics the way an Error-severity record would.
func (g *Graph) Walk(entryPath string) error {
	key := CanonicalKey(entryPath)
	return g.visit(key)
}

func (g *Graph) visit(key string) error {
	switch g.colors[key] {
	case grey:
		cyclePath := append(append([]string{}, g.stack...), key)
		msg := formatCycle(cyclePath)
		g.Sink.Reportf(diagnostics.SeverityFatal, "G001_IMPORT_CYCLE", key, 0, 0,
			"cyclic module import: %s", msg)
		return fmt.Errorf("modgraph: cyclic import: %s", msg)
	case black:
		return nil
	}

	g.colors[key] = grey
	g.stack = append(g.stack, key)

	imports, err := g.load(key)
	if err != nil {
		g.colors[key] = black
		g.stack = g.stack[:len(g.stack)-1]
		return err
	}

	for _, path := range imports {
		target, ok := g.Resolver.Resolve(path)
		if !ok {
			g.Sink.Reportf(diagnostics.SeverityError, "G002_MODULE_NOT_FOUND", key, 0, 0,
				"cannot find module %q on TOCIN_MODULE_PATH", joinPath(path))
			continue
		}
		targetKey := CanonicalKey(target)
		if err := g.visit(targetKey); err != nil {
			g.colors[key] = black
			g.stack = g.stack[:len(g.stack)-1]
			return err
		}
	}

	g.colors[key] = black
	g.stack = g.stack[:len(g.stack)-1]
	return nil
}

func joinPath(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "::"
		}
		out += seg
	}
	return out
}

func formatCycle(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	return out
}
