// Package modgraph resolves `import path::to::module` statements to
// source files on TOCIN_MODULE_PATH, caches the parsed+analyzed result
// of each module the way internal/program caches a TypeScript Program,
// and detects import cycles across a compilation unit's transitive
// import graph.
package modgraph
