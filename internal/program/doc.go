// Package program caches compiled CompilationSessions keyed by absolute
// source path with a time-based expiry, the way the teacher's
// ProgramCache cached parsed TypeScript Programs keyed by tsconfig path.
//
// There is no Tocin equivalent of a tsconfig.json-rooted project (no
// SPEC_FULL.md component names a project-manifest format), so
// CreateProgram/ProgramOptions/TSConfig parsing have no home in this
// spec and were dropped (DESIGN.md); the cache itself — expiry,
// locking, GetOrCreate — is domain-independent and is kept, repurposed
// to compiler.CompilationSession.
package program
