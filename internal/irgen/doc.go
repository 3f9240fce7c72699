// Package irgen lowers a type-checked Tocin module to LLVM IR using
// github.com/llir/llvm, the same library the pack's ccuetoh-maqui-lang
// compiler uses for its own AOT backend (see its go.mod manifest under
// _examples/other_examples/manifests/ccuetoh-maqui-lang).
//
// Lowering follows spec.md §4.4: locals are stack slots (alloca+load/
// store, not SSA registers the lowerer manages itself — left to a later
// mem2reg pass the way a real AOT pipeline defers to opt), control flow
// becomes an explicit CFG of basic blocks, Option/Result become a
// discriminated struct lowered with a tag switch, and classes become
// LLVM struct types. Method calls resolve statically at lowering time
// (inherent method, then impl block, then superclass); a `dyn Trait`
// v-table for dynamic dispatch is not yet built (see DESIGN.md's open
// items).
//
// internal/irgen has no dependency on llir/llvm's own verifier (the
// library doesn't embed LLVM's verifier); Verify in verify.go performs
// the structural soundness checks a real backend would otherwise leave
// to `llvm-as`: every block ends in exactly one terminator, no block is
// left with an open insertion point, and no block falls off the end
// without an explicit terminator.
package irgen
