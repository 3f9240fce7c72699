package sema

import (
	"strconv"
	"strings"

	"github.com/tocin-lang/tocin/internal/ast"
	"github.com/tocin-lang/tocin/internal/types"
)

// genericKey builds the instantiation-stack key for a generic
// class/function instantiation: the declared name plus its resolved
// type arguments, so `Box<int>` and `Box<string>` are tracked as
// distinct instantiations.
func genericKey(name string, args []types.TypeID) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(a)))
	}
	b.WriteByte('>')
	return b.String()
}

// guardGenericRecursion pushes key onto the active instantiation stack,
// reporting T034_GENERIC_RECURSION_LIMIT and returning false if key is
// already on the stack (unbounded recursive generic expansion, e.g. a
// class that instantiates itself with a different argument at every
// level) or the stack has grown past maxGenericRecursion.
func (a *Analyzer) guardGenericRecursion(site ast.Node, key string) bool {
	for _, k := range a.instStack {
		if k == key {
			a.errorf(site, "T034_GENERIC_RECURSION_LIMIT", "generic instantiation %q recurses into itself", key)
			return false
		}
	}
	if len(a.instStack) >= maxGenericRecursion {
		a.errorf(site, "T034_GENERIC_RECURSION_LIMIT", "generic instantiation depth exceeds %d", maxGenericRecursion)
		return false
	}
	a.instStack = append(a.instStack, key)
	return true
}

// popGenericRecursion unwinds the instantiation pushed by the matching
// guardGenericRecursion call.
func (a *Analyzer) popGenericRecursion() {
	a.instStack = a.instStack[:len(a.instStack)-1]
}
