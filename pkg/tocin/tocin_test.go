package tocin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReturnsAST(t *testing.T) {
	result, err := Parse("def add(a: int, b: int) -> int:\n    return a + b\n", nil)
	require.NoError(t, err)
	require.False(t, result.HasErrors())
	require.NotNil(t, result.AST)
	require.Nil(t, result.IR)
}

func TestCheckCatchesTypeErrors(t *testing.T) {
	result, err := Check(context.Background(), "def add(a: int, b: int) -> int:\n    return a + \"oops\"\n", nil)
	require.Error(t, err)
	require.True(t, result.HasErrors())
}

func TestCompileProducesIR(t *testing.T) {
	opts := NewBuilder().WithFilePath("sum.to").MustBuild()
	result, err := Compile(context.Background(), "def add(a: int, b: int) -> int:\n    return a + b\n", opts)
	require.NoError(t, err)
	require.NotNil(t, result.IR)
	require.Contains(t, result.IR.String(), "define i64 @add")
}

func TestOptionsValidateRejectsBadOptLevel(t *testing.T) {
	_, err := NewBuilder().WithOptLevel(9).Build()
	require.Error(t, err)
}
