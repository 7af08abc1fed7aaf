package feel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-lang/feel/internal/evaluator"
	"github.com/feel-lang/feel/pkg/feel"
)

func TestEvaluateExpressionArithmetic(t *testing.T) {
	e := feel.New(feel.Options{})
	res := e.EvaluateExpression("1 + 2 * 3", nil)
	require.True(t, res.Success)
	assert.Equal(t, "7", res.Value.(*evaluator.Number).Value.RatString())
	assert.NotEmpty(t, res.RequestID)
}

func TestEvaluateExpressionUsesSuppliedVariables(t *testing.T) {
	e := feel.New(feel.Options{})
	vars := map[string]evaluator.Value{"age": evaluator.NumberFromInt64(20)}
	res := e.EvaluateExpression("age >= 18", vars)
	require.True(t, res.Success)
	assert.Equal(t, evaluator.True, res.Value)
}

func TestEvaluateExpressionSurfacesWarningForUnknownVariable(t *testing.T) {
	e := feel.New(feel.Options{})
	res := e.EvaluateExpression("unknownVar", nil)
	require.True(t, res.Success)
	assert.Equal(t, evaluator.NullValue, res.Value)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, evaluator.NoVariableFound, res.Warnings[0].Kind)
}

func TestEvaluateExpressionParseFailure(t *testing.T) {
	e := feel.New(feel.Options{})
	res := e.EvaluateExpression("1 +", nil)
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestEvaluateUnaryTests(t *testing.T) {
	e := feel.New(feel.Options{})
	res := e.EvaluateUnaryTests("> 0", evaluator.NumberFromInt64(5), nil)
	require.True(t, res.Success)
	assert.Equal(t, evaluator.True, res.Value)
}

func TestRegisterFunctionExtendsBuiltins(t *testing.T) {
	e := feel.New(feel.Options{})
	e.RegisterFunction("double", []string{"x"}, func(args []evaluator.Value) evaluator.Value {
		n, ok := args[0].(*evaluator.Number)
		if !ok {
			return evaluator.NullValue
		}
		return evaluator.EvalArithmetic("*", n, evaluator.NumberFromInt64(2))
	})

	res := e.EvaluateExpression("double(21)", nil)
	require.True(t, res.Success)
	assert.Equal(t, "42", res.Value.(*evaluator.Number).Value.RatString())
}
