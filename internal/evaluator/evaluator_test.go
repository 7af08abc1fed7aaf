package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-lang/feel/internal/evaluator"
	"github.com/feel-lang/feel/internal/parser"
)

// evalExpr parses and evaluates text against an empty global scope, mirroring
// spec.md §8's testable-properties table.
func evalExpr(t *testing.T, text string) evaluator.Value {
	t.Helper()
	ast, diags := parser.ParseExpression(text)
	require.Empty(t, diags, "unexpected parse errors for %q", text)
	it := evaluator.New()
	return it.Eval(ast, it.NewGlobalEnv(nil))
}

func TestArithmeticAndComparison(t *testing.T) {
	assert.Equal(t, "7", evalExpr(t, "1 + 2 * 3").(*evaluator.Number).Value.RatString())
	assert.Equal(t, evaluator.True, evalExpr(t, "5 > 3"))
	assert.Equal(t, evaluator.False, evalExpr(t, "5 < 3"))
}

func TestThreeValuedLogic(t *testing.T) {
	assert.Equal(t, evaluator.False, evalExpr(t, "false and 1"))
	assert.Equal(t, evaluator.NullValue, evalExpr(t, "true and 1"))
	assert.Equal(t, evaluator.True, evalExpr(t, "true or 1"))
	assert.Equal(t, evaluator.NullValue, evalExpr(t, "false or 1"))
}

func TestDurationArithmeticExact(t *testing.T) {
	diff := evalExpr(t, `date("2012-12-25") - date("2012-12-24")`)
	dtd, ok := diff.(*evaluator.DayTimeDuration)
	require.True(t, ok)
	assert.Equal(t, int64(24*60*60*1e9), dtd.Nanos)
}

func TestDateAddMonthDuration(t *testing.T) {
	result := evalExpr(t, `date("2023-10-06") + duration("P1M")`)
	assert.Equal(t, "2023-11-06", result.(*evaluator.Date).Inspect())
}

func TestForLoopWithPartial(t *testing.T) {
	result := evalExpr(t, `for i in 0..4 return if i = 0 then 1 else i * partial[-1]`)
	list, ok := result.(*evaluator.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 5)
	want := []string{"1", "1", "2", "6", "24"}
	for i, w := range want {
		assert.Equal(t, w, list.Elements[i].(*evaluator.Number).Value.RatString())
	}
}

func TestInWithBareRange(t *testing.T) {
	assert.Equal(t, evaluator.True, evalExpr(t, "5 in (> 0, <10)"))
}

func TestInAgainstNullCoercesToFalse(t *testing.T) {
	assert.Equal(t, evaluator.False, evalExpr(t, `"d" in null`))
}

func TestSomeAndEveryVacuousTruth(t *testing.T) {
	assert.Equal(t, evaluator.True, evalExpr(t, "every x in [] satisfies x > 0"))
	assert.Equal(t, evaluator.False, evalExpr(t, "some x in [] satisfies x > 0"))
}

func TestFilterByPredicate(t *testing.T) {
	result := evalExpr(t, `[1,2,3][item >= 2]`)
	list, ok := result.(*evaluator.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 2)
	assert.Equal(t, "2", list.Elements[0].(*evaluator.Number).Value.RatString())
	assert.Equal(t, "3", list.Elements[1].(*evaluator.Number).Value.RatString())
}

func TestFilterFieldShadowing(t *testing.T) {
	result := evalExpr(t, `[{item: 1}, {item: 2}][item >= 2]`)
	list, ok := result.(*evaluator.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 1)
}

func TestFilterByNegativeIndex(t *testing.T) {
	result := evalExpr(t, `[1,2,3][-1]`)
	assert.Equal(t, "3", result.(*evaluator.Number).Value.RatString())
}

func TestPathProjectionOverList(t *testing.T) {
	result := evalExpr(t, `[{a:1},{a:2},{a:3}].a`)
	list, ok := result.(*evaluator.List)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	assert.Equal(t, "2", list.Elements[1].(*evaluator.Number).Value.RatString())
}

func TestFunctionDefinitionAndInvocation(t *testing.T) {
	result := evalExpr(t, `{add: function(x) x + 5}.add(10)`)
	assert.Equal(t, "15", result.(*evaluator.Number).Value.RatString())
}

func TestContextLiteralEntriesSeeEachOther(t *testing.T) {
	result := evalExpr(t, `({foo: function(x) x + 5, bar: foo(5)}).bar`)
	assert.Equal(t, "10", result.(*evaluator.Number).Value.RatString())
}

func TestUnknownVariableWarnsAndYieldsNull(t *testing.T) {
	it := evaluator.New()
	ast, diags := parser.ParseExpression("missing + 1")
	require.Empty(t, diags)
	val := it.Eval(ast, it.NewGlobalEnv(nil))
	assert.Equal(t, evaluator.NullValue, val)
	require.Len(t, it.Warnings, 1)
	assert.Equal(t, evaluator.NoVariableFound, it.Warnings[0].Kind)
}
