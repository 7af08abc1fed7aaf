package embed_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feel-lang/feel/internal/evaluator"
	"github.com/feel-lang/feel/pkg/embed"
)

func TestDefaultMapperToInternalScalars(t *testing.T) {
	m := embed.DefaultMapper{}

	v, ok := m.ToInternal(nil)
	require.True(t, ok)
	assert.Equal(t, evaluator.NullValue, v)

	v, ok = m.ToInternal(true)
	require.True(t, ok)
	assert.Equal(t, evaluator.True, v)

	v, ok = m.ToInternal("hi")
	require.True(t, ok)
	assert.Equal(t, "hi", v.(*evaluator.String).Value)

	v, ok = m.ToInternal(42)
	require.True(t, ok)
	n := v.(*evaluator.Number)
	assert.Equal(t, "42", n.Value.RatString())
}

func TestDefaultMapperToInternalSliceAndMap(t *testing.T) {
	m := embed.DefaultMapper{}

	v, ok := m.ToInternal([]int{1, 2, 3})
	require.True(t, ok)
	list := v.(*evaluator.List)
	assert.Len(t, list.Elements, 3)

	v, ok = m.ToInternal(map[string]interface{}{"b": 2, "a": 1})
	require.True(t, ok)
	ctx := v.(*evaluator.Context)
	require.Len(t, ctx.Entries, 2)
	assert.Equal(t, "a", ctx.Entries[0].Name)
	assert.Equal(t, "b", ctx.Entries[1].Name)
}

func TestDefaultMapperFromInternal(t *testing.T) {
	m := embed.DefaultMapper{}

	host, ok := m.FromInternal(evaluator.NullValue)
	require.True(t, ok)
	assert.Nil(t, host)

	host, ok = m.FromInternal(&evaluator.Number{Value: big.NewRat(7, 1)})
	require.True(t, ok)
	assert.Equal(t, int64(7), host)

	host, ok = m.FromInternal(&evaluator.List{Elements: []evaluator.Value{evaluator.True, evaluator.False}})
	require.True(t, ok)
	assert.Equal(t, []interface{}{true, false}, host)
}

func TestDefaultMapperRoundTripsDuration(t *testing.T) {
	m := embed.DefaultMapper{}
	d := 90 * time.Minute

	v, ok := m.ToInternal(d)
	require.True(t, ok)
	dtd := v.(*evaluator.DayTimeDuration)

	host, ok := m.FromInternal(dtd)
	require.True(t, ok)
	assert.Equal(t, d, host)
}

type refusingMapper struct{}

func (refusingMapper) ToInternal(interface{}) (evaluator.Value, bool)    { return nil, false }
func (refusingMapper) FromInternal(evaluator.Value) (interface{}, bool) { return nil, false }

func TestChainFallsThroughToDefaultMapper(t *testing.T) {
	chain := embed.NewChain(refusingMapper{})

	v, ok := chain.ToInternal("fell through")
	require.True(t, ok)
	assert.Equal(t, "fell through", v.(*evaluator.String).Value)
}

func TestToVariables(t *testing.T) {
	vars, err := embed.ToVariables(embed.DefaultMapper{}, map[string]interface{}{
		"age":    30,
		"active": true,
	})
	require.NoError(t, err)
	assert.Equal(t, "30", vars["age"].(*evaluator.Number).Value.RatString())
	assert.Equal(t, evaluator.True, vars["active"])
}
