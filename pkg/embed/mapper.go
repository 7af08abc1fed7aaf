// Package embed is the FEEL engine's value mapper (spec.md §6 "Value
// mapper"): bidirectional translation between host Go values and
// internal/evaluator's Value domain, adapted from the teacher's
// pkg/embed/marshaller.go reflection-based conversion.
package embed

import (
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"time"

	"github.com/feel-lang/feel/internal/evaluator"
)

// Mapper converts between a host value and an evaluator.Value. Either
// method may return (nil, false) to fall through to the next mapper in a
// chain (spec.md §9 "Value mapper chain... first Some wins").
type Mapper interface {
	ToInternal(hostValue interface{}) (evaluator.Value, bool)
	FromInternal(value evaluator.Value) (interface{}, bool)
}

// Chain tries each Mapper in order, falling through on a (nil, false)
// result, per spec.md §6 "Multiple mappers may be chained".
type Chain []Mapper

func (c Chain) ToInternal(hostValue interface{}) (evaluator.Value, bool) {
	for _, m := range c {
		if v, ok := m.ToInternal(hostValue); ok {
			return v, true
		}
	}
	return nil, false
}

func (c Chain) FromInternal(value evaluator.Value) (interface{}, bool) {
	for _, m := range c {
		if v, ok := m.FromInternal(value); ok {
			return v, true
		}
	}
	return nil, false
}

// NewChain builds a Chain with the given mappers tried before the
// DefaultMapper, which always sits last (spec.md §9).
func NewChain(mappers ...Mapper) Chain {
	return append(append(Chain{}, mappers...), DefaultMapper{})
}

// DefaultMapper handles booleans, integers, arbitrary-precision decimals,
// strings, lists/maps with recursively-mapped entries, and the standard
// temporal types (spec.md §6).
type DefaultMapper struct{}

func (DefaultMapper) ToInternal(val interface{}) (evaluator.Value, bool) {
	if val == nil {
		return evaluator.NullValue, true
	}
	if v, ok := val.(evaluator.Value); ok {
		return v, true
	}

	switch v := val.(type) {
	case bool:
		return evaluator.BoolOf(v), true
	case string:
		return &evaluator.String{Value: v}, true
	case *big.Rat:
		return &evaluator.Number{Value: v}, true
	case time.Time:
		return &evaluator.DateTime{T: v, HasOffset: true}, true
	case time.Duration:
		return evaluator.NewDayTimeDuration(v), true
	}

	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return evaluator.NumberFromInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return evaluator.NumberFromInt64(int64(rv.Uint())), true
	case reflect.Float32, reflect.Float64:
		r := new(big.Rat)
		r.SetFloat64(rv.Float())
		return &evaluator.Number{Value: r}, true
	case reflect.Slice, reflect.Array:
		elems := make([]evaluator.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, ok := DefaultMapper{}.ToInternal(rv.Index(i).Interface())
			if !ok {
				return nil, false
			}
			elems[i] = ev
		}
		return &evaluator.List{Elements: elems}, true
	case reflect.Map:
		return mapToContext(rv)
	}
	return nil, false
}

func mapToContext(rv reflect.Value) (evaluator.Value, bool) {
	keys := rv.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = fmt.Sprintf("%v", k.Interface())
	}
	sort.Strings(names)

	byName := make(map[string]reflect.Value, len(keys))
	for _, k := range keys {
		byName[fmt.Sprintf("%v", k.Interface())] = rv.MapIndex(k)
	}

	entries := make([]evaluator.ContextEntry, 0, len(names))
	for _, name := range names {
		ev, ok := DefaultMapper{}.ToInternal(byName[name].Interface())
		if !ok {
			return nil, false
		}
		entries = append(entries, evaluator.ContextEntry{Name: name, Value: ev})
	}
	return evaluator.NewContext(entries), true
}

func (DefaultMapper) FromInternal(val evaluator.Value) (interface{}, bool) {
	switch v := val.(type) {
	case *evaluator.Null, nil:
		return nil, true
	case *evaluator.Bool:
		return v.Value, true
	case *evaluator.Number:
		if v.Value.IsInt() {
			return v.Value.Num().Int64(), true
		}
		f, _ := v.Value.Float64()
		return f, true
	case *evaluator.String:
		return v.Value, true
	case *evaluator.Date:
		return v.T, true
	case *evaluator.Time:
		return v.T, true
	case *evaluator.DateTime:
		return v.T, true
	case *evaluator.YearMonthDuration:
		return v, true
	case *evaluator.DayTimeDuration:
		return v.Duration(), true
	case *evaluator.List:
		out := make([]interface{}, len(v.Elements))
		for i, e := range v.Elements {
			gv, ok := DefaultMapper{}.FromInternal(e)
			if !ok {
				return nil, false
			}
			out[i] = gv
		}
		return out, true
	case *evaluator.Context:
		out := make(map[string]interface{}, len(v.Entries))
		for _, entry := range v.Entries {
			gv, ok := DefaultMapper{}.FromInternal(entry.Value)
			if !ok {
				return nil, false
			}
			out[entry.Name] = gv
		}
		return out, true
	case *evaluator.Range:
		return v, true
	case *evaluator.Function:
		return v, true
	case *evaluator.Error:
		return nil, false
	}
	return nil, false
}

// ToVariables converts a host map[string]interface{} to the map of
// evaluator.Value the engine façade wants, using m (spec.md §6
// "variables is a mapping from name to host value, converted by the
// value mapper").
func ToVariables(m Mapper, vars map[string]interface{}) (map[string]evaluator.Value, error) {
	out := make(map[string]evaluator.Value, len(vars))
	for name, v := range vars {
		iv, ok := m.ToInternal(v)
		if !ok {
			return nil, fmt.Errorf("no mapper could convert variable %q (%T)", name, v)
		}
		out[name] = iv
	}
	return out, nil
}
