package evaluator

// valuesEqual implements spec.md §4.3.1's equality rules: Null, as a special
// case, compares equal only to Null; distinct kinds otherwise compare Null
// (handled by the caller, which only calls this once kinds are known to
// match or both are Null).
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Value == bv.Value
	case *Number:
		bv, ok := b.(*Number)
		return ok && av.Value.Cmp(bv.Value) == 0
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *Date:
		bv, ok := b.(*Date)
		return ok && av.Equal(bv)
	case *Time:
		bv, ok := b.(*Time)
		return ok && av.Equal(bv)
	case *DateTime:
		bv, ok := b.(*DateTime)
		return ok && av.Equal(bv)
	case *YearMonthDuration:
		bv, ok := b.(*YearMonthDuration)
		return ok && av.Months == bv.Months
	case *DayTimeDuration:
		bv, ok := b.(*DayTimeDuration)
		return ok && av.Nanos == bv.Nanos
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !equalOrNull(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Context:
		bv, ok := b.(*Context)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for _, entry := range av.Entries {
			other, found := bv.Get(entry.Name)
			if !found || !equalOrNull(entry.Value, other) {
				return false
			}
		}
		return true
	case *Range:
		bv, ok := b.(*Range)
		return ok && av.LowerClosed == bv.LowerClosed && av.UpperClosed == bv.UpperClosed &&
			equalOrNull(av.Lower, bv.Lower) && equalOrNull(av.Upper, bv.Upper)
	case *Function:
		return a == b
	}
	return false
}

func equalOrNull(a, b Value) bool {
	return compareEqualResult(a, b) == boolTrue
}

type triBool int

const (
	boolNull triBool = iota
	boolTrue
	boolFalse
)

func boolValueOf(v Value) triBool {
	switch bv := v.(type) {
	case *Bool:
		if bv.Value {
			return boolTrue
		}
		return boolFalse
	default:
		return boolNull
	}
}

// compareEqualResult implements the `=` operator (spec.md §4.3.1), returning
// a tri-valued result so callers can distinguish true/false/null without a
// *Value allocation on the hot path.
func compareEqualResult(a, b Value) triBool {
	if isNull(a) || isNull(b) {
		if isNull(a) && isNull(b) {
			return boolTrue
		}
		return boolFalse
	}
	if a.Type() != b.Type() {
		return boolNull
	}
	if valuesEqual(a, b) {
		return boolTrue
	}
	return boolFalse
}

// EvalEquals implements `=` producing a Value per spec.md §4.3.1.
func EvalEquals(a, b Value) Value {
	switch compareEqualResult(a, b) {
	case boolTrue:
		return True
	case boolFalse:
		return False
	default:
		return NullValue
	}
}

// EvalNotEquals implements `!=` as the negation of `=`, with Null staying
// Null (spec.md does not special-case `!=` beyond "distinct kinds -> Null").
func EvalNotEquals(a, b Value) Value {
	switch compareEqualResult(a, b) {
	case boolTrue:
		return False
	case boolFalse:
		return True
	default:
		return NullValue
	}
}

// compareOrdered implements `<,<=,>,>=` per spec.md §4.3.1: -1/0/1, or a
// sentinel when the operands are not comparable (Null result).
const (
	cmpLess    = -1
	cmpEqual   = 0
	cmpGreater = 1
	cmpNone    = 2
)

func compareOrdered(a, b Value) int {
	if isNull(a) || isNull(b) {
		return cmpNone
	}
	switch av := a.(type) {
	case *Number:
		bv, ok := b.(*Number)
		if !ok {
			return cmpNone
		}
		return signOf(av.Value.Cmp(bv.Value))
	case *String:
		bv, ok := b.(*String)
		if !ok {
			return cmpNone
		}
		switch {
		case av.Value < bv.Value:
			return cmpLess
		case av.Value > bv.Value:
			return cmpGreater
		default:
			return cmpEqual
		}
	case *Date:
		bv, ok := b.(*Date)
		if !ok {
			return cmpNone
		}
		return signOf(av.Compare(bv))
	case *Time:
		bv, ok := b.(*Time)
		if !ok {
			return cmpNone
		}
		return signOf(av.Compare(bv))
	case *DateTime:
		bv, ok := b.(*DateTime)
		if !ok {
			return cmpNone
		}
		return signOf(av.Compare(bv))
	case *YearMonthDuration:
		bv, ok := b.(*YearMonthDuration)
		if !ok {
			return cmpNone
		}
		return signOf(int(av.Months) - int(bv.Months))
	case *DayTimeDuration:
		bv, ok := b.(*DayTimeDuration)
		if !ok {
			return cmpNone
		}
		d := av.Nanos - bv.Nanos
		switch {
		case d < 0:
			return cmpLess
		case d > 0:
			return cmpGreater
		default:
			return cmpEqual
		}
	}
	return cmpNone
}

func signOf(n int) int {
	switch {
	case n < 0:
		return cmpLess
	case n > 0:
		return cmpGreater
	default:
		return cmpEqual
	}
}

func EvalOrdering(op string, a, b Value) Value {
	c := compareOrdered(a, b)
	if c == cmpNone {
		return NullValue
	}
	switch op {
	case "<":
		return BoolOf(c == cmpLess)
	case "<=":
		return BoolOf(c == cmpLess || c == cmpEqual)
	case ">":
		return BoolOf(c == cmpGreater)
	case ">=":
		return BoolOf(c == cmpGreater || c == cmpEqual)
	}
	return NullValue
}
