package evaluator

import (
	"math"
	"math/big"
	"time"
)

// EvalArithmetic implements spec.md §4.3.1's numeric/string/temporal + - * /
// ** rules. Any operand mismatch not covered below yields Null.
func EvalArithmetic(op string, a, b Value) Value {
	if n, ok := numericArithmetic(op, a, b); ok {
		return n
	}
	if s, ok := stringArithmetic(op, a, b); ok {
		return s
	}
	if t, ok := temporalArithmetic(op, a, b); ok {
		return t
	}
	return NullValue
}

func numericArithmetic(op string, a, b Value) (Value, bool) {
	an, aok := a.(*Number)
	bn, bok := b.(*Number)
	if !aok || !bok {
		return nil, false
	}
	switch op {
	case "+":
		return &Number{Value: new(big.Rat).Add(an.Value, bn.Value)}, true
	case "-":
		return &Number{Value: new(big.Rat).Sub(an.Value, bn.Value)}, true
	case "*":
		return &Number{Value: new(big.Rat).Mul(an.Value, bn.Value)}, true
	case "/":
		if bn.Value.Sign() == 0 {
			return NullValue, true
		}
		return &Number{Value: new(big.Rat).Quo(an.Value, bn.Value)}, true
	case "**":
		return numberPow(an.Value, bn.Value), true
	}
	return nil, false
}

// numberPow handles integer exponents exactly; non-integer exponents fall
// back to float64 math since FEEL's Number is rational, not a general real.
func numberPow(base, exp *big.Rat) Value {
	if !exp.IsInt() {
		bf, _ := base.Float64()
		ef, _ := exp.Float64()
		r := new(big.Rat).SetFloat64(math.Pow(bf, ef))
		if r == nil {
			return NullValue
		}
		return &Number{Value: r}
	}
	e := exp.Num().Int64()
	neg := e < 0
	if neg {
		e = -e
	}
	result := big.NewRat(1, 1)
	b := new(big.Rat).Set(base)
	for i := int64(0); i < e; i++ {
		result.Mul(result, b)
	}
	if neg {
		if result.Sign() == 0 {
			return NullValue
		}
		result.Inv(result)
	}
	return &Number{Value: result}
}

func stringArithmetic(op string, a, b Value) (Value, bool) {
	as, aok := a.(*String)
	bs, bok := b.(*String)
	if op != "+" {
		return nil, false
	}
	if !aok || !bok {
		return nil, false
	}
	return &String{Value: as.Value + bs.Value}, true
}

func temporalArithmetic(op string, a, b Value) (Value, bool) {
	switch av := a.(type) {
	case *Date:
		switch bv := b.(type) {
		case *YearMonthDuration:
			if op == "+" {
				return &Date{T: addMonths(av.T, int(bv.Months))}, true
			}
			if op == "-" {
				return &Date{T: addMonths(av.T, -int(bv.Months))}, true
			}
		case *DayTimeDuration:
			if op == "+" {
				return &Date{T: av.T.Add(bv.Duration())}, true
			}
			if op == "-" {
				return &Date{T: av.T.Add(-bv.Duration())}, true
			}
		case *Date:
			if op == "-" {
				return NewDayTimeDuration(av.T.Sub(bv.T)), true
			}
			return NullValue, true // Date + Date is explicitly Null
		}
	case *DateTime:
		switch bv := b.(type) {
		case *YearMonthDuration:
			if op == "+" {
				return &DateTime{T: addMonths(av.T, int(bv.Months)), HasOffset: av.HasOffset}, true
			}
			if op == "-" {
				return &DateTime{T: addMonths(av.T, -int(bv.Months)), HasOffset: av.HasOffset}, true
			}
		case *DayTimeDuration:
			if op == "+" {
				return &DateTime{T: av.T.Add(bv.Duration()), HasOffset: av.HasOffset}, true
			}
			if op == "-" {
				return &DateTime{T: av.T.Add(-bv.Duration()), HasOffset: av.HasOffset}, true
			}
		case *DateTime:
			if op == "-" {
				return NewDayTimeDuration(av.T.Sub(bv.T)), true
			}
			return NullValue, true
		}
	case *Time:
		if bv, ok := b.(*DayTimeDuration); ok {
			if op == "+" || op == "-" {
				d := bv.Duration()
				if op == "-" {
					d = -d
				}
				return &Time{T: wrapTimeOfDay(av.T.Add(d)), HasOffset: av.HasOffset}, true
			}
		}
	case *YearMonthDuration:
		if bv, ok := b.(*YearMonthDuration); ok && op == "+" {
			return &YearMonthDuration{Months: av.Months + bv.Months}, true
		}
		if bv, ok := b.(*YearMonthDuration); ok && op == "-" {
			return &YearMonthDuration{Months: av.Months - bv.Months}, true
		}
	case *DayTimeDuration:
		if bv, ok := b.(*DayTimeDuration); ok && op == "+" {
			return NewDayTimeDuration(av.Duration() + bv.Duration()), true
		}
		if bv, ok := b.(*DayTimeDuration); ok && op == "-" {
			return NewDayTimeDuration(av.Duration() - bv.Duration()), true
		}
	}
	return nil, false
}

func addMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}

// wrapTimeOfDay keeps Time ± DayTimeDuration within a 24h wheel (spec.md
// §4.3.1 "Time ± DayTimeDuration → Time with wrap modulo 24h").
func wrapTimeOfDay(t time.Time) time.Time {
	ref := time.Date(1970, 1, 1, 0, 0, 0, 0, t.Location())
	d := t.Sub(ref)
	day := 24 * time.Hour
	d %= day
	if d < 0 {
		d += day
	}
	return ref.Add(d)
}

// EvalUnaryMinus implements arithmetic negation; non-Number operands are
// Null (spec.md §4.2 level 4 "unary minus" only operates over the additive
// chain, which is numeric).
func EvalUnaryMinus(v Value) Value {
	n, ok := v.(*Number)
	if !ok {
		return NullValue
	}
	return &Number{Value: new(big.Rat).Neg(n.Value)}
}

// EvalLogicalAnd/Or implement the three-valued (Kleene) semantics of
// spec.md §4.3.1 over an evaluated left operand and a rightFn thunk; they
// short-circuit by not calling rightFn when the left operand decides the
// result.
func EvalLogicalAnd(left Value, rightFn func() Value) Value {
	switch boolValueOf(left) {
	case boolFalse:
		return False
	}
	right := rightFn()
	lb, lok := left.(*Bool)
	rb, rok := right.(*Bool)
	switch {
	case rok && !rb.Value:
		return False
	case lok && lb.Value && rok && rb.Value:
		return True
	default:
		return NullValue
	}
}

func EvalLogicalOr(left Value, rightFn func() Value) Value {
	switch boolValueOf(left) {
	case boolTrue:
		return True
	}
	right := rightFn()
	lb, lok := left.(*Bool)
	rb, rok := right.(*Bool)
	switch {
	case rok && rb.Value:
		return True
	case lok && !lb.Value && rok && !rb.Value:
		return False
	default:
		return NullValue
	}
}
