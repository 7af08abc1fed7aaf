package evaluator

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultBuiltins constructs the built-in registry of spec.md §5: a small,
// fixed set of conversion, predicate and collection functions, each wrapped
// as a native *Function so they sit in the environment exactly like
// user-defined functions (spec.md §3.2 "built-ins at the bottom of the
// scope chain").
func DefaultBuiltins() map[string]*Function {
	reg := map[string]*Function{}
	add := func(name string, arity int, fn NativeFunc) {
		reg[name] = &Function{Name: name, Native: fn, Params: placeholderParams(arity)}
	}

	add("date", 1, builtinDate)
	add("time", 1, builtinTime)
	add("duration", 1, builtinDuration)
	add("years and months duration", 2, builtinYearsAndMonthsDuration)
	add("number", 1, builtinNumber)
	add("string", 1, builtinString)
	add("not", 1, builtinNot)
	add("list contains", 2, builtinListContains)
	add("get value", 2, builtinGetValue)
	add("get or else", 2, builtinGetOrElse)
	add("count", 1, builtinCount)
	add("sum", 1, builtinSum)

	// date and time accepts either a single ISO string or (date, time).
	reg["date and time"] = &Function{Name: "date and time", Native: builtinDateAndTime, VarArgs: true}
	// append takes a list plus one or more items to add.
	reg["append"] = &Function{Name: "append", Native: builtinAppend, VarArgs: true}

	return reg
}

// RegisterFunction adds or replaces a built-in in reg by name, the
// extension point spec.md §1 reserves for hosts that need more built-ins
// than the handful evaluated directly: `evaluator.RegisterFunction(reg, name, params, fn)`.
func RegisterFunction(reg map[string]*Function, name string, params []string, fn NativeFunc) {
	reg[name] = &Function{Name: name, Params: params, Native: fn}
}

func placeholderParams(n int) []string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("arg%d", i+1)
	}
	return p
}

func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return NullValue
}

func builtinDate(args []Value) Value {
	s, ok := arg(args, 0).(*String)
	if !ok {
		return NullValue
	}
	t, err := time.Parse("2006-01-02", s.Value)
	if err != nil {
		return NullValue
	}
	return &Date{T: t}
}

func builtinTime(args []Value) Value {
	s, ok := arg(args, 0).(*String)
	if !ok {
		return NullValue
	}
	hasOffset := strings.ContainsAny(s.Value, "Z+") || strings.Count(s.Value, "-") > 0
	layouts := []string{"15:04:05.999999999Z07:00", "15:04:05Z07:00", "15:04:05.999999999", "15:04:05"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s.Value); err == nil {
			return &Time{T: t, HasOffset: hasOffset && strings.ContainsAny(layout, "Z")}
		}
	}
	return NullValue
}

func builtinDateAndTime(args []Value) Value {
	if len(args) == 1 {
		s, ok := args[0].(*String)
		if !ok {
			return NullValue
		}
		hasOffset := strings.Contains(s.Value, "Z") || strings.LastIndexAny(s.Value, "+") > 10
		layouts := []string{"2006-01-02T15:04:05.999999999Z07:00", "2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s.Value); err == nil {
				return &DateTime{T: t, HasOffset: hasOffset}
			}
		}
		return NullValue
	}
	if len(args) == 2 {
		d, ok1 := args[0].(*Date)
		tm, ok2 := args[1].(*Time)
		if !ok1 || !ok2 {
			return NullValue
		}
		combined := time.Date(d.T.Year(), d.T.Month(), d.T.Day(), tm.T.Hour(), tm.T.Minute(), tm.T.Second(), tm.T.Nanosecond(), tm.T.Location())
		return &DateTime{T: combined, HasOffset: tm.HasOffset}
	}
	return NullValue
}

// builtinDuration parses an ISO-8601 duration string into either a
// YearMonthDuration ("PnYnM") or a DayTimeDuration ("PnDTnHnMnS"), per
// spec.md §3.1's split duration model.
func builtinDuration(args []Value) Value {
	s, ok := arg(args, 0).(*String)
	if !ok {
		return NullValue
	}
	str := s.Value
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}
	if !strings.HasPrefix(str, "P") {
		return NullValue
	}
	str = str[1:]
	if strings.Contains(str, "T") || (!strings.Contains(str, "Y") && !strings.Contains(str, "M")) || strings.Contains(str, "D") {
		return parseDayTimeDuration(str, neg)
	}
	return parseYearMonthDuration(str, neg)
}

func parseYearMonthDuration(s string, neg bool) Value {
	var years, months int64
	num := ""
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			num += string(c)
		case c == 'Y':
			years, _ = strconv.ParseInt(num, 10, 32)
			num = ""
		case c == 'M':
			months, _ = strconv.ParseInt(num, 10, 32)
			num = ""
		default:
			return NullValue
		}
	}
	total := int32(years*12 + months)
	if neg {
		total = -total
	}
	return &YearMonthDuration{Months: total}
}

func parseDayTimeDuration(s string, neg bool) Value {
	datePart, timePart := s, ""
	if idx := strings.Index(s, "T"); idx >= 0 {
		datePart, timePart = s[:idx], s[idx+1:]
	}
	var days int64
	num := ""
	for _, c := range datePart {
		switch {
		case c >= '0' && c <= '9' || c == '.':
			num += string(c)
		case c == 'D':
			days, _ = strconv.ParseInt(num, 10, 64)
			num = ""
		default:
			return NullValue
		}
	}
	var hours, mins int64
	var secs float64
	num = ""
	for _, c := range timePart {
		switch {
		case c >= '0' && c <= '9' || c == '.':
			num += string(c)
		case c == 'H':
			hours, _ = strconv.ParseInt(num, 10, 64)
			num = ""
		case c == 'M':
			mins, _ = strconv.ParseInt(num, 10, 64)
			num = ""
		case c == 'S':
			secs, _ = strconv.ParseFloat(num, 64)
			num = ""
		default:
			return NullValue
		}
	}
	nanos := days*int64(24*time.Hour) + hours*int64(time.Hour) + mins*int64(time.Minute) + int64(secs*float64(time.Second))
	if neg {
		nanos = -nanos
	}
	return &DayTimeDuration{Nanos: nanos}
}

func builtinYearsAndMonthsDuration(args []Value) Value {
	from, ok1 := arg(args, 0).(*Date)
	to, ok2 := arg(args, 1).(*Date)
	if !ok1 || !ok2 {
		return NullValue
	}
	months := int32(0)
	y1, m1, d1 := from.T.Date()
	y2, m2, d2 := to.T.Date()
	months = int32((y2-y1)*12 + int(m2-m1))
	if d2 < d1 {
		months--
	}
	return &YearMonthDuration{Months: months}
}

func builtinNumber(args []Value) Value {
	switch v := arg(args, 0).(type) {
	case *Number:
		return v
	case *String:
		n, ok := NumberFromString(strings.TrimSpace(v.Value))
		if !ok {
			return NullValue
		}
		return n
	}
	return NullValue
}

func builtinString(args []Value) Value {
	v := arg(args, 0)
	if isNull(v) {
		return NullValue
	}
	if s, ok := v.(*String); ok {
		return s
	}
	return &String{Value: v.Inspect()}
}

func builtinNot(args []Value) Value {
	switch boolValueOf(arg(args, 0)) {
	case boolTrue:
		return False
	case boolFalse:
		return True
	default:
		return NullValue
	}
}

func builtinListContains(args []Value) Value {
	list, ok := arg(args, 0).(*List)
	if !ok {
		return NullValue
	}
	needle := arg(args, 1)
	for _, e := range list.Elements {
		if equalOrNull(e, needle) {
			return True
		}
	}
	return False
}

func builtinAppend(args []Value) Value {
	list, ok := arg(args, 0).(*List)
	if !ok {
		return NullValue
	}
	out := append([]Value(nil), list.Elements...)
	out = append(out, args[1:]...)
	return &List{Elements: out}
}

func builtinGetValue(args []Value) Value {
	ctx, ok := arg(args, 0).(*Context)
	if !ok {
		return NullValue
	}
	key, ok := arg(args, 1).(*String)
	if !ok {
		return NullValue
	}
	if v, found := ctx.Get(key.Value); found {
		return v
	}
	return NullValue
}

func builtinGetOrElse(args []Value) Value {
	v := arg(args, 0)
	if isNull(v) {
		return arg(args, 1)
	}
	return v
}

func builtinCount(args []Value) Value {
	list, ok := arg(args, 0).(*List)
	if !ok {
		return NullValue
	}
	return NumberFromInt64(int64(len(list.Elements)))
}

func builtinSum(args []Value) Value {
	list, ok := arg(args, 0).(*List)
	if !ok {
		return NullValue
	}
	if len(list.Elements) == 0 {
		return NullValue
	}
	total := NumberFromInt64(0)
	for _, e := range list.Elements {
		n, ok := e.(*Number)
		if !ok {
			return NullValue
		}
		total = EvalArithmetic("+", total, n).(*Number)
	}
	return total
}
