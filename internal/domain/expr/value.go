package expr

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindObject
)

// Object is implemented by context values that expose attributes and
// methods to expressions, e.g. the inputs and payslip namespaces.
type Object interface {
	Attr(name string) (Value, error)
	Call(name string, args []Value) (Value, error)
}

// Env resolves bare identifiers to values.
type Env interface {
	Resolve(name string) (Value, error)
}

type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	obj  Object
}

func Number(v float64) Value {
	return Value{kind: KindNumber, num: v}
}

func String(v string) Value {
	return Value{kind: KindString, str: v}
}

func Bool(v bool) Value {
	return Value{kind: KindBool, b: v}
}

func ObjectValue(o Object) Value {
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) AsNumber() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expected a number, got %s", v.kind)
	}
}

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("expected a string, got %s", v.kind)
	}
	return v.str, nil
}

func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindString:
		return v.str != ""
	case KindBool:
		return v.b
	default:
		return v.obj != nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<object>"
	}
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "object"
	}
}
