package expr

import (
	"fmt"
)

type literalNode struct {
	value Value
}

func (n *literalNode) Eval(_ Env) (Value, error) {
	return n.value, nil
}

type identNode struct {
	name string
}

func (n *identNode) Eval(env Env) (Value, error) {
	return env.Resolve(n.name)
}

type attrNode struct {
	receiver Expr
	name     string
}

func (n *attrNode) Eval(env Env) (Value, error) {
	receiver, err := n.receiver.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if receiver.Kind() != KindObject {
		return Value{}, fmt.Errorf("cannot access attribute %q on a %s", n.name, receiver.Kind())
	}
	return receiver.obj.Attr(n.name)
}

type callNode struct {
	receiver Expr
	method   string
	args     []Expr
}

func (n *callNode) Eval(env Env) (Value, error) {
	receiver, err := n.receiver.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if receiver.Kind() != KindObject {
		return Value{}, fmt.Errorf("cannot call %q on a %s", n.method, receiver.Kind())
	}
	args := make([]Value, 0, len(n.args))
	for _, argNode := range n.args {
		arg, err := argNode.Eval(env)
		if err != nil {
			return Value{}, err
		}
		args = append(args, arg)
	}
	return receiver.obj.Call(n.method, args)
}

type negateNode struct {
	operand Expr
}

func (n *negateNode) Eval(env Env) (Value, error) {
	operand, err := n.operand.Eval(env)
	if err != nil {
		return Value{}, err
	}
	num, err := operand.AsNumber()
	if err != nil {
		return Value{}, err
	}
	return Number(-num), nil
}

type notNode struct {
	operand Expr
}

func (n *notNode) Eval(env Env) (Value, error) {
	operand, err := n.operand.Eval(env)
	if err != nil {
		return Value{}, err
	}
	return Bool(!operand.Truthy()), nil
}

type logicalNode struct {
	op    string
	left  Expr
	right Expr
}

func (n *logicalNode) Eval(env Env) (Value, error) {
	left, err := n.left.Eval(env)
	if err != nil {
		return Value{}, err
	}
	if n.op == "and" && !left.Truthy() {
		return Bool(false), nil
	}
	if n.op == "or" && left.Truthy() {
		return Bool(true), nil
	}
	right, err := n.right.Eval(env)
	if err != nil {
		return Value{}, err
	}
	return Bool(right.Truthy()), nil
}

type arithmeticNode struct {
	op    string
	left  Expr
	right Expr
}

func (n *arithmeticNode) Eval(env Env) (Value, error) {
	left, err := n.left.Eval(env)
	if err != nil {
		return Value{}, err
	}
	right, err := n.right.Eval(env)
	if err != nil {
		return Value{}, err
	}
	a, err := left.AsNumber()
	if err != nil {
		return Value{}, err
	}
	b, err := right.AsNumber()
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case "+":
		return Number(a + b), nil
	case "-":
		return Number(a - b), nil
	case "*":
		return Number(a * b), nil
	case "/":
		if b == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Number(a / b), nil
	}
	return Value{}, fmt.Errorf("unknown operator %q", n.op)
}

type comparisonNode struct {
	op    string
	left  Expr
	right Expr
}

func (n *comparisonNode) Eval(env Env) (Value, error) {
	left, err := n.left.Eval(env)
	if err != nil {
		return Value{}, err
	}
	right, err := n.right.Eval(env)
	if err != nil {
		return Value{}, err
	}

	if left.Kind() == KindString && right.Kind() == KindString {
		return compareStrings(n.op, left.str, right.str)
	}

	a, err := left.AsNumber()
	if err != nil {
		return Value{}, err
	}
	b, err := right.AsNumber()
	if err != nil {
		return Value{}, err
	}
	switch n.op {
	case "<":
		return Bool(a < b), nil
	case "<=":
		return Bool(a <= b), nil
	case ">":
		return Bool(a > b), nil
	case ">=":
		return Bool(a >= b), nil
	case "==":
		return Bool(a == b), nil
	case "!=":
		return Bool(a != b), nil
	}
	return Value{}, fmt.Errorf("unknown comparison %q", n.op)
}

func compareStrings(op, a, b string) (Value, error) {
	switch op {
	case "==":
		return Bool(a == b), nil
	case "!=":
		return Bool(a != b), nil
	case "<":
		return Bool(a < b), nil
	case "<=":
		return Bool(a <= b), nil
	case ">":
		return Bool(a > b), nil
	case ">=":
		return Bool(a >= b), nil
	}
	return Value{}, fmt.Errorf("unknown comparison %q", op)
}
