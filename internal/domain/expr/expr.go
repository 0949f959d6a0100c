// Package expr implements the restricted expression language used by
// salary rule conditions and amount formulas. The grammar covers
// literals, arithmetic, comparisons, boolean operators, attribute
// access into the evaluation context namespaces and method calls such
// as payslip.sum('SAL', '2024-01-01'). Expressions cannot assign,
// loop, or reach anything outside the supplied environment.
package expr

import (
	"fmt"
)

type Expr interface {
	Eval(env Env) (Value, error)
}

// Parse compiles src into an evaluatable expression tree.
func Parse(src string) (Expr, error) {
	p := &parser{lex: &lexer{src: src}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", p.cur.text, p.cur.pos)
	}
	return node, nil
}

// Evaluate parses and evaluates src in one step.
func Evaluate(src string, env Env) (Value, error) {
	node, err := Parse(src)
	if err != nil {
		return Value{}, err
	}
	return node.Eval(env)
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokenIdent && p.cur.text == "or" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokenIdent && p.cur.text == "and" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.cur.kind == tokenIdent && p.cur.text == "not" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokenOperator && isComparisonOp(p.cur.text) {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &comparisonNode{op: op, left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokenOperator && (p.cur.text == "+" || p.cur.text == "-") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &arithmeticNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokenOperator && (p.cur.text == "*" || p.cur.text == "/") {
		op := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &arithmeticNode{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.cur.kind == tokenOperator && p.cur.text == "-" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negateNode{operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (Expr, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokenDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokenIdent {
			return nil, fmt.Errorf("expected attribute name at position %d", p.cur.pos)
		}
		name := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokenLeftParen {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			node = &callNode{receiver: node, method: name, args: args}
			continue
		}
		node = &attrNode{receiver: node, name: name}
	}
	return node, nil
}

func (p *parser) parseArgs() ([]Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []Expr
	if p.cur.kind == tokenRightParen {
		return args, p.advance()
	}
	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.kind == tokenComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.cur.kind == tokenRightParen {
			return args, p.advance()
		}
		return nil, fmt.Errorf("expected ',' or ')' at position %d", p.cur.pos)
	}
}

func (p *parser) parsePrimary() (Expr, error) {
	switch p.cur.kind {
	case tokenNumber:
		node := &literalNode{value: Number(p.cur.num)}
		return node, p.advance()
	case tokenString:
		node := &literalNode{value: String(p.cur.text)}
		return node, p.advance()
	case tokenIdent:
		switch p.cur.text {
		case "true", "True":
			return &literalNode{value: Bool(true)}, p.advance()
		case "false", "False":
			return &literalNode{value: Bool(false)}, p.advance()
		case "and", "or", "not":
			return nil, fmt.Errorf("unexpected keyword %q at position %d", p.cur.text, p.cur.pos)
		}
		node := &identNode{name: p.cur.text}
		return node, p.advance()
	case tokenLeftParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokenRightParen {
			return nil, fmt.Errorf("expected ')' at position %d", p.cur.pos)
		}
		return node, p.advance()
	default:
		return nil, fmt.Errorf("unexpected %q at position %d", p.cur.text, p.cur.pos)
	}
}

func isComparisonOp(op string) bool {
	switch op {
	case "<", "<=", ">", ">=", "==", "!=":
		return true
	}
	return false
}
