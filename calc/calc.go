// Copyright 2020 Aleksandr Demakin. All rights reserved.

// Package calc implements a line-based calculator over posit arithmetic.
//
// A line is either an expression or an assignment:
//   x = 1.5 * (2 - 0x40)   # comments start with '#'
//   fma(x, x, -1)
// Numbers are rounded to the nearest posit, raw patterns are written in hex or
// binary. Functions: fma(a, b, c), neg(x), abs(x), sum(x...) and dot(a1, b1, a2, b2...),
// the last two accumulate in a quire and round once.
// The result of the last expression is stored in "ans". "NaR" is predefined.
package calc

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/avdva/posit"
)

// ErrEmpty is returned for lines without a statement.
var ErrEmpty = errors.New("empty statement")

// Calculator evaluates statements and keeps variables between them.
// It is not safe for concurrent use.
type Calculator struct {
	cfg  posit.Config
	vars map[string]posit.Bits
}

// New returns a calculator for cfg.
func New(cfg posit.Config) *Calculator {
	return &Calculator{
		cfg:  cfg,
		vars: map[string]posit.Bits{"NaR": cfg.NaR(), "ans": 0},
	}
}

// Config returns the calculator's config.
func (c *Calculator) Config() posit.Config {
	return c.cfg
}

// Set assigns a variable.
func (c *Calculator) Set(name string, v posit.Bits) {
	c.vars[name] = v
}

// Get returns a variable.
func (c *Calculator) Get(name string) (posit.Bits, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Eval evaluates a line and returns its value.
func (c *Calculator) Eval(line string) (posit.Bits, error) {
	toks, err := tokenize(line)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 {
		return 0, ErrEmpty
	}
	p := &parser{calc: c, toks: toks}
	target := ""
	if len(toks) > 2 && toks[0].typ == tokenIdent && toks[1].text == "=" {
		target = toks[0].text
		if target == "NaR" {
			return 0, errors.Errorf("cannot assign to %q", target)
		}
		p.pos = 2
	}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if t, ok := p.peek(); ok {
		return 0, errors.Errorf("unexpected %q at column %d", t.text, t.column)
	}
	if target != "" {
		c.vars[target] = v
	}
	c.vars["ans"] = v
	return v, nil
}

type parser struct {
	calc *Calculator
	toks []token
	pos  int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) accept(op string) bool {
	if t, ok := p.peek(); ok && t.typ == tokenOp && t.text == op {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(op string) error {
	if p.accept(op) {
		return nil
	}
	if t, ok := p.peek(); ok {
		return errors.Errorf("expected %q, got %q at column %d", op, t.text, t.column)
	}
	return errors.Errorf("expected %q at the end of line", op)
}

func (p *parser) expr() (posit.Bits, error) {
	cfg := p.calc.cfg
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("+"):
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v = cfg.Add(v, r)
		case p.accept("-"):
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v = cfg.Sub(v, r)
		default:
			return v, nil
		}
	}
}

func (p *parser) term() (posit.Bits, error) {
	cfg := p.calc.cfg
	v, err := p.unary()
	if err != nil {
		return 0, err
	}
	for {
		switch {
		case p.accept("*"):
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v = cfg.Mul(v, r)
		case p.accept("/"):
			r, err := p.unary()
			if err != nil {
				return 0, err
			}
			v = cfg.Div(v, r)
		default:
			return v, nil
		}
	}
}

func (p *parser) unary() (posit.Bits, error) {
	switch {
	case p.accept("-"):
		v, err := p.unary()
		return p.calc.cfg.Neg(v), err
	case p.accept("+"):
		return p.unary()
	}
	return p.primary()
}

func (p *parser) primary() (posit.Bits, error) {
	t, ok := p.peek()
	if !ok {
		return 0, errors.New("unexpected end of line")
	}
	cfg := p.calc.cfg
	switch t.typ {
	case tokenNumber, tokenPattern:
		p.pos++
		v, err := cfg.Parse(t.text)
		return v, errors.Wrapf(err, "bad number %q at column %d", t.text, t.column)
	case tokenIdent:
		p.pos++
		if p.accept("(") {
			return p.call(t)
		}
		v, ok := p.calc.vars[t.text]
		if !ok {
			return 0, errors.Errorf("unknown variable %q at column %d", t.text, t.column)
		}
		return v, nil
	case tokenOp:
		if p.accept("(") {
			v, err := p.expr()
			if err != nil {
				return 0, err
			}
			return v, p.expect(")")
		}
	}
	return 0, errors.Errorf("unexpected %q at column %d", t.text, t.column)
}

func (p *parser) args() ([]posit.Bits, error) {
	var result []posit.Bits
	if p.accept(")") {
		return result, nil
	}
	for {
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		result = append(result, v)
		if p.accept(")") {
			return result, nil
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

func (p *parser) call(fn token) (posit.Bits, error) {
	args, err := p.args()
	if err != nil {
		return 0, err
	}
	cfg := p.calc.cfg
	arity := func(n int) error {
		if len(args) != n {
			return errors.Errorf("%s takes %d arguments, got %d", fn.text, n, len(args))
		}
		return nil
	}
	switch strings.ToLower(fn.text) {
	case "fma":
		if err := arity(3); err != nil {
			return 0, err
		}
		return cfg.FMA(args[0], args[1], args[2]), nil
	case "neg":
		if err := arity(1); err != nil {
			return 0, err
		}
		return cfg.Neg(args[0]), nil
	case "abs":
		if err := arity(1); err != nil {
			return 0, err
		}
		return cfg.Abs(args[0]), nil
	case "sum":
		q := cfg.NewQuire()
		for _, a := range args {
			q.AddPosit(a)
		}
		return q.Posit(), nil
	case "dot":
		if len(args)%2 != 0 {
			return 0, errors.Errorf("dot takes pairs of arguments, got %d", len(args))
		}
		q := cfg.NewQuire()
		for i := 0; i < len(args); i += 2 {
			q.FMA(args[i], args[i+1])
		}
		return q.Posit(), nil
	}
	return 0, errors.Errorf("unknown function %q at column %d", fn.text, fn.column)
}
