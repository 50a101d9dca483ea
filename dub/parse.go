// Package dub parses the commands typed at the synth prompt.
//
// A command is a name followed by arguments separated by spaces:
//
//	set cutoff 0.4
//	chord (60 64 67) 1
//	loop bass 4 [36 [36 48] 0 (36 43)]
//	rhythm hats 42 '*/2,4
//
// Arrays in square brackets subdivide their time span evenly, tuples in parentheses are
// played together and a quote starts a match expression that selects steps of a bar.
package dub

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (Array) isNode()      {}
func (Tuple) isNode()      {}
func (MatchExpr) isNode()  {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string
type Array []Node
type Tuple []Node
type MatchExpr struct {
	matchers []matchItem
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != typeEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		arg, err := p.value(token)
		if err != nil {
			return cmd, err
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (p *parser) value(token token) (Node, error) {
	switch token.typ {
	case typeIdentifier:
		return Identifier(token.text), nil
	case typeString:
		return String(token.text[1 : len(token.text)-1]), nil
	case typeFloat:
		f, err := strconv.ParseFloat(token.text, 64)
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case typeInt:
		n, err := strconv.Atoi(token.text)
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	case typeLBracket:
		items, err := p.list(typeRBracket)
		return Array(items), err
	case typeLParen:
		items, err := p.list(typeRParen)
		return Tuple(items), err
	case typeQuote:
		return p.matchExpr()
	default:
		return nil, unexpected(token)
	}
}

// list parses values up to the closing token end.
func (p *parser) list(end tokenType) ([]Node, error) {
	items := []Node{}
	for {
		token := p.next()
		switch token.typ {
		case end:
			return items, nil
		case typeEOF:
			return nil, fmt.Errorf("unexpected end of input: missing %q", closing[end])
		}
		item, err := p.value(token)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

var closing = map[tokenType]string{
	typeRBracket: "]",
	typeRParen:   ")",
}

func (p *parser) matchExpr() (MatchExpr, error) {
	match := MatchExpr{}
	current := matchItem{}

	for {
		token := p.next()
		switch token.typ {
		case typeInt:
			if p.peek().typ != typeColon {
				list, err := p.listMatch(token)
				if err != nil {
					return match, err
				}
				current.matcher = list
				break
			}
			p.next()
			start, err := strconv.Atoi(token.text)
			if err != nil {
				return match, err
			}
			t := p.next()
			if t.typ != typeInt {
				return match, unexpected(t)
			}
			end, err := strconv.Atoi(t.text)
			if err != nil {
				return match, err
			}
			current.matcher = rangeMatch{start: start, end: end}
		case typeAsterisk:
			current.matcher = matchAll
		default:
			return match, unexpected(token)
		}

		match.matchers = append(match.matchers, current)
		if p.peek().typ != typeSlash {
			return match, nil
		}
		current = matchItem{level: current.level}
		for p.peek().typ == typeSlash {
			p.next()
			current.level++
		}
	}
}

// listMatch parses comma separated step numbers.
func (p *parser) listMatch(start token) (listMatch, error) {
	var list listMatch
	for t := start; ; {
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return list, err
		}
		list = append(list, n)
		if p.peek().typ != typeComma {
			return list, nil
		}
		p.next()
		if t = p.next(); t.typ != typeInt {
			return list, unexpected(t)
		}
	}
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input")
	}
	return fmt.Errorf("unexpected token %q at position %d", t.text, t.pos)
}
