package expr

import (
	"fmt"
	"strconv"
)

// Grammar, loosest binding first:
//
//	expression = and ("or" and)*
//	and        = not ("and" not)*
//	not        = "not" not | comparison
//	comparison = sum (("==" | "!=" | "<" | "<=" | ">" | ">=") sum)?
//	sum        = term (("+" | "-") term)*
//	term       = unary (("*" | "/" | "%") unary)*
//	unary      = "-" unary | primary
//	primary    = number | string | word | "(" expression ")"
type parser struct {
	tokens []token
	pos    int
	fields FieldSet
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) advance() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

// matchWord consumes the next token when it is one of the given bare words.
func (p *parser) matchWord(words ...string) bool {
	tok := p.peek()
	if tok.kind != tokenWord {
		return false
	}
	for _, word := range words {
		if tok.text == word {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) parseExpression() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.matchWord("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "or", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.matchWord("and") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{op: "and", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (node, error) {
	if p.matchWord("not") {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[tokenKind]string{
	tokenEq:  "==",
	tokenNeq: "!=",
	tokenLt:  "<",
	tokenLte: "<=",
	tokenGt:  ">",
	tokenGte: ">=",
}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	op, found := comparisonOps[p.peek().kind]
	if !found {
		return left, nil
	}
	p.advance()
	right, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	return &compareNode{op: op, left: left, right: right}, nil
}

func (p *parser) parseSum() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.peek().kind {
		case tokenPlus:
			op = "+"
		case tokenMinus:
			op = "-"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &arithmeticNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.peek().kind {
		case tokenStar:
			op = "*"
		case tokenSlash:
			op = "/"
		case tokenPercent:
			op = "%"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &arithmeticNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokenMinus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokenNumber:
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.text, tok.pos)
		}
		return &literalNode{value: value}, nil
	case tokenString:
		// a quoted token naming a schema field is a reference, not a literal
		if p.fields.Has(tok.text) {
			return &fieldNode{name: tok.text}, nil
		}
		return &literalNode{value: tok.text}, nil
	case tokenWord:
		switch tok.text {
		case "null":
			return &literalNode{value: nil}, nil
		case "true":
			return &literalNode{value: true}, nil
		case "false":
			return &literalNode{value: false}, nil
		case "and", "or", "not":
			return nil, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
		}
		if p.fields.Has(tok.text) {
			return &fieldNode{name: tok.text}, nil
		}
		return &unresolvedNode{name: tok.text}, nil
	case tokenLParen:
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.peek().kind != tokenRParen {
			return nil, fmt.Errorf("missing closing parenthesis at position %d", p.peek().pos)
		}
		p.advance()
		return inner, nil
	}
	return nil, fmt.Errorf("unexpected %s at position %d", tok, tok.pos)
}
