package expr

type node interface {
	pos() int
}

type literal struct {
	at    int
	value any
}

type ident struct {
	at   int
	name string
}

type member struct {
	at     int
	object node
	key    node // literal string for dotted access
}

type unary struct {
	at int
	op string
	x  node
}

type binary struct {
	at   int
	op   string
	l, r node
}

func (n *literal) pos() int { return n.at }
func (n *ident) pos() int   { return n.at }
func (n *member) pos() int  { return n.at }
func (n *unary) pos() int   { return n.at }
func (n *binary) pos() int  { return n.at }

// binding powers; higher binds tighter.
var precedence = map[string]int{
	"||":  1,
	"&&":  2,
	"==":  3,
	"!=":  3,
	"===": 3,
	"!==": 3,
	"<":   4,
	"<=":  4,
	">":   4,
	">=":  4,
	"+":   5,
	"-":   5,
	"*":   6,
	"/":   6,
	"%":   6,
}

type parser struct {
	toks []token
	i    int
}

func parse(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, newError(ErrSyntax, 0, "empty expression")
	}
	n, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, newError(ErrSyntax, t.pos, "unexpected %q", t.text)
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) expression(minPrec int) (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.kind != tokOp {
			return left, nil
		}
		prec, ok := precedence[t.text]
		if !ok || prec <= minPrec {
			return left, nil
		}
		p.next()
		right, err := p.expression(prec)
		if err != nil {
			return nil, err
		}
		left = &binary{at: t.pos, op: t.text, l: left, r: right}
	}
}

func (p *parser) unary() (node, error) {
	t := p.peek()
	if t.kind == tokOp && (t.text == "!" || t.text == "-" || t.text == "+") {
		p.next()
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &unary{at: t.pos, op: t.text, x: x}, nil
	}
	return p.postfix()
}

func (p *parser) postfix() (node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch t.kind {
		case tokDot:
			p.next()
			name := p.next()
			if name.kind != tokIdent {
				return nil, newError(ErrSyntax, name.pos, "expected property name after '.'")
			}
			n = &member{at: t.pos, object: n, key: &literal{at: name.pos, value: name.text}}
		case tokLBracket:
			p.next()
			key, err := p.expression(0)
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.kind != tokRBracket {
				return nil, newError(ErrSyntax, closing.pos, "expected ']'")
			}
			n = &member{at: t.pos, object: n, key: key}
		case tokLParen:
			return nil, newError(ErrUnsupportedNode, t.pos, "function calls are not supported")
		default:
			return n, nil
		}
	}
}

func (p *parser) primary() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return &literal{at: t.pos, value: t.num}, nil
	case tokString:
		return &literal{at: t.pos, value: t.text}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &literal{at: t.pos, value: true}, nil
		case "false":
			return &literal{at: t.pos, value: false}, nil
		case "null", "undefined":
			return &literal{at: t.pos, value: nil}, nil
		}
		return &ident{at: t.pos, name: t.text}, nil
	case tokLParen:
		n, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, newError(ErrSyntax, closing.pos, "expected ')'")
		}
		return n, nil
	case tokEOF:
		return nil, newError(ErrSyntax, t.pos, "unexpected end of expression")
	default:
		return nil, newError(ErrSyntax, t.pos, "unexpected %q", t.text)
	}
}
