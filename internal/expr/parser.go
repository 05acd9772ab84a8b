package expr

import (
	"strconv"

	"github.com/halvardsen/numwb/internal/wberrors"
)

// FuncNamer answers whether a name is bound to a callable function. Parse
// consults it to disambiguate a bare identifier from a function-call head
// and to decide how implicit multiplication should split a term — it is
// the only parse-time query the grammar needs from a Runtime: the parser
// never needs get_var, and never re-enters itself at evaluation time.
type FuncNamer interface {
	HasFunc(name string) bool
}

// Parse tokenizes and parses s against this package's grammar, using
// funcs to resolve which bare identifiers denote functions. The returned AST
// is immutable and may be evaluated repeatedly, including concurrently,
// against any Runtime.
func Parse(s string, funcs FuncNamer) (*AST, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, &wberrors.ParseError{Message: err.Error(), Source: s}
	}

	p := &parser{toks: toks, funcs: funcs, src: s}
	tree, perr := p.parseExpr(0, len(toks)-1) // exclude trailing EOF
	if perr != nil {
		return nil, perr
	}
	return tree, nil
}

type parser struct {
	toks  []token
	funcs FuncNamer
	src   string
}

func (p *parser) errAt(span []token, msg string) error {
	pos := len(p.src)
	src := ""
	if len(span) > 0 {
		pos = span[0].pos
		src = span[0].lexeme
	}
	return &wberrors.ParseError{Message: msg, Pos: pos, Source: src}
}

// parseExpr implements "expr := expr ('+'|'-') term | term" by scanning
// tok[lo:hi] for the last '+'/'-' at bracket depth zero. Splitting at the
// rightmost top-level operator (rather than the leftmost) is what makes a
// single left-to-right scan yield left-associativity here: the left side is
// re-parsed as a (possibly further-splitting) expr, while the right side is
// parsed as a term, which cannot itself contain a top-level '+'/'-'; picking
// the leftmost operator instead would hand parseTerm a remainder like "3-2"
// that it has no grammar rule for.
func (p *parser) parseExpr(lo, hi int) (*AST, error) {
	span := p.toks[lo:hi]
	if len(span) == 0 {
		return nil, p.errAt(p.toks[lo:lo], "expected expression, found nothing")
	}

	depth := 0
	matchAt := -1
	for i, t := range span {
		switch t.class {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokPlus, tokMinus:
			if depth == 0 && i > 0 {
				matchAt = i
			}
		}
	}

	if matchAt >= 0 {
		left, err := p.parseExpr(lo, lo+matchAt)
		if err != nil {
			return nil, err
		}
		right, err := p.parseTerm(lo+matchAt+1, hi)
		if err != nil {
			return nil, err
		}
		op := OpAdd
		if span[matchAt].class == tokMinus {
			op = OpSub
		}
		return binOp(op, left, right), nil
	}

	return p.parseTerm(lo, hi)
}

// parseTerm implements "term := term ('*'|'/') factor | '-' term |
// implicit_mul | factor", splitting at the last '*'/'/' at bracket depth
// zero for the same left-associativity reason as parseExpr.
func (p *parser) parseTerm(lo, hi int) (*AST, error) {
	span := p.toks[lo:hi]
	if len(span) == 0 {
		return nil, p.errAt(p.toks[lo:lo], "expected term, found nothing")
	}

	depth := 0
	matchAt := -1
	for i, t := range span {
		switch t.class {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokStar, tokSlash:
			if depth == 0 && i > 0 {
				matchAt = i
			}
		}
	}

	if matchAt >= 0 {
		left, err := p.parseTerm(lo, lo+matchAt)
		if err != nil {
			return nil, err
		}
		right, err := p.parseFactor(lo+matchAt+1, hi)
		if err != nil {
			return nil, err
		}
		op := OpMul
		if span[matchAt].class == tokSlash {
			op = OpDiv
		}
		return binOp(op, left, right), nil
	}

	if span[0].class == tokMinus && len(span) > 1 {
		inner, err := p.parseTerm(lo+1, hi)
		if err != nil {
			return nil, err
		}
		return negate(inner), nil
	}

	if splitAt, ok := p.implicitMulSplit(lo, hi); ok {
		left, err := p.parseTerm(lo, splitAt)
		if err != nil {
			return nil, err
		}
		right, err := p.parseFactor(splitAt, hi)
		if err != nil {
			return nil, err
		}
		return binOp(OpMul, left, right), nil
	}

	return p.parseFactor(lo, hi)
}

// implicitMulSplit applies the canonical implicit-multiplication rule:
// inspect the last token of tok[lo:hi] and, if it denotes a factor
// boundary, return the index at which the right factor begins. It returns
// false if tok[lo:hi] has fewer than two tokens (there is no room for a
// juxtaposed prefix) or the last token does not match any boundary case.
func (p *parser) implicitMulSplit(lo, hi int) (int, bool) {
	if hi-lo < 2 {
		return 0, false
	}

	last := p.toks[hi-1]
	switch last.class {
	case tokNumber:
		return hi - 1, true
	case tokIdentifier:
		if p.funcs == nil || !p.funcs.HasFunc(last.lexeme) {
			return hi - 1, true
		}
		return 0, false
	case tokRParen:
		matchIdx, ok := p.matchingOpen(lo, hi-1)
		if !ok {
			return 0, false
		}
		if matchIdx > lo && p.toks[matchIdx-1].class == tokIdentifier && p.funcs != nil && p.funcs.HasFunc(p.toks[matchIdx-1].lexeme) {
			return matchIdx - 1, true
		}
		return matchIdx, true
	default:
		return 0, false
	}
}

// matchingOpen finds the '(' that matches the ')' at position closeIdx,
// scanning backward from closeIdx within tok[lo:closeIdx].
func (p *parser) matchingOpen(lo, closeIdx int) (int, bool) {
	depth := 0
	for i := closeIdx; i >= lo; i-- {
		switch p.toks[i].class {
		case tokRParen:
			depth++
		case tokLParen:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// parseFactor implements "factor := number | variable | func '(' arglist ')'
// | '(' expr ')'" against exactly tok[lo:hi].
func (p *parser) parseFactor(lo, hi int) (*AST, error) {
	span := p.toks[lo:hi]
	if len(span) == 0 {
		return nil, p.errAt(p.toks[lo:lo], "expected factor, found nothing")
	}

	first := span[0]

	if len(span) == 1 {
		switch first.class {
		case tokNumber:
			v, err := strconv.ParseFloat(first.lexeme, 64)
			if err != nil {
				return nil, p.errAt(span, "malformed number literal "+first.lexeme)
			}
			return numLit(v), nil
		case tokIdentifier:
			if p.funcs != nil && p.funcs.HasFunc(first.lexeme) {
				return nil, p.errAt(span, "function name "+first.lexeme+" used without a call")
			}
			return varRef(first.lexeme), nil
		default:
			return nil, p.errAt(span, "expected a number or variable")
		}
	}

	if first.class == tokLParen && p.toks[hi-1].class == tokRParen {
		if matchIdx, ok := p.matchingOpen(lo, hi-1); ok && matchIdx == lo {
			return p.parseExpr(lo+1, hi-1)
		}
	}

	if first.class == tokIdentifier && len(span) >= 3 && span[1].class == tokLParen && p.toks[hi-1].class == tokRParen {
		if p.funcs == nil || !p.funcs.HasFunc(first.lexeme) {
			return nil, p.errAt(span, "unknown function "+first.lexeme)
		}
		if matchIdx, ok := p.matchingOpen(lo+1, hi-1); ok && matchIdx == lo+1 {
			args, err := p.parseArgList(lo+2, hi-1)
			if err != nil {
				return nil, err
			}
			return call(first.lexeme, args), nil
		}
	}

	return nil, p.errAt(span, "could not parse factor")
}

// parseArgList implements "arglist := expr (',' expr)*" over tok[lo:hi],
// splitting on commas that appear at bracket depth zero relative to this
// span.
func (p *parser) parseArgList(lo, hi int) ([]*AST, error) {
	if lo == hi {
		return nil, nil
	}

	var args []*AST
	depth := 0
	start := lo
	for i := lo; i < hi; i++ {
		switch p.toks[i].class {
		case tokLParen:
			depth++
		case tokRParen:
			depth--
		case tokComma:
			if depth == 0 {
				arg, err := p.parseExpr(start, i)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				start = i + 1
			}
		}
	}

	last, err := p.parseExpr(start, hi)
	if err != nil {
		return nil, err
	}
	args = append(args, last)

	return args, nil
}
