/*
Package ebnf compiles EBNF grammar text into a *grammar.Grammar (package
grammar), implementing the front-end described by component C: a
recursive-descent meta-grammar parser that desugars grouping, optionality
and repetition into plain productions over freshly minted anonymous
nonterminals.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ebnf

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/rodolf0/earleygo/grammar"
	"github.com/rodolf0/earleygo/symbol"
)

func tracer() tracing.Trace {
	return tracing.Select("earleygo.ebnf")
}

// Compiler accumulates pre-declared terminals before compiling EBNF source,
// mirroring grammar.Builder's Terminal/Nonterminal split but scoped to the
// EBNF front-end.
type Compiler struct {
	terminals map[string]symbol.Predicate
}

// NewCompiler creates an empty Compiler.
func NewCompiler() *Compiler {
	return &Compiler{terminals: make(map[string]symbol.Predicate)}
}

// DeclareTerminal pre-declares name as a terminal classified by predicate.
// When the EBNF source references a bare identifier equal to name, this
// predicate is used instead of synthesizing an exact-match string terminal
// (spec.md §4.C, "Plug-in terminals"). Calling it again for the same name
// replaces the predicate.
func (c *Compiler) DeclareTerminal(name string, predicate symbol.Predicate) {
	c.terminals[name] = predicate
}

// Compile parses source and desugars it into a Grammar rooted at start.
// Returns an *Error (LexError or ParseError) on malformed input, or a
// *grammar.Error if start is not among the productions defined in source.
func (c *Compiler) Compile(start, source string) (*grammar.Grammar, error) {
	p := &parser{
		lex:       newLexer(source),
		b:         grammar.NewBuilder(),
		declared:  make(map[string]symbol.Predicate),
		stringLit: make(map[string]bool),
		lhs:       make(map[string]bool),
		refPos:    make(map[string]int),
	}
	for name, pred := range c.terminals {
		p.b.Terminal(name, pred)
		p.declared[name] = pred
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.parseGrammar(); err != nil {
		return nil, err
	}
	for name, pos := range p.refPos {
		if !p.lhs[name] {
			return nil, parseErrorf(pos, "undefined identifier %q: neither a production nor a pre-declared terminal", name)
		}
	}
	g, err := p.b.Build(start)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("ebnf: compiled %d rules, start=%s", len(g.Rules()), start)
	return g, nil
}

// parser is the recursive-descent implementation of the meta-syntax in
// spec.md §4.C:
//
//	grammar     := {production} ;
//	production  := Identifier ':=' alternation ';' ;
//	alternation := sequence {'|' sequence} ;
//	sequence    := {factor} ;
//	factor      := Identifier | StringLiteral
//	             | '(' alternation ')' | '[' alternation ']' | '{' alternation '}'
//	             | factor '@' Identifier ;
type parser struct {
	lex *lexer
	cur token

	b *grammar.Builder

	declared  map[string]symbol.Predicate // name -> predicate, for identifiers known to be terminals
	stringLit map[string]bool             // string-literal terminal names already registered
	uniq      int

	lhs    map[string]bool // nonterminal names that appear as a production head
	refPos map[string]int  // first rune position a not-yet-known nonterminal name was referenced at
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur.kind != k {
		return token{}, parseErrorf(p.cur.pos, "expected %s, found %q", what, p.cur.text)
	}
	t := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return t, nil
}

func (p *parser) parseGrammar() error {
	for p.cur.kind != tokEOF {
		if err := p.parseProduction(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseProduction() error {
	head, err := p.expect(tokIdent, "production name")
	if err != nil {
		return err
	}
	p.b.Nonterminal(head.text)
	p.lhs[head.text] = true
	if _, err := p.expect(tokAssign, "':='"); err != nil {
		return err
	}
	if err := p.parseAlternation(head.text); err != nil {
		return err
	}
	if _, err := p.expect(tokSemi, "';'"); err != nil {
		return err
	}
	return nil
}

// parseAlternation parses `sequence {'|' sequence}` and adds one rule per
// sequence, all headed by head.
func (p *parser) parseAlternation(head string) error {
	for {
		body, err := p.parseSequence()
		if err != nil {
			return err
		}
		p.b.Rule(head, body...)
		if p.cur.kind != tokPipe {
			return nil
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

// parseSequence parses `{factor}`, stopping at any token that cannot start
// a factor (')', ']', '}', '|', ';' or EOF).
func (p *parser) parseSequence() ([]string, error) {
	var body []string
	for p.startsFactor() {
		name, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		body = append(body, name)
	}
	return body, nil
}

func (p *parser) startsFactor() bool {
	switch p.cur.kind {
	case tokIdent, tokString, tokLParen, tokLBracket, tokLBrace:
		return true
	default:
		return false
	}
}

// parseFactor parses one primary factor and any trailing '@'-tags, per the
// decision recorded in SPEC_FULL.md: a tag renames the anonymous
// nonterminal just synthesized (group/optional/repetition) by appending
// "@name" to it; a tag on an Identifier or StringLiteral factor — which
// already has a stable, shared name — is accepted but has no effect, since
// renaming it would break every other rule referencing it.
func (p *parser) parseFactor() (string, error) {
	name, anon, err := p.parsePrimaryFactor()
	if err != nil {
		return "", err
	}
	for p.cur.kind == tokTag {
		tag := p.cur.text // includes the leading '@'
		if err := p.advance(); err != nil {
			return "", err
		}
		if anon {
			name = p.renameAnonymous(name, tag)
		}
	}
	return name, nil
}

func (p *parser) parsePrimaryFactor() (name string, anonymous bool, err error) {
	switch p.cur.kind {
	case tokIdent:
		name = p.cur.text
		pos := p.cur.pos
		if err = p.advance(); err != nil {
			return "", false, err
		}
		return p.resolveIdentifier(name, pos), false, nil

	case tokString:
		lit := p.cur.text
		if err = p.advance(); err != nil {
			return "", false, err
		}
		return p.resolveStringLiteral(lit), false, nil

	case tokLParen:
		return p.parseGroupLike(tokLParen, tokRParen, false)

	case tokLBracket:
		return p.parseGroupLike(tokLBracket, tokRBracket, true)

	case tokLBrace:
		return p.parseRepetition()

	default:
		return "", false, parseErrorf(p.cur.pos, "expected a factor, found %q", p.cur.text)
	}
}

// resolveIdentifier binds a bare identifier to whichever symbol it already
// denotes: a pre-declared (plug-in) terminal if one was registered under
// this name, otherwise a nonterminal — declared now if this is the first
// sighting, so forward references within the same grammar resolve once
// every production has been parsed and Build validates the whole table.
func (p *parser) resolveIdentifier(name string, pos int) string {
	if _, ok := p.declared[name]; ok {
		return name
	}
	p.b.Nonterminal(name)
	if !p.lhs[name] {
		if _, seen := p.refPos[name]; !seen {
			p.refPos[name] = pos
		}
	}
	return name
}

// resolveStringLiteral registers (once) an exact-match terminal named after
// the literal's contents as the lexer returns them (backslash escapes kept),
// per spec.md §4.C: "Each distinct
// StringLiteral "x" becomes a terminal whose predicate is exact string
// equality with x, under a canonical terminal name equal to x." A literal
// that collides with a caller's pre-declared terminal name reuses that
// terminal instead of overwriting its predicate.
func (p *parser) resolveStringLiteral(lit string) string {
	if _, ok := p.declared[lit]; ok {
		return lit
	}
	if !p.stringLit[lit] {
		text := lit
		p.b.Terminal(lit, func(lexeme string) bool { return lexeme == text })
		p.stringLit[lit] = true
	}
	return lit
}

// parseGroupLike handles '(' alternation ')' and '[' alternation ']'. When
// optional is true an extra empty alternative is added, per spec.md §4.C.
func (p *parser) parseGroupLike(open, close tokenKind, optional bool) (string, bool, error) {
	if err := p.advance(); err != nil { // consume open
		return "", false, err
	}
	u := p.newAnonymous()
	p.b.Nonterminal(u)
	if err := p.parseAlternation(u); err != nil {
		return "", false, err
	}
	if optional {
		p.b.Rule(u) // U -> (empty)
	}
	if _, err := p.expect(close, closeTokenName(close)); err != nil {
		return "", false, err
	}
	return u, true, nil
}

// parseRepetition handles '{' alternation '}', desugaring to a
// right-recursive anonymous nonterminal U -> A_expansion U | (empty).
func (p *parser) parseRepetition() (string, bool, error) {
	if err := p.advance(); err != nil { // consume '{'
		return "", false, err
	}
	u := p.newAnonymous()
	p.b.Nonterminal(u)

	for {
		body, err := p.parseSequence()
		if err != nil {
			return "", false, err
		}
		p.b.Rule(u, append(body, u)...)
		if p.cur.kind != tokPipe {
			break
		}
		if err := p.advance(); err != nil {
			return "", false, err
		}
	}
	p.b.Rule(u) // U -> (empty), terminates the recursion

	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return "", false, err
	}
	return u, true, nil
}

func (p *parser) newAnonymous() string {
	p.uniq++
	return fmt.Sprintf("<Uniq-%d>", p.uniq)
}

// renameAnonymous folds a trailing @tag into a freshly synthesized
// anonymous nonterminal's name (spec.md §9's documented option), rewriting
// every rule added for it so far — there can only be one set, since u was
// just minted by this factor and cannot yet be referenced elsewhere.
func (p *parser) renameAnonymous(u, tag string) string {
	renamed := u[:len(u)-1] + tag + ">" // "<Uniq-N>" -> "<Uniq-N@tag>"
	p.b.RenameSymbol(u, renamed)
	return renamed
}

func closeTokenName(k tokenKind) string {
	switch k {
	case tokRParen:
		return "')'"
	case tokRBracket:
		return "']'"
	case tokRBrace:
		return "'}'"
	default:
		return "closing delimiter"
	}
}
