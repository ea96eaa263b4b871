package earleygo

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/rodolf0/earleygo/earley"
	"github.com/rodolf0/earleygo/ebnf"
	"github.com/rodolf0/earleygo/grammar"
	"github.com/rodolf0/earleygo/symbol"
)

func tracer() tracing.Trace {
	return tracing.Select("earleygo")
}

// ParserBuilder accumulates pre-declared terminal predicates before
// compiling an EBNF grammar, per spec.md §4.F. It is a thin wrapper around
// ebnf.Compiler; the indirection exists so the root package's public API
// never requires an importer to know package ebnf exists.
type ParserBuilder struct {
	compiler *ebnf.Compiler
}

// NewParserBuilder creates an empty ParserBuilder.
func NewParserBuilder() *ParserBuilder {
	return &ParserBuilder{compiler: ebnf.NewCompiler()}
}

// DeclareTerminal pre-declares name as a terminal classified by predicate.
// May be called any number of times before IntoParser; redeclaration
// replaces the predicate (spec.md §6).
func (pb *ParserBuilder) DeclareTerminal(name string, predicate symbol.Predicate) *ParserBuilder {
	pb.compiler.DeclareTerminal(name, predicate)
	return pb
}

// IntoParser compiles grammarText rooted at start into a Parser. Returns an
// *ebnf.Error (LexError/ParseError) or a *grammar.Error (UnknownSymbol/
// NoStart) on failure.
func (pb *ParserBuilder) IntoParser(start, grammarText string) (*Parser, error) {
	g, err := pb.compiler.Compile(start, grammarText)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("parser ready: start=%s", start)
	return &Parser{grammar: g}, nil
}

// Parser wraps a compiled Grammar, ready to recognize token streams.
type Parser struct {
	grammar *grammar.Grammar
}

// NewParser wraps an already-built Grammar (e.g. one decoded from a cache
// via grammar.Decode, or assembled directly with grammar.Builder) as a
// Parser, bypassing EBNF compilation entirely.
func NewParser(g *grammar.Grammar) *Parser {
	return &Parser{grammar: g}
}

// Grammar returns the compiled grammar backing p.
func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

// Parse runs the Earley recognizer over tokens, producing a Chart. Returns
// an *earley.Error{BadInput|PartialParse} on rejection.
func (p *Parser) Parse(tokens earley.TokenSource) (*earley.Chart, error) {
	return earley.Parse(p.grammar, tokens)
}
