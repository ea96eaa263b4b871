/*
Package earleygo is the public façade (component F) over the engine built
from packages symbol, grammar, ebnf, earley and forest: an EBNF-driven
Earley parser with a derivation forest and a semantic-action evaluator.

A typical caller declares its terminals, compiles an EBNF grammar text into
a Parser, and then either runs it over a token stream and folds the
resulting Chart through a Forest's registered actions, or hands the token
stream to TreeBuilder to get syntax trees:

	pb := earleygo.NewParserBuilder()
	pb.DeclareTerminal("num", func(l string) bool { return isDigits(l) })
	p, err := pb.IntoParser("Sum", grammarText)
	chart, err := p.Parse(earley.NewSliceSource(tokens))
	trees, err := earleygo.TreeBuilder(p.Grammar())(earley.NewSliceSource(tokens))

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package earleygo
