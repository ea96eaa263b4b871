package grammar

import "testing"

// A small expression grammar used across several package tests:
//
//	Sum     -> Sum + Product | Product
//	Product -> Product * Factor | Factor
//	Factor  -> ( Sum ) | num
func makeSumGrammar(t *testing.T) *Grammar {
	t.Helper()
	b := NewBuilder()
	b.Nonterminal("Sum")
	b.Nonterminal("Product")
	b.Nonterminal("Factor")
	b.Terminal("+", func(l string) bool { return l == "+" })
	b.Terminal("*", func(l string) bool { return l == "*" })
	b.Terminal("(", func(l string) bool { return l == "(" })
	b.Terminal(")", func(l string) bool { return l == ")" })
	b.Terminal("num", func(l string) bool {
		for _, r := range l {
			if r < '0' || r > '9' {
				return false
			}
		}
		return l != ""
	})
	b.Rule("Sum", "Sum", "+", "Product")
	b.Rule("Sum", "Product")
	b.Rule("Product", "Product", "*", "Factor")
	b.Rule("Product", "Factor")
	b.Rule("Factor", "(", "Sum", ")")
	b.Rule("Factor", "num")

	g, err := b.Build("Sum")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestBuildAssignsSerials(t *testing.T) {
	g := makeSumGrammar(t)
	for i, r := range g.Rules() {
		if r.Serial != i {
			t.Errorf("rule %d (%s) has serial %d, want %d", i, r, r.Serial, i)
		}
	}
}

func TestRuleString(t *testing.T) {
	g := makeSumGrammar(t)
	want := "Sum -> Sum + Product"
	if got := g.Rule(0).String(); got != want {
		t.Errorf("Rule(0).String() = %q, want %q", got, want)
	}
}

func TestRulesFor(t *testing.T) {
	g := makeSumGrammar(t)
	rs := g.RulesFor("Product")
	if len(rs) != 2 {
		t.Fatalf("RulesFor(Product) = %d rules, want 2", len(rs))
	}
	if rs[0].String() != "Product -> Product * Factor" {
		t.Errorf("unexpected first rule: %s", rs[0])
	}
	if got := g.RulesFor("nonexistent"); got != nil {
		t.Errorf("RulesFor(nonexistent) = %v, want nil", got)
	}
}

func TestUnknownSymbolInRuleBody(t *testing.T) {
	b := NewBuilder()
	b.Nonterminal("S")
	b.Rule("S", "ghost")
	_, err := b.Build("S")
	gerr, ok := err.(*Error)
	if !ok || gerr.Kind != UnknownSymbol {
		t.Fatalf("Build() error = %v, want UnknownSymbol", err)
	}
}

func TestNoStart(t *testing.T) {
	b := NewBuilder()
	b.Nonterminal("S")
	_, err := b.Build("Missing")
	gerr, ok := err.(*Error)
	if !ok || gerr.Kind != NoStart {
		t.Fatalf("Build() error = %v, want NoStart", err)
	}
}

func TestNoStartWhenStartIsTerminal(t *testing.T) {
	b := NewBuilder()
	b.Terminal("a", func(l string) bool { return l == "a" })
	_, err := b.Build("a")
	gerr, ok := err.(*Error)
	if !ok || gerr.Kind != NoStart {
		t.Fatalf("Build() error = %v, want NoStart", err)
	}
}

func TestNullable(t *testing.T) {
	// S -> A B ; A -> 'a' | ε ; B -> ε
	b := NewBuilder()
	b.Nonterminal("S")
	b.Nonterminal("A")
	b.Nonterminal("B")
	b.Terminal("a", func(l string) bool { return l == "a" })
	b.Rule("S", "A", "B")
	b.Rule("A", "a")
	b.Rule("A")
	b.Rule("B")

	g, err := b.Build("S")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, name := range []string{"A", "B", "S"} {
		if !g.IsNullable(name) {
			t.Errorf("IsNullable(%s) = false, want true", name)
		}
	}
}

func TestNullableFixpointDoesNotLoopForever(t *testing.T) {
	// mutually-referential non-nullable pair: neither side ever becomes
	// nullable, and the fixpoint must still terminate.
	b := NewBuilder()
	b.Nonterminal("A")
	b.Nonterminal("B")
	b.Terminal("x", func(l string) bool { return l == "x" })
	b.Rule("A", "B", "x")
	b.Rule("B", "A", "x")

	g, err := b.Build("A")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if g.IsNullable("A") || g.IsNullable("B") {
		t.Errorf("neither A nor B should be nullable")
	}
}

func TestTerminalRedeclarationReplaces(t *testing.T) {
	b := NewBuilder()
	first := b.Terminal("x", func(l string) bool { return l == "first" })
	second := b.Terminal("x", func(l string) bool { return l == "second" })
	if first.Equal(second) {
		t.Errorf("redeclared terminal should differ in predicate identity")
	}
	if s, _ := b.symbols["x"]; !s.Equal(second) {
		t.Errorf("builder should retain the latest declaration")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	g := makeSumGrammar(t)
	data := Encode(g)

	terms := TerminalTable{
		"+":   func(l string) bool { return l == "+" },
		"*":   func(l string) bool { return l == "*" },
		"(":   func(l string) bool { return l == "(" },
		")":   func(l string) bool { return l == ")" },
		"num": func(l string) bool { return l == "1" || l == "2" },
	}
	got, n, err := Decode(data, terms)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(data) {
		t.Errorf("Decode consumed %d/%d bytes", n, len(data))
	}
	if len(got.Rules()) != len(g.Rules()) {
		t.Fatalf("decoded %d rules, want %d", len(got.Rules()), len(g.Rules()))
	}
	for i, r := range g.Rules() {
		if got.Rule(i).String() != r.String() {
			t.Errorf("rule %d: got %q want %q", i, got.Rule(i), r)
		}
	}
	if got.Start().Name() != g.Start().Name() {
		t.Errorf("start = %q, want %q", got.Start().Name(), g.Start().Name())
	}
}

func TestSymbolNamesSorted(t *testing.T) {
	g := makeSumGrammar(t)
	names := g.SymbolNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("SymbolNames() not sorted: %v", names)
		}
	}
	want := map[string]bool{"Sum": true, "Product": true, "Factor": true, "+": true, "*": true, "(": true, ")": true, "num": true}
	if len(names) != len(want) {
		t.Fatalf("SymbolNames() = %v, want %d entries", names, len(want))
	}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected symbol name %q", n)
		}
	}
}

func TestDecodeMissingPredicate(t *testing.T) {
	g := makeSumGrammar(t)
	data := Encode(g)
	_, _, err := Decode(data, TerminalTable{})
	if err == nil {
		t.Fatalf("Decode with empty terminal table should fail")
	}
}
