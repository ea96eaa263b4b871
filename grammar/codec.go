package grammar

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/rezi"

	"github.com/rodolf0/earleygo/symbol"
)

// TerminalTable supplies the predicates a decoded Grammar's terminal symbols
// are rebound to. A predicate is a func value and cannot be serialized, so
// Encode writes only terminal names; Decode looks each one up here by name
// and fails if a terminal's name is absent from the table.
type TerminalTable map[string]symbol.Predicate

// Encode serializes g to a portable binary cache, suitable for writing to
// disk and later feeding to Decode to skip recompiling an EBNF source or
// rebuilding a Builder by hand. Symbol predicates are not part of the
// encoding; Decode requires a TerminalTable to rebind them.
func Encode(g *Grammar) []byte {
	return rezi.EncBinary(&wireGrammar{g: g})
}

// Decode reconstructs a Grammar previously produced by Encode, rebinding
// every terminal's predicate by name against terms. It returns the number
// of bytes of data consumed, mirroring rezi.DecBinary, and an error if data
// is truncated, malformed, or references a terminal missing from terms.
func Decode(data []byte, terms TerminalTable) (*Grammar, int, error) {
	w := &wireGrammar{terms: terms}
	n, err := rezi.DecBinary(data, w)
	if err != nil {
		return nil, 0, err
	}
	return w.g, n, nil
}

// wireGrammar adapts Grammar to encoding.BinaryMarshaler/BinaryUnmarshaler
// for rezi, following the hand-rolled varint/string framing the teacher's
// tunascript package uses for its own binary AST cache.
type wireGrammar struct {
	g     *Grammar
	terms TerminalTable
}

func (w *wireGrammar) MarshalBinary() ([]byte, error) {
	g := w.g
	var data []byte

	symbols := make([]*symbol.Symbol, 0, len(g.symbols))
	for _, s := range g.symbols {
		symbols = append(symbols, s)
	}
	data = append(data, encBinaryInt(len(symbols))...)
	for _, s := range symbols {
		data = append(data, encBinaryString(s.Name())...)
		data = append(data, encBinaryBool(s.IsTerminal())...)
	}

	data = append(data, encBinaryInt(len(g.rules))...)
	for _, r := range g.rules {
		data = append(data, encBinaryString(r.Head.Name())...)
		data = append(data, encBinaryInt(len(r.Body))...)
		for _, s := range r.Body {
			data = append(data, encBinaryString(s.Name())...)
		}
	}

	data = append(data, encBinaryString(g.start.Name())...)

	return data, nil
}

func (w *wireGrammar) UnmarshalBinary(data []byte) error {
	b := NewBuilder()

	symCount, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("grammar codec: symbol count: %w", err)
	}
	data = data[n:]
	if symCount < 0 {
		return fmt.Errorf("grammar codec: negative symbol count")
	}

	kind := make(map[string]bool, symCount)
	for i := 0; i < symCount; i++ {
		name, nn, err := decBinaryString(data)
		if err != nil {
			return fmt.Errorf("grammar codec: symbol %d name: %w", i, err)
		}
		data = data[nn:]
		isTerm, nn, err := decBinaryBool(data)
		if err != nil {
			return fmt.Errorf("grammar codec: symbol %d kind: %w", i, err)
		}
		data = data[nn:]
		kind[name] = isTerm
		if isTerm {
			pred, ok := w.terms[name]
			if !ok {
				return fmt.Errorf("grammar codec: no predicate supplied for terminal %q", name)
			}
			b.Terminal(name, pred)
		} else {
			b.Nonterminal(name)
		}
	}

	ruleCount, n, err := decBinaryInt(data)
	if err != nil {
		return fmt.Errorf("grammar codec: rule count: %w", err)
	}
	data = data[n:]
	if ruleCount < 0 {
		return fmt.Errorf("grammar codec: negative rule count")
	}

	for i := 0; i < ruleCount; i++ {
		head, nn, err := decBinaryString(data)
		if err != nil {
			return fmt.Errorf("grammar codec: rule %d head: %w", i, err)
		}
		data = data[nn:]
		bodyLen, nn, err := decBinaryInt(data)
		if err != nil {
			return fmt.Errorf("grammar codec: rule %d body length: %w", i, err)
		}
		data = data[nn:]
		body := make([]string, bodyLen)
		for j := 0; j < bodyLen; j++ {
			name, nn, err := decBinaryString(data)
			if err != nil {
				return fmt.Errorf("grammar codec: rule %d body[%d]: %w", i, j, err)
			}
			data = data[nn:]
			body[j] = name
		}
		b.Rule(head, body...)
	}

	start, _, err := decBinaryString(data)
	if err != nil {
		return fmt.Errorf("grammar codec: start symbol: %w", err)
	}

	built, err := b.Build(start)
	if err != nil {
		return fmt.Errorf("grammar codec: %w", err)
	}
	w.g = built
	return nil
}

func encBinaryBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("unexpected end of data")
	}
	switch data[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("not a bool: %d", data[0])
	}
}

func encBinaryInt(i int) []byte {
	enc := make([]byte, 8)
	return binary.AppendVarint(enc[:0], int64(i))
}

func decBinaryInt(data []byte) (int, int, error) {
	val, n := binary.Varint(data)
	if n == 0 {
		return 0, 0, fmt.Errorf("unexpected end of data")
	}
	if n < 0 {
		return 0, 0, fmt.Errorf("value overflows 64 bits")
	}
	return int(val), n, nil
}

func encBinaryString(s string) []byte {
	enc := encBinaryInt(utf8.RuneCountInString(s))
	enc = append(enc, []byte(s)...)
	return enc
}

func decBinaryString(data []byte) (string, int, error) {
	runeCount, n, err := decBinaryInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("rune count: %w", err)
	}
	data = data[n:]
	read := n

	var sb strings.Builder
	for i := 0; i < runeCount; i++ {
		ch, size := utf8.DecodeRune(data)
		if ch == utf8.RuneError && size <= 1 {
			return "", 0, fmt.Errorf("invalid utf-8 in string")
		}
		sb.WriteRune(ch)
		data = data[size:]
		read += size
	}
	return sb.String(), read, nil
}
