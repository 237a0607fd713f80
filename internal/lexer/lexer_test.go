package lexer

import (
	"testing"

	"github.com/kobakobashu/c-compiler/internal/token"
)

// collect walks a token chain into a slice, dropping the trailing EOF.
func collect(head *token.Token) []*token.Token {
	var out []*token.Token
	for t := head; t != nil && !t.IsEOF(); t = t.Next {
		out = append(out, t)
	}
	return out
}

func TestTokenizeIdentsAndPunct(t *testing.T) {
	toks := collect(Tokenize("test.c", "int x = 1 + 2;\n"))

	want := []struct {
		kind token.Kind
		text string
	}{
		{token.KEYWORD, "int"},
		{token.IDENT, "x"},
		{token.PUNCT, "="},
		{token.NUM, "1"},
		{token.PUNCT, "+"},
		{token.NUM, "2"},
		{token.PUNCT, ";"},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d: got {%v %q}, want {%v %q}", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestTokenizeNumberBases(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"0", 0},
		{"42", 42},
		{"010", 8},
		{"0x2A", 42},
		{"0X1f", 31},
	}
	for _, c := range cases {
		toks := collect(Tokenize("test.c", c.src+";\n"))
		if len(toks) == 0 || toks[0].Kind != token.NUM {
			t.Fatalf("src %q: expected a leading NUM token", c.src)
		}
		if toks[0].IntValue != c.want {
			t.Errorf("src %q: got %d, want %d", c.src, toks[0].IntValue, c.want)
		}
	}
}

func TestTokenizeFloatLiteral(t *testing.T) {
	toks := collect(Tokenize("test.c", "3.14;\n"))
	if len(toks) == 0 || !toks[0].IsFloat {
		t.Fatalf("expected a float-flagged NUM token, got %+v", toks)
	}
	if toks[0].FloatValue != 3.14 {
		t.Errorf("got %v, want 3.14", toks[0].FloatValue)
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks := collect(Tokenize("test.c", `"a\nb\0";`+"\n"))
	if len(toks) == 0 || toks[0].Kind != token.STR {
		t.Fatalf("expected a STR token, got %+v", toks)
	}
	want := []byte("a\nb\x00\x00")
	if string(toks[0].StrValue) != string(want) {
		t.Errorf("got %q, want %q", toks[0].StrValue, want)
	}
}

func TestTokenizeLongestMatchPunctuator(t *testing.T) {
	toks := collect(Tokenize("test.c", "a <<= b;\n"))
	if len(toks) < 2 || toks[1].Text != "<<=" {
		t.Fatalf("expected the 3-byte punctuator \"<<=\" to win over \"<<\" or \"<\"; got %+v", toks)
	}
}

func TestTokenizeSkipsComments(t *testing.T) {
	toks := collect(Tokenize("test.c", "// line comment\nx /* block */ = 1;\n"))
	var texts []string
	for _, tk := range toks {
		texts = append(texts, tk.Text)
	}
	want := []string{"x", "=", "1", ";"}
	if len(texts) != len(want) {
		t.Fatalf("got %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestTokenizeCharLiteral(t *testing.T) {
	toks := collect(Tokenize("test.c", "'a';\n"))
	if len(toks) == 0 || toks[0].Kind != token.NUM {
		t.Fatalf("expected a NUM token for a char literal, got %+v", toks)
	}
	if toks[0].IntValue != 'a' {
		t.Errorf("got %d, want %d", toks[0].IntValue, int('a'))
	}
}

func TestTokenizeAlwaysTerminatesWithEOF(t *testing.T) {
	head := Tokenize("test.c", "x;")
	var last *token.Token
	for t := head; t != nil; t = t.Next {
		last = t
	}
	if last == nil || !last.IsEOF() {
		t.Fatalf("token chain did not end in EOF: %+v", last)
	}
}
