package lexer

import "testing"

func TestNextBasic(t *testing.T) {
	input := "PRINT 1 + 2\nX$ = \"HI\"\n"

	tests := []struct {
		id   string
		text string
	}{
		{"PRINT", "PRINT"},
		{"INTLIT", "1"},
		{"+", "+"},
		{"INTLIT", "2"},
		{"NEWLINE", "\n"},
		{"IDENT", "X$"},
		{"=", "="},
		{"STRLIT", "HI"},
		{"NEWLINE", "\n"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.Next()
		if tok.ID != tt.id {
			t.Fatalf("tests[%d] - id wrong. expected=%q, got=%q (text=%q)", i, tt.id, tok.ID, tok.Text)
		}
		if tok.Text != tt.text {
			t.Fatalf("tests[%d] - text wrong. expected=%q, got=%q", i, tt.text, tok.Text)
		}
	}
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	input := "if then Else WHILE gOsUb"
	want := []string{"IF", "THEN", "ELSE", "WHILE", "GOSUB"}
	l := New(input)
	for i, w := range want {
		tok := l.Next()
		if tok.ID != w {
			t.Fatalf("tests[%d]: expected %q got %q", i, w, tok.ID)
		}
	}
}

func TestSigilSuffixedIdentifiers(t *testing.T) {
	input := "A% B& C! D# E$"
	want := []string{"A%", "B&", "C!", "D#", "E$"}
	l := New(input)
	for i, w := range want {
		tok := l.Next()
		if tok.ID != "IDENT" || tok.Text != w {
			t.Fatalf("tests[%d]: expected IDENT %q got %q %q", i, w, tok.ID, tok.Text)
		}
	}
}

func TestRelationalOperators(t *testing.T) {
	input := "<= >= <> < >"
	want := []string{"<=", ">=", "<>", "<", ">"}
	l := New(input)
	for i, w := range want {
		tok := l.Next()
		if tok.ID != w {
			t.Fatalf("tests[%d]: expected %q got %q", i, w, tok.ID)
		}
	}
}

func TestCommentsAndRemStripped(t *testing.T) {
	input := "PRINT 1 ' a trailing comment\nREM a whole-line comment\nPRINT 2\n"
	l := New(input)
	ids := []string{}
	for {
		tok := l.Next()
		ids = append(ids, tok.ID)
		if tok.IsEOF() {
			break
		}
	}
	want := []string{"PRINT", "INTLIT", "NEWLINE", "NEWLINE", "PRINT", "INTLIT", "NEWLINE", EOF}
	if len(ids) != len(want) {
		t.Fatalf("expected %v got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("token %d: expected %q got %q (%v)", i, want[i], ids[i], ids)
		}
	}
}

func TestBadCharacter(t *testing.T) {
	l := New("X = @")
	var tok Token
	for {
		tok = l.Next()
		if tok.ID == Bad || tok.IsEOF() {
			break
		}
	}
	if tok.ID != Bad {
		t.Fatalf("expected Bad token, got %q", tok.ID)
	}
}

func TestSeekRestartsScan(t *testing.T) {
	input := "PRINT 1\nPRINT 2\n"
	l := New(input)
	first := l.Next() // PRINT
	offset := l.Offset()
	pos := l.Position()
	_ = l.Next() // 1
	_ = l.Next() // NEWLINE

	l2 := New(input)
	l2.Seek(offset, pos)
	second := l2.Next() // should re-scan "1" from the saved point
	if first.ID != "PRINT" || second.ID != "INTLIT" || second.Text != "1" {
		t.Fatalf("seek restart failed: first=%+v second=%+v", first, second)
	}
}
