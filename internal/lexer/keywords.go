package lexer

import "strings"

// keywords maps the case-insensitive spelling of every reserved word to
// its token id. Token ids for keywords are the upper-cased spelling
// itself, which is also how the grammar (internal/grammar) quotes them
// as terminals (e.g. 'PRINT').
var keywords = map[string]string{
	"PRINT": "PRINT", "INPUT": "INPUT", "LET": "LET", "DIM": "DIM",
	"SHARED": "SHARED", "REDIM": "REDIM", "TYPE": "TYPE", "END": "END",
	"IF": "IF", "THEN": "THEN", "ELSE": "ELSE", "ELSEIF": "ELSEIF",
	"FOR": "FOR", "TO": "TO", "STEP": "STEP", "NEXT": "NEXT",
	"WHILE": "WHILE", "WEND": "WEND", "DO": "DO", "LOOP": "LOOP",
	"UNTIL": "UNTIL", "GOTO": "GOTO", "GOSUB": "GOSUB", "RETURN": "RETURN",
	"CALL": "CALL", "SUB": "SUB", "FUNCTION": "FUNCTION", "DECLARE": "DECLARE",
	"DATA": "DATA", "READ": "READ", "RESTORE": "RESTORE",
	"OPEN": "OPEN", "CLOSE": "CLOSE", "AS": "AS", "WRITE": "WRITE",
	"OUTPUT": "OUTPUT", "APPEND": "APPEND",
	"USING": "USING", "OPTION": "OPTION", "BASE": "BASE", "TAB": "TAB",
	"DEFINT": "DEFINT", "DEFLNG": "DEFLNG", "DEFSNG": "DEFSNG",
	"DEFDBL": "DEFDBL", "DEFSTR": "DEFSTR",
	"MOD": "MOD", "NOT": "NOT", "AND": "AND", "OR": "OR",
	"REM": "REM",
}

// sigils maps a trailing sigil character to its BASIC scalar type name.
var sigils = map[byte]string{
	'%': "INTEGER",
	'&': "LONG",
	'!': "SINGLE",
	'#': "DOUBLE",
	'$': "STRING",
}

// LookupKeyword returns the keyword token id for text, case-insensitively,
// and whether it is a reserved word at all.
func LookupKeyword(text string) (string, bool) {
	id, ok := keywords[strings.ToUpper(text)]
	return id, ok
}
