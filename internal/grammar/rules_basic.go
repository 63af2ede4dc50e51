package grammar

import (
	"strconv"
	"strings"

	"github.com/basiclang/qbvm/internal/ast"
	"github.com/basiclang/qbvm/internal/lexer"
)

// BasicGrammar builds the declarative rule set for the BASIC dialect:
// top-level program, DECLAREs, SUB/FUNCTION bodies,
// TYPE/END TYPE, DIM (SHARED, multi-dim), assignment, IF/THEN/ELSE
// (single-line and block), FOR/NEXT (STEP), DO/LOOP (WHILE/UNTIL,
// pre/post), WHILE/WEND, GOTO, GOSUB/RETURN, CALL, function/array
// access (shared syntax), PRINT (USING), INPUT, READ/DATA/RESTORE,
// expressions at BASIC precedence. The grammar is data, built once and
// reused across parses, rather than hand-written parsing code.
func BasicGrammar() *Grammar {
	b := &builder{}

	// ---- program / statement list ----
	b.rule("program", []string{"stmtlist"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.Program{Statements: c[0].([]ast.Statement)}
	})
	b.rule("stmtlist", []string{"stmtlist", "NEWLINE", "stmt"}, func(c []interface{}, _ lexer.Locus) interface{} {
		list := c[0].([]ast.Statement)
		if s, ok := c[2].(ast.Statement); ok && s != nil {
			list = append(list, s)
		}
		return list
	})
	b.rule("stmtlist", []string{"stmtlist", "NEWLINE"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return c[0].([]ast.Statement)
	})
	b.rule("stmtlist", []string{"stmt"}, func(c []interface{}, _ lexer.Locus) interface{} {
		if s, ok := c[0].(ast.Statement); ok && s != nil {
			return []ast.Statement{s}
		}
		return []ast.Statement{}
	})
	b.rule("stmtlist", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Statement{}
	})
	// colon-joined statements on one physical line, e.g.
	// `DIM A(3): A(2) = 42: PRINT A(2)`. Registered after the plain
	// stmtlist->stmt alternative so a single-line IF's own colon
	// sequence (via stmtseq) outranks this rule when both derivations
	// cover the same line.
	b.rule("stmtlist", []string{"stmtlist", ":", "stmt"}, func(c []interface{}, _ lexer.Locus) interface{} {
		list := c[0].([]ast.Statement)
		if s, ok := c[2].(ast.Statement); ok && s != nil {
			list = append(list, s)
		}
		return list
	})

	// colon-joined statement sequence, used by single-line IF bodies and
	// by block bodies where a compact one-liner is convenient.
	b.rule("stmtseq", []string{"stmtseq", ":", "stmt"}, func(c []interface{}, _ lexer.Locus) interface{} {
		list := c[0].([]ast.Statement)
		if s, ok := c[2].(ast.Statement); ok && s != nil {
			list = append(list, s)
		}
		return list
	})
	b.rule("stmtseq", []string{"stmt"}, func(c []interface{}, _ lexer.Locus) interface{} {
		if s, ok := c[0].(ast.Statement); ok && s != nil {
			return []ast.Statement{s}
		}
		return []ast.Statement{}
	})

	b.alt("stmt", "letstmt")
	b.alt("stmt", "printstmt")
	b.alt("stmt", "inputstmt")
	b.alt("stmt", "dimstmt")
	b.alt("stmt", "typestmt")
	b.alt("stmt", "ifstmt")
	b.alt("stmt", "forstmt")
	b.alt("stmt", "whilestmt")
	b.alt("stmt", "dostmt")
	b.alt("stmt", "gotostmt")
	b.alt("stmt", "gosubstmt")
	b.alt("stmt", "returnstmt")
	b.alt("stmt", "callstmt")
	b.alt("stmt", "labelstmt")
	b.alt("stmt", "datastmt")
	b.alt("stmt", "readstmt")
	b.alt("stmt", "restorestmt")
	b.alt("stmt", "declarestmt")
	b.alt("stmt", "openstmt")
	b.alt("stmt", "closestmt")
	b.alt("stmt", "writefilestmt")
	b.alt("stmt", "inputfilestmt")
	b.alt("stmt", "optionbasestmt")
	b.alt("stmt", "deftypestmt")
	b.alt("stmt", "endstmt")
	b.alt("stmt", "exprstmt")
	b.alt("stmt", "subdecl")
	b.alt("stmt", "funcdecl")

	// ---- LET / assignment ----
	b.rule("letstmt", []string{"LET", "lvalue", "=", "expr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.LetStatement{Target: c[1].(ast.Lvalue), Value: c[3].(ast.Expression)}
	})
	b.rule("letstmt", []string{"lvalue", "=", "expr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.LetStatement{Target: c[0].(ast.Lvalue), Value: c[2].(ast.Expression)}
	})

	// lvalue: IDENT, array element, record field, or a chain of the two.
	b.rule("lvalue", []string{"IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return ast.Lvalue{Name: c[0].(lexer.Token).Text, LocusAt: loc}
	})
	b.rule("lvalue", []string{"IDENT", "(", "arglist", ")"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return ast.Lvalue{Name: c[0].(lexer.Token).Text, Index: c[2].([]ast.Expression), LocusAt: loc}
	})
	b.rule("lvalue", []string{"lvalue", ".", "IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		parent := c[0].(ast.Lvalue)
		return ast.Lvalue{Base: &parent, Field: c[2].(lexer.Token).Text, LocusAt: loc}
	})

	// ---- PRINT ----
	b.rule("printstmt", []string{"PRINT", "printitems"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.PrintStatement{Items: c[1].([]ast.PrintItem)}
	})
	b.rule("printstmt", []string{"PRINT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.PrintStatement{}
	})
	b.rule("printstmt", []string{"PRINT", "USING", "expr", ";", "printitems"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.PrintStatement{UsingFormat: c[2].(ast.Expression), Items: c[4].([]ast.PrintItem)}
	})
	b.rule("printitems", []string{"printitems", "printsep", "printval"}, func(c []interface{}, _ lexer.Locus) interface{} {
		list := c[0].([]ast.PrintItem)
		if len(list) > 0 {
			list[len(list)-1].Sep = c[1].(string)
		}
		return append(list, c[2].(ast.PrintItem))
	})
	b.rule("printitems", []string{"printitems", "printsep"}, func(c []interface{}, _ lexer.Locus) interface{} {
		list := c[0].([]ast.PrintItem)
		if len(list) > 0 {
			list[len(list)-1].Sep = c[1].(string)
		}
		return list
	})
	b.rule("printitems", []string{"printval"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.PrintItem{c[0].(ast.PrintItem)}
	})
	b.rule("printsep", []string{","}, func(c []interface{}, _ lexer.Locus) interface{} { return "," })
	b.rule("printsep", []string{";"}, func(c []interface{}, _ lexer.Locus) interface{} { return ";" })

	// printval is one PRINT operand: a plain value, or TAB(n) column
	// positioning, folded into the same PRINT item list rather than a
	// separate statement form.
	b.rule("printval", []string{"expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.PrintItem{Expr: c[0].(ast.Expression)}
	})
	b.rule("printval", []string{"TAB", "(", "expr", ")"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.PrintItem{Tab: c[2].(ast.Expression)}
	})

	// ---- INPUT ----
	b.rule("inputstmt", []string{"INPUT", "STRLIT", ";", "lvalue"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.InputStatement{Prompt: c[1].(lexer.Token).Text, Target: c[3].(ast.Lvalue)}
	})
	b.rule("inputstmt", []string{"INPUT", "lvalue"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.InputStatement{Target: c[1].(ast.Lvalue)}
	})

	// ---- DIM ----
	b.rule("dimstmt", []string{"DIM", "SHARED", "vardecls"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DimStatement{Shared: true, Decls: c[2].([]ast.VarDecl)}
	})
	b.rule("dimstmt", []string{"DIM", "vardecls"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DimStatement{Decls: c[1].([]ast.VarDecl)}
	})
	b.rule("vardecls", []string{"vardecls", ",", "vardecl"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.VarDecl), c[2].(ast.VarDecl))
	})
	b.rule("vardecls", []string{"vardecl"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.VarDecl{c[0].(ast.VarDecl)}
	})
	b.rule("vardecl", []string{"IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.VarDecl{Name: c[0].(lexer.Token).Text}
	})
	b.rule("vardecl", []string{"IDENT", "AS", "IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.VarDecl{Name: c[0].(lexer.Token).Text, Type: c[2].(lexer.Token).Text}
	})
	b.rule("vardecl", []string{"IDENT", "(", "dimbounds", ")"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.VarDecl{Name: c[0].(lexer.Token).Text, Dims: c[2].([]ast.DimBound)}
	})
	b.rule("vardecl", []string{"IDENT", "(", "dimbounds", ")", "AS", "IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.VarDecl{Name: c[0].(lexer.Token).Text, Dims: c[2].([]ast.DimBound), Type: c[5].(lexer.Token).Text}
	})
	b.rule("dimbounds", []string{"dimbounds", ",", "dimbound"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.DimBound), c[2].(ast.DimBound))
	})
	b.rule("dimbounds", []string{"dimbound"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.DimBound{c[0].(ast.DimBound)}
	})
	b.rule("dimbound", []string{"expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.DimBound{Upper: c[0].(ast.Expression)}
	})
	b.rule("dimbound", []string{"expr", "TO", "expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.DimBound{Lower: c[0].(ast.Expression), Upper: c[2].(ast.Expression)}
	})

	// ---- TYPE ... END TYPE ----
	b.rule("typestmt", []string{"TYPE", "IDENT", "NEWLINE", "fielddecls", "END", "TYPE"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.TypeStatement{Name: c[1].(lexer.Token).Text, Fields: c[3].([]ast.FieldDecl)}
	})
	b.rule("fielddecls", []string{"fielddecls", "IDENT", "AS", "IDENT", "NEWLINE"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.FieldDecl), ast.FieldDecl{Name: c[1].(lexer.Token).Text, Type: c[3].(lexer.Token).Text})
	})
	b.rule("fielddecls", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.FieldDecl{}
	})

	// ---- IF (single-line and block) ----
	b.rule("ifstmt", []string{"IF", "expr", "THEN", "stmtseq", "ELSE", "stmtseq"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.IfStatement{Cond: c[1].(ast.Expression), Then: c[3].([]ast.Statement), Else: c[5].([]ast.Statement)}
	})
	b.rule("ifstmt", []string{"IF", "expr", "THEN", "stmtseq"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.IfStatement{Cond: c[1].(ast.Expression), Then: c[3].([]ast.Statement)}
	})
	b.rule("ifstmt", []string{
		"IF", "expr", "THEN", "NEWLINE", "stmtlist", "elseifs", "elsepart", "END", "IF",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.IfStatement{
			Cond:    c[1].(ast.Expression),
			Then:    c[4].([]ast.Statement),
			ElseIfs: c[5].([]ast.ElseIf),
			Else:    c[6].([]ast.Statement),
		}
	})
	b.rule("elseifs", []string{"elseifs", "ELSEIF", "expr", "THEN", "NEWLINE", "stmtlist"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.ElseIf), ast.ElseIf{Cond: c[2].(ast.Expression), Body: c[5].([]ast.Statement)})
	})
	b.rule("elseifs", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.ElseIf{}
	})
	b.rule("elsepart", []string{"ELSE", "NEWLINE", "stmtlist"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return c[2].([]ast.Statement)
	})
	b.rule("elsepart", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Statement{}
	})

	// ---- FOR/NEXT ----
	b.rule("forstmt", []string{
		"FOR", "IDENT", "=", "expr", "TO", "expr", "NEWLINE", "stmtlist", "NEXT",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ForStatement{Var: c[1].(lexer.Token).Text, Start: c[3].(ast.Expression), End: c[5].(ast.Expression), Body: c[7].([]ast.Statement)}
	})
	b.rule("forstmt", []string{
		"FOR", "IDENT", "=", "expr", "TO", "expr", "STEP", "expr", "NEWLINE", "stmtlist", "NEXT",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ForStatement{Var: c[1].(lexer.Token).Text, Start: c[3].(ast.Expression), End: c[5].(ast.Expression), Step: c[7].(ast.Expression), Body: c[9].([]ast.Statement)}
	})
	b.rule("forstmt", []string{
		"FOR", "IDENT", "=", "expr", "TO", "expr", "NEWLINE", "stmtlist", "NEXT", "IDENT",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ForStatement{Var: c[1].(lexer.Token).Text, Start: c[3].(ast.Expression), End: c[5].(ast.Expression), Body: c[7].([]ast.Statement)}
	})
	b.rule("forstmt", []string{
		"FOR", "IDENT", "=", "expr", "TO", "expr", "STEP", "expr", "NEWLINE", "stmtlist", "NEXT", "IDENT",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ForStatement{Var: c[1].(lexer.Token).Text, Start: c[3].(ast.Expression), End: c[5].(ast.Expression), Step: c[7].(ast.Expression), Body: c[9].([]ast.Statement)}
	})
	b.rule("forstmt", []string{
		"FOR", "IDENT", "=", "expr", "TO", "expr", ":", "stmtseq", ":", "NEXT", "IDENT",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ForStatement{Var: c[1].(lexer.Token).Text, Start: c[3].(ast.Expression), End: c[5].(ast.Expression), Body: c[7].([]ast.Statement)}
	})

	// ---- WHILE/WEND ----
	b.rule("whilestmt", []string{"WHILE", "expr", "NEWLINE", "stmtlist", "WEND"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.WhileStatement{Cond: c[1].(ast.Expression), Body: c[3].([]ast.Statement)}
	})

	// ---- DO/LOOP, four shapes ----
	b.rule("dostmt", []string{"DO", "NEWLINE", "stmtlist", "LOOP"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DoStatement{Kind: ast.DoLoopPlain, Body: c[2].([]ast.Statement)}
	})
	b.rule("dostmt", []string{"DO", "WHILE", "expr", "NEWLINE", "stmtlist", "LOOP"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DoStatement{Kind: ast.DoWhilePreTest, Cond: c[2].(ast.Expression), Body: c[4].([]ast.Statement)}
	})
	b.rule("dostmt", []string{"DO", "UNTIL", "expr", "NEWLINE", "stmtlist", "LOOP"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DoStatement{Kind: ast.DoUntilPreTest, Cond: c[2].(ast.Expression), Body: c[4].([]ast.Statement)}
	})
	b.rule("dostmt", []string{"DO", "NEWLINE", "stmtlist", "LOOP", "WHILE", "expr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DoStatement{Kind: ast.DoWhilePost, Cond: c[5].(ast.Expression), Body: c[2].([]ast.Statement)}
	})
	b.rule("dostmt", []string{"DO", "NEWLINE", "stmtlist", "LOOP", "UNTIL", "expr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DoStatement{Kind: ast.DoUntilPost, Cond: c[5].(ast.Expression), Body: c[2].([]ast.Statement)}
	})

	// ---- GOTO / GOSUB / RETURN / labels ----
	b.rule("gotostmt", []string{"GOTO", "IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.GotoStatement{Label: c[1].(lexer.Token).Text}
	})
	b.rule("gosubstmt", []string{"GOSUB", "IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.GosubStatement{Label: c[1].(lexer.Token).Text}
	})
	b.rule("returnstmt", []string{"RETURN"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ReturnStatement{}
	})
	b.rule("labelstmt", []string{"IDENT", ":"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.LabelStatement{Name: c[0].(lexer.Token).Text}
	})

	// ---- CALL ----
	b.rule("callstmt", []string{"CALL", "IDENT", "(", "arglist", ")"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.CallStatement{Name: c[1].(lexer.Token).Text, Args: c[3].([]ast.Expression)}
	})
	b.rule("callstmt", []string{"CALL", "IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.CallStatement{Name: c[1].(lexer.Token).Text}
	})
	b.rule("callstmt", []string{"IDENT", "arglist_noparen"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.CallStatement{Name: c[0].(lexer.Token).Text, Args: c[1].([]ast.Expression)}
	})

	// ---- DATA / READ / RESTORE ----
	b.rule("datastmt", []string{"DATA", "dataitems"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DataStatement{Values: c[1].([]*ast.Literal)}
	})
	b.rule("dataitems", []string{"dataitems", ",", "dataitem"}, func(c []interface{}, _ lexer.Locus) interface{} {
		lit, _ := c[2].(*ast.Literal)
		return append(c[0].([]*ast.Literal), lit)
	})
	b.rule("dataitems", []string{"dataitem"}, func(c []interface{}, _ lexer.Locus) interface{} {
		lit, _ := c[0].(*ast.Literal)
		return []*ast.Literal{lit}
	})
	b.rule("dataitem", []string{"literal"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return c[0]
	})
	b.rule("dataitem", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return (*ast.Literal)(nil)
	})
	b.rule("readstmt", []string{"READ", "lvaluelist"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ReadStatement{Targets: c[1].([]ast.Lvalue)}
	})
	b.rule("lvaluelist", []string{"lvaluelist", ",", "lvalue"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.Lvalue), c[2].(ast.Lvalue))
	})
	b.rule("lvaluelist", []string{"lvalue"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Lvalue{c[0].(ast.Lvalue)}
	})
	b.rule("restorestmt", []string{"RESTORE", "IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.RestoreStatement{Label: c[1].(lexer.Token).Text}
	})
	b.rule("restorestmt", []string{"RESTORE"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.RestoreStatement{}
	})

	// ---- DECLARE / SUB / FUNCTION ----
	b.rule("declarestmt", []string{"DECLARE", "SUB", "IDENT", "(", "paramlist", ")"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DeclareStatement{Name: c[2].(lexer.Token).Text, Params: c[4].([]ast.Parameter)}
	})
	b.rule("declarestmt", []string{"DECLARE", "FUNCTION", "IDENT", "(", "paramlist", ")"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.DeclareStatement{IsFunction: true, Name: c[2].(lexer.Token).Text, Params: c[4].([]ast.Parameter)}
	})
	b.rule("subdecl", []string{
		"SUB", "IDENT", "(", "paramlist", ")", "NEWLINE", "stmtlist", "END", "SUB",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.SubDecl{Name: c[1].(lexer.Token).Text, Params: c[3].([]ast.Parameter), Body: c[6].([]ast.Statement)}
	})
	b.rule("funcdecl", []string{
		"FUNCTION", "IDENT", "(", "paramlist", ")", "NEWLINE", "stmtlist", "END", "FUNCTION",
	}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.FunctionDecl{Name: c[1].(lexer.Token).Text, Params: c[3].([]ast.Parameter), Body: c[6].([]ast.Statement)}
	})
	b.rule("paramlist", []string{"paramlist", ",", "param"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.Parameter), c[2].(ast.Parameter))
	})
	b.rule("paramlist", []string{"param"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Parameter{c[0].(ast.Parameter)}
	})
	b.rule("paramlist", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Parameter{}
	})
	b.rule("param", []string{"IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.Parameter{Name: c[0].(lexer.Token).Text}
	})
	b.rule("param", []string{"IDENT", "AS", "IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return ast.Parameter{Name: c[0].(lexer.Token).Text, Type: c[2].(lexer.Token).Text}
	})

	// ---- OPEN / CLOSE / WRITE# / INPUT# ----
	b.rule("openstmt", []string{"OPEN", "expr", "FOR", "filemode", "AS", "filenum"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.OpenStatement{Path: c[1].(ast.Expression), Mode: c[3].(string), FileNum: c[5].(ast.Expression)}
	})
	b.rule("filemode", []string{"OUTPUT"}, func(c []interface{}, _ lexer.Locus) interface{} { return "OUTPUT" })
	b.rule("filemode", []string{"APPEND"}, func(c []interface{}, _ lexer.Locus) interface{} { return "APPEND" })
	b.rule("filemode", []string{"INPUT"}, func(c []interface{}, _ lexer.Locus) interface{} { return "INPUT" })

	// filenum reuses the #N CHARLIT token (lexer.go's scanCharLiteral)
	// in a distinct syntactic position from literal: CHARLIT's #65
	// character-code meaning; the parser disambiguates by context.
	b.rule("filenum", []string{"CHARLIT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		n, _ := strconv.Atoi(c[0].(lexer.Token).Text)
		return &ast.Literal{Kind: "INT", Ival: int64(n)}
	})

	b.rule("closestmt", []string{"CLOSE", "filenum"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.CloseStatement{FileNum: c[1].(ast.Expression)}
	})
	b.rule("closestmt", []string{"CLOSE"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.CloseStatement{}
	})

	b.rule("writefilestmt", []string{"WRITE", "filenum", ",", "arglist_noparen"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.WriteFileStatement{FileNum: c[1].(ast.Expression), Values: c[3].([]ast.Expression)}
	})

	b.rule("inputfilestmt", []string{"INPUT", "filenum", ",", "lvaluelist"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.InputFileStatement{FileNum: c[1].(ast.Expression), Targets: c[3].([]ast.Lvalue)}
	})

	// ---- OPTION BASE / DEF* ----
	b.rule("optionbasestmt", []string{"OPTION", "BASE", "INTLIT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		n, _ := strconv.Atoi(c[2].(lexer.Token).Text)
		return &ast.OptionBaseStatement{Base: n}
	})
	for _, kw := range []struct{ id, typ string }{
		{"DEFINT", "INTEGER"}, {"DEFLNG", "LONG"}, {"DEFSNG", "SINGLE"},
		{"DEFDBL", "DOUBLE"}, {"DEFSTR", "STRING"},
	} {
		typ := kw.typ
		b.rule("deftypestmt", []string{kw.id, "letterranges"}, func(c []interface{}, loc lexer.Locus) interface{} {
			return &ast.DefTypeStatement{Type: typ, Ranges: c[1].([]ast.LetterRange)}
		})
	}
	b.rule("letterranges", []string{"letterranges", ",", "letterrange"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.LetterRange), c[2].(ast.LetterRange))
	})
	b.rule("letterranges", []string{"letterrange"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.LetterRange{c[0].(ast.LetterRange)}
	})
	b.rule("letterrange", []string{"IDENT", "-", "IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		from := c[0].(lexer.Token).Text
		to := c[2].(lexer.Token).Text
		return ast.LetterRange{From: from[0], To: to[0]}
	})
	b.rule("letterrange", []string{"IDENT"}, func(c []interface{}, _ lexer.Locus) interface{} {
		l := c[0].(lexer.Token).Text
		return ast.LetterRange{From: l[0], To: l[0]}
	})

	// ---- END / bare expression statement ----
	b.rule("endstmt", []string{"END"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.EndStatement{}
	})
	b.rule("exprstmt", []string{"IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.ExprStatement{Call: &ast.CallExpr{Name: c[0].(lexer.Token).Text}}
	})

	// ---- expressions, BASIC precedence (lowest to highest) ----
	b.rule("expr", []string{"orexpr"}, nil)

	b.rule("orexpr", []string{"orexpr", "OR", "andexpr"}, binOp(1))
	b.rule("orexpr", []string{"andexpr"}, nil)

	b.rule("andexpr", []string{"andexpr", "AND", "notexpr"}, binOp(1))
	b.rule("andexpr", []string{"notexpr"}, nil)

	b.rule("notexpr", []string{"NOT", "notexpr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.UnaryExpr{Op: "NOT", Operand: c[1].(ast.Expression)}
	})
	b.rule("notexpr", []string{"relexpr"}, nil)

	for _, op := range []string{"=", "<", ">", "<=", ">=", "<>"} {
		b.rule("relexpr", []string{"relexpr", op, "addexpr"}, binOp(1))
	}
	b.rule("relexpr", []string{"addexpr"}, nil)

	for _, op := range []string{"+", "-"} {
		b.rule("addexpr", []string{"addexpr", op, "mulexpr"}, binOp(1))
	}
	b.rule("addexpr", []string{"mulexpr"}, nil)

	for _, op := range []string{"*", "/", "MOD"} {
		b.rule("mulexpr", []string{"mulexpr", op, "unaryexpr"}, binOp(1))
	}
	b.rule("mulexpr", []string{"unaryexpr"}, nil)

	b.rule("unaryexpr", []string{"-", "unaryexpr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.UnaryExpr{Op: "-", Operand: c[1].(ast.Expression)}
	})
	b.rule("unaryexpr", []string{"powexpr"}, nil)

	b.rule("powexpr", []string{"primary", "^", "unaryexpr"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.BinaryExpr{Op: "^", Left: c[0].(ast.Expression), Right: c[2].(ast.Expression)}
	})
	b.rule("powexpr", []string{"primary"}, nil)

	b.rule("primary", []string{"literal"}, nil)
	b.rule("primary", []string{"IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.Identifier{Name: c[0].(lexer.Token).Text}
	})
	b.rule("primary", []string{"IDENT", "(", "arglist", ")"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.IndexExpr{Name: c[0].(lexer.Token).Text, Args: c[2].([]ast.Expression)}
	})
	b.rule("primary", []string{"primary", ".", "IDENT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		return &ast.FieldExpr{Target: c[0].(ast.Expression), Field: c[2].(lexer.Token).Text}
	})
	b.rule("primary", []string{"(", "expr", ")"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return c[1]
	})

	b.rule("literal", []string{"INTLIT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		text := c[0].(lexer.Token).Text
		n, _ := strconv.ParseInt(strings.TrimRight(text, "%&!#$"), 10, 64)
		return &ast.Literal{Kind: "INT", Text: text, Ival: n}
	})
	b.rule("literal", []string{"FLOATLIT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		text := c[0].(lexer.Token).Text
		f, _ := strconv.ParseFloat(strings.TrimRight(text, "!#"), 64)
		return &ast.Literal{Kind: "FLOAT", Text: text, Fval: f}
	})
	b.rule("literal", []string{"STRLIT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		text := c[0].(lexer.Token).Text
		return &ast.Literal{Kind: "STRING", Text: text, Sval: text}
	})
	b.rule("literal", []string{"CHARLIT"}, func(c []interface{}, loc lexer.Locus) interface{} {
		n, _ := strconv.Atoi(c[0].(lexer.Token).Text)
		return &ast.Literal{Kind: "STRING", Sval: string(rune(n))}
	})

	b.rule("arglist", []string{"arglist", ",", "expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.Expression), c[2].(ast.Expression))
	})
	b.rule("arglist", []string{"expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Expression{c[0].(ast.Expression)}
	})
	b.rule("arglist", []string{}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Expression{}
	})
	b.rule("arglist_noparen", []string{"arglist_noparen", ",", "expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return append(c[0].([]ast.Expression), c[2].(ast.Expression))
	})
	b.rule("arglist_noparen", []string{"expr"}, func(c []interface{}, _ lexer.Locus) interface{} {
		return []ast.Expression{c[0].(ast.Expression)}
	})

	return New(b.prods, "program")
}

// binOp builds a semantic action for a left-recursive binary-operator
// production `nt -> nt OP sub`, where the operator token sits at index
// opIdx among the children.
func binOp(opIdx int) Action {
	return func(c []interface{}, loc lexer.Locus) interface{} {
		op := c[opIdx].(lexer.Token).ID
		return &ast.BinaryExpr{Op: op, Left: c[0].(ast.Expression), Right: c[opIdx+1].(ast.Expression)}
	}
}

// builder accumulates productions with auto-incrementing rule ids, the
// grammar-as-data style grounded on the gorgo GrammarBuilder examples.
type builder struct {
	prods []*Production
	next  int
}

func (b *builder) rule(lhs string, rhs []string, action Action) {
	b.next++
	b.prods = append(b.prods, &Production{ID: b.next, LHS: lhs, RHS: rhs, Action: action})
}

// alt registers a pass-through alternative `lhs -> other`.
func (b *builder) alt(lhs, other string) {
	b.rule(lhs, []string{other}, nil)
}
