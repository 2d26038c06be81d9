/*
Package expr implements the small expression language used by expression conditions.

The grammar is deliberately restricted:

	expr    = unary { binop unary }
	unary   = ( "!" | "-" | "+" ) unary | postfix
	postfix = primary { "." ident | "[" expr "]" }
	primary = number | string | "true" | "false" | "null" | "undefined" | ident | "(" expr ")"
	binop   = "||" | "&&" | "==" | "!=" | "===" | "!==" | "<" | "<=" | ">" | ">=" | "+" | "-" | "*" | "/" | "%"

Identifiers that are not defined evaluate to null, as do missing members.
Everything else that can go wrong is one of ErrSyntax, ErrType, ErrDivisionByZero or
ErrUnsupportedNode, wrapped in an *Error carrying the source position.
*/
package expr
