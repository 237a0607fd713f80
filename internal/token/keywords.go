package token

// keywords holds every reserved word of the supported C subset. The lexer
// produces IDENT tokens for everything that looks like an identifier, then
// runs LookupKeyword over the spelling to reclassify reserved words as
// KEYWORD tokens - mirroring the teacher's reserved-word post-pass
// (ylex's `keywords` map, generalized from wut4's keyword set to this
// compiler's C subset).
var keywords = map[string]bool{
	"void": true, "_Bool": true, "bool": true, "char": true, "short": true,
	"int": true, "long": true, "struct": true, "union": true, "enum": true,
	"typedef": true, "static": true, "extern": true,
	"if": true, "else": true, "switch": true, "case": true, "default": true,
	"for": true, "while": true, "do": true,
	"break": true, "continue": true, "goto": true, "return": true,
	"sizeof": true, "const": true, "signed": true, "unsigned": true,
}

// LookupKeyword reports whether ident is a reserved word.
func LookupKeyword(ident string) bool {
	return keywords[ident]
}

// punctuators is the fixed, longest-match-first table spec.md requires:
// multi-character forms must be listed before any of their single-character
// prefixes.
var Punctuators = []string{
	"<<=", ">>=", "...",
	"==", "!=", "<=", ">=", "<<", ">>", "&&", "||", "->", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"+", "-", "*", "/", "%", "&", "|", "^", "~", "!",
	"<", ">", "=", "(", ")", "{", "}", "[", "]",
	";", ":", ",", ".", "?",
}
