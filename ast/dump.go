package ast

import "github.com/alecthomas/repr"

// Dump renders the tree as a readable, Go-syntax-like string, for the
// -dump-ast debug flag. Replaces a hand-rolled recursive printer with the
// same pretty-printer the rest of the pack reaches for.
func (p *Program) Dump() string {
	return repr.String(p, repr.Indent("  "), repr.OmitEmpty(true))
}
