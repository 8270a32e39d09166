// Package srcfmt holds small source-text preprocessing helpers kept out of
// the lexer's hot loop, mirroring the way the teacher keeps rune-reading and
// line-tracking concerns in their own internal/runeio and internal/fileinput
// packages rather than inlining them into the main interpreter loop.
package srcfmt

import "strings"

// RewriteEscapedNewlines rewrites the literal two-character sequence `\n`
// appearing in source text to a single newline byte, per the interpreter's
// one syntactic extension over standard C.
func RewriteEscapedNewlines(src string) string {
	if !strings.Contains(src, `\n`) {
		return src
	}
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if src[i] == '\\' && i+1 < len(src) && src[i+1] == 'n' {
			b.WriteByte('\n')
			i++
			continue
		}
		b.WriteByte(src[i])
	}
	return b.String()
}
