package srcfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinth/cinth/internal/srcfmt"
)

func TestRewriteEscapedNewlinesConvertsLiteralSequence(t *testing.T) {
	in := `int main(){\nprintf("a");\nreturn 0;}`
	out := srcfmt.RewriteEscapedNewlines(in)
	assert.Equal(t, "int main(){\nprintf(\"a\");\nreturn 0;}", out)
}

func TestRewriteEscapedNewlinesLeavesRealNewlinesAlone(t *testing.T) {
	in := "int main(){\nreturn 0;\n}"
	assert.Equal(t, in, srcfmt.RewriteEscapedNewlines(in))
}

func TestRewriteEscapedNewlinesNoOpWithoutTheSequence(t *testing.T) {
	in := "int main(){return 0;}"
	assert.Equal(t, in, srcfmt.RewriteEscapedNewlines(in))
}
