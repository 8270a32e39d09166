package eval_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cinth/cinth/builtin"
	"github.com/cinth/cinth/eval"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/parser"
)

func run(t *testing.T, src, stdin string) (string, int, error) {
	t.Helper()
	p, err := parser.New(src)
	require.NoError(t, err)
	prog, err := p.Parse()
	require.NoError(t, err)

	var out strings.Builder
	reg := builtin.NewRegistry(strings.NewReader(stdin), &out)
	mem := memtable.New(0)
	status, err := eval.Run(prog, mem, reg)
	return out.String(), status, err
}

func TestHelloWorld(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	int main(){printf("Hello World!"); return 0;}`, "")
	require.NoError(t, err)
	require.Equal(t, "Hello World!", out)
	require.Equal(t, 0, status)
}

func TestForLoopWithBreakAccumulatesThenStops(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	int main(){int i,j=0; for(i=0;i<5;i++){j+=i; if(j==6) break;} printf("%d",j); return j;}`, "")
	require.NoError(t, err)
	require.Equal(t, "6", out)
	require.Equal(t, 6, status)
}

func TestXorOfTwoInts(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	int main(){int a=2,b=3,c=a^b; printf("%d",c); return 0;}`, "")
	require.NoError(t, err)
	require.Equal(t, "1", out)
	require.Equal(t, 0, status)
}

func TestPointerDereferenceAssignment(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	int main(){int a; int* p=&a; *p=7; printf("%d",a); return 0;}`, "")
	require.NoError(t, err)
	require.Equal(t, "7", out)
	require.Equal(t, 0, status)
}

func TestSwitchStatementFallsThroughToMatchingCase(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	int main(){int i=4; switch(i+1){case 1: printf("A"); break; case 5: printf("B"); break; default: printf("D");} return 0;}`, "")
	require.NoError(t, err)
	require.Equal(t, "B", out)
	require.Equal(t, 0, status)
}

func TestStructFieldAccessViaDotAndArrow(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	struct S{int a,b;};
	int main(){struct S z; z.a=3; struct S* p=&z; p->b=4; printf("%d %d",z.a,p->b); return 0;}`, "")
	require.NoError(t, err)
	require.Equal(t, "3 4", out)
	require.Equal(t, 0, status)
}

func TestRecursiveFunctionCall(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	int fact(int n){ if(n<=1) return 1; return n*fact(n-1); }
	int main(){ printf("%d", fact(5)); return fact(5); }`, "")
	require.NoError(t, err)
	require.Equal(t, "120", out)
	require.Equal(t, 120, status)
}

func TestForLoopContinueStillRunsIncrement(t *testing.T) {
	// Without the §9 fix, `continue` could skip the increment and loop
	// forever (or under-count); here every odd i is skipped but the loop
	// must still terminate with the sum of evens 0+2+4 = 6.
	out, status, err := run(t, `#include <stdio.h>
	int main(){int i,sum=0; for(i=0;i<5;i++){ if(i%2==1) continue; sum+=i; } printf("%d",sum); return sum;}`, "")
	require.NoError(t, err)
	require.Equal(t, "6", out)
	require.Equal(t, 6, status)
}

func TestDoWhileRunsBodyAtLeastOnce(t *testing.T) {
	out, _, err := run(t, `#include <stdio.h>
	int main(){int i=10; do { printf("%d",i); i++; } while(i<5); return 0;}`, "")
	require.NoError(t, err)
	require.Equal(t, "10", out)
}

func TestMallocThenDoubleFreeIsRuntimeError(t *testing.T) {
	_, _, err := run(t, `#include <stdlib.h>
	int main(){ int p = malloc(4); free(p); free(p); return 0; }`, "")
	require.Error(t, err)
}

func TestAtan2TakesTwoArguments(t *testing.T) {
	out, status, err := run(t, `#include <stdio.h>
	#include <math.h>
	int main(){ double r = atan2(0.0, -1.0); printf("%d", (int)(r > 3 && r < 4)); return 0; }`, "")
	require.NoError(t, err)
	require.Equal(t, "1", out)
	require.Equal(t, 0, status)
}

func TestIntegerWraparoundOnAssignment(t *testing.T) {
	out, _, err := run(t, `#include <stdio.h>
	int main(){ unsigned char c = 257; printf("%d", c); return 0; }`, "")
	require.NoError(t, err)
	require.Equal(t, "1", out)
}

func TestScanfReadsIntoPointerArgument(t *testing.T) {
	out, _, err := run(t, `#include <stdio.h>
	int main(){ int x; scanf("%d", &x); printf("%d", x*2); return 0; }`, "21")
	require.NoError(t, err)
	require.Equal(t, "42", out)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, _, err := run(t, `#include <stdio.h>
	int main(){ int a=1,b=0; int c=a/b; return c; }`, "")
	require.Error(t, err)
}
