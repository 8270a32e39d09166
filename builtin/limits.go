package builtin

import (
	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/value"
)

func intConst(ct ctype.CType, v int64) value.Number { return value.NewInt(ct, v) }

// limitsLibrary exposes limits.h's range constants, computed from the same
// CType.Limits()/SizeBytes() machinery the evaluator uses for wraparound, so
// a program's INT_MAX and the interpreter's own int wraparound can never
// disagree.
func limitsLibrary() *Library {
	must := func(spec string) ctype.CType {
		ct, err := ctype.FromString(spec)
		if err != nil {
			panic("builtin: bad limits.h type spec " + spec + ": " + err.Error())
		}
		return ct
	}

	schar := must("signed char")
	uchar := must("unsigned char")
	char := must("char")
	shrt := must("short int")
	ushrt := must("unsigned short int")
	i := must("int")
	ui := must("unsigned int")
	lng := must("long int")
	ulng := must("unsigned long int")
	llng := must("long long int")
	ullng := must("unsigned long long int")

	lo := func(ct ctype.CType) int64 { v, _ := ct.Limits(); return v }
	hi := func(ct ctype.CType) int64 { _, v := ct.Limits(); return v }

	return &Library{
		Name: "limits",
		Consts: []Const{
			{Name: "CHAR_BIT", Value: intConst(ctype.IntType, 8)},
			{Name: "SCHAR_MIN", Value: intConst(schar, lo(schar))},
			{Name: "SCHAR_MAX", Value: intConst(schar, hi(schar))},
			{Name: "UCHAR_MAX", Value: intConst(uchar, hi(uchar))},
			{Name: "CHAR_MIN", Value: intConst(char, lo(char))},
			{Name: "CHAR_MAX", Value: intConst(char, hi(char))},
			{Name: "SHRT_MIN", Value: intConst(shrt, lo(shrt))},
			{Name: "SHRT_MAX", Value: intConst(shrt, hi(shrt))},
			{Name: "USHRT_MAX", Value: intConst(ushrt, hi(ushrt))},
			{Name: "INT_MIN", Value: intConst(i, lo(i))},
			{Name: "INT_MAX", Value: intConst(i, hi(i))},
			{Name: "UINT_MAX", Value: intConst(ui, hi(ui))},
			{Name: "LONG_MIN", Value: intConst(lng, lo(lng))},
			{Name: "LONG_MAX", Value: intConst(lng, hi(lng))},
			{Name: "ULONG_MAX", Value: intConst(ulng, hi(ulng))},
			{Name: "LLONG_MIN", Value: intConst(llng, lo(llng))},
			{Name: "LLONG_MAX", Value: intConst(llng, hi(llng))},
			{Name: "ULLONG_MAX", Value: intConst(ullng, hi(ullng))},
		},
	}
}
