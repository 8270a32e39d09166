package builtin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cinth/cinth/ctype"
	"github.com/cinth/cinth/memtable"
	"github.com/cinth/cinth/value"
)

func stdioLibrary() *Library {
	return &Library{
		Name: "stdio",
		Funcs: []Func{
			{Name: "printf", ReturnType: ctype.IntType, ParamTypes: nil, Call: callPrintf},
			{Name: "scanf", ReturnType: ctype.IntType, ParamTypes: nil, Call: callScanf},
			{Name: "getchar", ReturnType: charType(), ParamTypes: []ctype.CType{}, Call: callGetchar},
			{Name: "putchar", ReturnType: charType(), ParamTypes: []ctype.CType{charType()}, Call: callPutchar},
		},
	}
}

func charType() ctype.CType { return ctype.CType{TypeSpec: ctype.Char} }

// formatSpec is one %-conversion found while scanning a format string.
type formatSpec struct {
	verb byte
}

func scanFormat(fmtStr string) []formatSpec {
	var specs []formatSpec
	for i := 0; i < len(fmtStr); i++ {
		if fmtStr[i] != '%' {
			continue
		}
		j := i + 1
		for j < len(fmtStr) && strings.IndexByte("diouxXfFeEgGaAcspn%", fmtStr[j]) < 0 {
			j++
		}
		if j >= len(fmtStr) {
			break
		}
		if fmtStr[j] != '%' {
			specs = append(specs, formatSpec{verb: fmtStr[j]})
		}
		i = j
	}
	return specs
}

func asNumber(v interface{}) (value.Number, bool) {
	n, ok := v.(value.Number)
	return n, ok
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// callPrintf writes fmt with each following argument substituted into its
// conversion, and returns the number of bytes written, as C's printf does.
func callPrintf(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) == 0 {
		return value.Number{}, fmt.Errorf("printf: missing format string")
	}
	fmtStr, ok := asString(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("printf: first argument must be a string literal")
	}
	rest := args[1:]
	var out strings.Builder
	specI := 0
	for i := 0; i < len(fmtStr); i++ {
		c := fmtStr[i]
		if c != '%' {
			out.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(fmtStr) && strings.IndexByte("diouxXfFeEgGaAcspn%", fmtStr[j]) < 0 {
			j++
		}
		if j >= len(fmtStr) {
			out.WriteByte(c)
			continue
		}
		verb := fmtStr[j]
		i = j
		if verb == '%' {
			out.WriteByte('%')
			continue
		}
		if specI >= len(rest) {
			return value.Number{}, fmt.Errorf("printf: not enough arguments for format %q", fmtStr)
		}
		arg := rest[specI]
		specI++
		switch verb {
		case 'd', 'i':
			n, _ := asNumber(arg)
			fmt.Fprintf(&out, "%d", n.IntValue())
		case 'u', 'o', 'x', 'X':
			n, _ := asNumber(arg)
			fmt.Fprintf(&out, "%"+string(verb), n.IntValue())
		case 'f', 'F', 'e', 'E', 'g', 'G':
			n, _ := asNumber(arg)
			fmt.Fprintf(&out, "%"+string(verb), n.FloatValue())
		case 'c':
			n, _ := asNumber(arg)
			out.WriteByte(byte(n.IntValue()))
		case 's':
			s, _ := asString(arg)
			out.WriteString(s)
		case 'p':
			n, _ := asNumber(arg)
			fmt.Fprintf(&out, "%#x", uint32(n.IntValue()))
		default:
			out.WriteByte('%')
			out.WriteByte(verb)
		}
	}
	n, err := r.Stdout.Write([]byte(out.String()))
	if err != nil {
		return value.Number{}, err
	}
	return value.NewInt(ctype.IntType, int64(n)), nil
}

// callScanf reads whitespace-separated tokens from stdin, one per %-spec,
// and stores each into the address carried by the matching pointer
// argument. Only %d/%i/%f/%c are supported, per the external interface.
func callScanf(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) == 0 {
		return value.Number{}, fmt.Errorf("scanf: missing format string")
	}
	fmtStr, ok := asString(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("scanf: first argument must be a string literal")
	}
	specs := scanFormat(fmtStr)
	ptrs := args[1:]
	if len(specs) != len(ptrs) {
		return value.Number{}, fmt.Errorf("scanf: format %q expects %d arguments, got %d", fmtStr, len(specs), len(ptrs))
	}

	n := 0
	for i, spec := range specs {
		tok, err := readToken(r)
		if err != nil {
			return value.NewInt(ctype.IntType, int64(n)), fmt.Errorf("scanf: %w", err)
		}
		ptr, ok := asNumber(ptrs[i])
		if !ok {
			return value.Number{}, fmt.Errorf("scanf: argument %d is not a pointer", i+1)
		}
		pointee, err := ptr.Type.Dereference()
		if err != nil {
			return value.Number{}, fmt.Errorf("scanf: argument %d is not a pointer", i+1)
		}
		var v value.Number
		switch spec.verb {
		case 'd', 'i':
			iv, perr := strconv.ParseInt(tok, 10, 64)
			if perr != nil {
				return value.Number{}, fmt.Errorf("scanf: %q is not an integer", tok)
			}
			v = value.NewInt(pointee, iv)
		case 'f':
			fv, perr := strconv.ParseFloat(tok, 64)
			if perr != nil {
				return value.Number{}, fmt.Errorf("scanf: %q is not a real number", tok)
			}
			v = value.NewFloat(pointee, fv)
		case 'c':
			if len(tok) == 0 {
				return value.Number{}, fmt.Errorf("scanf: empty token for %%c")
			}
			v = value.NewInt(pointee, int64(tok[0]))
		default:
			return value.Number{}, fmt.Errorf("scanf: unsupported format flag %%%c", spec.verb)
		}
		if err := mem.Store(ptr.Address(), v); err != nil {
			return value.Number{}, err
		}
		n++
	}
	return value.NewInt(ctype.IntType, int64(n)), nil
}

func readToken(r *Registry) (string, error) {
	var b strings.Builder
	for {
		c, err := r.Stdin.ReadByte()
		if err != nil {
			return "", err
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			if err := r.Stdin.UnreadByte(); err != nil {
				return "", err
			}
			break
		}
	}
	for {
		c, err := r.Stdin.ReadByte()
		if err != nil {
			if b.Len() > 0 {
				break
			}
			return "", err
		}
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}

func callGetchar(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	c, err := r.Stdin.ReadByte()
	if err != nil {
		return value.NewInt(charType(), -1), nil // EOF, matching C's getchar()
	}
	return value.NewInt(charType(), int64(c)), nil
}

func callPutchar(r *Registry, mem *memtable.Memory, args []interface{}) (value.Number, error) {
	if len(args) != 1 {
		return value.Number{}, fmt.Errorf("putchar: expected 1 argument")
	}
	n, ok := asNumber(args[0])
	if !ok {
		return value.Number{}, fmt.Errorf("putchar: expected a char argument")
	}
	c := byte(n.IntValue())
	if _, err := r.Stdout.Write([]byte{c}); err != nil {
		return value.Number{}, err
	}
	return value.NewInt(charType(), int64(c)), nil
}
