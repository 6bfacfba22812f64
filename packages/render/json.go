package render

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

const jsonIndent = "  "

// colorizeJSON pretty-prints a JSON body with one color per token class:
// object keys, string values, numbers, booleans and null each get their
// own, and structural tokens stay neutral. Returns ok=false when the
// body is not JSON so the caller can fall back to raw text.
func colorizeJSON(body []byte, p *palette) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return "", false
	}
	if !gjson.ValidBytes(trimmed) {
		return "", false
	}

	var b strings.Builder
	writeValue(&b, gjson.ParseBytes(trimmed), 0, p)
	return b.String(), true
}

func writeValue(b *strings.Builder, v gjson.Result, depth int, p *palette) {
	switch {
	case v.IsObject():
		writeObject(b, v, depth, p)
	case v.IsArray():
		writeArray(b, v, depth, p)
	case v.Type == gjson.String:
		b.WriteString(p.green(v.Raw))
	case v.Type == gjson.Number:
		b.WriteString(p.yellow(v.Raw))
	case v.Type == gjson.True || v.Type == gjson.False:
		b.WriteString(p.blue(v.Raw))
	default:
		b.WriteString(p.magenta("null"))
	}
}

func writeObject(b *strings.Builder, v gjson.Result, depth int, p *palette) {
	inner := strings.Repeat(jsonIndent, depth+1)

	first := true
	b.WriteString("{")
	v.ForEach(func(key, value gjson.Result) bool {
		if !first {
			b.WriteString(",")
		}
		first = false
		b.WriteString("\n")
		b.WriteString(inner)
		b.WriteString(p.cyan(strconv.Quote(key.Str)))
		b.WriteString(": ")
		writeValue(b, value, depth+1, p)
		return true
	})
	if first {
		b.WriteString("}")
		return
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(jsonIndent, depth))
	b.WriteString("}")
}

func writeArray(b *strings.Builder, v gjson.Result, depth int, p *palette) {
	inner := strings.Repeat(jsonIndent, depth+1)

	first := true
	b.WriteString("[")
	v.ForEach(func(_, value gjson.Result) bool {
		if !first {
			b.WriteString(",")
		}
		first = false
		b.WriteString("\n")
		b.WriteString(inner)
		writeValue(b, value, depth+1, p)
		return true
	})
	if first {
		b.WriteString("]")
		return
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(jsonIndent, depth))
	b.WriteString("]")
}
