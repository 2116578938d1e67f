package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/gad-lang/esparse/runehelper"
)

// NumberValue decodes the text of a numeric literal accepted by the
// tokenizer. Integral values are narrowed to int32, then int64, else kept
// as float64; literals written with a decimal point stay float64.
func NumberValue(raw string, flags TokenFlags) (any, error) {
	s := strings.ReplaceAll(raw, "_", "")
	if flags.Has(LegacyOctal) {
		return parseBase(s[1:], 8)
	}
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseBase(s[2:], 16)
		case 'o', 'O':
			return parseBase(s[2:], 8)
		case 'b', 'B':
			return parseBase(s[2:], 2)
		}
	}
	if strings.IndexByte(s, '.') >= 0 {
		return parseFloat(s)
	}
	if strings.ContainsAny(s, "eE") {
		return parseExponent(s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return parseFloat(s)
	}
	return narrow(v), nil
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRange(err) {
		return nil, err
	}
	return f, nil
}

func isRange(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// parseExponent narrows 1e3 and 1500e-2 to integers when they are exact.
func parseExponent(s string) (any, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	if d.Exponent() <= 18 && d.Equal(d.Truncate(0)) {
		if b := d.BigInt(); b.IsInt64() {
			return narrow(b.Int64()), nil
		}
	}
	return parseFloat(s)
}

func parseBase(s string, base int) (any, error) {
	v, err := strconv.ParseUint(s, base, 64)
	if err == nil {
		if v <= math.MaxInt64 {
			return narrow(int64(v)), nil
		}
		return float64(v), nil
	}
	if !isRange(err) {
		return nil, err
	}
	b, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, err
	}
	f, _ := new(big.Float).SetInt(b).Float64()
	return f, nil
}

func narrow(v int64) any {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return int32(v)
	}
	return v
}

// BigIntValue decodes a BigInt literal such as 0x1fn.
func BigIntValue(raw string) (*big.Int, bool) {
	s := strings.ReplaceAll(strings.TrimSuffix(raw, "n"), "_", "")
	return new(big.Int).SetString(s, 0)
}

// StringValue decodes the text between the quotes of a string literal.
func StringValue(s string) string {
	v, _ := unescape(s, false)
	return v
}

// TemplateValue normalizes the line terminators of a template span and
// decodes its escapes. ok is false if the span holds an escape that has
// no cooked value.
func TemplateValue(s string) (raw, cooked string, ok bool) {
	raw = normalizeNewlines(s)
	cooked, ok = unescape(raw, true)
	return
}

func normalizeNewlines(s string) string {
	if strings.IndexByte(s, '\r') < 0 {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// IdentValue decodes the \u escapes of an identifier.
func IdentValue(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	v, _ := unescape(s, false)
	return v
}

// RegexpParts splits the text of a regular expression literal.
func RegexpParts(raw string) (pattern, flags string) {
	i := strings.LastIndexByte(raw, '/')
	return raw[1:i], raw[i+1:]
}

func unescape(s string, template bool) (string, bool) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, true
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(s) {
			return "", false
		}
		c = s[i]
		i++
		switch c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if i+2 > len(s) {
				return "", false
			}
			v, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			r, n := readUnicode(s[i:])
			if n < 0 {
				return "", false
			}
			i += n
			if utf16.IsSurrogate(r) && strings.HasPrefix(s[i:], `\u`) {
				if r2, n2 := readUnicode(s[i+2:]); n2 > 0 {
					if p := utf16.DecodeRune(r, r2); p != utf8.RuneError {
						r = p
						i += 2 + n2
					}
				}
			}
			b.WriteRune(r)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if c == '0' && (i >= len(s) || !runehelper.IsDigit(rune(s[i]))) {
				b.WriteByte(0)
				continue
			}
			if template {
				return "", false
			}
			v := rune(c - '0')
			max := 2
			if c >= '4' {
				max = 1
			}
			for j := 0; j < max && i < len(s) && runehelper.IsOctal(rune(s[i])); j++ {
				v = v*8 + rune(s[i]-'0')
				i++
			}
			b.WriteRune(v)
		case '8', '9':
			if template {
				return "", false
			}
			b.WriteByte(c)
		default:
			r, w := utf8.DecodeRuneInString(s[i-1:])
			i += w - 1
			if r != runehelper.LineSeparator && r != runehelper.ParagraphSeparator {
				b.WriteRune(r)
			}
		}
	}
	return b.String(), true
}

// readUnicode reads the part of a \u escape after the u and returns the
// number of bytes used, or -1.
func readUnicode(s string) (rune, int) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, -1
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, -1
		}
		return rune(v), end + 1
	}
	if len(s) < 4 {
		return 0, -1
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, -1
	}
	return rune(v), 4
}

// hereStringBody returns the lines between the header and the closing
// marker of a here-string, with the offset of the body in raw.
func hereStringBody(raw string) (body string, offset int) {
	nl := strings.IndexAny(raw, "\r\n\u2028\u2029")
	if nl < 0 {
		return "", len(raw)
	}
	_, w := utf8.DecodeRuneInString(raw[nl:])
	offset = nl + w
	if raw[nl] == '\r' && offset < len(raw) && raw[offset] == '\n' {
		offset++
	}
	last := strings.LastIndexAny(raw, "\r\n\u2028\u2029")
	if last < offset {
		return "", offset
	}
	body = raw[offset:last]
	body = strings.TrimSuffix(body, "\r")
	return
}

// hole is the range of an interpolated expression, between ${ and }.
type hole struct {
	start, end int
}

// findHoles locates the ${...} holes of an interpolating string body.
func findHoles(s string) (holes []hole) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				end := matchBrace(s, i+2)
				if end < 0 {
					return
				}
				holes = append(holes, hole{i + 2, end})
				i = end
			}
		}
	}
	return
}

// matchBrace returns the offset of the brace closing the block starting at
// i, skipping quoted text.
func matchBrace(s string, i int) int {
	depth := 0
	for ; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '"', '\'', '`':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		}
	}
	return -1
}
