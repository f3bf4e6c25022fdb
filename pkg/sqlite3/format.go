package sqlite3

import (
	"strconv"
	"strings"
)

// Mprintf renders a SQL template with the engine's quoting verbs. It
// understands the subset needed for DDL and literal injection:
//
//	%q  string with embedded single quotes doubled, no surrounding quotes
//	%Q  like %q but surrounded by single quotes; nil renders as NULL
//	%d  integer
//	%f  float
//	%s  raw string, no quoting
//	%%  literal percent sign
//
// Verb and argument mismatches are misuse errors.
func Mprintf(format string, args ...any) (string, error) {
	var b strings.Builder
	arg := 0
	next := func() (any, error) {
		if arg >= len(args) {
			return nil, &Error{Code: CodeMisuse, Message: "too few arguments for format"}
		}
		v := args[arg]
		arg++
		return v, nil
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			b.WriteByte(ch)
			continue
		}
		i++
		if i >= len(format) {
			return "", &Error{Code: CodeMisuse, Message: "trailing % in format"}
		}
		switch verb := format[i]; verb {
		case '%':
			b.WriteByte('%')
		case 'q', 'Q':
			v, err := next()
			if err != nil {
				return "", err
			}
			if v == nil {
				if verb == 'Q' {
					b.WriteString("NULL")
					break
				}
				return "", &Error{Code: CodeMisuse, Message: "%q argument is nil"}
			}
			s, ok := v.(string)
			if !ok {
				return "", &Error{Code: CodeMisuse, Message: "%q/%Q argument is not a string"}
			}
			if verb == 'Q' {
				b.WriteByte('\'')
			}
			b.WriteString(strings.ReplaceAll(s, "'", "''"))
			if verb == 'Q' {
				b.WriteByte('\'')
			}
		case 'd':
			v, err := next()
			if err != nil {
				return "", err
			}
			switch n := v.(type) {
			case int:
				b.WriteString(strconv.Itoa(n))
			case int32:
				b.WriteString(strconv.FormatInt(int64(n), 10))
			case int64:
				b.WriteString(strconv.FormatInt(n, 10))
			default:
				return "", &Error{Code: CodeMisuse, Message: "%d argument is not an integer"}
			}
		case 'f':
			v, err := next()
			if err != nil {
				return "", err
			}
			f, ok := v.(float64)
			if !ok {
				return "", &Error{Code: CodeMisuse, Message: "%f argument is not a float64"}
			}
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		case 's':
			v, err := next()
			if err != nil {
				return "", err
			}
			s, ok := v.(string)
			if !ok {
				return "", &Error{Code: CodeMisuse, Message: "%s argument is not a string"}
			}
			b.WriteString(s)
		default:
			return "", &Error{Code: CodeMisuse, Message: "unsupported format verb %" + string(verb)}
		}
	}
	if arg != len(args) {
		return "", &Error{Code: CodeMisuse, Message: "too many arguments for format"}
	}
	return b.String(), nil
}
