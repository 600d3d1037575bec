package record

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedType = errors.New("unsupported field type")
	ErrFormat          = errors.New("malformed value")
	ErrTypeMismatch    = errors.New("value type does not match field type")
)

// Layouts used when binding time values as parameters. Zero padded so that the
// backend orders them correctly as text.
const (
	bindDateLayout     = "2006-01-02"
	bindDateTimeLayout = "2006-01-02 15:04:05.000"
)

// Decode converts the backend's textual representation into a typed value.
// The empty string decodes to the zero value of the type.
func Decode(t FieldType, text string) (Value, error) {
	if text == "" {
		if _, ok := fieldTypeNames[t]; !ok {
			return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
		}
		return Zero(t), nil
	}

	switch t {
	case Varchar:
		return NewStringValue(text), nil
	case Text:
		return NewTextValue(text), nil
	case Blob:
		return NewBlobValue([]byte(text)), nil
	case Int:
		i, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("%w: int %q", ErrFormat, text)
		}
		return NewIntValue(i), nil
	case Boolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("%w: boolean %q", ErrFormat, text)
		}
		return NewBoolValue(b), nil
	case Char:
		r, size := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError || size != len(text) {
			return Value{}, fmt.Errorf("%w: char %q", ErrFormat, text)
		}
		return NewCharValue(r), nil
	case Date:
		tm, err := decodeDate(text)
		if err != nil {
			return Value{}, err
		}
		return NewDateValue(tm), nil
	case DateTime:
		tm, err := decodeDateTime(text)
		if err != nil {
			return Value{}, err
		}
		return NewDateTimeValue(tm), nil
	case Decimal:
		d, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("%w: decimal %q", ErrFormat, text)
		}
		return NewDecimalValue(d), nil
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: float %q", ErrFormat, text)
		}
		return NewFloatValue(float32(f)), nil
	case Double:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: double %q", ErrFormat, text)
		}
		return NewDoubleValue(f), nil
	default:
		return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
}

// Format renders a typed value in the textual form Decode accepts. Dates use
// YYYY-M-D and YYYY-M-D H:M:S.fff.
func Format(t FieldType, v Value) (string, error) {
	if v.typ != t {
		return "", fmt.Errorf("%w: %v value for %v field", ErrTypeMismatch, v.typ, t)
	}
	switch t {
	case Varchar, Text, Blob:
		return v.str, nil
	case Int:
		return strconv.FormatInt(v.num, 10), nil
	case Boolean:
		return strconv.FormatBool(v.num != 0), nil
	case Char:
		if v.num == 0 {
			return "", nil
		}
		return string(rune(v.num)), nil
	case Date:
		return fmt.Sprintf("%d-%d-%d", v.tm.Year(), int(v.tm.Month()), v.tm.Day()), nil
	case DateTime:
		return fmt.Sprintf("%d-%d-%d %d:%d:%d.%03d",
			v.tm.Year(), int(v.tm.Month()), v.tm.Day(),
			v.tm.Hour(), v.tm.Minute(), v.tm.Second(), v.tm.Nanosecond()/int(time.Millisecond)), nil
	case Decimal:
		return v.dec.String(), nil
	case Float:
		return strconv.FormatFloat(v.flt, 'g', -1, 32), nil
	case Double:
		return strconv.FormatFloat(v.flt, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
}

// Encode renders a typed value as an SQL literal: string-like types are single
// quoted, numbers are bare, booleans are a quoted token and blobs are X'hex'.
func Encode(t FieldType, v Value) (string, error) {
	s, err := Format(t, v)
	if err != nil {
		return "", err
	}
	switch t {
	case Int, Decimal, Float, Double:
		return s, nil
	case Blob:
		return "X'" + hex.EncodeToString([]byte(s)) + "'", nil
	default:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'", nil
	}
}

// Bind returns the value in the form passed to database/sql as a statement
// argument.
func Bind(t FieldType, v Value) (any, error) {
	if v.typ != t {
		return nil, fmt.Errorf("%w: %v value for %v field", ErrTypeMismatch, v.typ, t)
	}
	switch t {
	case Varchar, Text:
		return v.str, nil
	case Blob:
		return []byte(v.str), nil
	case Int:
		return v.num, nil
	case Boolean:
		return v.num != 0, nil
	case Char:
		if v.num == 0 {
			return "", nil
		}
		return string(rune(v.num)), nil
	case Date:
		return v.tm.Format(bindDateLayout), nil
	case DateTime:
		return v.tm.Format(bindDateTimeLayout), nil
	case Decimal:
		return v.dec.String(), nil
	case Float, Double:
		return v.flt, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, t)
	}
}

// decodeDate parses YYYY-M-D. A trailing time part is ignored.
func decodeDate(text string) (time.Time, error) {
	datePart, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	y, m, d, err := splitDate(datePart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrFormat, text)
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
}

// decodeDateTime parses YYYY-M-D H:M:S.fff. The .fff part may be missing.
func decodeDateTime(text string) (time.Time, error) {
	datePart, timePart, found := strings.Cut(strings.TrimSpace(text), " ")
	y, mo, d, err := splitDate(datePart)
	if err != nil || !found {
		return time.Time{}, fmt.Errorf("%w: datetime %q", ErrFormat, text)
	}
	clock := strings.Split(timePart, ":")
	if len(clock) != 3 {
		return time.Time{}, fmt.Errorf("%w: datetime %q", ErrFormat, text)
	}
	secPart, msPart, hasMs := strings.Cut(clock[2], ".")
	nums := []string{clock[0], clock[1], secPart}
	if hasMs {
		nums = append(nums, msPart)
	}
	parsed := make([]int, 4)
	for i, n := range nums {
		parsed[i], err = strconv.Atoi(n)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: datetime %q", ErrFormat, text)
		}
	}
	if hasMs {
		parsed[3] = millis(msPart, parsed[3])
	}
	return time.Date(y, time.Month(mo), d, parsed[0], parsed[1], parsed[2], parsed[3]*int(time.Millisecond), time.UTC), nil
}

// millis scales a fractional second with more or fewer than three digits to
// milliseconds, so "5" is 500ms and "123456" is 123ms.
func millis(digits string, n int) int {
	for i := len(digits); i < 3; i++ {
		n *= 10
	}
	for i := len(digits); i > 3; i-- {
		n /= 10
	}
	return n
}

func splitDate(s string) (int, int, int, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, ErrFormat
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, err
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}
