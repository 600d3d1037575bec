package record

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Value is a typed field value.
type Value struct {
	typ FieldType
	num int64
	flt float64
	str string
	dec decimal.Decimal
	tm  time.Time
	set bool
}

// Zero returns the zero value of a field type.
func Zero(t FieldType) Value {
	return Value{typ: t, set: true}
}

// NewIntValue creates an INT value.
func NewIntValue(val int) Value {
	return Value{typ: Int, num: int64(val), set: true}
}

// NewStringValue creates a VARCHAR value.
func NewStringValue(val string) Value {
	return Value{typ: Varchar, str: val, set: true}
}

// NewTextValue creates a TEXT value.
func NewTextValue(val string) Value {
	return Value{typ: Text, str: val, set: true}
}

func NewBoolValue(val bool) Value {
	v := Value{typ: Boolean, set: true}
	if val {
		v.num = 1
	}
	return v
}

func NewCharValue(val rune) Value {
	return Value{typ: Char, num: int64(val), set: true}
}

// NewDateValue creates a DATE value. The time of day is dropped.
func NewDateValue(val time.Time) Value {
	y, m, d := val.Date()
	return Value{typ: Date, tm: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), set: true}
}

// NewDateTimeValue creates a DATETIME value with millisecond precision.
func NewDateTimeValue(val time.Time) Value {
	y, mo, d := val.Date()
	h, mi, s := val.Clock()
	ms := val.Nanosecond() / int(time.Millisecond)
	return Value{typ: DateTime, tm: time.Date(y, mo, d, h, mi, s, ms*int(time.Millisecond), time.UTC), set: true}
}

func NewDecimalValue(val decimal.Decimal) Value {
	return Value{typ: Decimal, dec: val, set: true}
}

// NewFloatValue creates a FLOAT value, which has single precision.
func NewFloatValue(val float32) Value {
	return Value{typ: Float, flt: float64(val), set: true}
}

// NewBlobValue creates a BLOB value holding a copy of val.
func NewBlobValue(val []byte) Value {
	return Value{typ: Blob, str: string(val), set: true}
}

func NewDoubleValue(val float64) Value {
	return Value{typ: Double, flt: val, set: true}
}

// Type returns the field type of the value.
func (v Value) Type() FieldType {
	return v.typ
}

// IsValid reports whether the value was created by one of the constructors.
func (v Value) IsValid() bool {
	return v.set
}

func (v Value) AsInt() int {
	return int(v.num)
}

func (v Value) AsString() string {
	return v.str
}

func (v Value) AsBool() bool {
	return v.num != 0
}

func (v Value) AsChar() rune {
	return rune(v.num)
}

// AsBytes returns a copy of the bytes of a BLOB value.
func (v Value) AsBytes() []byte {
	return []byte(v.str)
}

func (v Value) AsTime() time.Time {
	return v.tm
}

func (v Value) AsDecimal() decimal.Decimal {
	return v.dec
}

func (v Value) AsFloat() float64 {
	return v.flt
}

// IsZero reports whether v is the zero value of its type.
func (v Value) IsZero() bool {
	return v.Equals(Zero(v.typ))
}

// Equals checks if the value is equal to another value of the same type.
func (v Value) Equals(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case Varchar, Text, Blob:
		return v.str == other.str
	case Int, Char, Boolean:
		return v.num == other.num
	case Float, Double:
		return v.flt == other.flt
	case Decimal:
		return v.dec.Equal(other.dec)
	case Date, DateTime:
		return v.tm.Equal(other.tm)
	default:
		return v.str == other.str && v.num == other.num
	}
}

// String returns the textual form of the value, as Format does.
func (v Value) String() string {
	s, err := Format(v.typ, v)
	if err != nil {
		return fmt.Sprintf("<%v>", v.typ)
	}
	return s
}
