package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotAvailable is what callers see for any cell that is not a usable number.
const NotAvailable = "N/A"

type Kind uint8

const (
	Empty Kind = iota
	Number
	String
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case String:
		return "string"
	default:
		return "empty"
	}
}

// Value is one spreadsheet cell: empty, a number or free text. A number
// parsed from a sheet keeps the text it was written as.
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Num(f float64) Value {
	return Value{kind: Number, num: f}
}

func Str(s string) Value {
	return Value{kind: String, str: s}
}

// Parse infers the cell type from its raw text. Blank cells are empty,
// finite floats are numbers, the rest stays text. Words such as "NaN"
// or "Inf" are text.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Str(raw)
	}
	return Value{kind: Number, num: f, str: trimmed}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsEmpty() bool { return v.kind == Empty }

// Float returns the numeric content and whether it is a finite number.
func (v Value) Float() (float64, bool) {
	if v.kind != Number || math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return 0, false
	}
	return v.num, true
}

// String is the cell text: "00123" stays "00123" even though it is also
// the number 123. Numbers built without text are formatted; NaN is "".
func (v Value) String() string {
	switch v.kind {
	case Number:
		if v.str != "" {
			return v.str
		}
		if math.IsNaN(v.num) {
			return ""
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case String:
		return v.str
	default:
		return ""
	}
}

// Display is the read-path rendering: finite numbers stay numbers,
// everything else becomes "N/A" so responses are always valid JSON.
func (v Value) Display() interface{} {
	if f, ok := v.Float(); ok {
		return f
	}
	return NotAvailable
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Number:
		if f, ok := v.Float(); ok {
			return json.Marshal(f)
		}
		return []byte("null"), nil
	case String:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null" || trimmed == "":
		*v = Value{}
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("tabular: cannot decode %s as a cell value: %w", trimmed, err)
		}
		*v = Num(f)
	}
	return nil
}
