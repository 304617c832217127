package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value holds a JSON value exactly as the processing server sent it.
type Value struct {
	raw json.RawMessage
}

// NewValue builds a Value from its raw JSON text.
func NewValue(raw string) Value {
	return Value{raw: json.RawMessage(raw)}
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// IsSet reports whether the field was present and not null.
func (v Value) IsSet() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Raw returns the undecoded JSON text.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// String renders the value the way the browser script interpolates it:
// strings unquoted, numbers in their shortest decimal form, lists joined
// with commas, objects as "[object Object]", null or absent as "".
func (v Value) String() string {
	if !v.IsSet() {
		return ""
	}
	var decoded interface{}
	dec := json.NewDecoder(bytes.NewReader(v.raw))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return string(bytes.TrimSpace(v.raw))
	}
	return displayString(decoded)
}

func displayString(x interface{}) string {
	switch t := x.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return formatNumber(t.String())
	case []interface{}:
		parts := make([]string, len(t))
		for i, elem := range t {
			parts[i] = displayString(elem)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// formatNumber prints a JSON number literal like Number.prototype.toString:
// fixed notation for 1e-6 <= |f| < 1e21, exponent form otherwise.
func formatNumber(lit string) string {
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		switch {
		case math.IsInf(f, 1):
			return "Infinity"
		case math.IsInf(f, -1):
			return "-Infinity"
		}
		return lit
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// Truthy reports whether the value counts as present for display:
// absent, null, "", 0 and false are not.
func (v Value) Truthy() bool {
	if !v.IsSet() {
		return false
	}
	trimmed := bytes.TrimSpace(v.raw)
	switch c := trimmed[0]; {
	case c == '"':
		return v.String() != ""
	case c == 't':
		return true
	case c == 'f':
		return false
	case c == '-' || (c >= '0' && c <= '9'):
		f, err := strconv.ParseFloat(string(trimmed), 64)
		return err != nil || f != 0
	default:
		return true
	}
}

// IsList reports whether the value is a JSON array.
func (v Value) IsList() bool {
	trimmed := bytes.TrimSpace(v.raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// LabelRecord is one label returned by the processing server.
type LabelRecord struct {
	CustomerFirstName Value `json:"customer_first_name"`
	CustomerLastName  Value `json:"customer_last_name"`
	Product           Value `json:"product"`
	Variant           Value `json:"variant"`
	Modifiers         Value `json:"modifiers"`
	Price             Value `json:"price"`
	ExpiryDate        Value `json:"expiry_date"`
	Calories          Value `json:"calories"`
	Protein           Value `json:"protein"`
	Carbs             Value `json:"carbs"`
	Fat               Value `json:"fat"`
	Preparation       Value `json:"preparation"`

	// Sent by the processing server but not shown on the card.
	GenerationDate Value `json:"generation_date"`
	LogoURL        Value `json:"logo_url"`
}

// ProcessResponse is the body of a /process_csv reply. Error is checked
// before Labels.
type ProcessResponse struct {
	Error   Value `json:"error"`
	Labels  Value `json:"labels"`
	Storage Value `json:"storage"`
}

// CardLine is a single "Label: value" line of a card.
type CardLine struct {
	Label string
	Value string
}

// Text returns the line as displayed.
func (l CardLine) Text() string {
	return l.Label + ": " + l.Value
}

// Card is the display content of one label, unescaped.
type Card struct {
	Heading string
	Lines   []CardLine
}
