// Package contact holds the contact value union found in directory records
// and the rule that flattens it into a single line of text.
package contact

import (
	"strings"

	"github.com/tidwall/gjson"

	"legisdir/internal/util"
)

type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindText
	KindStructured
	// KindOther covers numbers, booleans and arrays.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindStructured:
		return "structured"
	default:
		return "other"
	}
}

// Fields are the keys a structured contact value may carry. A key that is
// missing has KindAbsent.
type Fields struct {
	Email   Value
	Contact Value
	Direct  Value
	Local   Value
}

// Value is a contact value as it appears in the document. raw keeps the
// original JSON text so values written back are byte-identical.
type Value struct {
	kind   Kind
	text   string
	raw    string
	truthy bool
	fields *Fields
}

func Text(s string) Value {
	return Value{kind: KindText, text: s, raw: util.QuoteJSON(s), truthy: s != ""}
}

func Parse(r gjson.Result) Value {
	if !r.Exists() {
		return Value{}
	}

	switch r.Type {
	case gjson.Null:
		return Value{kind: KindNull, raw: r.Raw}
	case gjson.String:
		return Value{kind: KindText, text: r.Str, raw: r.Raw, truthy: r.Str != ""}
	case gjson.Number:
		return Value{kind: KindOther, text: r.Raw, raw: r.Raw, truthy: r.Num != 0}
	case gjson.True:
		return Value{kind: KindOther, text: r.Raw, raw: r.Raw, truthy: true}
	case gjson.False:
		return Value{kind: KindOther, text: r.Raw, raw: r.Raw}
	}

	if r.IsArray() {
		return Value{kind: KindOther, text: r.Raw, raw: r.Raw, truthy: len(r.Array()) > 0}
	}

	v := Value{kind: KindStructured, text: r.Raw, raw: r.Raw, fields: &Fields{}}
	// Later duplicates win, matching a decoder that fills a map.
	r.ForEach(func(key, value gjson.Result) bool {
		v.truthy = true
		switch key.String() {
		case "email":
			v.fields.Email = Parse(value)
		case "contact":
			v.fields.Contact = Parse(value)
		case "direct":
			v.fields.Direct = Parse(value)
		case "local":
			v.fields.Local = Parse(value)
		}
		return true
	})
	return v
}

func ParseString(json string) Value {
	return Parse(gjson.Parse(json))
}

func (v Value) Kind() Kind { return v.kind }

// Present reports whether the key existed, even with a null value.
func (v Value) Present() bool { return v.kind != KindAbsent }

// IsNone reports whether the value carries nothing to write back.
func (v Value) IsNone() bool { return v.kind == KindAbsent || v.kind == KindNull }

// Truthy follows the usual JSON truthiness: null, "", 0, false, [] and {}
// are all empty.
func (v Value) Truthy() bool { return v.truthy }

// Fields returns the keys of a structured value; the zero Fields otherwise.
func (v Value) Fields() Fields {
	if v.fields == nil {
		return Fields{}
	}
	return *v.fields
}

// String is the text used when the value is embedded in a line: the
// string itself for text, the raw JSON for anything else.
func (v Value) String() string {
	if v.kind == KindText {
		return v.text
	}
	return strings.TrimSpace(v.text)
}

// JSON returns the value encoded as JSON. Absent values encode as "".
func (v Value) JSON() string { return v.raw }
