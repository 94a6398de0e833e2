package contact

import "strings"

const (
	localPrefix   = "local "
	partSeparator = "; "
)

// Clean flattens a contact value into its text form and pulls out the
// email it carried, if any.
//
// The returned contact is IsNone when the field should be dropped. A
// structured value with none of contact/direct/local is returned unchanged.
func Clean(v Value) (cleaned Value, email Value) {
	if !v.Truthy() {
		return Value{}, Value{}
	}

	switch v.kind {
	case KindText:
		return v, Value{}
	case KindStructured:
		f := v.Fields()
		if f.Contact.Present() {
			return f.Contact, f.Email
		}
		if text, ok := joinNumbers(f.Direct, f.Local); ok {
			return Text(text), f.Email
		}
		return v, f.Email
	default:
		return v, Value{}
	}
}

func joinNumbers(direct, local Value) (string, bool) {
	parts := make([]string, 0, 2)
	if direct.Truthy() {
		parts = append(parts, direct.String())
	}
	if local.Truthy() {
		parts = append(parts, localPrefix+local.String())
	}
	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, partSeparator), true
}
