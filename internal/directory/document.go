// Package directory rewrites contact fields in the legislative directory
// document. The document stays raw JSON throughout so untouched values,
// key order and number formatting survive the rewrite.
package directory

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"legisdir/internal"
	"legisdir/internal/contact"
	"legisdir/internal/util"
)

const (
	DefaultContactField = "contact"
	EmailField          = "email"
	ownerField          = "name"
)

var ErrInvalidJSON = errors.New("invalid json document")

type Document struct {
	raw     []byte
	changes []internal.ContactChange
	counts  internal.RunCounts
	log     *zap.SugaredLogger
}

type Option func(*Document)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(d *Document) {
		if log != nil {
			d.log = log
		}
	}
}

func NewDocument(raw []byte, opts ...Option) (*Document, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	d := &Document{
		raw: append([]byte(nil), raw...),
		log: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func (d *Document) Bytes() []byte { return d.raw }

func (d *Document) Changes() []internal.ContactChange { return d.changes }

func (d *Document) Counts() internal.RunCounts { return d.counts }

// Indented returns the document re-indented with width spaces per level.
func (d *Document) Indented(width int) []byte {
	return Indent(d.raw, width)
}

// Indent re-indents raw with width spaces per level. String escapes are
// decoded first so non-ASCII text is written literally, and the result has
// no trailing newline.
func Indent(raw []byte, width int) []byte {
	if width <= 0 {
		width = 2
	}
	// Width 0 keeps every array element on its own line.
	out := pretty.PrettyOptions(decodeStrings(raw), &pretty.Options{
		Width:  0,
		Prefix: "",
		Indent: strings.Repeat(" ", width),
	})
	return bytes.TrimSuffix(out, []byte("\n"))
}

// decodeStrings re-emits the document with every key and string value in
// its decoded form. Numbers, literals and key order are left as they are.
func decodeStrings(raw []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(raw))
	appendDecoded(&buf, gjson.ParseBytes(raw))
	return buf.Bytes()
}

func appendDecoded(buf *bytes.Buffer, r gjson.Result) {
	switch {
	case r.Type == gjson.String:
		buf.WriteString(util.QuoteJSON(r.Str))
	case r.IsObject():
		buf.WriteByte('{')
		first := true
		r.ForEach(func(key, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			buf.WriteString(util.QuoteJSON(key.String()))
			buf.WriteByte(':')
			appendDecoded(buf, value)
			return true
		})
		buf.WriteByte('}')
	case r.IsArray():
		buf.WriteByte('[')
		first := true
		r.ForEach(func(_, value gjson.Result) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			appendDecoded(buf, value)
			return true
		})
		buf.WriteByte(']')
	default:
		buf.WriteString(r.Raw)
	}
}

// ApplyContactField cleans object.field in place: the cleaned text replaces
// the value, an empty result deletes the field, and an embedded email is
// written to object.email.
func (d *Document) ApplyContactField(objectPath, field string) error {
	if field == "" {
		field = DefaultContactField
	}
	fieldPath := joinPath(objectPath, field)
	current := gjson.GetBytes(d.raw, fieldPath)
	if !current.Exists() {
		return nil
	}

	before := contact.Parse(current)
	cleaned, email := contact.Clean(before)

	change := internal.ContactChange{
		Path:     fieldPath,
		Field:    field,
		Owner:    d.ownerName(objectPath),
		KindFrom: before.Kind().String(),
	}

	// Each write copies the document; fine at directory scale, batch the
	// edits if the dataset grows to many thousands of fields.
	var err error
	switch {
	case cleaned.IsNone():
		d.raw, err = sjson.DeleteBytes(d.raw, fieldPath)
		change.Action = internal.ActionRemoved
	case cleaned.Kind() == contact.KindText && before.Kind() == contact.KindText:
		change.Action = internal.ActionUnchanged
		change.Cleaned = util.StringPtr(cleaned.String())
	case cleaned.Kind() == contact.KindText:
		d.raw, err = sjson.SetRawBytes(d.raw, fieldPath, []byte(cleaned.JSON()))
		change.Action = internal.ActionFlattened
		change.Cleaned = util.StringPtr(cleaned.String())
	default:
		if cleaned.JSON() != before.JSON() {
			d.raw, err = sjson.SetRawBytes(d.raw, fieldPath, []byte(cleaned.JSON()))
		}
		change.Action = internal.ActionPassthrough
		d.log.Warnw("contact left unflattened", "path", fieldPath, "kind", cleaned.Kind().String())
	}
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", fieldPath, err)
	}

	if email.Truthy() {
		emailPath := joinPath(objectPath, EmailField)
		if d.raw, err = sjson.SetRawBytes(d.raw, emailPath, []byte(email.JSON())); err != nil {
			return fmt.Errorf("hoist email %s: %w", emailPath, err)
		}
		change.Email = util.StringPtr(email.String())
		d.counts.EmailsHoisted++
	}

	d.record(change)
	return nil
}

func (d *Document) record(change internal.ContactChange) {
	d.counts.Visited++
	switch change.Action {
	case internal.ActionFlattened:
		d.counts.Flattened++
	case internal.ActionUnchanged:
		d.counts.Unchanged++
	case internal.ActionRemoved:
		d.counts.Removed++
	case internal.ActionPassthrough:
		d.counts.Passthrough++
	}
	d.changes = append(d.changes, change)
	d.log.Debugw("contact field", "path", change.Path, "action", string(change.Action))
}

func (d *Document) ownerName(objectPath string) *string {
	name := gjson.GetBytes(d.raw, joinPath(objectPath, ownerField))
	if name.Type != gjson.String {
		return nil
	}
	if clean := util.CollapseSpaces(name.Str); clean != "" {
		return &clean
	}
	return nil
}

func joinPath(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}

func indexPath(parent string, i int) string {
	return joinPath(parent, strconv.Itoa(i))
}
