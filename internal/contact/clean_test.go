package contact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	for _, in := range []string{`"02-123"`, `"8931-5001; local 7190"`, `"a@b.com"`} {
		cleaned, email := Clean(ParseString(in))
		require.Equal(t, KindText, cleaned.Kind())
		require.Equal(t, in, cleaned.JSON())
		require.False(t, email.Present(), "no email extraction from strings")
	}
}

func TestCleanEmpty(t *testing.T) {
	tests := []struct {
		name string
		in   Value
	}{
		{name: "absent", in: Value{}},
		{name: "null", in: ParseString(`null`)},
		{name: "empty string", in: ParseString(`""`)},
		{name: "empty object", in: ParseString(`{}`)},
		{name: "empty array", in: ParseString(`[]`)},
		{name: "zero", in: ParseString(`0`)},
		{name: "false", in: ParseString(`false`)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cleaned, email := Clean(tc.in)
			require.True(t, cleaned.IsNone())
			require.False(t, email.Present())
		})
	}
}

func TestCleanStructured(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantJSON  string
		wantEmail string
	}{
		{name: "direct and local", in: `{"direct": "123", "local": "456"}`, wantJSON: `"123; local 456"`},
		{name: "direct only", in: `{"direct": "123"}`, wantJSON: `"123"`},
		{name: "local only", in: `{"local": "456"}`, wantJSON: `"local 456"`},
		{name: "empty direct skipped", in: `{"direct": "", "local": "456"}`, wantJSON: `"local 456"`},
		{name: "numeric local", in: `{"direct": "123", "local": 456}`, wantJSON: `"123; local 456"`},
		{name: "contact wins", in: `{"contact": "999", "direct": "123", "local": "456"}`, wantJSON: `"999"`},
		{name: "contact empty string kept", in: `{"contact": "", "direct": "123"}`, wantJSON: `""`},
		{name: "contact with email", in: `{"contact": "999", "email": "x@gov.ph"}`, wantJSON: `"999"`, wantEmail: `"x@gov.ph"`},
		{name: "direct with email", in: `{"direct": "02-123", "email": "x@gov"}`, wantJSON: `"02-123"`, wantEmail: `"x@gov"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cleaned, email := Clean(ParseString(tc.in))
			require.Equal(t, tc.wantJSON, cleaned.JSON())
			if tc.wantEmail == "" {
				require.False(t, email.Truthy())
				return
			}
			require.Equal(t, tc.wantEmail, email.JSON())
		})
	}
}

func TestCleanNullContactKeyDropsField(t *testing.T) {
	cleaned, email := Clean(ParseString(`{"contact": null, "email": "a@b.com"}`))
	require.True(t, cleaned.IsNone())
	require.Equal(t, `"a@b.com"`, email.JSON())
}

func TestCleanPassthrough(t *testing.T) {
	in := `{"email": "a@b.com"}`
	cleaned, email := Clean(ParseString(in))
	require.Equal(t, KindStructured, cleaned.Kind())
	require.Equal(t, in, cleaned.JSON())
	require.Equal(t, "a@b.com", email.String())

	cleaned, email = Clean(ParseString(`{"fax": "123"}`))
	require.Equal(t, `{"fax": "123"}`, cleaned.JSON())
	require.False(t, email.Present())
}

func TestCleanOtherKinds(t *testing.T) {
	for _, in := range []string{`12345`, `true`, `["02-123"]`} {
		cleaned, email := Clean(ParseString(in))
		require.Equal(t, KindOther, cleaned.Kind())
		require.Equal(t, in, cleaned.JSON())
		require.False(t, email.Present())
	}
}

func TestCleanIsStableOnItsOutput(t *testing.T) {
	inputs := []string{
		`{"direct": "123", "local": "456"}`,
		`{"contact": "999"}`,
		`"plain"`,
		`{"email": "a@b.com"}`,
	}
	for _, in := range inputs {
		first, _ := Clean(ParseString(in))
		second, _ := Clean(ParseString(first.JSON()))
		require.Equal(t, first.JSON(), second.JSON())
	}
}
