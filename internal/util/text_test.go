package util

import "testing"

func TestQuoteJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "02-123", want: `"02-123"`},
		{name: "html kept", input: "a<b>&c", want: `"a<b>&c"`},
		{name: "non ascii kept", input: "Dasmariñas", want: `"Dasmariñas"`},
		{name: "quotes escaped", input: `say "hi"`, want: `"say \"hi\""`},
		{name: "empty", input: "", want: `""`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QuoteJSON(tc.input); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}
}

func TestCollapseSpaces(t *testing.T) {
	if got := CollapseSpaces("  Hon.\tJuan \n  Dela  Cruz "); got != "Hon. Juan Dela Cruz" {
		t.Fatalf("got %q", got)
	}
	if got := CollapseSpaces("   "); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestE164(t *testing.T) {
	cases := []struct {
		name    string
		contact string
		want    string
	}{
		{name: "international", contact: "+63 2 8123 4567", want: "+63281234567"},
		{name: "first segment only", contact: "+63 2 8123 4567; local 7190", want: "+63281234567"},
		{name: "local only", contact: "local 7190", want: ""},
		{name: "empty", contact: "", want: ""},
		{name: "no digits", contact: "n/a", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := E164(tc.contact, "PH"); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}
