package util

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// E164 formats the first number of a flattened contact line ("02-123; local
// 45") in E.164 for the given region. Local extensions and unparseable
// text yield "".
func E164(contact, region string) string {
	first := strings.TrimSpace(strings.SplitN(contact, ";", 2)[0])
	if first == "" || strings.HasPrefix(strings.ToLower(first), "local ") {
		return ""
	}

	parsed, err := phonenumbers.Parse(first, strings.ToUpper(region))
	if err != nil {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}
