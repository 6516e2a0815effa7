package user

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var phoneNumberPattern = regexp.MustCompile(`^(?:\+81|0)\d{9,10}$`)

// IsValidPhoneNumber reports whether s is a leading +81 or 0 followed by 9 or 10 digits.
func IsValidPhoneNumber(s string) bool {
	return phoneNumberPattern.MatchString(s)
}

func ParseGender(s string) (Gender, bool) {
	for _, g := range Genders {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// NewGenderSet builds an allow-list from configured values. Unknown values
// and an empty list are errors.
func NewGenderSet(values ...string) (GenderSet, error) {
	set := make(GenderSet, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		g, ok := ParseGender(v)
		if !ok {
			return nil, fmt.Errorf("unknown gender %q", v)
		}
		set[g] = struct{}{}
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("gender allow-list is empty")
	}
	return set, nil
}

// DefaultAllowedGenders accepts only 男性.
func DefaultAllowedGenders() GenderSet {
	return GenderSet{GenderMale: {}}
}

// ParseBirthDate parses an ISO calendar date (YYYY-MM-DD) as UTC midnight.
func ParseBirthDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
