package user

import "time"

// DateLayout is the wire and display format of birth dates.
const DateLayout = "2006-01-02"

type User struct {
	ID          int64
	Name        string
	BirthDate   time.Time
	Gender      Gender
	PhoneNumber string
}

// Gender is the enumerated set of values the registration form offers.
type Gender string

const (
	GenderMale   Gender = "男性"
	GenderFemale Gender = "女性"
)

// Genders lists every known value in display order.
var Genders = []Gender{GenderMale, GenderFemale}

func (g Gender) String() string {
	return string(g)
}

// GenderSet is an allow-list of genders accepted on creation.
type GenderSet map[Gender]struct{}

func (s GenderSet) Contains(g Gender) bool {
	_, ok := s[g]
	return ok
}

// CreateUserInput carries the raw arguments of a create request.
type CreateUserInput struct {
	Name        string
	BirthDate   string
	Gender      string
	PhoneNumber string
}
