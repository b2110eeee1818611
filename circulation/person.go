package circulation

import (
	"fmt"
	"time"
)

// Gender of a person.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// Person holds the attributes shared by authors and users.
type Person struct {
	Name        string
	BirthDate   time.Time
	Nationality string
	Gender      Gender
}

// ValidatePerson rejects a birth date after now and unknown genders.
func ValidatePerson(p Person, now time.Time) error {
	if p.BirthDate.After(now) {
		return fmt.Errorf("%w: %s", ErrBirthDateInFuture, p.BirthDate.Format(time.DateOnly))
	}

	if !p.Gender.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGender, p.Gender)
	}

	return nil
}

// AgeAt returns the person's age in completed years at the given moment.
func (p Person) AgeAt(at time.Time) int {
	age := at.Year() - p.BirthDate.Year()

	if at.Month() < p.BirthDate.Month() || (at.Month() == p.BirthDate.Month() && at.Day() < p.BirthDate.Day()) {
		age--
	}

	return age
}
