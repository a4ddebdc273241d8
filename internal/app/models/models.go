package models

// RoleType defines the account role
type RoleType string

const (
	RoleUser  RoleType = "user"
	RoleAdmin RoleType = "admin"
)

// Valid reports whether r is a known role.
func (r RoleType) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Sex values stored for a donor
const (
	SexMale   = "M"
	SexFemale = "F"
)

// DateLayout is the canonical YYYY-MM-DD form of stored dates.
const DateLayout = "2006-01-02"
