package auth

import "fmt"

// Role is the account role fixed at signup. The numeric codes are part
// of the wire format (signup payloads and token claims).
type Role int16

const (
	RoleAdmin     Role = 1
	RolePhysician Role = 2
	RoleNurse     Role = 3
	RolePatient   Role = 4
)

var roleNames = map[Role]string{
	RoleAdmin:     "admin",
	RolePhysician: "physician",
	RoleNurse:     "nurse",
	RolePatient:   "patient",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int16(r))
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// IsStaff reports whether r is a clinical staff role (physician or
// nurse), i.e. a role whose ownership scope is keyed by staff id.
func (r Role) IsStaff() bool {
	return r == RolePhysician || r == RoleNurse
}
