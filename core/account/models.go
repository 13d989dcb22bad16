package account

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rogerjeasy/letusconnect/core"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleMentor = "mentor"
	RoleUser   = "user"
)

// Roles is the user's role list. The backend may send it as a single string or as an array.
type Roles []string

func (r *Roles) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*r = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*r = nil
		return nil
	}
	*r = Roles{single}
	return nil
}

// Includes reports whether one of the roles is `role` or one of its sub-roles (`role:...`).
func (r Roles) Includes(role string) bool {
	for _, have := range r {
		if have == role || strings.HasPrefix(have, role+":") {
			return true
		}
	}
	return false
}

type User struct {
	ID             string `json:"uid"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Program        string `json:"program,omitempty"`
	Role           Roles  `json:"role,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role.Includes(RoleAdmin)
}

// DisplayName returns the full name when known, else the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// Auth is the successful outcome of a registration: the user record and its authentication token.
type Auth struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Registration contains the information needed to register a new account.
type Registration struct {
	Email           string `json:"email" form:"email" validate:"email"`
	Username        string `json:"username" form:"username" validate:"min=3"`
	Password        string `json:"password" form:"password" validate:"min=6"`
	ConfirmPassword string `json:"-" form:"confirmPassword" validate:"min=6,eqfield=Password"`
	Program         string `json:"program" form:"program" validate:"required,program"`
}

// RegistrationFromValues reads a Registration from raw form values.
func RegistrationFromValues(values map[string]string) Registration {
	return Registration{
		Email:           values["email"],
		Username:        values["username"],
		Password:        values["password"],
		ConfirmPassword: values["confirmPassword"],
		Program:         values["program"],
	}
}

// Validate trims and validates the registration. It has no side effects besides trimming r.
// The email is sent with the case it was typed in.
func (r *Registration) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email)
	r.Username = core.CleanString(r.Username)
	r.Program = core.CleanString(r.Program)
	return validate.Struct(r)
}

// registerRequest is the body of `POST /api/users/register`.
type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Program  string `json:"program"`
}
