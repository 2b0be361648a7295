package model

import (
	"fmt"
	"strings"
)

// Role is the capability class of an account.  It is derived from the
// profile's is_pandit flag and never changes after sign-up.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleRequester
	RoleProvider
)

// Landing paths per role.
const (
	RequesterDashboard = "/dashboard"
	ProviderDashboard  = "/pandit-dashboard"
)

// RoleFromFlag maps the persisted is_pandit column onto a Role.
func RoleFromFlag(isPandit bool) Role {
	if isPandit {
		return RoleProvider
	}
	return RoleRequester
}

// ParseRole accepts the names produced by String, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REQUESTER":
		return RoleRequester, nil
	case "PROVIDER":
		return RoleProvider, nil
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	switch r {
	case RoleRequester:
		return "REQUESTER"
	case RoleProvider:
		return "PROVIDER"
	}
	return "UNKNOWN"
}

// Dashboard is where a signed-in account of this role lands.
func (r Role) Dashboard() string {
	if r == RoleProvider {
		return ProviderDashboard
	}
	return RequesterDashboard
}

func (r Role) IsProvider() bool  { return r == RoleProvider }
func (r Role) IsRequester() bool { return r == RoleRequester }
func (r Role) Valid() bool       { return r == RoleRequester || r == RoleProvider }

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
