// Package gate decides whether a view may render for the current session.
package gate

import (
	"errors"
	"strings"

	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/session"
)

// SignInPath is where unauthenticated visitors are sent.
const SignInPath = "/auth"

// ErrConflictingRequirement is returned when a view asks for both roles.
var ErrConflictingRequirement = errors.New("gate: a view cannot require both provider and requester")

// Requirement describes who may see a view.
type Requirement struct {
	public            bool
	requiresProvider  bool
	requiresRequester bool
}

var (
	// Public views render for everyone, even while the session resolves.
	Public = Requirement{public: true}
	// Any requires a session of either role.
	Any           = Requirement{}
	RequesterOnly = Requirement{requiresRequester: true}
	ProviderOnly  = Requirement{requiresProvider: true}
)

// NewRequirement builds a signed-in requirement from the two role flags.
func NewRequirement(requiresProvider, requiresRequester bool) (Requirement, error) {
	if requiresProvider && requiresRequester {
		return Requirement{}, ErrConflictingRequirement
	}
	return Requirement{requiresProvider: requiresProvider, requiresRequester: requiresRequester}, nil
}

func (r Requirement) RequiresProvider() bool  { return r.requiresProvider }
func (r Requirement) RequiresRequester() bool { return r.requiresRequester }

func (r Requirement) String() string {
	switch {
	case r.public:
		return "public"
	case r.requiresProvider:
		return "provider"
	case r.requiresRequester:
		return "requester"
	}
	return "any"
}

// Outcome is the gate's verdict.
type Outcome uint8

const (
	// Pending means the session is still resolving; show a loading state
	// and never redirect.
	Pending Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	}
	return "pending"
}

// Decision is an Outcome plus, for Redirect, its target path.
type Decision struct {
	Outcome Outcome `json:"-"`
	Target  string  `json:"redirect,omitempty"`
}

// Evaluate applies req to the session projection v.
func Evaluate(v session.View, req Requirement) Decision {
	if req.public {
		return Decision{Outcome: Render}
	}
	if !v.Resolved {
		return Decision{Outcome: Pending}
	}
	if !v.IsAuthenticated {
		return Decision{Outcome: Redirect, Target: SignInPath}
	}
	if req.requiresProvider && v.Role != model.RoleProvider {
		return Decision{Outcome: Redirect, Target: model.RoleRequester.Dashboard()}
	}
	if req.requiresRequester && v.Role != model.RoleRequester {
		return Decision{Outcome: Redirect, Target: model.RoleProvider.Dashboard()}
	}
	return Decision{Outcome: Render}
}

var views = map[string]Requirement{
	"/":                 Public,
	SignInPath:          Public,
	"/dashboard":        RequesterOnly,
	"/shop":             RequesterOnly,
	"/book-pandit":      RequesterOnly,
	"/bookings":         RequesterOnly,
	"/pandit-dashboard": ProviderOnly,
}

// ForView looks up the requirement registered for a client path.
func ForView(path string) (Requirement, bool) {
	if path != "/" {
		path = strings.TrimRight(path, "/")
	}
	r, ok := views[path]
	return r, ok
}
