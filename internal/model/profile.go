package model

import "time"

// Profile is the identity record stored in the `profiles` table.  Each
// account owns exactly one profile, created at sign-up.  Provider-only
// fields (Specialization, ExperienceYears, RatePerHour) stay nil for
// requesters.
//
// Fields:
//
//	ID              – UUID primary key, also the JWT subject.
//	Email           – unique sign-in address.
//	FullName        – display name, never empty.
//	IsPandit        – role flag, immutable after creation.
//	Phone, Address  – optional contact details.
//	RatePerHour     – provider hourly rate in whole currency units.
type Profile struct {
	ID              string    `json:"id"`                         // profiles.id
	Email           string    `json:"email"`                      // profiles.email
	FullName        string    `json:"full_name"`                  // profiles.full_name
	IsPandit        bool      `json:"is_pandit"`                  // profiles.is_pandit
	Phone           *string   `json:"phone,omitempty"`            // profiles.phone (nullable)
	Address         *string   `json:"address,omitempty"`          // profiles.address (nullable)
	Specialization  *string   `json:"specialization,omitempty"`   // profiles.specialization (nullable)
	ExperienceYears *int      `json:"experience_years,omitempty"` // profiles.experience_years (nullable)
	RatePerHour     *int64    `json:"rate_per_hour,omitempty"`    // profiles.rate_per_hour (nullable)
	CreatedAt       time.Time `json:"created_at"`                 // profiles.created_at
	UpdatedAt       time.Time `json:"updated_at"`                 // profiles.updated_at
}

// Role derives the account role from the persisted flag.
func (p *Profile) Role() Role { return RoleFromFlag(p.IsPandit) }

// Summary returns the display fields other parties may see.
func (p *Profile) Summary() *ProfileSummary {
	return &ProfileSummary{
		FullName:       p.FullName,
		Phone:          p.Phone,
		Address:        p.Address,
		Specialization: p.Specialization,
	}
}

// ProfileSummary is the denormalized provider view attached to bookings.
type ProfileSummary struct {
	FullName       string  `json:"full_name"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// ProfilePatch carries owner-editable fields.  Nil means "leave unchanged".
type ProfilePatch struct {
	FullName        *string `json:"full_name" validate:"omitempty,min=1,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	Address         *string `json:"address" validate:"omitempty,max=512"`
	Specialization  *string `json:"specialization" validate:"omitempty,max=255"`
	ExperienceYears *int    `json:"experience_years" validate:"omitempty,min=0,max=100"`
	RatePerHour     *int64  `json:"rate_per_hour" validate:"omitempty,min=0"`
}

// TouchesProviderFields reports whether the patch edits provider-only data.
func (p ProfilePatch) TouchesProviderFields() bool {
	return p.Specialization != nil || p.ExperienceYears != nil || p.RatePerHour != nil
}

// Apply copies the non-nil fields onto prof.
func (p ProfilePatch) Apply(prof *Profile) {
	if p.FullName != nil {
		prof.FullName = *p.FullName
	}
	if p.Phone != nil {
		prof.Phone = p.Phone
	}
	if p.Address != nil {
		prof.Address = p.Address
	}
	if p.Specialization != nil {
		prof.Specialization = p.Specialization
	}
	if p.ExperienceYears != nil {
		prof.ExperienceYears = p.ExperienceYears
	}
	if p.RatePerHour != nil {
		prof.RatePerHour = p.RatePerHour
	}
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is never stored; only its SHA‑256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	ProfileID string     // refresh_tokens.profile_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// Credential pairs a profile with its bcrypt hash for sign-in lookups.
type Credential struct {
	ProfileID    string
	PasswordHash string
}
