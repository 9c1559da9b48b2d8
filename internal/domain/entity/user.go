package entity

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser       Role = "user"
	RoleMember     Role = "member"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// CanReview reports whether the role may review certificates and manage users.
func (r Role) CanReview() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleMember, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Club is one of the fixed set of student club affiliations.
// The empty string means unaffiliated.
type Club string

const (
	ClubIEEE Club = "IEEE"
	ClubACM  Club = "ACM"
	ClubAWS  Club = "AWS"
	ClubGDG  Club = "GDG"
	ClubSTIC Club = "STIC"
	ClubNone Club = ""
)

// Clubs lists every real club (the unaffiliated sentinel excluded).
func Clubs() []Club {
	return []Club{ClubIEEE, ClubACM, ClubAWS, ClubGDG, ClubSTIC}
}

// Valid reports whether c is a known club or the unaffiliated sentinel.
func (c Club) Valid() bool {
	switch c {
	case ClubIEEE, ClubACM, ClubAWS, ClubGDG, ClubSTIC, ClubNone:
		return true
	}
	return false
}

// Certificate is an achievement a user submitted for credit. Certificates
// are value objects embedded in their owning User; they have no lifecycle
// of their own. A certificate starts unverified with zero credits and may
// be verified exactly once by an admin.
type Certificate struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	IsVerified     bool       `json:"isVerified"`
	CreditsAwarded int        `json:"creditsAwarded"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	VerifiedAt     *time.Time `json:"verifiedAt,omitempty"`
}

// User is the aggregate root. Certificates live inside the user row so the
// credit-score invariant can be maintained with single-row updates:
// CreditScore == sum of CreditsAwarded over verified certificates.
type User struct {
	ID           string
	Email        string
	Password     string // bcrypt hash
	Name         string
	ImageURL     string
	Role         Role
	Club         Club
	CreditScore  int
	Certificates []Certificate

	// Profile fields
	Bio              string
	EnrollmentNumber string
	Year             int
	ContactNumber    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PendingCertificate is one unverified certificate annotated with its owner,
// as shown in the admin review queue.
type PendingCertificate struct {
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	UserEmail   string    `json:"userEmail"`
	CertID      string    `json:"certificateId"`
	Name        string    `json:"certificateName"`
	URL         string    `json:"url"`
	SubmittedAt time.Time `json:"submittedAt"`
}
