package model

import "time"

// Role tags the four principal collections. Tokens carry the tag verbatim;
// anything outside the four values is rejected before a store lookup happens.
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleOrganizer  Role = "Organizer"
	RoleStudent    Role = "Student"
)

type SuperAdmin struct {
	ID           string
	Email        string
	Name         string
	PhoneNumber  string
	PasswordHash string
	AvatarURL    *string
	AvatarKey    *string
	RefreshToken string
	IsRoot       bool
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type SubscriptionStatus string

const (
	SubscriptionActive  SubscriptionStatus = "Active"
	SubscriptionPending SubscriptionStatus = "Pending"
	SubscriptionExpired SubscriptionStatus = "Expired"
)

type Admin struct {
	ID                  string
	SuperAdminID        string
	UniversityName      string
	Email               string
	PhoneNumber         string
	PasswordHash        string
	AvatarURL           *string
	AvatarKey           *string
	Address             string
	State               string
	Country             string
	SubscriptionStatus  SubscriptionStatus
	SubscriptionEndDate *time.Time
	RefreshToken        string
	IsDeleted           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Organizer struct {
	ID            string
	AdminID       string
	OrganizerName string
	Email         string
	PhoneNumber   string
	PasswordHash  string
	RefreshToken  string
	IsDeleted     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Student struct {
	ID           string
	AdminID      string
	Name         string
	Email        string
	PhoneNumber  string
	PasswordHash string
	Stream       string
	Section      string
	Semester     int
	Year         int
	RefreshToken string
	IsDeleted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Course struct {
	ID        string
	AdminID   string
	Name      string
	Duration  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Event struct {
	ID            string
	OrganizerID   string
	Title         string
	Description   string
	Venue         string
	CoverImageURL *string
	TotalTickets  int
	BookedTickets int
	StartsAt      time.Time
	EndsAt        time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Account is the role-neutral view of a principal that the auth core works
// with. PasswordHash and RefreshToken are populated only on the lookup paths
// that need them; the authenticate middleware attaches accounts without either.
type Account struct {
	ID           string
	Role         Role
	Email        string
	Name         string
	PhoneNumber  string
	PasswordHash string
	IsRoot       bool
	IsDeleted    bool
}

func (sa SuperAdmin) Account() Account {
	return Account{
		ID:           sa.ID,
		Role:         RoleSuperAdmin,
		Email:        sa.Email,
		Name:         sa.Name,
		PhoneNumber:  sa.PhoneNumber,
		PasswordHash: sa.PasswordHash,
		IsRoot:       sa.IsRoot,
		IsDeleted:    sa.IsDeleted,
	}
}

func (a Admin) Account() Account {
	return Account{
		ID:           a.ID,
		Role:         RoleAdmin,
		Email:        a.Email,
		Name:         a.UniversityName,
		PhoneNumber:  a.PhoneNumber,
		PasswordHash: a.PasswordHash,
		IsDeleted:    a.IsDeleted,
	}
}

func (o Organizer) Account() Account {
	return Account{
		ID:           o.ID,
		Role:         RoleOrganizer,
		Email:        o.Email,
		Name:         o.OrganizerName,
		PhoneNumber:  o.PhoneNumber,
		PasswordHash: o.PasswordHash,
		IsDeleted:    o.IsDeleted,
	}
}

func (s Student) Account() Account {
	return Account{
		ID:           s.ID,
		Role:         RoleStudent,
		Email:        s.Email,
		Name:         s.Name,
		PhoneNumber:  s.PhoneNumber,
		PasswordHash: s.PasswordHash,
		IsDeleted:    s.IsDeleted,
	}
}
