package model

// Role names the kind of account a principal stands for.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the identity stored in the session after sign-in. Kind is set
// when the principal is created and never inferred from other fields.
type Principal struct {
	Kind  Role   `json:"kind"`
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func UserPrincipal(u *User) *Principal {
	return &Principal{Kind: RoleUser, ID: u.ID, Email: u.Email}
}

func AdminPrincipal(a *Admin) *Principal {
	return &Principal{Kind: RoleAdmin, ID: a.ID, Email: a.Email}
}

func (p *Principal) Is(role Role) bool {
	return p != nil && p.Kind == role
}
