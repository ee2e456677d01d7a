package member

import "time"

// Role controls what a member may see and do. The order listing service
// trusts the role it is handed; resolving it from a token is the api
// module's job.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Member is a registered customer (or administrator).
type Member struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:50;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         Role   `gorm:"size:10;not null;default:USER" json:"role"`
	Address      string `gorm:"size:200" json:"address"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for the Member entity.
func (Member) TableName() string {
	return "members"
}

// Claims is the token payload the api middleware extracts for handlers.
type Claims struct {
	MemberID uint   `json:"member_id"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
