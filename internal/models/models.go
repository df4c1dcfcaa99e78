package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string  `gorm:"uniqueIndex;not null"     json:"username"`
	Email          string  `gorm:"uniqueIndex;not null"     json:"email"`
	FirstName      string  `gorm:"not null"                 json:"first_name"`
	LastName       string  `gorm:"not null"                 json:"last_name"`
	HashedPassword []byte  `gorm:"not null"                 json:"-"`
	IsActive       bool    `gorm:"not null;default:true"    json:"is_active"`
	Role           Role    `gorm:"not null;default:user"    json:"role"`
	PhoneNumber    *string `                                json:"phone_number"`
}

type Todo struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string `gorm:"not null"                 json:"title"`
	Description string `gorm:"not null"                 json:"description"`
	Priority    int    `gorm:"not null"                 json:"priority"`
	Complete    bool   `gorm:"not null;default:false"   json:"complete"`
	OwnerID     uint   `gorm:"index;not null"           json:"owner_id"`
}
