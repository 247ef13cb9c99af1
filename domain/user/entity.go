package user

import "time"

// DefaultListName is the name of the list every user owns from creation.
const DefaultListName = "Inbox"

// Field limits.
const (
	MinNameLength     = 2
	MaxNameLength     = 255
	MinPasswordLength = 8
	// bcrypt ignores anything past 72 bytes.
	MaxPasswordLength = 72
	MaxListNameLength = 255
)

// User is an account that owns lists, tasks and time entries.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for GORM.
func (User) TableName() string { return "users" }

// List groups a user's tasks. Exactly one list per user has IsDefault set.
type List struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"size:36;not null;index" json:"user_id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	IsDefault bool      `gorm:"not null" json:"is_default"`
	SortOrder int       `gorm:"not null" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName returns the table name for GORM.
func (List) TableName() string { return "lists" }

// Kind names the entity in not-found messages.
func (List) Kind() string { return "list" }
