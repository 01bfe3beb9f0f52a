package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type User struct {
	ID           string     `gorm:"primaryKey"      json:"id"`
	Email        string     `gorm:"unique;not null" json:"email"`
	PasswordHash string     `gorm:"not null"        json:"-"`
	Role         string     `gorm:"not null"        json:"role"`
	FullName     string     `gorm:"not null"        json:"full_name"`
	Department   string     `json:"department,omitempty"`
	Year         int        `json:"year,omitempty"`
	RollNumber   string     `json:"roll_number,omitempty"`
	DateOfBirth  string     `json:"date_of_birth,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Job struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Company     string    `gorm:"not null"                 json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ApplyURL    string    `json:"apply_url"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
}

type BlogPost struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Author    string    `gorm:"not null"                 json:"author"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlogDraft is the submission queue the original kept as a second
// collection; drafts become BlogPosts through the admin sync endpoint.
type BlogDraft struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Author    string    `gorm:"not null"                 json:"author"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags"`
	Synced    bool      `gorm:"default:false"            json:"synced"`
	CreatedAt time.Time `json:"created_at"`
}

type Exam struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Organization string    `json:"organization"`
	Date         time.Time `json:"date"`
	Details      string    `json:"details"`
	CreatedAt    time.Time `json:"created_at"`
}

type Discount struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Vendor    string    `json:"vendor"`
	Code      string    `json:"code"`
	Percent   int       `json:"percent"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Venue     string    `json:"venue"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

type Notification struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"not null"                 json:"title"`
	Body      string    `json:"body"`
	Audience  string    `gorm:"default:all"              json:"audience"`
	CreatedAt time.Time `json:"created_at"`
}
