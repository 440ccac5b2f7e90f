package models

import "time"

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	AvatarURL    *string   `db:"avatar_url"`
	Theme        string    `db:"theme"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type Certification struct {
	ID           string     `db:"id"`
	UserID       string     `db:"user_id"`
	Title        string     `db:"title"`
	Organization string     `db:"organization"`
	IssueDate    time.Time  `db:"issue_date"`
	ExpiryDate   *time.Time `db:"expiry_date"`
	FileURL      *string    `db:"file_url"`
	FileName     *string    `db:"file_name"`
	FileType     *string    `db:"file_type"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

type Degree struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	DegreeName string    `db:"degree_name"`
	University string    `db:"university"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	GPA        *float64  `db:"gpa"`
	Notes      *string   `db:"notes"`
	FileURL    *string   `db:"file_url"`
	FileName   *string   `db:"file_name"`
	FileType   *string   `db:"file_type"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Todo struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Task      string     `db:"task"`
	Priority  string     `db:"priority"`
	Status    string     `db:"status"`
	Deadline  *time.Time `db:"deadline"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

type Goal struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	TargetDate  time.Time `db:"target_date"`
	Milestones  []byte    `db:"milestones"`
	Progress    int       `db:"progress"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// StoredFile is a row in the database-hosted upload backend.
type StoredFile struct {
	ID          string    `db:"id"`
	FileName    string    `db:"file_name"`
	ContentType string    `db:"content_type"`
	Data        []byte    `db:"data"`
	SizeBytes   int64     `db:"size_bytes"`
	CreatedAt   time.Time `db:"created_at"`
}
