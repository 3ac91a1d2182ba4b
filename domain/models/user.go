package models

import (
	"time"
)

type UserType string

const (
	UserTypeAdmin      UserType = "admin"
	UserTypeCustomer   UserType = "customer"
	UserTypeAnnotator  UserType = "annotator"
	UserTypeMLEngineer UserType = "ml_engineer"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeAdmin, UserTypeCustomer, UserTypeAnnotator, UserTypeMLEngineer:
		return true
	}
	return false
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// User is created on first OAuth login as pending and inactive.
// Boolean columns have no gorm defaults.
type User struct {
	UserID         uint           `gorm:"primaryKey;column:user_id"`
	Email          string         `gorm:"size:255;uniqueIndex;not null"`
	Name           string         `gorm:"size:100"`
	UserType       UserType       `gorm:"size:20;not null;index"`
	ApprovalStatus ApprovalStatus `gorm:"size:20;not null;index"`
	IsActive       bool           `gorm:"not null"`
	Gender         string         `gorm:"size:10"`
	Birthdate      *time.Time
	Nationality    string  `gorm:"size:50"`
	Address        string  `gorm:"size:255"`
	CompanyName    string  `gorm:"size:100"`
	FactoryName    string  `gorm:"size:100"`
	BankName       string  `gorm:"size:50"`
	BankAccount    *string `gorm:"size:50;uniqueIndex"`
	TermsAccepted  bool    `gorm:"not null"`
	ProfileImage   string  `gorm:"size:500"`
	Provider       string  `gorm:"size:20"` // google, naver
	LastLogin      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// ProfileCompleted reports whether signup details were submitted
func (u *User) ProfileCompleted() bool {
	return u.TermsAccepted && u.Name != "" && u.CompanyName != ""
}

// UserCamera is the assignment edge between an annotator and a camera
type UserCamera struct {
	UserID    uint `gorm:"primaryKey;column:user_id"`
	CameraID  uint `gorm:"primaryKey;column:camera_id"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;references:UserID;constraint:OnDelete:CASCADE"`
	Camera Camera `gorm:"foreignKey:CameraID;references:CameraID;constraint:OnDelete:CASCADE"`
}

func (UserCamera) TableName() string {
	return "user_cameras"
}
