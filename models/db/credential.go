package dbmodels

import (
	"idea-portal-backend/models"
	"time"
)

// CredentialKind вид учётной записи, у каждого своя таблица
type CredentialKind string

const (
	UserCredentialKind  CredentialKind = "user"
	AdminCredentialKind CredentialKind = "admin"
)

func (k CredentialKind) Table() string {
	if k == AdminCredentialKind {
		return "admin_credentials"
	}
	return "user_credentials"
}

type Credential struct {
	BaseModel
	CorporateID      string          `gorm:"type:varchar(64);uniqueIndex"`
	Email            string          `gorm:"type:varchar(255);uniqueIndex"`
	Role             models.UserRole `gorm:"type:varchar(50)"`
	Otp              *string         `gorm:"type:varchar(8)"`
	OtpExpiry        *time.Time
	EmployeeName     string `gorm:"type:varchar(255);default:N/A"`
	EmployeeFunction string `gorm:"type:varchar(255);default:N/A"`
	Location         string `gorm:"type:varchar(255);default:Unknown"`
}

// UserCredential и AdminCredential нужны только для миграций:
// у каждой таблицы свои имена индексов
type UserCredential struct {
	Credential
}

func (UserCredential) TableName() string {
	return UserCredentialKind.Table()
}

type AdminCredential struct {
	Credential
}

func (AdminCredential) TableName() string {
	return AdminCredentialKind.Table()
}
