package credentialsstore

import (
	dbmodels "idea-portal-backend/models/db"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provider interface {
	Find(kind dbmodels.CredentialKind, corporateID string) (*dbmodels.Credential, error)
	FindAny(corporateID string) (*dbmodels.Credential, dbmodels.CredentialKind, error)
	SetOtp(kind dbmodels.CredentialKind, id string, otp string, expiry time.Time) error
	ConsumeOtp(kind dbmodels.CredentialKind, id string, otp string) (bool, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Find(kind dbmodels.CredentialKind, corporateID string) (*dbmodels.Credential, error) {
	rec := dbmodels.Credential{}
	err := i.db.
		Table(kind.Table()).
		Where("corporate_id = ?", corporateID).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// FindAny сначала сотрудники, затем администраторы
func (i impl) FindAny(corporateID string) (*dbmodels.Credential, dbmodels.CredentialKind, error) {
	for _, kind := range []dbmodels.CredentialKind{dbmodels.UserCredentialKind, dbmodels.AdminCredentialKind} {
		rec, err := i.Find(kind, corporateID)
		if err != nil {
			return nil, "", err
		}
		if rec != nil {
			return rec, kind, nil
		}
	}
	return nil, "", nil
}

func (i impl) SetOtp(kind dbmodels.CredentialKind, id string, otp string, expiry time.Time) error {
	return i.db.
		Table(kind.Table()).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"otp":        otp,
			"otp_expiry": expiry,
			"updated_at": time.Now(),
		}).
		Error
}

// ConsumeOtp очищает код только если он всё ещё совпадает.
// false - код уже использован или заменён параллельным запросом.
func (i impl) ConsumeOtp(kind dbmodels.CredentialKind, id string, otp string) (bool, error) {
	res := i.db.
		Table(kind.Table()).
		Where("id = ? AND otp = ?", id, otp).
		Updates(map[string]interface{}{
			"otp":        nil,
			"otp_expiry": nil,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
