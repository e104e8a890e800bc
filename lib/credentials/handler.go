package credentials

import (
	"idea-portal-backend/db"
	credentialsstore "idea-portal-backend/lib/credentials/store"
	apperrors "idea-portal-backend/lib/utils/app-errors"
	initchecker "idea-portal-backend/lib/utils/init-checker"
	credentialsapimodels "idea-portal-backend/models/api/credentials"
	dbmodels "idea-portal-backend/models/db"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	UserDetails(corporateID string) (*credentialsapimodels.UserDetails, error)
	AdminRole(corporateID string) (*credentialsapimodels.AdminRole, error)
	// AdminName пустая строка, если администратор не найден
	AdminName(corporateID string) (string, error)
	// EmployeeEmail пустая строка, если сотрудник не найден
	EmployeeEmail(corporateID string) (string, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit("db", db.DB)
	Instance = NewInstance(credentialsstore.NewInstance(db.DB))
}

func NewInstance(store credentialsstore.Provider) Provider {
	return &impl{
		store: store,
	}
}

type impl struct {
	store credentialsstore.Provider
}

func (i impl) UserDetails(corporateID string) (*credentialsapimodels.UserDetails, error) {
	rec, err := i.store.Find(dbmodels.UserCredentialKind, corporateID)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка получения данных сотрудника")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("User not found")
	}
	return &credentialsapimodels.UserDetails{
		EmployeeName:     rec.EmployeeName,
		EmployeeFunction: rec.EmployeeFunction,
		Location:         rec.Location,
	}, nil
}

func (i impl) AdminRole(corporateID string) (*credentialsapimodels.AdminRole, error) {
	rec, err := i.store.Find(dbmodels.AdminCredentialKind, corporateID)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка получения данных администратора")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("Admin not found")
	}
	return &credentialsapimodels.AdminRole{
		CorporateID: rec.CorporateID,
		Role:        rec.Role.Normalize(),
	}, nil
}

func (i impl) AdminName(corporateID string) (string, error) {
	if strings.TrimSpace(corporateID) == "" {
		return "", nil
	}
	rec, err := i.store.Find(dbmodels.AdminCredentialKind, corporateID)
	if err != nil {
		return "", apperrors.WrapStore(err, "ошибка получения имени администратора")
	}
	if rec == nil {
		log.WithField("admin_id", corporateID).Warn("администратор не найден")
		return "", nil
	}
	return rec.EmployeeName, nil
}

func (i impl) EmployeeEmail(corporateID string) (string, error) {
	rec, err := i.store.Find(dbmodels.UserCredentialKind, corporateID)
	if err != nil {
		return "", apperrors.WrapStore(err, "ошибка получения почты сотрудника")
	}
	if rec == nil {
		return "", nil
	}
	return rec.Email, nil
}
