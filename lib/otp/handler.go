package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"idea-portal-backend/db"
	credentialsstore "idea-portal-backend/lib/credentials/store"
	"idea-portal-backend/lib/metrics"
	"idea-portal-backend/lib/notification"
	"idea-portal-backend/lib/smtp"
	apperrors "idea-portal-backend/lib/utils/app-errors"
	authutils "idea-portal-backend/lib/utils/auth-utils"
	initchecker "idea-portal-backend/lib/utils/init-checker"
	keylimiter "idea-portal-backend/lib/utils/key-limiter"
	"idea-portal-backend/lib/utils/lock"
	"idea-portal-backend/models"
	otpapimodels "idea-portal-backend/models/api/otp"
	dbmodels "idea-portal-backend/models/db"
	"math/big"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrOtpInvalid = apperrors.NewValidation("Invalid OTP")
	ErrOtpExpired = apperrors.NewValidation("OTP has expired")
)

type Provider interface {
	Request(ctx context.Context, corporateID string) (*otpapimodels.OtpIssued, error)
	// Resend выпускает новый код, прежний перестаёт действовать
	Resend(ctx context.Context, corporateID string) (*otpapimodels.OtpIssued, error)
	Verify(ctx context.Context, corporateID, code string) (*otpapimodels.OtpVerified, error)
}

var Instance Provider

type TokenIssuer func(corporateID, name string, role models.UserRole) (string, error)

// Deps Now, Generate, WithTx и IssueToken имеют значения по умолчанию
type Deps struct {
	Store      credentialsstore.Provider
	WithTx     func(fn func(store credentialsstore.Provider) error) error
	Sender     smtp.Provider
	Limiter    *keylimiter.KeyLimiter
	TTL        time.Duration
	Now        func() time.Time
	Generate   func() (string, error)
	IssueToken TokenIssuer
}

func NewHandler(ttl time.Duration, requestsPerMinute int) {
	initchecker.CheckInit(
		"db", db.DB,
		"smtp", smtp.Instance,
	)
	Instance = NewInstance(Deps{
		Store: credentialsstore.NewInstance(db.DB),
		WithTx: func(fn func(store credentialsstore.Provider) error) error {
			return db.DB.Transaction(func(tx *gorm.DB) error {
				return fn(credentialsstore.NewInstance(tx))
			})
		},
		Sender:     smtp.Instance,
		Limiter:    keylimiter.NewPerMinute(requestsPerMinute),
		TTL:        ttl,
		IssueToken: authutils.GetToken,
	})
}

func NewInstance(deps Deps) Provider {
	if deps.WithTx == nil {
		store := deps.Store
		deps.WithTx = func(fn func(store credentialsstore.Provider) error) error {
			return fn(store)
		}
	}
	if deps.Limiter == nil {
		deps.Limiter = keylimiter.NewPerMinute(0)
	}
	if deps.TTL <= 0 {
		deps.TTL = 5 * time.Minute
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Generate == nil {
		deps.Generate = GenerateCode
	}
	if deps.IssueToken == nil {
		deps.IssueToken = authutils.GetToken
	}
	return &impl{deps: deps}
}

type impl struct {
	deps Deps
}

func (i impl) Request(ctx context.Context, corporateID string) (*otpapimodels.OtpIssued, error) {
	corporateID = strings.TrimSpace(corporateID)
	logger := log.WithField("corporate_id", corporateID)
	if !i.deps.Limiter.Allow(corporateID) {
		logger.Warn("превышен лимит запросов OTP")
		return nil, apperrors.NewTooManyRequests("Too many OTP requests, try again later")
	}

	var result *otpapimodels.OtpIssued
	// параллельные запросы одного сотрудника не должны перетирать код друг друга
	locked, err := lock.WithDelay(ctx, "otp:"+corporateID, 5*time.Second, func() (err error) {
		result, err = i.issue(corporateID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, apperrors.NewTooManyRequests("OTP request is already in progress")
	}
	return result, nil
}

func (i impl) Resend(ctx context.Context, corporateID string) (*otpapimodels.OtpIssued, error) {
	return i.Request(ctx, corporateID)
}

func (i impl) issue(corporateID string) (*otpapimodels.OtpIssued, error) {
	logger := log.WithField("corporate_id", corporateID)
	rec, kind, err := i.deps.Store.FindAny(corporateID)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка поиска учётной записи")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("User not found")
	}
	code, err := i.deps.Generate()
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка генерации OTP")
	}
	expiry := i.deps.Now().Add(i.deps.TTL)
	if err = i.deps.Store.SetOtp(kind, rec.ID, code, expiry); err != nil {
		logger.WithError(err).Error("ошибка сохранения OTP")
		return nil, apperrors.WrapStore(err, "ошибка сохранения OTP")
	}
	msg := notification.OtpMessage(rec.Email, code, i.deps.TTL)
	if err = i.deps.Sender.SendEMail(msg.Recipient, msg.Subject, msg.Body); err != nil {
		logger.WithError(err).Error("ошибка отправки OTP")
		return nil, apperrors.WrapStore(err, "ошибка отправки OTP")
	}
	logger.WithField("kind", kind).Info("OTP отправлен")
	return &otpapimodels.OtpIssued{
		Email:     MaskEmail(rec.Email),
		ExpiresIn: int(i.deps.TTL.Seconds()),
	}, nil
}

// Verify код гасится условным обновлением (WHERE otp = code), поэтому из двух
// параллельных проверок одного кода успешна только одна
func (i impl) Verify(ctx context.Context, corporateID, code string) (*otpapimodels.OtpVerified, error) {
	corporateID = strings.TrimSpace(corporateID)
	code = strings.TrimSpace(code)
	logger := log.WithField("corporate_id", corporateID)

	var result *otpapimodels.OtpVerified
	err := i.deps.WithTx(func(store credentialsstore.Provider) error {
		rec, kind, err := store.FindAny(corporateID)
		if err != nil {
			return apperrors.WrapStore(err, "ошибка поиска учётной записи")
		}
		if rec == nil || rec.Otp == nil || subtle.ConstantTimeCompare([]byte(*rec.Otp), []byte(code)) != 1 {
			return ErrOtpInvalid
		}
		if rec.OtpExpiry == nil || !i.deps.Now().Before(*rec.OtpExpiry) {
			return ErrOtpExpired
		}
		consumed, err := store.ConsumeOtp(kind, rec.ID, code)
		if err != nil {
			return apperrors.WrapStore(err, "ошибка сброса OTP")
		}
		if !consumed {
			return ErrOtpInvalid
		}
		role := credentialRole(*rec, kind)
		token, err := i.deps.IssueToken(rec.CorporateID, rec.EmployeeName, role)
		if err != nil {
			return apperrors.WrapStore(err, "ошибка выпуска токена")
		}
		result = &otpapimodels.OtpVerified{
			Token:        token,
			Role:         string(role),
			EmployeeName: rec.EmployeeName,
			CorporateID:  rec.CorporateID,
		}
		return nil
	})
	switch {
	case err == nil:
		metrics.OtpVerification("success")
		logger.Info("OTP подтверждён")
	case err == ErrOtpInvalid:
		metrics.OtpVerification("invalid")
	case err == ErrOtpExpired:
		metrics.OtpVerification("expired")
	default:
		metrics.OtpVerification("error")
		logger.WithError(err).Error("ошибка проверки OTP")
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func credentialRole(rec dbmodels.Credential, kind dbmodels.CredentialKind) models.UserRole {
	if kind == dbmodels.UserCredentialKind || rec.Role == "" {
		return models.EmployeeRole
	}
	return rec.Role
}

// GenerateCode 4 цифры, 1000..9999
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", n.Int64()+1000), nil
}

// MaskEmail a****@example.com
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return email
	}
	return email[:1] + strings.Repeat("*", at-1) + email[at:]
}
