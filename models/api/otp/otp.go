package otpapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type OtpRequest struct {
	CorporateID string `json:"corporateId"`
}

func (r OtpRequest) Validate() error {
	if strings.TrimSpace(r.CorporateID) == "" {
		return errors.New("Corporate ID is required")
	}
	return nil
}

type OtpVerify struct {
	CorporateID string `json:"corporateId"`
	Otp         string `json:"otp"`
}

func (r OtpVerify) Validate() error {
	if strings.TrimSpace(r.CorporateID) == "" {
		return errors.New("Corporate ID is required")
	}
	if strings.TrimSpace(r.Otp) == "" {
		return errors.New("OTP is required")
	}
	return nil
}

// OtpIssued ответ на запрос кода
type OtpIssued struct {
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"` // секунды
}

type OtpVerified struct {
	Token        string `json:"token"`
	Role         string `json:"role"`
	EmployeeName string `json:"employeeName"`
	CorporateID  string `json:"corporateId"`
}
