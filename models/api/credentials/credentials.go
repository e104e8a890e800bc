package credentialsapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type UserDetailsRequest struct {
	CorporateID string `json:"corporateId"`
}

func (r UserDetailsRequest) Validate() error {
	if strings.TrimSpace(r.CorporateID) == "" {
		return errors.New("Corporate ID is required")
	}
	return nil
}

type UserDetails struct {
	EmployeeName     string `json:"employeeName"`
	EmployeeFunction string `json:"employeeFunction"`
	Location         string `json:"location"`
}

type AdminRole struct {
	CorporateID string `json:"corporateId"`
	Role        string `json:"role"` // L1 | L2
}
