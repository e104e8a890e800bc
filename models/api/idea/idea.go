package ideaapimodels

import (
	"fmt"
	"idea-portal-backend/lib/utils/app-errors"
	"idea-portal-backend/lib/utils/helpers"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

func validationError(err error) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fields := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			fields = append(fields, fe.Field())
		}
		return apperrors.NewValidation(fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", ")))
	}
	return apperrors.NewValidation(err.Error())
}

// IdeaSubmitData форма подачи идеи (multipart или json)
type IdeaSubmitData struct {
	EmployeeName          string `json:"employeeName" form:"employeeName" validate:"notblank"`
	EmployeeID            string `json:"employeeId" form:"employeeId" validate:"notblank"`
	EmployeeFunction      string `json:"employeeFunction" form:"employeeFunction"`
	Location              string `json:"location" form:"location"`
	IdeaTheme             string `json:"ideaTheme" form:"ideaTheme"`
	Department            string `json:"department" form:"department"`
	BenefitsCategory      string `json:"benefitsCategory" form:"benefitsCategory"`
	IdeaDescription       string `json:"ideaDescription" form:"ideaDescription" validate:"notblank"`
	ImpactedProcess       string `json:"impactedProcess" form:"impactedProcess"`
	ExpectedBenefitsValue string `json:"expectedBenefitsValue" form:"expectedBenefitsValue"`
}

func (d IdeaSubmitData) Validate() error {
	if err := validate.Struct(d); err != nil {
		return validationError(err)
	}
	return nil
}

// Attachment вложение к идее
type Attachment struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ObjectName имя файла в хранилище с префиксом табельного номера
func (a Attachment) ObjectName(employeeID string) string {
	return fmt.Sprintf("%s_%s", employeeID, helpers.SanitizeFileName(a.FileName))
}

type IdeaFilter struct {
	Status          string `query:"status"`
	ExcludeStatus   string `query:"excludeStatus"`
	EmployeeID      string `query:"employeeId"`
	IncludeRejected bool   `query:"includeRejected"`
}

// Normalize по умолчанию отклонённые идеи в список не попадают
func (f IdeaFilter) Normalize() IdeaFilter {
	if f.Status == "" && f.ExcludeStatus == "" && !f.IncludeRejected {
		f.ExcludeStatus = "Rejected"
	}
	return f
}

// AdvanceData Comment nil - поле не передано, комментарий идеи не меняется.
// Пустая строка очищает комментарий.
type AdvanceData struct {
	Status    string  `json:"status" validate:"notblank"`
	Comment   *string `json:"comment"`
	AdminID   string  `json:"adminId"`
	AdminRole string  `json:"adminRole" validate:"notblank"`
	AdminName string  `json:"adminName"`
}

func (d AdvanceData) Validate() error {
	if err := validate.Struct(d); err != nil {
		return validationError(err)
	}
	return nil
}

type RejectData struct {
	Reason    string `json:"reason"`
	AdminID   string `json:"adminId"`
	AdminRole string `json:"adminRole"`
	AdminName string `json:"adminName"`
}

type BookmarkData struct {
	AdminID string `json:"adminId"`
}

func (d BookmarkData) Validate() error {
	if strings.TrimSpace(d.AdminID) == "" {
		return apperrors.NewValidation("Admin ID is required")
	}
	return nil
}
