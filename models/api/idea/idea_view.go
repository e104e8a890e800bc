package ideaapimodels

import (
	dbmodels "idea-portal-backend/models/db"
	"time"
)

type IdeaSubmissionView struct {
	EmployeeName          string    `json:"employeeName"`
	EmployeeID            string    `json:"employeeId"`
	EmployeeFunction      string    `json:"employeeFunction"`
	Location              string    `json:"location"`
	IdeaTheme             string    `json:"ideaTheme"`
	Department            string    `json:"department"`
	BenefitsCategory      string    `json:"benefitsCategory"`
	IdeaDescription       string    `json:"ideaDescription"`
	ImpactedProcess       string    `json:"impactedProcess"`
	ExpectedBenefitsValue string    `json:"expectedBenefitsValue"`
	Attachment            string    `json:"attachment,omitempty"`
	SubmittedAt           time.Time `json:"submittedAt"`
}

type IdeaView struct {
	ID string `json:"_id"`
	IdeaSubmissionView
	Status          string   `json:"status"`
	AdminName       string   `json:"adminName,omitempty"`
	Comment         string   `json:"comment"`
	RejectionReason string   `json:"rejectionReason,omitempty"`
	RejectedAt      string   `json:"rejectedAt,omitempty"`
	RecommendedAt   string   `json:"recommendedAt,omitempty"`
	BookmarkedBy    []string `json:"bookmarkedBy"`
}

type RejectedIdeaView struct {
	ID string `json:"_id"`
	IdeaSubmissionView
	Status          string    `json:"status"`
	Comment         string    `json:"comment,omitempty"`
	AdminName       string    `json:"adminName,omitempty"`
	RejectionReason string    `json:"rejectionReason"`
	RejectedAt      time.Time `json:"rejectedAt"`
	RejectedBy      string    `json:"rejectedBy"`
	RejectedByRole  string    `json:"rejectedByRole"`
}

type BookmarkView struct {
	BookmarkedBy []string `json:"bookmarkedBy"`
}

type UserIdeasSummary struct {
	TotalIdeas    int                `json:"totalIdeas"`
	ApprovedCount int                `json:"approvedCount"`
	RejectedCount int                `json:"rejectedCount"`
	Ideas         []IdeaView         `json:"ideas"`
	RejectedIdeas []RejectedIdeaView `json:"rejectedIdeas"`
}

func submissionConvert(rec dbmodels.IdeaSubmission) IdeaSubmissionView {
	return IdeaSubmissionView{
		EmployeeName:          rec.EmployeeName,
		EmployeeID:            rec.EmployeeID,
		EmployeeFunction:      rec.EmployeeFunction,
		Location:              rec.Location,
		IdeaTheme:             rec.IdeaTheme,
		Department:            rec.Department,
		BenefitsCategory:      rec.BenefitsCategory,
		IdeaDescription:       rec.IdeaDescription,
		ImpactedProcess:       rec.ImpactedProcess,
		ExpectedBenefitsValue: rec.ExpectedBenefitsValue,
		Attachment:            rec.Attachment,
		SubmittedAt:           rec.SubmittedAt,
	}
}

func IdeaConvert(rec dbmodels.Idea) IdeaView {
	bookmarkedBy := rec.BookmarkedBy
	if bookmarkedBy == nil {
		bookmarkedBy = []string{}
	}
	return IdeaView{
		ID:                 rec.ID.Hex(),
		IdeaSubmissionView: submissionConvert(rec.IdeaSubmission),
		Status:             rec.Status,
		AdminName:          rec.AdminName,
		Comment:            rec.Comment,
		RejectionReason:    rec.RejectionReason,
		RejectedAt:         rec.RejectedAt,
		RecommendedAt:      rec.RecommendedAt,
		BookmarkedBy:       bookmarkedBy,
	}
}

func RejectedIdeaConvert(rec dbmodels.RejectedIdea) RejectedIdeaView {
	return RejectedIdeaView{
		ID:                 rec.ID.Hex(),
		IdeaSubmissionView: submissionConvert(rec.IdeaSubmission),
		Status:             rec.Status,
		Comment:            rec.Comment,
		AdminName:          rec.AdminName,
		RejectionReason:    rec.RejectionReason,
		RejectedAt:         rec.RejectedAt,
		RejectedBy:         rec.RejectedBy,
		RejectedByRole:     rec.RejectedByRole,
	}
}

// ArchivedAsIdeaView ответ на перевод идеи в статус отказа через смену
// статуса: идея уже в архиве, но клиент получает привычную форму
func ArchivedAsIdeaView(rec dbmodels.RejectedIdea, rejectedAt string) IdeaView {
	return IdeaView{
		ID:                 rec.ID.Hex(),
		IdeaSubmissionView: submissionConvert(rec.IdeaSubmission),
		Status:             rec.Status,
		AdminName:          rec.RejectedBy,
		Comment:            rec.Comment,
		RejectionReason:    rec.RejectionReason,
		RejectedAt:         rejectedAt,
		BookmarkedBy:       []string{},
	}
}
