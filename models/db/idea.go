package dbmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IdeaSubmission поля, заполняемые сотрудником. После создания не меняются.
type IdeaSubmission struct {
	EmployeeName          string    `bson:"employeeName"`
	EmployeeID            string    `bson:"employeeId"`
	EmployeeFunction      string    `bson:"employeeFunction"`
	Location              string    `bson:"location"`
	IdeaTheme             string    `bson:"ideaTheme"`
	Department            string    `bson:"department"`
	BenefitsCategory      string    `bson:"benefitsCategory"`
	IdeaDescription       string    `bson:"ideaDescription"`
	ImpactedProcess       string    `bson:"impactedProcess"`
	ExpectedBenefitsValue string    `bson:"expectedBenefitsValue"`
	Attachment            string    `bson:"attachment,omitempty"`
	SubmittedAt           time.Time `bson:"submittedAt"`
}

// Idea документ коллекции idea_submissions
type Idea struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	IdeaSubmission  `bson:",inline"`
	Status          string          `bson:"status"`
	AdminName       string          `bson:"adminName,omitempty"`
	Comment         string          `bson:"comment"`
	RejectionReason string          `bson:"rejectionReason,omitempty"`
	RejectedAt      string          `bson:"rejectedAt,omitempty"`
	RecommendedAt   string          `bson:"recommendedAt,omitempty"`
	BookmarkedBy    []string        `bson:"bookmarkedBy"`
	Relocation      *IdeaRelocation `bson:"relocation,omitempty"`
}

// IdeaRelocation отметка о начатом переносе идеи в архив отклонённых.
// Пока отметка есть, перенос можно безопасно повторить.
type IdeaRelocation struct {
	Reason         string    `bson:"reason"`
	RejectedBy     string    `bson:"rejectedBy"`
	RejectedByRole string    `bson:"rejectedByRole"`
	RequestedAt    time.Time `bson:"requestedAt"`
}

// RejectedIdea документ коллекции rejected_ideas. _id совпадает с _id исходной идеи.
type RejectedIdea struct {
	ID              primitive.ObjectID `bson:"_id"`
	IdeaSubmission  `bson:",inline"`
	Status          string    `bson:"status"`
	Comment         string    `bson:"comment,omitempty"`
	AdminName       string    `bson:"adminName,omitempty"`
	RejectionReason string    `bson:"rejectionReason"`
	RejectedAt      time.Time `bson:"rejectedAt"`
	RejectedBy      string    `bson:"rejectedBy"`
	RejectedByRole  string    `bson:"rejectedByRole"`
}
