package notification

import (
	"idea-portal-backend/lib/locales"
	"idea-portal-backend/lib/utils/helpers"
	dbmodels "idea-portal-backend/models/db"
	"time"
)

// DecisionMessage письмо о продвижении идеи. Об отказе сотрудник узнаёт из
// ArchiveRejectionMessage.
func DecisionMessage(recipient string, idea dbmodels.Idea, adminRole string) Message {
	data := map[string]interface{}{
		"Theme": idea.IdeaTheme,
		"Role":  adminRole,
	}
	return Message{
		Recipient: recipient,
		Subject:   locales.Message("DecisionAcceptedSubject", nil),
		Body:      locales.Message("DecisionAcceptedBody", data),
	}
}

func ArchiveRejectionMessage(recipient string, rec dbmodels.RejectedIdea, team string) Message {
	return Message{
		Recipient: recipient,
		Subject:   locales.Message("ArchiveRejectedSubject", nil),
		Body: locales.Message("ArchiveRejectedBody", map[string]interface{}{
			"Name":       rec.EmployeeName,
			"Theme":      rec.IdeaTheme,
			"Reason":     rec.RejectionReason,
			"RejectedAt": helpers.FormatReviewTime(rec.RejectedAt),
			"Team":       team,
		}),
	}
}

func OtpMessage(recipient, code string, ttl time.Duration) Message {
	return Message{
		Recipient: recipient,
		Subject:   locales.Message("OtpSubject", nil),
		Body: locales.Message("OtpBody", map[string]interface{}{
			"Code":    code,
			"Minutes": int(ttl.Minutes()),
		}),
	}
}
