package wsmodels

type EventCode string

const (
	IdeaSubmittedEvent  EventCode = "idea_submitted"
	IdeaAdvancedEvent   EventCode = "idea_advanced"
	IdeaRejectedEvent   EventCode = "idea_rejected"
	IdeaBookmarkedEvent EventCode = "idea_bookmarked"
)

// ServerMessage событие по идее для подключённых администраторов
type ServerMessage struct {
	Code   EventCode `json:"code"`
	IdeaID string    `json:"ideaId"`
	Status string    `json:"status"`
	Time   string    `json:"time"` // время события
}
