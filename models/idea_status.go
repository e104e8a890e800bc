package models

import (
	"strings"
)

// IdeaStage этап рассмотрения идеи
type IdeaStage string

const (
	StagePending     IdeaStage = "Pending"
	StageApproved    IdeaStage = "Approved"
	StageRecommended IdeaStage = "Recommended"
	StageRejected    IdeaStage = "Rejected"
)

var knownStages = []IdeaStage{StagePending, StageApproved, StageRecommended, StageRejected}

// IsKnown этап входит в закрытый список. Неизвестные этапы сохраняются как есть.
func (s IdeaStage) IsKnown() bool {
	for _, stage := range knownStages {
		if stage == s {
			return true
		}
	}
	return false
}

// Canonical этап из закрытого списка без учёта регистра, иначе исходное значение
func (s IdeaStage) Canonical() IdeaStage {
	for _, stage := range knownStages {
		if strings.EqualFold(string(stage), string(s)) {
			return stage
		}
	}
	return s
}

const roleSeparator = "By"

// IdeaStatus статус идеи: этап и роль администратора, выполнившего действие.
// В хранилище пишется строкой "<Stage>By<Role>", например "ApprovedByL1Admin".
type IdeaStatus struct {
	Stage IdeaStage
	Role  string
}

func NewIdeaStatus(stage IdeaStage, role string) IdeaStatus {
	return IdeaStatus{
		Stage: stage,
		Role:  role,
	}
}

func (s IdeaStatus) String() string {
	if s.Role == "" {
		return string(s.Stage)
	}
	return string(s.Stage) + roleSeparator + s.Role
}

// IsRejected отказ определяется по вхождению "rejected" в любом регистре
func (s IdeaStatus) IsRejected() bool {
	return IsRejectedStatus(s.String())
}

func ParseIdeaStatus(raw string) IdeaStatus {
	pos := strings.LastIndex(raw, roleSeparator)
	if pos <= 0 || pos+len(roleSeparator) == len(raw) {
		return IdeaStatus{Stage: IdeaStage(raw)}
	}
	return IdeaStatus{
		Stage: IdeaStage(raw[:pos]),
		Role:  raw[pos+len(roleSeparator):],
	}
}

func IsRejectedStatus(raw string) bool {
	return strings.Contains(strings.ToLower(raw), "rejected")
}
