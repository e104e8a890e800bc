package ideahandler

import (
	"context"
	"fmt"
	"idea-portal-backend/lib/credentials"
	filestorage "idea-portal-backend/lib/file-storage"
	rejectedideastore "idea-portal-backend/lib/idea/rejected-store"
	ideastore "idea-portal-backend/lib/idea/store"
	"idea-portal-backend/lib/metrics"
	"idea-portal-backend/lib/notification"
	apperrors "idea-portal-backend/lib/utils/app-errors"
	initchecker "idea-portal-backend/lib/utils/init-checker"
	"idea-portal-backend/lib/utils/helpers"
	connectionhub "idea-portal-backend/lib/ws/hub/connection-hub"
	"idea-portal-backend/models"
	ideaapimodels "idea-portal-backend/models/api/idea"
	dbmodels "idea-portal-backend/models/db"
	wsmodels "idea-portal-backend/models/ws"
	"idea-portal-backend/mongodb"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultRejectionReason = "No reason provided"

type Provider interface {
	Submit(ctx context.Context, data ideaapimodels.IdeaSubmitData, attachment *ideaapimodels.Attachment) (*ideaapimodels.IdeaView, error)
	List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]ideaapimodels.IdeaView, error)
	Get(ctx context.Context, id string) (*ideaapimodels.IdeaView, error)
	UserSummary(ctx context.Context, employeeID string) (*ideaapimodels.UserIdeasSummary, error)
	Advance(ctx context.Context, id string, data ideaapimodels.AdvanceData) (*ideaapimodels.IdeaView, error)
	Reject(ctx context.Context, id string, data ideaapimodels.RejectData) (*ideaapimodels.RejectedIdeaView, error)
	ListRejected(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]ideaapimodels.RejectedIdeaView, error)
	ToggleBookmark(ctx context.Context, id, adminID string) ([]string, error)
	Attachment(ctx context.Context, id string) (file *filestorage.Attachment, fileName string, err error)
	// ResumeRelocations завершает переносы в архив, начатые раньше requestedBefore
	ResumeRelocations(ctx context.Context, requestedBefore time.Time) (int, error)
}

var Instance Provider

// Deps зависимости обработчика, Events и Files могут быть nil
type Deps struct {
	Store         ideastore.Provider
	RejectedStore rejectedideastore.Provider
	Tx            mongodb.TxRunner
	Credentials   credentials.Provider
	Files         filestorage.Provider
	Notifier      notification.Provider
	Events        connectionhub.Provider
	TeamName      string
	Now           func() time.Time
}

func NewHandler(teamName string) {
	initchecker.CheckInit(
		"mongodb", mongodb.DB,
		"credentials", credentials.Instance,
		"notification", notification.Instance,
	)
	Instance = NewInstance(Deps{
		Store:         ideastore.NewInstance(mongodb.DB),
		RejectedStore: rejectedideastore.NewInstance(mongodb.DB),
		Tx:            mongodb.Tx,
		Credentials:   credentials.Instance,
		Files:         filestorage.Instance,
		Notifier:      notification.Instance,
		Events:        connectionhub.Instance,
		TeamName:      teamName,
	})
}

func NewInstance(deps Deps) Provider {
	if deps.Tx == nil {
		deps.Tx = mongodb.DirectRunner{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return impl{
		store:         deps.Store,
		rejectedStore: deps.RejectedStore,
		tx:            deps.Tx,
		credentials:   deps.Credentials,
		files:         deps.Files,
		notifier:      deps.Notifier,
		events:        deps.Events,
		teamName:      deps.TeamName,
		now:           deps.Now,
	}
}

type impl struct {
	store         ideastore.Provider
	rejectedStore rejectedideastore.Provider
	tx            mongodb.TxRunner
	credentials   credentials.Provider
	files         filestorage.Provider
	notifier      notification.Provider
	events        connectionhub.Provider
	teamName      string
	now           func() time.Time
}

func (i impl) Submit(ctx context.Context, data ideaapimodels.IdeaSubmitData, attachment *ideaapimodels.Attachment) (*ideaapimodels.IdeaView, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	rec := dbmodels.Idea{
		ID: primitive.NewObjectID(),
		IdeaSubmission: dbmodels.IdeaSubmission{
			EmployeeName:          data.EmployeeName,
			EmployeeID:            strings.TrimSpace(data.EmployeeID),
			EmployeeFunction:      data.EmployeeFunction,
			Location:              data.Location,
			IdeaTheme:             data.IdeaTheme,
			Department:            data.Department,
			BenefitsCategory:      data.BenefitsCategory,
			IdeaDescription:       data.IdeaDescription,
			ImpactedProcess:       data.ImpactedProcess,
			ExpectedBenefitsValue: data.ExpectedBenefitsValue,
			SubmittedAt:           i.now(),
		},
		Status:       string(models.StagePending),
		BookmarkedBy: []string{},
	}
	logger := log.
		WithField("idea_id", rec.ID.Hex()).
		WithField("employee_id", rec.EmployeeID)

	if attachment != nil && attachment.Reader != nil {
		if i.files == nil {
			return nil, apperrors.WrapStore(fmt.Errorf("хранилище файлов не настроено"), "ошибка сохранения вложения")
		}
		key := fmt.Sprintf("ideas/%s/%s", uuid.NewString(), attachment.ObjectName(rec.EmployeeID))
		err := i.files.UploadAttachment(ctx, key, attachment.Reader, attachment.Size, attachment.ContentType)
		if err != nil {
			logger.WithError(err).Error("ошибка сохранения вложения")
			return nil, apperrors.WrapStore(err, "ошибка сохранения вложения")
		}
		rec.Attachment = key
	}

	created, err := i.store.Create(ctx, rec)
	if err != nil {
		logger.WithError(err).Error("ошибка сохранения идеи")
		return nil, apperrors.WrapStore(err, "ошибка сохранения идеи")
	}
	logger.Info("идея подана")
	metrics.IdeaSubmitted()
	i.publish(wsmodels.IdeaSubmittedEvent, created.ID.Hex(), created.Status)
	view := ideaapimodels.IdeaConvert(*created)
	return &view, nil
}

func (i impl) List(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]ideaapimodels.IdeaView, error) {
	list, err := i.store.List(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка получения списка идей")
	}
	result := make([]ideaapimodels.IdeaView, 0, len(list))
	for _, rec := range list {
		result = append(result, ideaapimodels.IdeaConvert(rec))
	}
	return result, nil
}

func (i impl) Get(ctx context.Context, id string) (*ideaapimodels.IdeaView, error) {
	rec, err := i.getActive(ctx, id)
	if err != nil {
		return nil, err
	}
	view := ideaapimodels.IdeaConvert(*rec)
	return &view, nil
}

func (i impl) UserSummary(ctx context.Context, employeeID string) (*ideaapimodels.UserIdeasSummary, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, apperrors.NewValidation("Employee ID is required")
	}
	filter := ideaapimodels.IdeaFilter{EmployeeID: employeeID}
	ideas, err := i.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rejected, err := i.ListRejected(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := ideaapimodels.UserIdeasSummary{
		TotalIdeas:    len(ideas) + len(rejected),
		RejectedCount: len(rejected),
		Ideas:         ideas,
		RejectedIdeas: rejected,
	}
	for _, idea := range ideas {
		status := models.ParseIdeaStatus(idea.Status)
		switch {
		case status.IsRejected():
			result.RejectedCount++
		case status.Stage.Canonical() == models.StageApproved:
			result.ApprovedCount++
		}
	}
	return &result, nil
}

func (i impl) Advance(ctx context.Context, id string, data ideaapimodels.AdvanceData) (*ideaapimodels.IdeaView, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if err = data.Validate(); err != nil {
		return nil, err
	}
	logger := log.
		WithField("idea_id", id).
		WithField("admin_id", data.AdminID)

	rec, err := i.getActiveByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if models.IsRejectedStatus(rec.Status) {
		return nil, apperrors.NewValidation("Idea has already been rejected")
	}
	role := models.UserRole(strings.TrimSpace(data.AdminRole)).ReviewTag()
	stage := models.IdeaStage(strings.TrimSpace(data.Status)).Canonical()
	status := models.NewIdeaStatus(stage, role)
	comment := ""
	if data.Comment != nil {
		comment = *data.Comment
	}

	// отказ всегда означает перенос в архив, комментарий становится причиной
	if status.IsRejected() {
		archived, err := i.reject(ctx, rec, ideaapimodels.RejectData{
			Reason:    comment,
			AdminID:   data.AdminID,
			AdminRole: data.AdminRole,
			AdminName: data.AdminName,
		}, logger)
		if err != nil {
			return nil, err
		}
		view := ideaapimodels.ArchivedAsIdeaView(archived, helpers.FormatReviewTime(archived.RejectedAt))
		return &view, nil
	}

	adminName, err := i.resolveAdminName(data.AdminID, data.AdminName)
	if err != nil {
		return nil, err
	}
	now := i.now()
	updMap := map[string]interface{}{
		"status":    status.String(),
		"adminName": adminName,
	}
	if data.Comment != nil {
		updMap["comment"] = comment
	}
	switch stage {
	case models.StageApproved, models.StageRecommended:
		updMap["recommendedAt"] = helpers.FormatReviewTime(now)
	}

	updated, err := i.store.Update(ctx, oid, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка обновления статуса идеи")
		return nil, apperrors.WrapStore(err, "ошибка обновления статуса идеи")
	}
	if updated == nil {
		return nil, apperrors.NewNotFound("Idea not found")
	}
	logger.
		WithField("status", updated.Status).
		WithField("admin_name", adminName).
		Info("статус идеи обновлён")
	metrics.IdeaTransition(string(stage), role)
	i.publish(wsmodels.IdeaAdvancedEvent, updated.ID.Hex(), updated.Status)
	i.notifyDecision(*updated, role)

	view := ideaapimodels.IdeaConvert(*updated)
	return &view, nil
}

func (i impl) ToggleBookmark(ctx context.Context, id, adminID string) ([]string, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return nil, apperrors.NewValidation("Admin ID is required")
	}
	rec, err := i.getActiveByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	updated, err := i.store.Update(ctx, oid, map[string]interface{}{
		"bookmarkedBy": ToggleBookmark(rec.BookmarkedBy, adminID),
	})
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка обновления закладок")
	}
	if updated == nil {
		return nil, apperrors.NewNotFound("Idea not found")
	}
	i.publish(wsmodels.IdeaBookmarkedEvent, updated.ID.Hex(), updated.Status)
	if updated.BookmarkedBy == nil {
		return []string{}, nil
	}
	return updated.BookmarkedBy, nil
}

// ToggleBookmark убирает adminID, если он есть, иначе добавляет. Дубликаты отбрасываются.
func ToggleBookmark(bookmarkedBy []string, adminID string) []string {
	result := make([]string, 0, len(bookmarkedBy)+1)
	seen := map[string]bool{}
	found := false
	for _, id := range bookmarkedBy {
		if id == adminID {
			found = true
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	if !found {
		result = append(result, adminID)
	}
	return result
}

func (i impl) Attachment(ctx context.Context, id string) (*filestorage.Attachment, string, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, "", err
	}
	key := ""
	rec, err := i.store.GetByID(ctx, oid)
	if err != nil {
		return nil, "", apperrors.WrapStore(err, "ошибка получения идеи")
	}
	if rec != nil {
		key = rec.Attachment
	} else {
		archived, err := i.rejectedStore.GetByID(ctx, oid)
		if err != nil {
			return nil, "", apperrors.WrapStore(err, "ошибка получения идеи")
		}
		if archived == nil {
			return nil, "", apperrors.NewNotFound("Idea not found")
		}
		key = archived.Attachment
	}
	if key == "" || i.files == nil {
		return nil, "", apperrors.NewNotFound("Attachment not found")
	}
	file, err := i.files.GetAttachment(ctx, key)
	if err != nil {
		return nil, "", apperrors.WrapStore(err, "ошибка получения вложения")
	}
	if file == nil {
		return nil, "", apperrors.NewNotFound("Attachment not found")
	}
	return file, path.Base(key), nil
}

func (i impl) getActive(ctx context.Context, id string) (*dbmodels.Idea, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return i.getActiveByID(ctx, oid)
}

// getActiveByID идея в процессе переноса в архив считается отсутствующей
func (i impl) getActiveByID(ctx context.Context, oid primitive.ObjectID) (*dbmodels.Idea, error) {
	rec, err := i.store.GetByID(ctx, oid)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка получения идеи")
	}
	if rec == nil || rec.Relocation != nil {
		return nil, apperrors.NewNotFound("Idea not found")
	}
	return rec, nil
}

// resolveAdminName имя из запроса, иначе из учётной записи администратора.
// "Unknown" от фронта считается отсутствием имени.
func (i impl) resolveAdminName(adminID, adminName string) (string, error) {
	name := strings.TrimSpace(adminName)
	if name != "" && !strings.EqualFold(name, "Unknown") && name != models.UnknownAdminName {
		return name, nil
	}
	if i.credentials != nil {
		found, err := i.credentials.AdminName(strings.TrimSpace(adminID))
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}
	}
	return models.UnknownAdminName, nil
}

func (i impl) notifyDecision(idea dbmodels.Idea, adminRole string) {
	if i.notifier == nil {
		return
	}
	i.notifier.Dispatch(notification.Job{
		Name: "idea_decision",
		Build: func(ctx context.Context) (*notification.Message, error) {
			if i.credentials == nil {
				return nil, nil
			}
			email, err := i.credentials.EmployeeEmail(idea.EmployeeID)
			if err != nil {
				return nil, err
			}
			if email == "" {
				log.
					WithField("idea_id", idea.ID.Hex()).
					WithField("employee_id", idea.EmployeeID).
					Warn("почта сотрудника не найдена, уведомление не отправлено")
				return nil, nil
			}
			msg := notification.DecisionMessage(email, idea, adminRole)
			return &msg, nil
		},
	})
}

func (i impl) publish(code wsmodels.EventCode, ideaID, status string) {
	if i.events == nil {
		return
	}
	i.events.Broadcast(wsmodels.ServerMessage{
		Code:   code,
		IdeaID: ideaID,
		Status: status,
		Time:   i.now().Format("02.01.2006 15:04:05"),
	})
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperrors.NewValidation("Invalid Idea ID")
	}
	return oid, nil
}

func reasonOrDefault(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return DefaultRejectionReason
	}
	return reason
}
