package ideahandler

import (
	"context"
	rejectedideastore "idea-portal-backend/lib/idea/rejected-store"
	"idea-portal-backend/lib/metrics"
	"idea-portal-backend/lib/notification"
	apperrors "idea-portal-backend/lib/utils/app-errors"
	"idea-portal-backend/models"
	ideaapimodels "idea-portal-backend/models/api/idea"
	dbmodels "idea-portal-backend/models/db"
	wsmodels "idea-portal-backend/models/ws"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Reject переносит идею в архив отклонённых.
// Сначала на идею ставится отметка о переносе с данными отказа, затем копия
// пишется в архив с тем же _id и исходный документ удаляется. Оба шага
// повторяемы, поэтому прерванный перенос дозавершает ResumeRelocations.
func (i impl) Reject(ctx context.Context, id string, data ideaapimodels.RejectData) (*ideaapimodels.RejectedIdeaView, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	logger := log.
		WithField("idea_id", id).
		WithField("admin_id", data.AdminID)

	rec, err := i.store.GetByID(ctx, oid)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка получения идеи")
	}
	if rec == nil {
		return nil, apperrors.NewNotFound("Idea not found")
	}
	archived, err := i.reject(ctx, rec, data, logger)
	if err != nil {
		return nil, err
	}
	view := ideaapimodels.RejectedIdeaConvert(archived)
	return &view, nil
}

func (i impl) reject(ctx context.Context, rec *dbmodels.Idea, data ideaapimodels.RejectData, logger *log.Entry) (dbmodels.RejectedIdea, error) {
	if rec.Relocation == nil {
		adminName, err := i.resolveAdminName(data.AdminID, data.AdminName)
		if err != nil {
			return dbmodels.RejectedIdea{}, err
		}
		relocation := dbmodels.IdeaRelocation{
			Reason:         reasonOrDefault(data.Reason),
			RejectedBy:     adminName,
			RejectedByRole: models.UserRole(strings.TrimSpace(data.AdminRole)).ReviewTag(),
			RequestedAt:    i.now(),
		}
		marked, err := i.store.Update(ctx, rec.ID, map[string]interface{}{"relocation": relocation})
		if err != nil {
			logger.WithError(err).Error("ошибка отметки идеи к переносу в архив")
			return dbmodels.RejectedIdea{}, apperrors.WrapStore(err, "ошибка отклонения идеи")
		}
		if marked == nil {
			// параллельно уже отклонена или удалена
			return dbmodels.RejectedIdea{}, apperrors.NewNotFound("Idea not found")
		}
		rec = marked
	}

	archived, err := i.finishRelocation(ctx, *rec)
	if err != nil {
		logger.WithError(err).Error("ошибка переноса идеи в архив, перенос будет завершён фоновой задачей")
		return dbmodels.RejectedIdea{}, apperrors.WrapStore(err, "ошибка отклонения идеи")
	}
	logger.
		WithField("reason", archived.RejectionReason).
		Info("идея отклонена и перенесена в архив")
	return archived, nil
}

func (i impl) ListRejected(ctx context.Context, filter ideaapimodels.IdeaFilter) ([]ideaapimodels.RejectedIdeaView, error) {
	list, err := i.rejectedStore.List(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapStore(err, "ошибка получения списка отклонённых идей")
	}
	result := make([]ideaapimodels.RejectedIdeaView, 0, len(list))
	for _, rec := range list {
		result = append(result, ideaapimodels.RejectedIdeaConvert(rec))
	}
	return result, nil
}

func (i impl) ResumeRelocations(ctx context.Context, requestedBefore time.Time) (int, error) {
	list, err := i.store.ListRelocationPending(ctx, requestedBefore)
	if err != nil {
		return 0, apperrors.WrapStore(err, "ошибка получения идей в процессе переноса")
	}
	done := 0
	for _, rec := range list {
		if ctx.Err() != nil {
			break
		}
		if _, err = i.finishRelocation(ctx, rec); err != nil {
			log.
				WithField("idea_id", rec.ID.Hex()).
				WithError(err).
				Error("ошибка завершения переноса идеи в архив")
			continue
		}
		done++
	}
	return done, nil
}

// finishRelocation события и письмо об отказе отправляет только тот, кто
// удалил исходный документ: параллельный перенос той же идеи их не дублирует
func (i impl) finishRelocation(ctx context.Context, rec dbmodels.Idea) (dbmodels.RejectedIdea, error) {
	archived, deleted, err := i.relocate(ctx, rec)
	if err != nil {
		return archived, err
	}
	if deleted {
		i.afterRelocation(archived)
	}
	return archived, nil
}

// relocate копия в архив однозначно строится по отметке. Уже существующая
// копия не вставляется повторно: в транзакции ошибка вставки прервала бы её.
func (i impl) relocate(ctx context.Context, rec dbmodels.Idea) (archived dbmodels.RejectedIdea, deleted bool, err error) {
	err = i.tx.WithTransaction(ctx, func(ctx context.Context) error {
		archived, deleted = ArchiveCopy(rec), false
		existing, err := i.rejectedStore.GetByID(ctx, rec.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			archived = *existing
		} else if err = i.rejectedStore.Create(ctx, archived); err != nil {
			// без транзакции копию мог успеть вставить параллельный перенос
			if i.tx.Transactional() || !errors.Is(err, rejectedideastore.ErrAlreadyArchived) {
				return err
			}
		}
		deleted, err = i.store.Delete(ctx, rec.ID)
		return err
	})
	return archived, deleted, err
}

// ArchiveCopy запись архива: все поля подачи без изменений плюс данные отказа
func ArchiveCopy(rec dbmodels.Idea) dbmodels.RejectedIdea {
	relocation := dbmodels.IdeaRelocation{Reason: DefaultRejectionReason}
	if rec.Relocation != nil {
		relocation = *rec.Relocation
	}
	return dbmodels.RejectedIdea{
		ID:              rec.ID,
		IdeaSubmission:  rec.IdeaSubmission,
		Status:          string(models.StageRejected),
		Comment:         rec.Comment,
		AdminName:       rec.AdminName,
		RejectionReason: reasonOrDefault(relocation.Reason),
		RejectedAt:      relocation.RequestedAt,
		RejectedBy:      relocation.RejectedBy,
		RejectedByRole:  relocation.RejectedByRole,
	}
}

func (i impl) afterRelocation(archived dbmodels.RejectedIdea) {
	metrics.IdeaRejected()
	i.publish(wsmodels.IdeaRejectedEvent, archived.ID.Hex(), archived.Status)
	if i.notifier == nil || i.credentials == nil {
		return
	}
	i.notifier.Dispatch(notification.Job{
		Name: "idea_rejected",
		Build: func(ctx context.Context) (*notification.Message, error) {
			email, err := i.credentials.EmployeeEmail(archived.EmployeeID)
			if err != nil {
				return nil, err
			}
			if email == "" {
				log.
					WithField("idea_id", archived.ID.Hex()).
					WithField("employee_id", archived.EmployeeID).
					Warn("почта сотрудника не найдена, уведомление не отправлено")
				return nil, nil
			}
			msg := notification.ArchiveRejectionMessage(email, archived, i.teamName)
			return &msg, nil
		},
	})
}
