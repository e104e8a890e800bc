package xlsexport

import (
	"bytes"
	"idea-portal-backend/lib/utils/helpers"
	ideaapimodels "idea-portal-backend/models/api/idea"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportIdeas(list []ideaapimodels.IdeaView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

const ideasSheet = "Ideas"

var ideaHeaders = []string{
	"ID", "Submitted At", "Employee Name", "Employee ID", "Function", "Location",
	"Idea Theme", "Department", "Benefits Category", "Idea Description",
	"Impacted Process", "Expected Benefits", "Attachment",
	"Status", "Admin", "Comment", "Rejection Reason", "Recommended At", "Bookmarks",
}

// колонка описания идеи шире остальных
const descriptionCol = "J"

func (i impl) ExportIdeas(list []ideaapimodels.IdeaView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	if err := f.SetSheetName("Sheet1", ideasSheet); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа xlsx")
	}
	if err := writeHeader(f, ideasSheet, ideaHeaders); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if err := f.SetColWidth(ideasSheet, descriptionCol, descriptionCol, wideColWid); err != nil {
		return nil, errors.Wrap(err, "ошибка установки ширины колонки")
	}
	for idx, item := range list {
		if err := writeRow(f, ideasSheet, idx+2, ideaRow(item)); err != nil {
			return nil, errors.Wrapf(err, "ошибка записи идеи %s в xlsx", item.ID)
		}
	}
	if err := applyDataStyle(f, ideasSheet, len(ideaHeaders), len(list)+1); err != nil {
		return nil, errors.Wrap(err, "ошибка оформления таблицы xlsx")
	}
	return f.WriteToBuffer()
}

func ideaRow(item ideaapimodels.IdeaView) []interface{} {
	submitted := ""
	if !item.SubmittedAt.IsZero() {
		submitted = helpers.FormatReviewTime(item.SubmittedAt)
	}
	return []interface{}{
		item.ID,
		submitted,
		item.EmployeeName,
		item.EmployeeID,
		item.EmployeeFunction,
		item.Location,
		item.IdeaTheme,
		item.Department,
		item.BenefitsCategory,
		item.IdeaDescription,
		item.ImpactedProcess,
		item.ExpectedBenefitsValue,
		item.Attachment,
		item.Status,
		item.AdminName,
		item.Comment,
		item.RejectionReason,
		item.RecommendedAt,
		len(item.BookmarkedBy),
	}
}
