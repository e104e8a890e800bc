package pdfexport

import (
	"bytes"
	"fmt"
	"idea-portal-backend/lib/utils/helpers"
	ideaapimodels "idea-portal-backend/models/api/idea"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	labelWidth = 55
	lineHeight = 7
)

type field struct {
	label string
	value string
}

// IdeaCard карточка идеи на одну страницу A4, встроенный шрифт Helvetica
func IdeaCard(idea ideaapimodels.IdeaView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("IdeaCard panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Idea "+idea.ID, true)
	pdf.AddPage()
	// core-шрифты в cp1252, остальные символы заменяются
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	title := idea.IdeaTheme
	if strings.TrimSpace(title) == "" {
		title = "Idea"
	}
	pdf.MultiCell(0, 10, tr(title), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, tr("ID: "+idea.ID), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, f := range cardFields(idea) {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		x, y := pdf.GetXY()
		pdf.MultiCell(labelWidth, lineHeight, tr(f.label), "", "L", false)
		pdf.SetXY(x+labelWidth, y)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, tr(f.value), "", "L", false)
	}
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cardFields(idea ideaapimodels.IdeaView) []field {
	submitted := ""
	if !idea.SubmittedAt.IsZero() {
		submitted = helpers.FormatReviewTime(idea.SubmittedAt)
	}
	return []field{
		{"Employee", fmt.Sprintf("%s (%s)", idea.EmployeeName, idea.EmployeeID)},
		{"Function", idea.EmployeeFunction},
		{"Location", idea.Location},
		{"Department", idea.Department},
		{"Submitted At", submitted},
		{"Benefits Category", idea.BenefitsCategory},
		{"Impacted Process", idea.ImpactedProcess},
		{"Expected Benefits", idea.ExpectedBenefitsValue},
		{"Description", idea.IdeaDescription},
		{"Attachment", idea.Attachment},
		{"Status", idea.Status},
		{"Reviewed By", idea.AdminName},
		{"Comment", idea.Comment},
		{"Rejection Reason", idea.RejectionReason},
		{"Recommended At", idea.RecommendedAt},
		{"Bookmarks", bookmarksValue(idea.BookmarkedBy)},
	}
}

func bookmarksValue(list []string) string {
	if len(list) == 0 {
		return ""
	}
	return fmt.Sprintf("%d", len(list))
}
