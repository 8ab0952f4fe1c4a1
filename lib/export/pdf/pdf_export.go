package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	dbmodels "docflow-backend/models/db"
)

// GenerateApprovalSheet формирует лист согласования документа:
// шапка с реквизитами и таблица решений согласующих
func GenerateApprovalSheet(doc dbmodels.Document, approvals []dbmodels.Approval) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateApprovalSheet panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 14)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}

	pdf.MultiCell(0, 8, "Лист согласования", "", "C", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	htmlStr := fmt.Sprintf("<b>Документ:</b> %v<br>", doc.Title) +
		fmt.Sprintf("<b>Категория:</b> %v<br>", doc.Category) +
		fmt.Sprintf("<b>Подразделение:</b> %v<br>", doc.Department) +
		fmt.Sprintf("<b>Версия:</b> %v<br>", doc.Version) +
		fmt.Sprintf("<b>Статус:</b> %v<br>", doc.Status.ToHuman())
	html.Write(lineHt, htmlStr)
	pdf.Ln(8)

	// таблица решений
	pdf.SetFont("Arial", "B", 10)
	colWidths := []float64{55, 35, 35, 65}
	headers := []string{"Согласующий", "Решение", "Дата", "Комментарий"}
	for idx, header := range headers {
		pdf.CellFormat(colWidths[idx], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, item := range approvals {
		userName := item.UserID
		if item.User != nil {
			userName = item.User.GetFullName()
		}
		approvedAt := ""
		if item.ApprovedAt != nil {
			approvedAt = item.ApprovedAt.Format("02.01.2006 15:04")
		}
		pdf.CellFormat(colWidths[0], 8, userName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, item.Status.ToHuman(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, approvedAt, "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, item.Comments, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
