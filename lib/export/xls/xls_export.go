package xlsexport

import (
	"bytes"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	dbmodels "docflow-backend/models/db"
)

type Provider interface {
	ExportDocumentList(list []dbmodels.Document) (*bytes.Buffer, error)
	ExportTaskList(list []dbmodels.Task) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var documentHeaders = []string{"Название", "Категория", "Подразделение", "Версия", "Статус", "Автор", "Метки", "Дата создания"}

func (i impl) ExportDocumentList(list []dbmodels.Document) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, documentHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeDocumentData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Документы")
	return f.WriteToBuffer()
}

func writeDocumentData(f *excelize.File, sheet string, list []dbmodels.Document, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(documentHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Название"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		// "Категория"
		col++
		if err := writeColumn(f, sheet, col, row, item.Category); err != nil {
			return row, err
		}

		// "Подразделение"
		col++
		if err := writeColumn(f, sheet, col, row, item.Department); err != nil {
			return row, err
		}

		// "Версия"
		col++
		if err := writeColumn(f, sheet, col, row, item.Version); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		// "Автор"
		col++
		if item.Author != nil {
			if err := writeColumn(f, sheet, col, row, item.Author.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Метки"
		col++
		if err := writeColumn(f, sheet, col, row, strings.Join(item.Tags, ", ")); err != nil {
			return row, err
		}

		// "Дата создания"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006")); err != nil {
			return row, err
		}
	}
	return row, nil
}

var taskHeaders = []string{"Название", "Исполнитель", "Постановщик", "Приоритет", "Статус", "Срок", "Завершена", "Просрочена"}

func (i impl) ExportTaskList(list []dbmodels.Task) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, taskHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeTaskData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Задачи")
	return f.WriteToBuffer()
}

func writeTaskData(f *excelize.File, sheet string, list []dbmodels.Task, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(taskHeaders), len(list)+1); err != nil {
		return row, err
	}
	now := time.Now()
	for _, item := range list {
		row++
		// "Название"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.Title); err != nil {
			return row, err
		}

		// "Исполнитель"
		col++
		if item.Assignee != nil {
			if err := writeColumn(f, sheet, col, row, item.Assignee.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Постановщик"
		col++
		if item.Assigner != nil {
			if err := writeColumn(f, sheet, col, row, item.Assigner.GetFullName()); err != nil {
				return row, err
			}
		}

		// "Приоритет"
		col++
		if err := writeColumn(f, sheet, col, row, item.Priority.ToHuman()); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.Status.ToHuman()); err != nil {
			return row, err
		}

		// "Срок"
		col++
		if item.DueDate != nil {
			if err := writeColumn(f, sheet, col, row, item.DueDate.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Завершена"
		col++
		if item.CompletedAt != nil {
			if err := writeColumn(f, sheet, col, row, item.CompletedAt.Format("02.01.2006 15:04")); err != nil {
				return row, err
			}
		}

		// "Просрочена"
		col++
		if item.IsOverdue(now) {
			if err := writeColumn(f, sheet, col, row, "Да"); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
