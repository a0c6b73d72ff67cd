package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"coursegen-go/internal/logger"
	"coursegen-go/internal/types"
)

const sheetName = "Questions"

var header = []string{"#", "Kind", "Difficulty", "Prompt", "Option A", "Option B", "Option C", "Option D", "Correct Answer"}

// WriteQuestionBank renders a validated question bank as an .xlsx workbook,
// one row per question in bank order. Banks arrive here caller-edited, so
// the shape contract is re-checked before any bytes are written; a bad bank
// fails with a ValidationError and an untouched writer.
func WriteQuestionBank(topic string, bank types.QuestionBank, w io.Writer) error {
	if err := bank.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, q := range bank {
		row := questionRow(i, q)
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", i+1, err)
			}
		}
	}

	// prompt and answer columns carry full sentences
	_ = f.SetColWidth(sheetName, "D", "D", 60)
	_ = f.SetColWidth(sheetName, "I", "I", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	logger.New().WithField("component", "export").
		WithField("topic", topic).
		WithField("questions", len(bank)).
		Info("question bank exported")
	return nil
}

// questionRow flattens one question into the sheet's nine columns. SAQ rows
// leave the option columns empty.
func questionRow(i int, q types.Question) []any {
	row := []any{i + 1, q.Kind, q.Difficulty, q.Prompt, "", "", "", "", q.CorrectAnswer}
	for j, opt := range q.Options {
		row[4+j] = opt
	}
	return row
}
