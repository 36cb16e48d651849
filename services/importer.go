// services/importer.go
package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

// ImporterService loads word lists from xlsx workbooks into a profile's
// catalog. Expected columns: term, meaning, pronunciation, part of speech,
// example, example meaning, grade, unit. The first row is a header.
type ImporterService struct {
	appContext.DefaultService

	sqlSvc *SqliteService
}

const IMPORTER_SVC = "importer_svc"

func (svc *ImporterService) Id() string {
	return IMPORTER_SVC
}

func (svc *ImporterService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	return nil
}

func (svc *ImporterService) ImportXLSX(userID string, r io.Reader) (*dto.ImportWordsResponse, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "That file is not a readable xlsx workbook")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, shared.NewBadRequestError(nil, "The workbook has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Could not read the first sheet")
	}

	resp := &dto.ImportWordsResponse{}
	now := time.Now()

	for i, row := range rows {
		if i == 0 {
			continue
		}

		term := cell(row, 0)
		meaning := cell(row, 1)
		if term == "" || meaning == "" {
			resp.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: term and meaning are required", i+1))
			continue
		}

		if _, err := svc.sqlSvc.GetWordByTerm(userID, term); err == nil {
			resp.Skipped++
			continue
		}

		word := &model.Word{
			ID:                     uuid.NewString(),
			UserID:                 userID,
			Term:                   term,
			Meaning:                meaning,
			Pronunciation:          cell(row, 2),
			PartOfSpeech:           cell(row, 3),
			ExampleSentence:        cell(row, 4),
			ExampleSentenceMeaning: cell(row, 5),
			Grade:                  cellInt(row, 6),
			IsCustom:               true,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if unit := cellInt(row, 7); unit > 0 {
			word.Unit = &unit
		}

		if err := svc.sqlSvc.CreateWord(word); err != nil {
			resp.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		resp.Imported++
	}

	log.WithFields(log.Fields{
		"user":     userID,
		"imported": resp.Imported,
		"skipped":  resp.Skipped,
	}).Info("Word list imported")

	return resp, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellInt(row []string, idx int) int {
	n, err := strconv.Atoi(cell(row, idx))
	if err != nil {
		return 0
	}
	return n
}
