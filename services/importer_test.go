package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)

	header := []interface{}{"term", "meaning", "pronunciation", "partOfSpeech",
		"exampleSentence", "exampleSentenceMeaning", "grade", "unit"}
	if err := workbook.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := workbook.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+2, err)
		}
	}

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf
}

func TestImportXLSX(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)

	svc := &ImporterService{sqlSvc: store}

	buf := buildWorkbook(t, [][]interface{}{
		{"apple", "사과", "ˈæp.əl", "noun", "I ate an apple.", "나는 사과를 먹었다.", 3, 1},
		{"run", "달리다/뛰다", "", "verb", "", "", 3, 2},
		{"", "뜻만 있음", "", "", "", "", 0, 0},
		{"banana", "", "", "", "", "", 0, 0},
	})

	resp, err := svc.ImportXLSX(userID, buf)
	if err != nil {
		t.Fatalf("ImportXLSX: %v", err)
	}

	if resp.Imported != 2 {
		t.Errorf("imported = %d, want 2", resp.Imported)
	}
	if resp.Skipped != 2 {
		t.Errorf("skipped = %d, want 2", resp.Skipped)
	}
	if len(resp.Errors) != 2 {
		t.Errorf("got %d row errors, want 2: %v", len(resp.Errors), resp.Errors)
	}

	word, err := store.GetWordByTerm(userID, "apple")
	if err != nil {
		t.Fatalf("imported word not found: %v", err)
	}
	if word.Meaning != "사과" || word.Grade != 3 || !word.IsCustom {
		t.Errorf("unexpected imported word: %+v", word)
	}
	if word.Unit == nil || *word.Unit != 1 {
		t.Error("unit column was not carried over")
	}
}

func TestImportXLSXSkipsDuplicates(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)
	seedWords(t, store, userID, makeWords(1)) // seeds term0

	svc := &ImporterService{sqlSvc: store}

	buf := buildWorkbook(t, [][]interface{}{
		{"term0", "이미 있음"},
		{"fresh", "새 단어"},
	})

	resp, err := svc.ImportXLSX(userID, buf)
	if err != nil {
		t.Fatalf("ImportXLSX: %v", err)
	}
	if resp.Imported != 1 || resp.Skipped != 1 {
		t.Errorf("imported/skipped = %d/%d, want 1/1", resp.Imported, resp.Skipped)
	}
}

func TestImportXLSXRejectsGarbage(t *testing.T) {
	store := newTestStore(t)
	userID := seedProfile(t, store)

	svc := &ImporterService{sqlSvc: store}

	if _, err := svc.ImportXLSX(userID, strings.NewReader("this is not a workbook")); err == nil {
		t.Error("a non-xlsx payload should be rejected")
	}
}
