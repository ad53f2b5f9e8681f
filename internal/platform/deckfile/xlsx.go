package deckfile

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chadananda/flashcard/internal/store"
)

const (
	defaultCardSheet = "cards"
	historySheet     = "history"
)

func loadXLSX(path, sheet string) (store.Snapshot, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to open Excel deck: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	snap, parseErr := parseTable(rows)
	var rowErrs RowErrors
	if parseErr != nil && !errors.As(parseErr, &rowErrs) {
		return store.Snapshot{}, parseErr
	}

	if sheet != historySheet && hasSheet(f, historySheet) {
		history, err := readHistory(f)
		if err != nil {
			return store.Snapshot{}, err
		}
		snap.History = history
	}

	return snap, parseErr
}

// readHistory reads the optional id/day sheet of retired cards.
func readHistory(f *excelize.File) (map[string]int, error) {
	rows, err := f.GetRows(historySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read history sheet: %w", err)
	}

	history := make(map[string]int)
	for i, r := range rows {
		if i == 0 || len(r) < 2 || strings.TrimSpace(r[0]) == "" {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(r[1]))
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i+1, err)
		}
		history[strings.TrimSpace(r[0])] = day
	}
	return history, nil
}

func writeXLSX(w io.Writer, snap store.Snapshot, sheet string) error {
	if sheet == "" {
		sheet = defaultCardSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName(f.GetSheetName(0), sheet)
	if err := writeRows(f, sheet, tableRows(snap.Cards)); err != nil {
		return err
	}

	if len(snap.History) > 0 {
		f.NewSheet(historySheet)
		rows := [][]string{{"id", "day"}}
		for _, id := range sortedKeys(snap.History) {
			rows = append(rows, []string{id, strconv.Itoa(snap.History[id])})
		}
		if err := writeRows(f, historySheet, rows); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel deck: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(r))
		for j, v := range r {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func hasSheet(f *excelize.File, name string) bool {
	for _, s := range f.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}
