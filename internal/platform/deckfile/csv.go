package deckfile

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/store"
)

func decodeCSV(r io.Reader) (store.Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to read CSV deck: %w", err)
	}
	return parseTable(rows)
}

func encodeCSV(w io.Writer, cards []domain.Card) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(tableRows(cards)); err != nil {
		return fmt.Errorf("failed to write CSV deck: %w", err)
	}
	return nil
}
