package deckfile

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/store"
)

// listSep separates list entries inside one cell.
const listSep = "|"

// Column headers of the table formats.
var columns = []string{
	"id", "type", "level", "schedule",
	"question", "answer", "description", "incorrect", "audio",
	"word_1", "word_2", "lang_1", "lang_2",
	"incorrect_1", "incorrect_2", "audio_1", "audio_2",
	"quote", "author",
}

// ErrMissingTypeColumn is returned for tables without a "type" header.
var ErrMissingTypeColumn = errors.New(`deck table has no "type" column`)

// RowError reports a card that could not be read. In table formats Row is
// the 1-based line and counts the header; in YAML and JSON decks it is the
// card's 1-based position in the list.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// RowErrors collects the cards left out of a deck.
type RowErrors []RowError

func (e RowErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = re.Error()
	}
	return fmt.Sprintf("%d rows skipped: %s", len(e), strings.Join(msgs, "; "))
}

func (e RowErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, re := range e {
		errs[i] = re
	}
	return errs
}

// orNil keeps a nil RowErrors from turning into a non-nil error.
func (e RowErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// row is one table line addressed by header name.
type row map[string]string

func (r row) list(col string) []string {
	v := strings.TrimSpace(r[col])
	if v == "" {
		return nil
	}
	parts := strings.Split(v, listSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// slots splits a cell like list but keeps empty entries, so an entry's
// position survives a save and reload.
func (r row) slots(col string) []string {
	v := strings.TrimSpace(r[col])
	if v == "" {
		return nil
	}
	parts := strings.Split(v, listSep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func (r row) int(col string) (int, error) {
	v := strings.TrimSpace(r[col])
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return n, nil
}

// parseTable turns raw rows, header first, into a snapshot. Blank lines
// are ignored.
func parseTable(rows [][]string) (store.Snapshot, error) {
	if len(rows) == 0 {
		return store.Snapshot{}, nil
	}

	header := make([]string, len(rows[0]))
	hasType := false
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
		if header[i] == "type" {
			hasType = true
		}
	}
	if !hasType {
		return store.Snapshot{}, ErrMissingTypeColumn
	}

	var (
		snap store.Snapshot
		bad  RowErrors
	)
	for i, raw := range rows[1:] {
		r := make(row, len(header))
		blank := true
		for j, cell := range raw {
			if j < len(header) && header[j] != "" {
				r[header[j]] = cell
				if strings.TrimSpace(cell) != "" {
					blank = false
				}
			}
		}
		if blank {
			continue
		}

		card, err := r.card()
		if err != nil {
			// Row numbers are 1-based and count the header.
			bad = append(bad, RowError{Row: i + 2, Err: err})
			continue
		}
		snap.Cards = append(snap.Cards, card)
	}

	return snap, bad.orNil()
}

func (r row) card() (domain.Card, error) {
	t, err := domain.ParseCardType(strings.TrimSpace(r["type"]))
	if err != nil {
		return domain.Card{}, err
	}
	level, err := r.int("level")
	if err != nil {
		return domain.Card{}, err
	}
	schedule, err := r.int("schedule")
	if err != nil {
		return domain.Card{}, err
	}

	var content domain.Content
	switch t {
	case domain.CardTypeVocab:
		content = &domain.VocabContent{
			Question:    strings.TrimSpace(r["question"]),
			Answer:      strings.TrimSpace(r["answer"]),
			Description: strings.TrimSpace(r["description"]),
			Incorrect:   r.list("incorrect"),
			Audio:       r.slots("audio"),
		}
	case domain.CardTypeLangVocab:
		content = &domain.LangVocabContent{
			Words:       [2]string{strings.TrimSpace(r["word_1"]), strings.TrimSpace(r["word_2"])},
			Lang:        [2]string{strings.TrimSpace(r["lang_1"]), strings.TrimSpace(r["lang_2"])},
			Description: strings.TrimSpace(r["description"]),
			Incorrect:   [2][]string{r.list("incorrect_1"), r.list("incorrect_2")},
			Audio:       [2]string{strings.TrimSpace(r["audio_1"]), strings.TrimSpace(r["audio_2"])},
		}
	case domain.CardTypeQuote:
		content = &domain.QuoteContent{
			Quote:  strings.TrimSpace(r["quote"]),
			Author: strings.TrimSpace(r["author"]),
		}
	}

	return domain.Card{
		ID:       strings.TrimSpace(r["id"]),
		Type:     t,
		Level:    level,
		Schedule: schedule,
		Content:  content,
	}, nil
}

// tableRows renders cards under the standard header.
func tableRows(cards []domain.Card) [][]string {
	out := make([][]string, 0, len(cards)+1)
	out = append(out, append([]string(nil), columns...))

	for _, c := range cards {
		r := row{
			"id":       c.ID,
			"type":     string(c.Type),
			"level":    strconv.Itoa(c.Level),
			"schedule": strconv.Itoa(c.Schedule),
		}
		switch content := c.Content.(type) {
		case *domain.VocabContent:
			r["question"] = content.Question
			r["answer"] = content.Answer
			r["description"] = content.Description
			r["incorrect"] = strings.Join(content.Incorrect, listSep)
			r["audio"] = strings.Join(content.Audio, listSep)
		case *domain.LangVocabContent:
			r["word_1"], r["word_2"] = content.Words[0], content.Words[1]
			r["lang_1"], r["lang_2"] = content.Lang[0], content.Lang[1]
			r["description"] = content.Description
			r["incorrect_1"] = strings.Join(content.Incorrect[0], listSep)
			r["incorrect_2"] = strings.Join(content.Incorrect[1], listSep)
			r["audio_1"], r["audio_2"] = content.Audio[0], content.Audio[1]
		case *domain.QuoteContent:
			r["quote"] = content.Quote
			r["author"] = content.Author
		}

		line := make([]string, len(columns))
		for i, col := range columns {
			line[i] = r[col]
		}
		out = append(out, line)
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
