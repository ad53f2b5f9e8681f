package deckfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chadananda/flashcard/internal/domain"
	"github.com/chadananda/flashcard/internal/store"
)

// Format is a deck file encoding.
type Format string

// Supported formats
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported deck format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Options tune reading and writing.
type Options struct {
	// Sheet is the worksheet holding cards in .xlsx files. Empty means the
	// first sheet when reading and "cards" when writing.
	Sheet string
}

// Load reads a deck file. Cards that cannot be read, including cards of an
// unknown type, are left out and reported in a RowErrors next to the cards
// that were read.
func Load(path string, opts Options) (store.Snapshot, error) {
	format, err := FormatOf(path)
	if err != nil {
		return store.Snapshot{}, err
	}

	if format == FormatXLSX {
		return loadXLSX(path, opts.Sheet)
	}

	f, err := os.Open(path)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to open deck: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, format)
}

// Decode reads a deck in a stream format: YAML, JSON or CSV.
func Decode(r io.Reader, format Format) (store.Snapshot, error) {
	switch format {
	case FormatYAML:
		var doc deckDocument
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return store.Snapshot{}, nil
			}
			return store.Snapshot{}, fmt.Errorf("failed to decode YAML deck: %w", err)
		}
		return doc.snapshot()

	case FormatJSON:
		var doc struct {
			Cards   []json.RawMessage `json:"cards"`
			History map[string]int    `json:"history"`
		}
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return store.Snapshot{}, fmt.Errorf("failed to decode JSON deck: %w", err)
		}

		snap := store.Snapshot{
			Cards:   make([]domain.Card, 0, len(doc.Cards)),
			History: doc.History,
		}
		var bad RowErrors
		for i, raw := range doc.Cards {
			var card domain.Card
			if err := json.Unmarshal(raw, &card); err != nil {
				bad = append(bad, RowError{Row: i + 1, Err: err})
				continue
			}
			snap.Cards = append(snap.Cards, card)
		}
		return snap, bad.orNil()

	case FormatCSV:
		return decodeCSV(r)

	default:
		return store.Snapshot{}, fmt.Errorf("%w: %q cannot be streamed", ErrUnsupportedFormat, format)
	}
}

// Save writes snap to path in the format its extension names. The file is
// written next to the target and renamed over it.
func Save(path string, snap store.Snapshot, opts Options) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create deck file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if format == FormatXLSX {
		err = writeXLSX(tmp, snap, opts.Sheet)
	} else {
		err = Encode(tmp, format, snap)
	}
	if err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace deck: %w", err)
	}
	return nil
}

// Encode writes snap in a stream format: YAML, JSON or CSV. CSV drops the
// retirement history.
func Encode(w io.Writer, format Format, snap store.Snapshot) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDeckDocument(snap)); err != nil {
			return fmt.Errorf("failed to encode YAML deck: %w", err)
		}
		return enc.Close()

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode JSON deck: %w", err)
		}
		return nil

	case FormatCSV:
		return encodeCSV(w, snap.Cards)

	default:
		return fmt.Errorf("%w: %q cannot be streamed", ErrUnsupportedFormat, format)
	}
}

// deckDocument is the YAML shape of a snapshot. Card content is kept as a
// node until the card type is known.
type deckDocument struct {
	Cards   []cardDocument `yaml:"cards"`
	History map[string]int `yaml:"history,omitempty"`
}

type cardDocument struct {
	ID       string          `yaml:"id,omitempty"`
	Type     domain.CardType `yaml:"type"`
	Level    int             `yaml:"level"`
	Schedule int             `yaml:"schedule"`
	Content  yaml.Node       `yaml:"content"`
}

func newDeckDocument(snap store.Snapshot) deckDocument {
	doc := deckDocument{
		Cards:   make([]cardDocument, 0, len(snap.Cards)),
		History: snap.History,
	}
	for _, c := range snap.Cards {
		cd := cardDocument{ID: c.ID, Type: c.Type, Level: c.Level, Schedule: c.Schedule}
		if c.Content != nil {
			// Encoding a plain struct into a node cannot fail.
			_ = cd.Content.Encode(c.Content)
		}
		doc.Cards = append(doc.Cards, cd)
	}
	return doc
}

// snapshot converts the document. Cards that cannot be converted are
// reported by their 1-based position.
func (d deckDocument) snapshot() (store.Snapshot, error) {
	snap := store.Snapshot{
		Cards:   make([]domain.Card, 0, len(d.Cards)),
		History: d.History,
	}
	var bad RowErrors
	for i, cd := range d.Cards {
		content, err := domain.NewContent(cd.Type)
		if err != nil {
			bad = append(bad, RowError{Row: i + 1, Err: err})
			continue
		}
		if !cd.Content.IsZero() {
			if err := cd.Content.Decode(content); err != nil {
				bad = append(bad, RowError{Row: i + 1, Err: fmt.Errorf("decode %s content: %w", cd.Type, err)})
				continue
			}
		}
		snap.Cards = append(snap.Cards, domain.Card{
			ID:       cd.ID,
			Type:     cd.Type,
			Level:    cd.Level,
			Schedule: cd.Schedule,
			Content:  content,
		})
	}
	return snap, bad.orNil()
}
