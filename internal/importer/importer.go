package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"game-market/internal/domain"
)

type GameWriter interface {
	Upsert(ctx context.Context, game domain.Game) (*domain.Game, error)
}

// CSVImporter reads a game catalogue CSV and inserts/updates games by key.
// Recognised columns: key, name, min_age, price_cents, currency. Column order
// is free; unknown columns are ignored.
type CSVImporter struct {
	reader *csv.Reader
	games  GameWriter
}

func NewCSVImporter(r io.Reader, games GameWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		games:  games,
	}
}

// Run parses CSV rows and upserts one game per keyed row. Rows without a key
// are skipped.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["key"]; !ok {
		return 0, errors.New("missing key column")
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		game, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if game == nil {
			continue
		}
		if _, err := i.games.Upsert(ctx, *game); err != nil {
			return imported, fmt.Errorf("upsert game %q: %w", game.Key, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Game, error) {
	key := pick(record, index, "key")
	if key == "" {
		return nil, nil
	}
	name := pick(record, index, "name")
	if name == "" {
		return nil, fmt.Errorf("game %q has no name", key)
	}

	game := &domain.Game{
		Key:      key,
		Name:     name,
		Currency: strings.ToUpper(pick(record, index, "currency")),
	}
	if game.Currency == "" {
		game.Currency = "USD"
	}

	if raw := pick(record, index, "price_cents"); raw != "" {
		cents, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || cents < 0 {
			return nil, fmt.Errorf("game %q: invalid price_cents %q", key, raw)
		}
		game.PriceCents = cents
	}

	// An empty or zero min_age means the game has no age restriction.
	if raw := pick(record, index, "min_age"); raw != "" {
		minAge, err := strconv.Atoi(raw)
		if err != nil || minAge < 0 {
			return nil, fmt.Errorf("game %q: invalid min_age %q", key, raw)
		}
		if minAge > 0 {
			game.Restrictions.MinAge = domain.IntPtr(minAge)
		}
	}
	return game, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
