package apkg

import (
	"context"
	"crypto/sha1"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"fanki/internal/textutil"
)

//go:embed schema.sql
var schemaSQL string

const (
	collectionVersion = 11
	defaultDeckID     = 1
	defaultConfID     = 1
	fieldSeparator    = "\x1f"
)

// writeCollection creates the collection database at path for deck.
func writeCollection(ctx context.Context, path string, deck *Deck, now time.Time) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite db: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin collection tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if err := insertCol(ctx, tx, deck, now); err != nil {
		return err
	}
	if err := insertNotes(ctx, tx, deck, now); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit collection: %w", err)
	}
	return db.Close()
}

func insertCol(ctx context.Context, tx *sql.Tx, deck *Deck, now time.Time) error {
	nowMs := now.UnixMilli()
	conf, err := json.Marshal(collectionConf(deck))
	if err != nil {
		return fmt.Errorf("encode collection conf: %w", err)
	}
	models, err := json.Marshal(map[string]any{
		strconv.FormatInt(deck.Model.ID, 10): modelJSON(deck.Model, deck.ID, now),
	})
	if err != nil {
		return fmt.Errorf("encode models: %w", err)
	}
	decks, err := json.Marshal(map[string]any{
		strconv.Itoa(defaultDeckID):    deckJSON(defaultDeckID, "Default", "", 0),
		strconv.FormatInt(deck.ID, 10): deckJSON(deck.ID, deck.Name, deck.Description, now.Unix()),
	})
	if err != nil {
		return fmt.Errorf("encode decks: %w", err)
	}
	dconf, err := json.Marshal(map[string]any{
		strconv.Itoa(defaultConfID): deckConfJSON(),
	})
	if err != nil {
		return fmt.Errorf("encode deck config: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (NULL, ?, ?, ?, ?, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now.Unix(), nowMs, nowMs, collectionVersion,
		string(conf), string(models), string(decks), string(dconf),
	)
	if err != nil {
		return fmt.Errorf("insert col: %w", err)
	}
	return nil
}

func insertNotes(ctx context.Context, tx *sql.Tx, deck *Deck, now time.Time) error {
	noteStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
		 VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')`)
	if err != nil {
		return fmt.Errorf("prepare note insert: %w", err)
	}
	defer noteStmt.Close()

	cardStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
		 VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return fmt.Errorf("prepare card insert: %w", err)
	}
	defer cardStmt.Close()

	// Ids double as creation timestamps in milliseconds.
	nextID := now.UnixMilli()
	mod := now.Unix()
	for i, note := range deck.Notes {
		noteID := nextID
		nextID++
		sortField := textutil.StripMarkup(note.Fields[0])
		if _, err := noteStmt.ExecContext(ctx,
			noteID, note.GUID, deck.Model.ID, mod,
			formatTags(note.Tags), strings.Join(note.Fields, fieldSeparator),
			sortField, checksum(sortField),
		); err != nil {
			return fmt.Errorf("insert note %d: %w", i, err)
		}
		for _, ord := range note.cardOrds(deck.Model) {
			if _, err := cardStmt.ExecContext(ctx, nextID, noteID, deck.ID, ord, mod, i+1); err != nil {
				return fmt.Errorf("insert card %d/%d: %w", i, ord, err)
			}
			nextID++
		}
	}
	return nil
}

// checksum is the first 32 bits of the sort field's SHA-1, used by the
// importer for duplicate detection.
func checksum(sortField string) int64 {
	sum := sha1.Sum([]byte(sortField))
	value, _ := strconv.ParseInt(hex.EncodeToString(sum[:4]), 16, 64)
	return value
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return " " + strings.Join(tags, " ") + " "
}

func collectionConf(deck *Deck) map[string]any {
	return map[string]any{
		"activeDecks":   []int{defaultDeckID},
		"addToCur":      true,
		"collapseTime":  1200,
		"curDeck":       defaultDeckID,
		"curModel":      strconv.FormatInt(deck.Model.ID, 10),
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"nextPos":       1,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	}
}

func modelJSON(m Model, deckID int64, now time.Time) map[string]any {
	fields := make([]map[string]any, len(m.Fields))
	for i, f := range m.Fields {
		fields[i] = map[string]any{
			"name":   f.Name,
			"ord":    i,
			"font":   "Liberation Sans",
			"size":   20,
			"media":  []string{},
			"rtl":    false,
			"sticky": false,
		}
	}
	templates := make([]map[string]any, len(m.Templates))
	req := make([]any, len(m.Templates))
	for i, t := range m.Templates {
		templates[i] = map[string]any{
			"name":  t.Name,
			"ord":   i,
			"qfmt":  t.QFmt,
			"afmt":  t.AFmt,
			"bqfmt": "",
			"bafmt": "",
			"did":   nil,
		}
		req[i] = []any{i, "any", m.requiredFields(i)}
	}
	return map[string]any{
		"id":        m.ID,
		"name":      m.Name,
		"type":      0,
		"mod":       now.Unix(),
		"usn":       -1,
		"sortf":     0,
		"did":       deckID,
		"tmpls":     templates,
		"flds":      fields,
		"css":       m.CSS,
		"req":       req,
		"tags":      []string{},
		"vers":      []any{},
		"latexPre":  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n",
		"latexPost": "\\end{document}",
	}
}

func deckJSON(id int64, name, desc string, mod int64) map[string]any {
	return map[string]any{
		"id":        id,
		"name":      name,
		"desc":      desc,
		"conf":      defaultConfID,
		"dyn":       0,
		"collapsed": false,
		"extendNew": 10,
		"extendRev": 50,
		"mod":       mod,
		"usn":       -1,
		"newToday":  []int{0, 0},
		"revToday":  []int{0, 0},
		"lrnToday":  []int{0, 0},
		"timeToday": []int{0, 0},
	}
}

func deckConfJSON() map[string]any {
	return map[string]any{
		"id":       defaultConfID,
		"name":     "Default",
		"autoplay": true,
		"maxTaken": 60,
		"mod":      0,
		"usn":      0,
		"replayq":  true,
		"timer":    0,
		"dyn":      false,
		"new": map[string]any{
			"bury":          true,
			"delays":        []float64{1, 10},
			"initialFactor": 2500,
			"ints":          []int{1, 4, 7},
			"order":         1,
			"perDay":        20,
			"separate":      true,
		},
		"lapse": map[string]any{
			"delays":      []float64{10},
			"leechAction": 0,
			"leechFails":  8,
			"minInt":      1,
			"mult":        0,
		},
		"rev": map[string]any{
			"bury":     true,
			"ease4":    1.3,
			"fuzz":     0.05,
			"ivlFct":   1,
			"maxIvl":   36500,
			"minSpace": 1,
			"perDay":   100,
		},
	}
}
