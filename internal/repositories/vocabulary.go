package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/vocx/internal/models"
	"github.com/desertthunder/vocx/internal/shared"
)

// vocabularyColumns maps 1-based target columns to table columns, in header order.
var vocabularyColumns = []string{"word", "pos", "meaning", "example", "synonyms"}

// VocabularyRepository is a SQLite-backed [services.TargetStore].
//
// Rows are kept at contiguous 1-based positions; position 1 holds the header, exactly like a sheet.
type VocabularyRepository struct {
	db *sql.DB
}

// NewVocabularyRepository creates a new VocabularyRepository with the given database connection
func NewVocabularyRepository(db *sql.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// ReadHeader returns the cells of position 1 with trailing empty cells dropped.
func (r *VocabularyRepository) ReadHeader(ctx context.Context) ([]string, error) {
	query := `
		SELECT word, pos, meaning, example, synonyms
		FROM vocabulary
		WHERE position = 1
		ORDER BY id
		LIMIT 1
	`

	var rec models.Record
	err := r.db.QueryRowContext(ctx, query).Scan(&rec.Word, &rec.PartOfSpeech, &rec.Meaning, &rec.Example, &rec.Synonyms)
	if err == sql.ErrNoRows {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	row := rec.Row()
	for len(row) > 0 && row[len(row)-1] == "" {
		row = row[:len(row)-1]
	}
	return row, nil
}

// ReadColumn returns column col for every row, header included, in position order.
func (r *VocabularyRepository) ReadColumn(ctx context.Context, col int) ([]string, error) {
	if col < 1 || col > len(vocabularyColumns) {
		return nil, fmt.Errorf("%w: column %d", shared.ErrInvalidArgument, col)
	}

	query := fmt.Sprintf("SELECT %s FROM vocabulary ORDER BY position, id", vocabularyColumns[col-1])
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column: %w", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return values, nil
}

// InsertRow inserts row at position, shifting later rows down.
// Positions past the end are clamped to the next free position.
func (r *VocabularyRepository) InsertRow(ctx context.Context, position int, row []string) error {
	if position < 1 {
		return fmt.Errorf("%w: row position %d", shared.ErrInvalidArgument, position)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), 0) + 1 FROM vocabulary").Scan(&next); err != nil {
		return fmt.Errorf("failed to get next position: %w", err)
	}
	if position > next {
		position = next
	}

	if _, err := tx.ExecContext(ctx, "UPDATE vocabulary SET position = position + 1 WHERE position >= ?", position); err != nil {
		return fmt.Errorf("failed to shift rows: %w", err)
	}

	if err := insertVocabularyRow(ctx, tx, position, row); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insert: %w", err)
	}
	return nil
}

// AppendRow writes row after the last row.
func (r *VocabularyRepository) AppendRow(ctx context.Context, row []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(position), 0) + 1 FROM vocabulary").Scan(&next); err != nil {
		return fmt.Errorf("failed to get next position: %w", err)
	}

	if err := insertVocabularyRow(ctx, tx, next, row); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit append: %w", err)
	}
	return nil
}

// Clear deletes every row.
func (r *VocabularyRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM vocabulary"); err != nil {
		return fmt.Errorf("failed to clear vocabulary: %w", err)
	}
	return nil
}

func insertVocabularyRow(ctx context.Context, tx *sql.Tx, position int, row []string) error {
	rec := models.RecordFromRow(row)

	query := `
		INSERT INTO vocabulary (position, word, pos, meaning, example, synonyms)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(ctx, query, position, rec.Word, rec.PartOfSpeech, rec.Meaning, rec.Example, rec.Synonyms)
	if err != nil {
		return fmt.Errorf("failed to insert vocabulary row: %w", err)
	}
	return nil
}
