package leaderboard

import (
	"context"
	"fmt"
	"sync"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	database "github.com/CodeAndHammer/typeproof/internal/database"
	models "github.com/CodeAndHammer/typeproof/internal/models"
)

// SQLStore keeps the board in the scores table. Ties are broken by id so the
// earlier score stays ahead, matching the file store.
type SQLStore struct {
	mu sync.Mutex
	db *database.DB
}

func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Append(ctx context.Context, record models.ScoreRecord) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin leaderboard transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO scores (name, score, wpm, accuracy, correct_chars, date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.Name, record.Score, record.WPM, record.Accuracy, record.CorrectChars, record.Date,
	); err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}

	var stale []int64
	stale, err = staleIDs(ctx, tx)
	if err != nil {
		return err
	}
	for _, id := range stale {
		if _, err = tx.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to trim leaderboard: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit leaderboard: %w", err)
	}
	return nil
}

// staleIDs returns the ids ranked below the retention limit.
func staleIDs(ctx context.Context, tx *database.Tx) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM scores ORDER BY score DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to rank scores: %w", err)
	}
	defer rows.Close()

	var stale []int64
	rank := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		rank++
		if rank > constants.MaxLeaderboardEntries {
			stale = append(stale, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stale, nil
}

func (s *SQLStore) List(ctx context.Context) ([]models.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, score, wpm, accuracy, correct_chars, date
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`, constants.MaxLeaderboardEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	records := []models.ScoreRecord{}
	for rows.Next() {
		var rec models.ScoreRecord
		if err := rows.Scan(&rec.Name, &rec.Score, &rec.WPM, &rec.Accuracy, &rec.CorrectChars, &rec.Date); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
