// Package leaderboard persists the top scores. Every implementation keeps
// the board sorted by score, highest first, and never longer than
// constants.MaxLeaderboardEntries.
package leaderboard

import (
	"context"
	"sort"

	"github.com/samber/lo"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	models "github.com/CodeAndHammer/typeproof/internal/models"
)

type Store interface {
	Append(ctx context.Context, record models.ScoreRecord) error
	List(ctx context.Context) ([]models.ScoreRecord, error)
	Close() error
}

// Rank sorts records by score descending, keeping insertion order between
// equal scores, and truncates to the retention limit.
func Rank(records []models.ScoreRecord) []models.ScoreRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	return lo.Subset(records, 0, constants.MaxLeaderboardEntries)
}
