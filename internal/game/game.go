package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	detector "github.com/CodeAndHammer/typeproof/internal/detector"
	leaderboard "github.com/CodeAndHammer/typeproof/internal/leaderboard"
	models "github.com/CodeAndHammer/typeproof/internal/models"
	scoring "github.com/CodeAndHammer/typeproof/internal/scoring"
	session "github.com/CodeAndHammer/typeproof/internal/session"
	util "github.com/CodeAndHammer/typeproof/internal/util"
)

var (
	ErrSessionInvalid = errors.New("session invalid")
	ErrPersistence    = errors.New("leaderboard persistence failed")
)

// Service runs the start/submit lifecycle of a typing test.
type Service struct {
	sessions *session.Store
	board    leaderboard.Store
}

func NewService(sessions *session.Store, board leaderboard.Store) *Service {
	return &Service{sessions: sessions, board: board}
}

func (s *Service) Start(ctx context.Context, targetText string) (string, error) {
	sess, err := s.sessions.Create(ctx, targetText)
	if err != nil {
		return "", err
	}
	util.LogInfoCtx(ctx, "Started typing test %s (%d chars of target text)", sess.ID, len([]rune(targetText)))
	return sess.ID, nil
}

// Submit consumes the session whatever the outcome. When the score cannot be
// saved the computed result is still returned, together with an error
// wrapping ErrPersistence.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (models.SubmitResult, error) {
	sess, ok := s.sessions.Consume(ctx, sub.SessionID)
	if !ok {
		util.LogWarnCtx(ctx, "Submission for unknown or used session: %q", sub.SessionID)
		return models.SubmitResult{}, ErrSessionInvalid
	}
	now := s.sessions.Now()
	elapsed := max(now.Sub(sess.IssuedAt), 0)

	check := detector.Evaluate(sub.TypedText, sub.Keystrokes, elapsed)
	if !check.Verdict.Clean() {
		logCheat(ctx, sess.ID, check)
		return models.SubmitResult{
			Success:    false,
			IsCheating: true,
			Reason:     check.Verdict.Reason,
		}, nil
	}

	record := scoring.Score(sub.PlayerName, sess.TargetText, sub.TypedText, elapsed, now)
	result := models.SubmitResult{Success: true, IsCheating: false, Record: &record}
	util.LogInfoCtx(ctx, "Session %s scored %d (wpm %d, accuracy %d%%, %v elapsed)", sess.ID, record.Score, record.WPM, record.Accuracy, elapsed.Round(time.Millisecond))

	if err := s.board.Append(ctx, record); err != nil {
		return result, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return result, nil
}

func (s *Service) Leaderboard(ctx context.Context) ([]models.ScoreRecord, error) {
	records, err := s.board.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return records, nil
}

func (s *Service) ActiveSessions() int {
	return s.sessions.Len()
}

func logCheat(ctx context.Context, sessionID string, check detector.Result) {
	switch {
	case check.CharsPerSecond > detector.MaxCharsPerSecond:
		util.LogWarnCtx(ctx, "[Cheat Blocked] Session %s speed too high: %.2f CPS", sessionID, check.CharsPerSecond)
	default:
		util.LogWarnCtx(ctx, "[Cheat Blocked] Session %s robotic typing detected. Variance: %.2f over %d intervals", sessionID, check.Variance, check.Intervals)
	}
}
