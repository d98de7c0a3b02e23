package models

import (
	"time"
)

type Session struct {
	ID         string    `json:"id"`
	IssuedAt   time.Time `json:"issuedAt"`
	TargetText string    `json:"targetText"`
}

// Submission is the transient payload of one submit call. Keystrokes are
// client-reported millisecond timestamps and are never trusted for timing.
type Submission struct {
	SessionID  string
	PlayerName string
	TypedText  string
	Keystrokes []int64
}

type Verdict struct {
	Suspicious bool   `json:"suspicious"`
	Reason     string `json:"reason,omitempty"`
}

func CleanVerdict() Verdict {
	return Verdict{}
}

func SuspiciousVerdict(reason string) Verdict {
	return Verdict{Suspicious: true, Reason: reason}
}

func (v Verdict) Clean() bool {
	return !v.Suspicious
}

type ScoreRecord struct {
	Name         string `json:"name"`
	Score        int    `json:"score"`
	WPM          int    `json:"wpm"`
	Accuracy     int    `json:"accuracy"`
	CorrectChars int    `json:"correct_chars"`
	Date         string `json:"date"`
}

type SubmitResult struct {
	Success    bool         `json:"success"`
	IsCheating bool         `json:"isCheating"`
	Reason     string       `json:"reason,omitempty"`
	Record     *ScoreRecord `json:"record,omitempty"`
}

type StartRequest struct {
	TargetText string `json:"targetText" binding:"max=20000"`
}

type StartResponse struct {
	SessionID string `json:"sessionId"`
}

type SubmitRequest struct {
	SessionID     string  `json:"sessionId" binding:"required"`
	PlayerName    string  `json:"playerName" binding:"required,max=64"`
	TypedText     string  `json:"typedText"`
	KeystrokeData []int64 `json:"keystrokeData"`
}

func (r SubmitRequest) Submission() Submission {
	return Submission{
		SessionID:  r.SessionID,
		PlayerName: r.PlayerName,
		TypedText:  r.TypedText,
		Keystrokes: r.KeystrokeData,
	}
}

type ServerStatus struct {
	IsProduction       bool
	StartTime          time.Time
	ActiveLimiters     int
	LeaderboardBackend string
}
