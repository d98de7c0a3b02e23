package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	config "github.com/CodeAndHammer/typeproof/internal/config"
	game "github.com/CodeAndHammer/typeproof/internal/game"
	leaderboard "github.com/CodeAndHammer/typeproof/internal/leaderboard"
	session "github.com/CodeAndHammer/typeproof/internal/session"
)

type App struct {
	Config       config.Config
	Sessions     *session.Store
	Board        leaderboard.Store
	Service      *game.Service
	LimiterMap   map[string]*rateLimiterEntry
	LimiterMutex sync.RWMutex
	StartTime    time.Time
}

type rateLimiterEntry struct {
	Limiter    *rate.Limiter
	LastAccess time.Time
}

func newApp(cfg config.Config, board leaderboard.Store) *App {
	sessions := session.NewStore(cfg.SessionTTL, cfg.SessionCapacity)
	return &App{
		Config:     cfg,
		Sessions:   sessions,
		Board:      board,
		Service:    game.NewService(sessions, board),
		LimiterMap: make(map[string]*rateLimiterEntry),
		StartTime:  time.Now(),
	}
}

func (app *App) activeLimiters() int {
	app.LimiterMutex.RLock()
	defer app.LimiterMutex.RUnlock()
	return len(app.LimiterMap)
}
