package handlers

import (
	"errors"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	detector "github.com/CodeAndHammer/typeproof/internal/detector"
	game "github.com/CodeAndHammer/typeproof/internal/game"
	models "github.com/CodeAndHammer/typeproof/internal/models"
	util "github.com/CodeAndHammer/typeproof/internal/util"
)

var ErrEmptyPlayerName = errors.New("playerName must not be blank")

func StartHandler(svc *game.Service, c *gin.Context) {
	ctx := c.Request.Context()

	var req models.StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithBindError(c, err)
		return
	}

	id, err := svc.Start(ctx, req.TargetText)
	if err != nil {
		util.LogWarnCtx(ctx, "Failed to start session: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.StartResponse{SessionID: id})
}

func SubmitHandler(svc *game.Service, c *gin.Context) {
	ctx := c.Request.Context()

	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	req.PlayerName = NormalizePlayerName(req.PlayerName)
	if req.PlayerName == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrEmptyPlayerName.Error()})
		return
	}
	if err := detector.ValidateKeystrokes(req.KeystrokeData); err != nil {
		util.LogWarnCtx(ctx, "Rejected keystroke data for session %s: %v", req.SessionID, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := svc.Submit(ctx, req.Submission())
	switch {
	case errors.Is(err, game.ErrSessionInvalid):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": constants.ErrorMessageSessionInvalid})
	case errors.Is(err, game.ErrPersistence):
		util.LogWarnCtx(ctx, "Score for session %s not saved: %v", req.SessionID, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":  constants.ErrorMessageNotSaved,
			"record": result.Record,
		})
	case err != nil:
		util.LogWarnCtx(ctx, "Submit failed for session %s: %v", req.SessionID, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, result)
	}
}

func LeaderboardHandler(svc *game.Service, c *gin.Context) {
	ctx := c.Request.Context()
	records, err := svc.Leaderboard(ctx)
	if err != nil {
		util.LogWarnCtx(ctx, "Failed to read leaderboard: %v", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": constants.ErrorMessageLeaderboard})
		return
	}
	c.JSON(http.StatusOK, records)
}

func HealthzHandler(svc *game.Service, status models.ServerStatus, c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(status.StartTime)

	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"env":                 lo.Ternary(status.IsProduction, "production", "development"),
		"active_sessions":     svc.ActiveSessions(),
		"active_limiters":     status.ActiveLimiters,
		"leaderboard_backend": status.LeaderboardBackend,
		"memory_alloc_mb":     m.Alloc / 1024 / 1024,
		"memory_sys_mb":       m.Sys / 1024 / 1024,
		"memory_gc_count":     m.NumGC,
		"uptime":              util.FormatUptime(uptime),
		"timestamp":           time.Now().UTC().Format(time.RFC3339),
	})
}

func NormalizePlayerName(input string) string {
	return strings.TrimSpace(input)
}

func abortWithBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	util.LogWarnCtx(c.Request.Context(), "Invalid request body on %s: %v", c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
