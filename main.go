// Package main provides the typeproof server and CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	cachecontrol "go.eigsys.de/gin-cachecontrol/v2"

	config "github.com/CodeAndHammer/typeproof/internal/config"
	constants "github.com/CodeAndHammer/typeproof/internal/constants"
	handlers "github.com/CodeAndHammer/typeproof/internal/handlers"
	leaderboard "github.com/CodeAndHammer/typeproof/internal/leaderboard"
	models "github.com/CodeAndHammer/typeproof/internal/models"
	report "github.com/CodeAndHammer/typeproof/internal/report"
	util "github.com/CodeAndHammer/typeproof/internal/util"
)

var leaderboardColor bool

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		util.LogFatal("%v", err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeproof",
		Short:         "Typing speed test server with cheat detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServeCmd,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServeCmd,
	}

	leaderboardCmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the current leaderboard",
		RunE:  runLeaderboardCmd,
	}
	leaderboardCmd.Flags().BoolVar(&leaderboardColor, "color", false, "force coloured output")

	rootCmd.AddCommand(serveCmd, leaderboardCmd)
	return rootCmd
}

func openBoard(ctx context.Context, cfg config.Config) (leaderboard.Store, error) {
	return leaderboard.Open(ctx, leaderboard.Options{
		Backend:     cfg.LeaderboardBackend,
		Path:        cfg.LeaderboardPath,
		DatabaseURL: cfg.DatabaseURL,
	})
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	board, err := openBoard(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer board.Close()

	records, err := board.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), records, report.Options{Color: leaderboardColor})
}

func runServeCmd(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	util.LogInfo("Starting typeproof in %s mode", cfg.Mode())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board, err := openBoard(ctx, cfg)
	if err != nil {
		return err
	}
	defer board.Close()
	util.LogInfo("Leaderboard backend: %s", cfg.LeaderboardBackend)

	app := newApp(cfg, board)
	router := app.newRouter()

	app.startCleanupRoutines(ctx)

	return app.startServer(router, cancel)
}

func (app *App) newRouter() *gin.Engine {
	router := gin.Default()

	router.Use(requestIDMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(bodyLimitMiddleware(app.Config.MaxBodyBytes))
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		util.LogWarn("Failed to set trusted proxies: %v", err)
	}

	noStore := cachecontrol.New(cachecontrol.Config{
		NoStore:        true,
		NoCache:        true,
		MustRevalidate: true,
	})
	boardCache := cachecontrol.New(cachecontrol.Config{
		Public: true,
		MaxAge: cachecontrol.Duration(app.Config.LeaderboardCacheAge),
	})

	router.POST(constants.RouteStart, noStore, app.rateLimitMiddleware(), func(c *gin.Context) {
		handlers.StartHandler(app.Service, c)
	})
	router.POST(constants.RouteSubmit, noStore, app.rateLimitMiddleware(), func(c *gin.Context) {
		handlers.SubmitHandler(app.Service, c)
	})
	router.GET(constants.RouteLeaderboard, boardCache, func(c *gin.Context) {
		handlers.LeaderboardHandler(app.Service, c)
	})
	router.GET(constants.RouteHealthz, noStore, func(c *gin.Context) {
		handlers.HealthzHandler(app.Service, app.status(), c)
	})
	return router
}

func (app *App) status() models.ServerStatus {
	return models.ServerStatus{
		IsProduction:       app.Config.IsProduction,
		StartTime:          app.StartTime,
		ActiveLimiters:     app.activeLimiters(),
		LeaderboardBackend: app.Config.LeaderboardBackend,
	}
}

func (app *App) startCleanupRoutines(ctx context.Context) {
	app.Sessions.StartSessionCleanup(ctx, app.Config.SessionCleanupInterval)

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				app.cleanupStaleRateLimiters()
			}
		}
	}()

	util.LogInfo("Started cleanup routines for sessions and rate limiters")
}

func (app *App) startServer(router *gin.Engine, stopBackground context.CancelFunc) error {
	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		util.LogInfo("Shutdown signal received, shutting down server gracefully...")
		stopBackground()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			util.LogWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	util.LogInfo("Server starting on http://localhost:%s", app.Config.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}
	<-idleConnsClosed
	util.LogInfo("Server shutdown complete")
	return nil
}
