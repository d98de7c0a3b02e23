package constants

const (
	MaxLeaderboardEntries = 50
	MaxTargetTextLength   = 20000
	MaxPlayerNameLength   = 64
	MaxKeystrokes         = 100000
)

const (
	RouteStart       = "/api/start"
	RouteSubmit      = "/api/submit"
	RouteLeaderboard = "/api/leaderboard"
	RouteHealthz     = "/healthz"
)

const (
	ReasonSpeed   = "Speed implies automated script"
	ReasonRobotic = "Robotic typing pattern"
)

const (
	ErrorMessageSessionInvalid = "Invalid game session (Session Invalid)"
	ErrorMessageNotSaved       = "Score was computed but could not be saved"
	ErrorMessageLeaderboard    = "Leaderboard is temporarily unavailable"
	ErrorMessageRateLimited    = "Too many requests. Please slow down."
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
)
