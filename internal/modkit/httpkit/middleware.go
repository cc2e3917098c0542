package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"kycdesk/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration // default 60s, must outlast the dLocal client timeout
	SlowRequest time.Duration // default 2s
	MaxBody     int64         // default 12MB, covers document uploads
}

// CommonStack returns the baseline middleware slice mounted in front of every module
func CommonStack(opt StackOptions) []func(http.Handler) http.Handler {
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	if opt.SlowRequest <= 0 {
		opt.SlowRequest = 2 * time.Second
	}
	if opt.MaxBody <= 0 {
		opt.MaxBody = 12 << 20
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: opt.SlowRequest}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.RequestSize(opt.MaxBody),
		middleware.Timeout(opt.Timeout),
	}
}
