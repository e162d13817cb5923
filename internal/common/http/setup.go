package http

import (
	"net/http"

	"github.com/specsmith/specsmith/backend/internal/common/constants"
	"github.com/specsmith/specsmith/backend/internal/common/httpmetrics"
	"github.com/specsmith/specsmith/backend/internal/common/logger"
)

// BuildBaseHandler stacks the ambient middleware shared by every route:
// security headers, panic recovery, trace IDs, body size limit and metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}
