package service

import "github.com/specsmith/specsmith/backend/internal/observability/metrics"

func incrementSignups() {
	metrics.SignupsTotal.Inc()
}

func incrementLogins() {
	metrics.LoginsTotal.Inc()
}

func incrementLoginFailure(reason string) {
	metrics.LoginFailuresTotal.WithLabelValues(reason).Inc()
}

func incrementTokensIssued() {
	metrics.SessionTokensIssued.Inc()
}

func incrementTokenVerificationFailure(reason string) {
	metrics.TokenVerificationFailures.WithLabelValues(reason).Inc()
}
