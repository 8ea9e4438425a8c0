package authcore

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the engine. Each engine owns
// its own collectors registered against the registerer handed to
// newMetrics, so tests can run engines side by side without collisions.
type Metrics struct {
	logins          *prometheus.CounterVec
	tokenFailures   *prometheus.CounterVec
	denials         *prometheus.CounterVec
	suspicious      prometheus.Counter
	sessionsCreated prometheus.Counter
	sessionsRevoked prometheus.Counter
}

func newMetrics(cfg MetricsConfig, reg prometheus.Registerer) *Metrics {
	if !cfg.Enabled {
		return nil
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "authcore"
	}

	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		tokenFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "token_failures_total",
			Help:      "Token verification failures by reason.",
		}, []string{"reason"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "denials_total",
			Help:      "Authorization denials by reason code.",
		}, []string{"reason"}),
		suspicious: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "suspicious_activity_total",
			Help:      "Session activity flagged as suspicious.",
		}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sessions_created_total",
			Help:      "Sessions created.",
		}),
		sessionsRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "sessions_revoked_total",
			Help:      "Sessions destroyed before natural expiry.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.logins,
			m.tokenFailures,
			m.denials,
			m.suspicious,
			m.sessionsCreated,
			m.sessionsRevoked,
		)
	}

	return m
}

func (m *Metrics) loginOutcome(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) tokenFailure(reason string) {
	if m == nil {
		return
	}
	m.tokenFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) denial(reason string) {
	if m == nil {
		return
	}
	m.denials.WithLabelValues(reason).Inc()
}

func (m *Metrics) suspiciousActivity() {
	if m == nil {
		return
	}
	m.suspicious.Inc()
}

func (m *Metrics) sessionCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

func (m *Metrics) sessionRevoked() {
	if m == nil {
		return
	}
	m.sessionsRevoked.Inc()
}
