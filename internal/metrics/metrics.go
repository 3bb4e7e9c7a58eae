package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the instrumentation for the admin login flow and the session
// store.
type Metrics struct {
	LoginAttempts  prometheus.Counter
	LoginSuccesses prometheus.Counter
	CodesIssued    prometheus.Counter
	CodesRejected  prometheus.Counter
	ActiveSessions prometheus.Gauge
}

// New registers the collectors with the given registerer. Tests pass a fresh
// prometheus.NewRegistry so instances stay independent.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_auth_login_attempts_total",
			Help: "Total number of admin login email submissions",
		}),
		LoginSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_auth_login_successes_total",
			Help: "Total number of completed admin logins",
		}),
		CodesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_auth_otp_issued_total",
			Help: "Total number of one-time passcodes issued",
		}),
		CodesRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_auth_otp_rejected_total",
			Help: "Total number of rejected passcode submissions",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portal_auth_active_sessions",
			Help: "Number of roles currently holding a valid session",
		}),
	}
}

func (m *Metrics) IncrementLoginAttempts()  { m.LoginAttempts.Inc() }
func (m *Metrics) IncrementLoginSuccesses() { m.LoginSuccesses.Inc() }
func (m *Metrics) IncrementCodesIssued()    { m.CodesIssued.Inc() }
func (m *Metrics) IncrementCodesRejected()  { m.CodesRejected.Inc() }

// SetActiveSessions records the current size of the active role set.
func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}
