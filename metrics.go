package aegis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MrEthical07/aegis/session"
)

// Metrics holds the engine's Prometheus counters. All counters live on
// the registerer handed to NewMetrics; nothing registers globally.
type Metrics struct {
	LoginSuccess prometheus.Counter
	LoginFailure prometheus.Counter

	AuthzAllowed prometheus.Counter
	AuthzDenied  prometheus.Counter

	SessionsStarted prometheus.Counter
	SessionsStopped prometheus.Counter
	SessionsExpired prometheus.Counter

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewMetrics registers the engine counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginSuccess: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "authc", Name: "login_success_total",
			Help: "Successful authentication attempts.",
		}),
		LoginFailure: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "authc", Name: "login_failure_total",
			Help: "Failed authentication attempts.",
		}),
		AuthzAllowed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "authz", Name: "allowed_total",
			Help: "Authorization checks that passed.",
		}),
		AuthzDenied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "authz", Name: "denied_total",
			Help: "Authorization checks that were denied.",
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "session", Name: "started_total",
			Help: "Sessions created.",
		}),
		SessionsStopped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "session", Name: "stopped_total",
			Help: "Sessions explicitly stopped.",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "session", Name: "expired_total",
			Help: "Sessions that hit their idle timeout.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "cache", Name: "hits_total",
			Help: "Cache lookups that found a live entry.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "aegis", Subsystem: "cache", Name: "misses_total",
			Help: "Cache lookups that fell through to the backing source.",
		}),
	}
}

// sessionListener feeds lifecycle events into the session counters.
func (m *Metrics) sessionListener() session.Listener {
	return session.ListenerFuncs{
		Start:      func(session.Snapshot) { m.SessionsStarted.Inc() },
		Stop:       func(session.Snapshot) { m.SessionsStopped.Inc() },
		Expiration: func(session.Snapshot) { m.SessionsExpired.Inc() },
	}
}

func (m *Metrics) countLogin(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.LoginFailure.Inc()
	} else {
		m.LoginSuccess.Inc()
	}
}

func (m *Metrics) countAuthz(allowed bool) {
	if m == nil {
		return
	}
	if allowed {
		m.AuthzAllowed.Inc()
	} else {
		m.AuthzDenied.Inc()
	}
}
