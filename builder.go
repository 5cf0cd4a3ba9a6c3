package aegis

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MrEthical07/aegis/authc"
	"github.com/MrEthical07/aegis/authz"
	"github.com/MrEthical07/aegis/cache"
	"github.com/MrEthical07/aegis/guard"
	"github.com/MrEthical07/aegis/permission"
	"github.com/MrEthical07/aegis/realm"
	"github.com/MrEthical07/aegis/session"
)

// Builder assembles a SecurityManager. Configure during
// initialization, call Build once, then treat the result as immutable
// wiring.
type Builder struct {
	config     Config
	logger     *zap.Logger
	redis      redis.UniversalClient
	realms     []*realm.Realm
	strategy   authc.Strategy
	resolver   permission.Resolver
	registerer prometheus.Registerer
	listeners  []session.Listener
	guards     *guard.Registry
	built      bool
}

// New starts a builder with the default configuration.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithLogger sets the engine logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRedis backs the authorization caches, the session store and the
// login attempt limiter with Redis. Without it everything stays in
// process memory.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRealms sets the realms consulted for authentication and
// authorization, in consensus order.
func (b *Builder) WithRealms(realms ...*realm.Realm) *Builder {
	b.realms = append(b.realms, realms...)
	return b
}

// WithStrategy overrides the consensus strategy named in the
// configuration.
func (b *Builder) WithStrategy(s authc.Strategy) *Builder {
	b.strategy = s
	return b
}

// WithPermissionResolver overrides the wildcard permission parser.
func (b *Builder) WithPermissionResolver(r permission.Resolver) *Builder {
	b.resolver = r
	return b
}

// WithMetrics registers the engine counters on reg.
func (b *Builder) WithMetrics(reg prometheus.Registerer) *Builder {
	b.registerer = reg
	return b
}

// WithSessionListener registers a session lifecycle listener.
func (b *Builder) WithSessionListener(l session.Listener) *Builder {
	b.listeners = append(b.listeners, l)
	return b
}

// WithGuards installs a pre-populated guard registry.
func (b *Builder) WithGuards(g *guard.Registry) *Builder {
	b.guards = g
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*SecurityManager, error) {
	if b.built {
		return nil, fmt.Errorf("%w: builder already used", ErrConfiguration)
	}
	cfg := b.config
	if cfg.Security.Strategy == "" {
		cfg.Security.Strategy = StrategyAtLeastOneSuccessful
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(b.realms) == 0 {
		return nil, fmt.Errorf("%w: at least one realm is required", ErrConfiguration)
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	strategy := b.strategy
	if strategy == nil {
		switch cfg.Security.Strategy {
		case StrategyAllSuccessful:
			strategy = authc.AllSuccessful{}
		case StrategyFirstSuccessful:
			strategy = authc.FirstSuccessful{}
		default:
			strategy = authc.AtLeastOneSuccessful{}
		}
	}

	var metrics *Metrics
	listeners := b.listeners
	if b.registerer != nil {
		metrics = NewMetrics(b.registerer)
		listeners = append(listeners, metrics.sessionListener())
	}

	// Realm caches. Authentication info holds live Go values, so its
	// cache always stays in process; authorization grants are JSON and
	// can live in Redis when a client is available.
	authcCaches := cache.NewMemoryManager[*authc.Info](cfg.Cache.MaxEntries, cfg.Cache.TTL.Std())
	var authzCaches cache.Manager[*authz.Info]
	if b.redis != nil {
		authzCaches = cache.NewRedisManager[*authz.Info](b.redis, cfg.Cache.TTL.Std(), logger)
	} else {
		authzCaches = cache.NewMemoryManager[*authz.Info](cfg.Cache.MaxEntries, cfg.Cache.TTL.Std())
	}

	authcRealms := make([]authc.Realm, 0, len(b.realms))
	authzRealms := make([]authz.Realm, 0, len(b.realms))
	for _, r := range b.realms {
		authcCache := authcCaches.GetCache(r.Name() + ".authc")
		authzCache := authzCaches.GetCache(r.Name() + ".authz")
		if metrics != nil {
			authcCache = cache.NewInstrumented(authcCache, metrics.CacheHits.Inc, metrics.CacheMisses.Inc)
			authzCache = cache.NewInstrumented(authzCache, metrics.CacheHits.Inc, metrics.CacheMisses.Inc)
		}
		r.UseAuthenticationCache(authcCache)
		r.UseAuthorizationCache(authzCache)
		authcRealms = append(authcRealms, r)
		authzRealms = append(authzRealms, r)
	}

	authenticator, err := authc.NewAuthenticator(authcRealms, strategy, logger)
	if err != nil {
		return nil, err
	}
	if b.redis != nil && cfg.Security.MaxLoginAttempts > 0 {
		limiter, err := authc.NewAttemptLimiter(b.redis, cfg.Security.MaxLoginAttempts, cfg.Security.LoginCooldown.Std(), logger)
		if err != nil {
			return nil, err
		}
		authenticator.UseLimiter(limiter)
	}

	authorizer, err := authz.NewAuthorizer(authzRealms, b.resolver, logger)
	if err != nil {
		return nil, err
	}

	var dao session.DAO
	if b.redis != nil {
		var front cache.Cache[string, *session.Record] = cache.NewLRU[string, *session.Record](cfg.Cache.MaxEntries, cfg.Cache.TTL.Std())
		if metrics != nil {
			front = cache.NewInstrumented(front, metrics.CacheHits.Inc, metrics.CacheMisses.Inc)
		}
		dao = session.NewCachingDAO(session.NewRedisDAO(b.redis, logger), front)
	} else {
		dao = session.NewMemoryDAO()
	}
	sessions, err := session.NewManager(session.ManagerConfig{
		DAO:           dao,
		Timeout:       cfg.Session.Timeout.Std(),
		DeleteInvalid: cfg.Session.DeleteInvalid,
		Listeners:     listeners,
		Logger:        logger,
	})
	if err != nil {
		return nil, err
	}

	guards := b.guards
	if guards == nil {
		guards = guard.NewRegistry()
	}

	b.built = true
	return &SecurityManager{
		authenticator: authenticator,
		authorizer:    authorizer,
		sessions:      sessions,
		realms:        b.realms,
		guards:        guards,
		metrics:       metrics,
		logger:        logger,
	}, nil
}
