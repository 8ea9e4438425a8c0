package authcore

import (
	"errors"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/carelink/authcore/mfa"
	"github.com/carelink/authcore/password"
	"github.com/carelink/authcore/session"
	"github.com/carelink/authcore/token"
)

// Builder assembles an [Engine]. Configure it with the With* methods and
// call Build exactly once.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	users     UserStore
	auditSink AuditSink
	registry  prometheus.Registerer
	logger    *zerolog.Logger

	built bool
}

// New returns a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsRegistry sets the Prometheus registerer the engine's
// collectors register against. Defaults to the global registry.
func (b *Builder) WithMetricsRegistry(reg prometheus.Registerer) *Builder {
	b.registry = reg
	return b
}

func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// Build validates the configuration and wires the engine components.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}

	logger := newEngineLogger(cfg.Logging, b.logger)

	// The policy's history check needs the hasher's comparison routine and
	// the hasher polices every plaintext through the policy, so wire the
	// comparison first.
	bare, err := password.NewHasher(cfg.Password.Cost, nil)
	if err != nil {
		return nil, err
	}
	policy := password.NewPolicy(password.Config{
		MinLength:    cfg.Password.MinLength,
		MaxLength:    cfg.Password.MaxLength,
		HistoryLimit: cfg.Password.HistoryLimit,
	}, bare.Compare)
	hasher, err := password.NewHasher(cfg.Password.Cost, policy)
	if err != nil {
		return nil, err
	}

	tokens, err := token.NewManager(token.Config{
		AccessSecret:  []byte(cfg.Token.AccessSecret),
		RefreshSecret: []byte(cfg.Token.RefreshSecret),
		AccessTTL:     cfg.Token.AccessTTL,
		RefreshTTL:    cfg.Token.RefreshTTL,
		Issuer:        cfg.Token.Issuer,
		Audience:      cfg.Token.Audience,
	})
	if err != nil {
		return nil, err
	}

	mfaEngine := mfa.NewEngine(mfa.Config{
		Issuer:           cfg.MFA.Issuer,
		Period:           cfg.MFA.Period,
		Skew:             cfg.MFA.Skew,
		SecretSize:       cfg.MFA.SecretSize,
		QRSize:           cfg.MFA.QRSize,
		BackupCodeCount:  cfg.MFA.BackupCodeCount,
		BackupCodeLength: cfg.MFA.BackupCodeLength,
	})

	sessions := session.NewStore(b.redis, session.Config{
		Prefix:        cfg.Session.Prefix,
		MaxConcurrent: cfg.Session.MaxConcurrent,
		Lifetimes:     cfg.Session.Lifetimes,
	})

	registry := b.registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	engine := &Engine{
		config:   cfg,
		users:    b.users,
		policy:   policy,
		hasher:   hasher,
		tokens:   tokens,
		mfa:      mfaEngine,
		sessions: sessions,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  newMetrics(cfg.Metrics, registry),
		logger:   logger,
	}

	b.built = true
	return engine, nil
}

func newEngineLogger(cfg LoggingConfig, override *zerolog.Logger) zerolog.Logger {
	if override != nil {
		return *override
	}
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}
