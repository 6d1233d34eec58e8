// Package cli wires the full application stack (config, registry, stores,
// middleware, metrics, engine) for the switchboard binaries.
package cli

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/adapters/openai"
	redisadapter "github.com/aretw0/switchboard/pkg/adapters/redis"
	"github.com/aretw0/switchboard/pkg/config"
	"github.com/aretw0/switchboard/pkg/handlers"
	"github.com/aretw0/switchboard/pkg/observability"
	"github.com/aretw0/switchboard/pkg/persistence/middleware"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/registry"
	"github.com/aretw0/switchboard/pkg/routing"
	"github.com/aretw0/switchboard/pkg/schema"
	"github.com/aretw0/switchboard/pkg/session"
)

// App bundles everything a binary needs to serve conversations.
type App struct {
	Engine   *switchboard.Engine
	Sessions *session.Manager
	Config   *config.Config
	Logger   *slog.Logger
}

// BuildApp assembles the application from an optional config file path.
// An empty path uses the built-in default graph (router plus the default
// specialist set) with the in-memory store.
func BuildApp(cfgPath string) (*App, error) {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.ParseLevel(cfg.Server.LogLevel))

	deps := handlers.Deps{
		KB:        memory.NewKnowledgeBase(seedArticles()...),
		Completer: buildCompleter(logger),
		Logger:    logger,
	}

	reg, entry, participants, edges, err := buildGraphParts(cfg, deps)
	if err != nil {
		return nil, err
	}

	engine, err := switchboard.New(reg, entry, participants, edges,
		switchboard.WithName(cfg.Graph.Name),
		switchboard.WithLogger(logger),
		switchboard.WithMaxTurns(cfg.Graph.MaxTurns),
		switchboard.WithLifecycleHooks(metrics().Hooks()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compile graph: %w", err)
	}

	store, locker, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithMaxTurns(cfg.Graph.MaxTurns),
	}
	if locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(locker))
	}

	return &App{
		Engine:   engine,
		Sessions: session.NewManager(store, sessionOpts...),
		Config:   cfg,
		Logger:   logger,
	}, nil
}

// The engine collectors live on the default registry (served by the
// /metrics route); register them once no matter how many apps are built.
var (
	metricsOnce   sync.Once
	engineMetrics *observability.Metrics
)

func metrics() *observability.Metrics {
	metricsOnce.Do(func() {
		engineMetrics = observability.NewMetrics(prometheus.DefaultRegisterer)
	})
	return engineMetrics
}

func loadConfig(cfgPath string) (*config.Config, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	// Defaults via Parse so the same validation path runs.
	return config.Parse([]byte(`
graph:
  name: support
  entry: router
  handlers:
    - name: router
    - name: billing
    - name: technical
    - name: usage
    - name: api
    - name: escalation
  edges:
    - {from_token: billing, to: billing}
    - {from_token: technical, to: technical}
    - {from_token: usage, to: usage}
    - {from_token: api, to: api}
`))
}

// buildCompleter returns the OpenAI-backed completer when an API key is
// present, nil otherwise. Handlers degrade to keywords and canned replies
// without one.
func buildCompleter(logger *slog.Logger) ports.Completer {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		logger.Warn("OPENAI_API_KEY not set, running with keyword routing and canned replies")
		return nil
	}
	opts := []openai.Option{}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	return openai.New(key, opts...)
}

// buildGraphParts turns the declared handler specs into a populated
// registry plus the builder inputs.
func buildGraphParts(cfg *config.Config, deps handlers.Deps) (*registry.Registry, string, []string, []routing.Edge, error) {
	reg := registry.New()

	for _, spec := range cfg.Graph.Handlers {
		spec := spec
		switch spec.Name {
		case cfg.Graph.Entry:
			if err := schema.Validate(handlers.RouterOptionsSchema(), spec.Options); err != nil {
				return nil, "", nil, nil, fmt.Errorf("handler %q: %w", spec.Name, err)
			}
			var rc handlers.RouterConfig
			if err := cfg.Graph.DecodeOptions(spec.Name, &rc); err != nil {
				return nil, "", nil, nil, err
			}
			factory := func() ports.Handler {
				return handlers.NewRouter(deps.Completer, rc, deps.Logger)
			}
			if err := reg.Register(spec.Name, factory, "entry", "triage"); err != nil {
				return nil, "", nil, nil, err
			}

		case routing.EscalationHandler:
			factory := func() ports.Handler {
				return handlers.NewEscalation(deps.Logger)
			}
			if err := reg.Register(spec.Name, factory, "fallback", "support"); err != nil {
				return nil, "", nil, nil, err
			}

		default:
			if err := schema.Validate(handlers.SpecialistOptionsSchema(), spec.Options); err != nil {
				return nil, "", nil, nil, fmt.Errorf("handler %q: %w", spec.Name, err)
			}
			sc := handlers.SpecialistConfig{Name: spec.Name, Category: spec.Name}
			if err := cfg.Graph.DecodeOptions(spec.Name, &sc); err != nil {
				return nil, "", nil, nil, err
			}
			if sc.Name == "" {
				sc.Name = spec.Name
			}
			if sc.Category == "" {
				sc.Category = spec.Name
			}
			factory := func() ports.Handler {
				return handlers.NewSpecialist(deps.KB, deps.Completer, sc, deps.Logger)
			}
			if err := reg.Register(spec.Name, factory, "specialist", sc.Category); err != nil {
				return nil, "", nil, nil, err
			}
		}
	}

	return reg, cfg.Graph.Entry, cfg.Graph.ParticipantNames(), cfg.Graph.Edges, nil
}

// buildStore picks the persistence backend and applies the configured
// middleware chain.
func buildStore(cfg *config.Config) (ports.StateStore, ports.ConversationLocker, error) {
	var store ports.StateStore
	var locker ports.ConversationLocker

	if cfg.Redis.Addr != "" {
		opts := []redisadapter.Option{}
		if cfg.Redis.TTLSeconds > 0 {
			opts = append(opts, redisadapter.WithTTL(time.Duration(cfg.Redis.TTLSeconds)*time.Second))
		}
		redisStore := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		store = redisStore
		locker = redisadapter.NewLocker(redisStore.Client(), "switchboard:")
	} else {
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(cfg.Security.PIIPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Security.PIIPatterns))
	}
	if cfg.Security.EncryptionKey != "" {
		key, err := decodeKey(cfg.Security.EncryptionKey)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Chain(store, mws...), locker, nil
}

// decodeKey accepts a raw 32-byte key or its base64 encoding.
func decodeKey(s string) ([]byte, error) {
	if len(s) == 32 {
		return []byte(s), nil
	}
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, raw or base64")
	}
	return key, nil
}

// seedArticles is the demo knowledge base used until a search backend is
// configured.
func seedArticles() []memory.KBEntry {
	return []memory.KBEntry{
		{Title: "Understanding your invoice", Category: "billing", Content: "Invoices are issued on the first of the month. Refunds for duplicate charges are processed within 5 business days."},
		{Title: "Updating payment methods", Category: "billing", Content: "Payment methods can be changed under Settings > Billing. Subscription changes apply at the next cycle."},
		{Title: "Troubleshooting webhook timeouts", Category: "technical", Content: "Webhook deliveries time out after 10 seconds. Respond with 2xx quickly and process asynchronously."},
		{Title: "Common error codes", Category: "technical", Content: "HTTP 429 means rate limiting, 503 means maintenance. Retry with exponential backoff."},
		{Title: "Rate limits and quotas", Category: "usage", Content: "Free plans include 1,000 requests per day. Overage beyond the quota returns HTTP 429."},
		{Title: "Authentication guide", Category: "api", Content: "Authenticate with a bearer token in the Authorization header. Tokens rotate every 90 days."},
	}
}
