package bootstrap

import (
	"context"
	"log"

	"bayan-ai-be/internal/config"
	"bayan-ai-be/internal/controller"
	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/internal/repository/implementation"
	"bayan-ai-be/internal/repository/memory"
	"bayan-ai-be/internal/service"
	"bayan-ai-be/internal/websocket"
	"bayan-ai-be/pkg/embedding"
	"bayan-ai-be/pkg/llm"
	"bayan-ai-be/pkg/llm/factory"
	"bayan-ai-be/pkg/rag/executor"
	"bayan-ai-be/pkg/rag/intent"
	"bayan-ai-be/pkg/rag/response"
	"bayan-ai-be/pkg/rag/search"
	"bayan-ai-be/pkg/rag/state"

	pktNats "bayan-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	// Controllers
	ChatbotController controller.IChatbotController

	// Exposed for transports that call the engine directly (console, websocket)
	ChatbotService service.IChatbotService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHandler *websocket.Handler
	WebSocketHub     *websocket.Hub

	cancel  context.CancelFunc
	pubSub  *gochannel.GoChannel
	rdb     *redis.Client
	natsPub *pktNats.Publisher
	loggers []logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	historyLogger := logger.NewIsolatedLogger(cfg.App.HistoryLogPath)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Infrastructure
	// Redis (shared embedding cache + websocket fan-out)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		natsPub = nil
	}

	// 4. AI Providers
	baseEmbedder, err := embedding.NewEmbeddingProvider(embedding.FactoryConfig{
		Provider:   cfg.Ai.EmbeddingProvider,
		Model:      cfg.Ai.EmbeddingModel,
		BaseURL:    embeddingBaseURL(cfg),
		APIKey:     cfg.Ai.OpenAIKey,
		Dimensions: cfg.Ai.EmbeddingDimensions,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	embedder := embedding.NewCachedProvider(baseEmbedder, rdb, sysLogger, embedding.CacheConfig{
		Namespace: cfg.Ai.EmbeddingProvider + ":" + cfg.Ai.EmbeddingModel,
	})
	sysLogger.Info("Bootstrap", "Embedding provider ready", map[string]interface{}{
		"provider": cfg.Ai.EmbeddingProvider,
		"model":    cfg.Ai.EmbeddingModel,
	})

	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  llmBaseURL(cfg),
		APIKey:   cfg.Ai.OpenAIKey,
	})
	if err != nil {
		sysLogger.Warn("Bootstrap", "LLM provider unavailable, using keyword routing and static narration", map[string]interface{}{
			"provider": cfg.Ai.LLMProvider,
			"error":    err.Error(),
		})
		llmProvider = nil
	}

	// 5. Retrieval engine
	verseRepo := implementation.NewVerseRepository(db)
	if n, err := verseRepo.Count(ctx); err != nil {
		sysLogger.Warn("Bootstrap", "Verse table unavailable", map[string]interface{}{"error": err.Error()})
	} else if n == 0 {
		sysLogger.Warn("Bootstrap", "Verse table is empty, run cmd/seed", nil)
	} else {
		sysLogger.Info("Bootstrap", "Verse table ready", map[string]interface{}{"verses": n})
	}
	searcher := search.NewSearcher(verseRepo, sysLogger, search.Config{
		Timeout:       cfg.Timeouts.Search,
		WorldlyFilter: cfg.Search.WorldlyFilter,
	})

	var narrator response.Narrator
	if cfg.Ai.NarrationEnabled && llmProvider != nil {
		narrator = response.NewLLMNarrator(llmProvider, sysLogger, cfg.Timeouts.LLM)
	}

	turnExecutor := executor.NewTurnExecutor(searcher, embedder, narrator, sysLogger, executor.Config{
		Mode:               state.ParseMode(cfg.Search.PaginationMode),
		PageSize:           cfg.Search.PageSize,
		DefaultSearchLimit: cfg.Search.DefaultLimit,
		DefaultShowCount:   cfg.Search.DefaultShowCount,
		EmbedTimeout:       cfg.Timeouts.Embed,
	})

	router := newRouter(cfg, llmProvider, sysLogger)

	// Initialize In-Memory Session Storage
	sessions := memory.NewSessionRepository(memory.SessionConfig{
		TTL:             cfg.Session.TTL,
		CleanupInterval: cfg.Session.CleanupInterval,
		PageSize:        cfg.Search.PageSize,
		ScoreThreshold:  cfg.Search.ScoreThreshold,
	}, sysLogger)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.App.EventTopic, pubSub)

	var forwarder service.EventForwarder
	if natsPub != nil {
		forwarder = natsPub
	}
	consumerService := service.NewConsumerService(pubSub, cfg.App.EventTopic, historyLogger, forwarder, sysLogger)

	chatbotService := service.NewChatbotService(sessions, router, turnExecutor, publisherService, sysLogger)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/websocket.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run(ctx)

	// 7. Controllers
	return &Container{
		Logger:            sysLogger,
		ChatbotController: controller.NewChatbotController(chatbotService),
		ChatbotService:    chatbotService,
		ConsumerService:   consumerService,
		WebSocketHandler:  websocket.NewHandler(wsHub, chatbotService, wsLogger),
		WebSocketHub:      wsHub,

		cancel:  cancel,
		pubSub:  pubSub,
		rdb:     rdb,
		natsPub: natsPub,
		loggers: []logger.ILogger{sysLogger, historyLogger, wsLogger},
	}
}

// Close stops background work and releases connections
func (c *Container) Close() {
	c.cancel()
	if err := c.pubSub.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close event bus", map[string]interface{}{"error": err.Error()})
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	if err := c.rdb.Close(); err != nil {
		c.Logger.Warn("Bootstrap", "Failed to close Redis", map[string]interface{}{"error": err.Error()})
	}
	for _, l := range c.loggers {
		_ = l.Sync()
	}
}

// newRouter builds the routing chain selected by ROUTER_MODE. Without an LLM
// only the keyword router is used. Cursor pagination answers bare "lanjut"
// commands before the chain runs.
func newRouter(cfg *config.Config, llmProvider llm.LLMProvider, log logger.ILogger) intent.Router {
	chain := newChain(cfg, llmProvider, log)
	if state.ParseMode(cfg.Search.PaginationMode) == state.ModeCursor {
		return intent.NewCommandGate(chain)
	}
	return chain
}

func newChain(cfg *config.Config, llmProvider llm.LLMProvider, log logger.ILogger) *intent.Chain {
	keyword := intent.NewKeywordRouter()
	if llmProvider == nil || cfg.Ai.RouterMode == "keyword" {
		return intent.NewChain(log, cfg.Timeouts.Router, keyword)
	}

	planner := intent.NewLLMRouter(llmProvider, log)
	if cfg.Ai.RouterMode == "llm" {
		return intent.NewChain(log, cfg.Timeouts.Router, planner)
	}
	return intent.NewChain(log, cfg.Timeouts.Router, planner, keyword)
}

func embeddingBaseURL(cfg *config.Config) string {
	if cfg.Ai.EmbeddingProvider == "openai" {
		return cfg.Ai.OpenAIBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "openai" {
		return cfg.Ai.OpenAIBaseURL
	}
	return cfg.Ai.OllamaBaseURL
}
