// container.go
package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/hireflow/pkg/ai/llm"
	"github.com/Abraxas-365/hireflow/pkg/ai/llm/memoryx"
	"github.com/Abraxas-365/hireflow/pkg/ai/llm/memoryx/memoryxredis"
	aiopenai "github.com/Abraxas-365/hireflow/pkg/ai/providers/openai"
	"github.com/Abraxas-365/hireflow/pkg/config"
	"github.com/Abraxas-365/hireflow/pkg/iam/auth"
	"github.com/Abraxas-365/hireflow/pkg/logx"
	"github.com/Abraxas-365/hireflow/pkg/mailx"
	"github.com/Abraxas-365/hireflow/pkg/metrics"
	"github.com/Abraxas-365/hireflow/pkg/recruit/assistant"
	"github.com/Abraxas-365/hireflow/pkg/recruit/assistant/assistantapi"
	"github.com/Abraxas-365/hireflow/pkg/recruit/candidate/candidateinfra"
	"github.com/Abraxas-365/hireflow/pkg/recruit/candidate/candidatesrv"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewapi"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewinfra"
	"github.com/Abraxas-365/hireflow/pkg/recruit/interview/interviewsrv"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/openai/openai-go/v3/option"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Redis   *redis.Client
	Metrics *metrics.Metrics

	// Services
	TokenService     *auth.JWTService
	CandidateService *candidatesrv.CandidateService
	InterviewService *interviewsrv.InterviewService
	ReminderService  *interviewsrv.ReminderService
	AssistantService *assistant.Service

	// API Handlers
	AuthHandlers      *auth.AuthHandlers
	InterviewHandlers *interviewapi.InterviewHandlers
	AssistantHandlers *assistantapi.AssistantHandlers

	// Middleware
	AuthMiddleware *auth.Middleware
}

// NewContainer initializes the dependency injection container
func NewContainer(cfg *config.Config) *Container {
	logx.Info("🔧 Initializing dependency container...")

	c := &Container{
		Config:  cfg,
		Metrics: metrics.New(),
	}

	c.initInfrastructure()
	c.initServices()

	logx.Info("✅ Container initialized successfully")
	return c
}

func (c *Container) needsRedis() bool {
	return c.Config.Interview.LockBackend == "redis" ||
		(c.Config.AI.Enabled() && c.Config.AI.MemoryBackend == "redis")
}

func (c *Container) initInfrastructure() {
	logx.Info("🏗️ Initializing infrastructure...")

	db, err := sqlx.Connect("postgres", c.Config.Database.DSN())
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("✅ Database connected")

	if !c.needsRedis() {
		logx.Info("Redis not required by the configured backends, skipping")
		return
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		logx.Fatalf("Failed to connect to Redis: %v", err)
	}
	logx.Info("✅ Redis connected")
}

func (c *Container) initServices() {
	logx.Info("🗄️  Initializing repositories and services...")
	loc := c.Config.Interview.Location()

	// --- Repositories ---
	candidateRepo := candidateinfra.NewPostgresCandidateRepository(c.DB)
	interviewRepo := interviewinfra.NewPostgresInterviewRepository(c.DB)
	reviewRepo := interviewinfra.NewPostgresReviewRepository(c.DB)

	var locker interview.Locker
	if c.Config.Interview.LockBackend == "redis" {
		locker = interviewinfra.NewRedisLocker(c.Redis)
		logx.Info("✅ Using Redis interview locks")
	} else {
		locker = interviewinfra.NewInMemoryLocker()
		logx.Warn("⚠️  Using in-process interview locks (single instance only)")
	}

	// --- Mail ---
	var sender mailx.Sender
	if c.Config.Email.Provider == "smtp" {
		sender = mailx.NewSMTPSender(
			c.Config.Email.SMTPHost,
			c.Config.Email.SMTPPort,
			c.Config.Email.SMTPUsername,
			c.Config.Email.SMTPPassword,
			c.Config.Email.FromAddress,
			c.Config.Email.FromName,
		)
		logx.Infof("✅ SMTP mail via %s:%d", c.Config.Email.SMTPHost, c.Config.Email.SMTPPort)
	} else {
		sender = mailx.NewConsoleSender()
		logx.Warn("⚠️  Emails are printed to the console")
	}
	notifier := mailx.NewInterviewNotifier(sender, loc)

	// --- Domain services ---
	c.TokenService = auth.NewJWTServiceFromConfig(&c.Config.Auth.JWT)
	c.CandidateService = candidatesrv.NewCandidateService(candidateRepo)

	c.InterviewService = interviewsrv.NewInterviewService(
		interviewRepo,
		reviewRepo,
		reviewRepo,
		c.CandidateService,
		c.CandidateService,
		locker,
		notifier,
		c.Metrics,
		&c.Config.Interview,
	)

	c.ReminderService = interviewsrv.NewReminderService(
		interviewRepo,
		c.CandidateService,
		notifier,
		c.Metrics,
		&c.Config.Interview,
	)

	c.AssistantService = assistant.NewService(
		c.newChatModel(),
		c.newConversationStore(),
		c.InterviewService,
		&c.Config.AI,
		loc,
	)

	// --- Handlers and middleware ---
	c.AuthMiddleware = auth.NewMiddleware(c.TokenService, c.Config.Auth.Cookie.AccessTokenName)
	c.AuthHandlers = auth.NewAuthHandlers()
	c.InterviewHandlers = interviewapi.NewInterviewHandlers(c.InterviewService, loc)
	c.AssistantHandlers = assistantapi.NewAssistantHandlers(c.AssistantService)

	logx.Info("✅ All services and handlers initialized")
}

// newChatModel returns nil when no API key is set, which disables the assistant
func (c *Container) newChatModel() llm.LLM {
	ai := c.Config.AI
	if !ai.Enabled() {
		logx.Warn("⚠️  OPENAI_API_KEY not set, assistant disabled")
		return nil
	}

	var opts []option.RequestOption
	if ai.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(ai.OpenAIBaseURL))
	}
	logx.Infof("✅ Assistant enabled (model %s)", ai.Model)
	return aiopenai.NewOpenAIProvider(ai.OpenAIAPIKey, ai.Model, opts...)
}

func (c *Container) newConversationStore() memoryx.Store {
	ai := c.Config.AI
	if c.Redis != nil && ai.MemoryBackend == "redis" {
		return memoryxredis.NewRedisStore(c.Redis, ai.MaxHistory, ai.ConversationTTL)
	}
	return memoryx.NewInMemoryStore(ai.MaxHistory, ai.ConversationTTL)
}

// StartBackgroundServices starts background workers
func (c *Container) StartBackgroundServices() {
	logx.Info("🔄 Starting background services...")

	if err := c.ReminderService.Start(); err != nil {
		logx.Fatalf("Failed to start interview reminders: %v", err)
	}
}

// Cleanup stops workers and closes all connections
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.ReminderService != nil {
		c.ReminderService.Stop()
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("Error closing database: %v", err)
		} else {
			logx.Info("✅ Database connection closed")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		} else {
			logx.Info("✅ Redis connection closed")
		}
	}

	logx.Info("✅ Cleanup completed")
}
