package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"

	"virtual-attendant-be/internal/config"
	"virtual-attendant-be/internal/controller"
	"virtual-attendant-be/internal/pkg/logger"
	"virtual-attendant-be/internal/repository/contract"
	"virtual-attendant-be/internal/repository/implementation"
	"virtual-attendant-be/internal/repository/memory"
	"virtual-attendant-be/internal/repository/rediscache"
	"virtual-attendant-be/internal/service"
	"virtual-attendant-be/internal/websocket"
	"virtual-attendant-be/pkg/calendar"
	"virtual-attendant-be/pkg/prefeitura"
	"virtual-attendant-be/pkg/router"
	"virtual-attendant-be/pkg/store"

	pktNats "virtual-attendant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger   logger.ILogger
	Router   *router.Router
	Sessions store.SessionStore

	// Controllers
	AttendantController controller.IAttendantController
	AdminController     controller.IAdminController

	// Services
	AttendantService service.IAttendantService
	AdminService     service.IAdminService

	// Background Services (started by Start)
	TurnRecorder   service.ITurnRecorderService
	InboundService service.IInboundService // nil without NATS

	WebSocketHub *websocket.Hub

	pubSub   *gochannel.GoChannel
	rdb      *redis.Client
	natsPub  *pktNats.Publisher
	natsSub  *pktNats.Subscriber
	stopSubs []func()
}

// NewContainer builds the application graph. db may be nil, in which case
// intentions are not persisted and turn history is disabled. NATS and Redis
// are optional too: failures to reach them are logged and the feature is
// left off.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction(), cfg.App.LogLevel)
	c := &Container{Logger: sysLogger}

	// 1. Event Bus
	c.pubSub = gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NopLogger{},
	)

	// 2. Infrastructure
	if cfg.App.RedisURL != "" {
		c.rdb = connectRedis(cfg.App.RedisURL, sysLogger)
	}

	switch cfg.Session.Store {
	case "redis":
		if c.rdb == nil {
			return nil, fmt.Errorf("SESSION_STORE=redis needs a reachable REDIS_URL")
		}
		c.Sessions = rediscache.NewSessionRepository(c.rdb, cfg.Session.TTL)
	default:
		c.Sessions = memory.NewSessionRepository(cfg.Session.TTL)
	}

	var intentRepo contract.IntentionRepository
	var turnRepo contract.ConversationTurnRepository
	if db != nil {
		intentRepo = implementation.NewIntentionRepository(db)
		turnRepo = implementation.NewConversationTurnRepository(db)
	}

	// 3. Router & flows
	pref := prefeitura.NewHTTPClient(cfg.Integrations.PrefeituraBaseURL, cfg.Integrations.PrefeituraToken, cfg.Integrations.Timeout)
	cal := calendar.NewHTTPClient(cfg.Integrations.CalendarBaseURL, cfg.Integrations.CalendarToken, cfg.Integrations.Timeout)
	r, err := NewRouter(cfg, c.Sessions, pref, cal, sysLogger)
	if err != nil {
		return nil, err
	}
	c.Router = r

	// 4. Monitor hub & turn recorder
	c.WebSocketHub = websocket.NewHub(c.rdb, logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "monitor.log")))
	c.TurnRecorder = service.NewTurnRecorderService(c.pubSub, turnRepo, c.WebSocketHub, sysLogger)
	r.Observe(c.TurnRecorder)

	// 5. Services
	c.AttendantService = service.NewAttendantService(r, sysLogger)
	c.AdminService = service.NewAdminService(cfg.Admin, r, c.Sessions, intentRepo, turnRepo, sysLogger)

	if cfg.Bus.NatsURL != "" {
		c.natsPub, err = pktNats.NewPublisher(cfg.Bus.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		}
		c.natsSub, err = pktNats.NewSubscriber(cfg.Bus.NatsURL)
		if err != nil {
			sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
		}
		if c.natsPub != nil && c.natsSub != nil {
			c.InboundService = service.NewInboundService(
				c.AttendantService, c.natsSub, c.natsPub,
				cfg.Bus.InboundSubject, cfg.Bus.Durable, sysLogger,
			)
		}
	}

	// 6. Controllers
	c.AttendantController = controller.NewAttendantController(c.AttendantService)
	c.AdminController = controller.NewAdminController(c.AdminService, c.WebSocketHub, cfg.Admin.JWTSecret)

	return c, nil
}

func connectRedis(url string, log logger.ILogger) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		rdb.Close()
		return nil
	}
	return rdb
}

// Start runs the background parts until ctx is cancelled. It returns once
// they are started; call Wait after cancelling ctx.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)

	if err := c.TurnRecorder.Consume(ctx); err != nil {
		return fmt.Errorf("start turn recorder: %w", err)
	}

	n, err := c.AdminService.LoadPersistedIntentions(ctx)
	if err != nil {
		c.Logger.Warn("BOOTSTRAP", "Failed to load stored intentions", map[string]interface{}{"error": err.Error()})
	} else if n > 0 {
		c.Logger.Info("BOOTSTRAP", "Stored intentions loaded", map[string]interface{}{"count": n})
	}

	if c.InboundService != nil {
		stop, err := c.InboundService.Start(ctx)
		if err != nil {
			return fmt.Errorf("start inbound consumer: %w", err)
		}
		c.stopSubs = append(c.stopSubs, stop)
	}
	return nil
}

// Wait blocks until the background consumers have drained.
func (c *Container) Wait() {
	c.TurnRecorder.Wait()
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	for _, stop := range c.stopSubs {
		stop()
	}
	if c.natsSub != nil {
		c.natsSub.Close()
	}
	if c.natsPub != nil {
		c.natsPub.Close()
	}
	_ = c.pubSub.Close()
	if c.rdb != nil {
		_ = c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
