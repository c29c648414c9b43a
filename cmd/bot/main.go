package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/mindgrowth-bot/internal/catalog"
	"github.com/aliskhannn/mindgrowth-bot/internal/config"
	"github.com/aliskhannn/mindgrowth-bot/internal/delivery/httpapi"
	"github.com/aliskhannn/mindgrowth-bot/internal/delivery/telegram"
	"github.com/aliskhannn/mindgrowth-bot/internal/domain/entities"
	"github.com/aliskhannn/mindgrowth-bot/internal/gamification"
	"github.com/aliskhannn/mindgrowth-bot/internal/infra/postgres"
	"github.com/aliskhannn/mindgrowth-bot/internal/infra/postgres/migrations"
	"github.com/aliskhannn/mindgrowth-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/mindgrowth-bot/internal/infra/redis"
	"github.com/aliskhannn/mindgrowth-bot/internal/logger"
	"github.com/aliskhannn/mindgrowth-bot/internal/service"
	"github.com/aliskhannn/mindgrowth-bot/internal/storage"
)

const (
	sessionTTL    = 30 * time.Minute
	sweepInterval = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("application stopped with error", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// Catalogs.
	registry := gamification.DefaultRegistry()
	lessons, err := catalog.LoadLessons(cfg.LessonsPath)
	if err != nil {
		return err
	}
	badges, err := catalog.LoadBadges(cfg.BadgesPath, registry)
	if err != nil {
		return err
	}

	// Database.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, postgres.NewTransactor(pool), migrations.FS, lg); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(pool)
	var snapshots service.SnapshotStore = repository.NewSnapshotRepository(pool)

	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		snapshots = service.NewCachedSnapshotStore(snapshots, redis.NewSnapshotCache(client, cfg.Redis.TTL), lg)
		lg.Info("snapshot cache enabled", zap.Duration("ttl", cfg.Redis.TTL))
	}

	// Engine and services.
	engine := gamification.NewEngine(
		gamification.NewIngestor(lessons, nil),
		gamification.NewAggregator(rules, loc),
		gamification.NewEvaluator(badges.All(), registry),
	)

	progressService := service.NewProgressService(engine, snapshots, userRepo, lg)
	userService := service.NewUserService(userRepo, progressService)

	quizSessions := storage.NewSessions[*entities.QuizSession](sessionTTL)
	checkInDrafts := storage.NewSessions[*entities.CheckInDraft](sessionTTL)
	quizService := service.NewQuizService(lessons, quizSessions, progressService)
	checkInService := service.NewCheckInService(checkInDrafts, progressService)

	reminderService := service.NewReminderService(userRepo, progressService, service.ReminderConfig{
		Schedule: cfg.Reminders.Schedule,
		Location: loc,
		Workers:  cfg.Reminders.Workers,
	}, lg)

	// Telegram.
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env == "local"
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	reminderMessages := storage.NewReminderStorage()
	handler := telegram.NewHandler(
		bot,
		lg,
		userService,
		progressService,
		quizService,
		checkInService,
		lessons,
		badges,
		reminderMessages,
	)
	reminderService.SetNotifier(telegram.NewNotifier(bot, reminderMessages, lg))

	// HTTP.
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(progressService, lessons, badges, lg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return handler.Run(ctx) })
	g.Go(func() error { return httpapi.Serve(ctx, srv, cfg.HTTP.ShutdownTimeout, lg) })
	g.Go(func() error {
		sweepSessions(ctx, sweepInterval, lg, quizSessions, checkInDrafts)
		return nil
	})
	if cfg.Reminders.Enabled {
		g.Go(func() error { return reminderService.Run(ctx) })
	}

	return g.Wait()
}

type sweeper interface {
	Sweep() int
}

func sweepSessions(ctx context.Context, every time.Duration, lg *zap.Logger, stores ...sweeper) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, s := range stores {
				removed += s.Sweep()
			}
			if removed > 0 {
				lg.Debug("expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Запустить бота"},
		{Command: "lessons", Description: "Список уроков"},
		{Command: "done", Description: "Отметить урок (использование: /done m1-l1 15)"},
		{Command: "quiz", Description: "Пройти тест по уроку"},
		{Command: "practice", Description: "Отметить практику"},
		{Command: "checkin", Description: "Чек-ин настроения"},
		{Command: "progress", Description: "Показать прогресс"},
		{Command: "badges", Description: "Мои значки"},
		{Command: "cancel", Description: "Отменить тест или чек-ин"},
		{Command: "reset", Description: "Сбросить прогресс"},
		{Command: "help", Description: "Помощь"},
	}
}
