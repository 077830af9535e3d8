package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
	"tourneybot/bot"
	"tourneybot/impl/auth"
	"tourneybot/impl/core"
	"tourneybot/internal/config"
	"tourneybot/internal/database"
	"tourneybot/internal/http-server/api"
	"tourneybot/internal/interpreter"
	"tourneybot/internal/storage"
	"tourneybot/internal/storage/jsonfile"
	"tourneybot/internal/workflow"
	"tourneybot/lib/clock"
	"tourneybot/lib/logger"
	"tourneybot/lib/sl"

	"github.com/joho/godotenv"
)

const (
	logFileName     = "tourneybot.log"
	shutdownTimeout = 10 * time.Second
	restoreTimeout  = 30 * time.Second
)

func main() {
	configPath := flag.String("conf", "", "path to config file; environment only when empty")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	// a missing .env is fine, the environment may be set by the service manager
	_ = godotenv.Load()

	conf := config.MustLoad(*configPath)
	baseLog, logFile := logger.SetupLogger(conf.Env, filepath.Join(*logPath, logFileName))
	if logFile != nil {
		defer logFile.Close()
	}
	baseLog.Info("starting tourneybot", slog.String("config", *configPath), slog.String("env", conf.Env))

	if conf.Telegram.ApiKey == "" {
		log.Fatal("telegram api key is not set")
	}
	defaultLanguage := interpreter.LanguageFromCode(conf.Telegram.DefaultLanguage)

	// the bot logs through the base logger so its own send failures never loop back to it
	tgBot, err := bot.NewTgBot(conf.Telegram.ApiKey, baseLog, bot.BotConfig{
		DefaultLanguage:   defaultLanguage,
		AdminChatIDs:      append(conf.Telegram.AdminChatIDs, conf.Telegram.RoleChatID),
		RateLimit:         conf.Telegram.RateLimit,
		DigestIntervalMin: conf.Telegram.DigestInterval,
	})
	if err != nil {
		baseLog.Error("creating telegram bot", sl.Err(err))
		os.Exit(1)
	}

	var adminLevel slog.Level
	if err = adminLevel.UnmarshalText([]byte(conf.Telegram.LogLevel)); err != nil {
		adminLevel = slog.LevelWarn
	}
	logs := slog.New(logger.NewTelegramHandler(baseLog.Handler(), tgBot, adminLevel))

	var persister storage.Persister
	switch conf.Storage.Backend {
	case "mongo":
		persister = database.NewMongoClient(conf)
	case "mysql":
		sqlClient, err := database.NewSQLClient(conf)
		if err != nil {
			baseLog.Error("mysql client", sl.Err(err))
			os.Exit(1)
		}
		defer sqlClient.Close()
		persister = sqlClient
	default:
		persister = jsonfile.New(conf.Storage.Path, logs)
	}
	logs.Info("storage backend", slog.String("backend", conf.Storage.Backend))

	clk := clock.System()
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), restoreTimeout)
	store := storage.New(restoreCtx, persister, clk, logs)
	cancelRestore()

	admins := auth.NewAllowList(conf.Telegram.Admins)
	var policy auth.Policy = admins
	if conf.Telegram.RoleChatID != 0 {
		policy = auth.Any(admins, tgBot.ChatRoleAdmins(conf.Telegram.RoleChatID))
	}
	if admins.Len() == 0 && conf.Telegram.RoleChatID == 0 {
		logs.Warn("no administrators configured; admin commands are unavailable")
	}

	controller := workflow.New(store, policy, clk, workflow.Options{AdminLanguage: defaultLanguage}, logs)
	controller.SetNotifier(tgBot)
	tgBot.SetController(controller)

	sweeper := storage.NewSweeper(store, storage.SweeperConfig{
		Interval: conf.Sweeper.Interval,
		MaxAge:   conf.Sweeper.MaxAge,
		Budget:   conf.Sweeper.Budget,
	}, logs)
	sweeper.Start()

	var apiServer *api.Server
	if conf.Api.Enabled {
		handler := core.New(store, controller, clk, logs)
		handler.SetAuthService(auth.New(conf.Api.Tokens))
		apiServer = api.New(conf, logs, handler)
		go func() {
			if err := apiServer.Start(); err != nil {
				logs.Error("api server", sl.Err(err))
			}
		}()
	}

	go func() {
		if err := tgBot.Start(); err != nil {
			logs.Error("telegram bot", sl.Err(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	baseLog.Info("shutting down", slog.String("signal", sig.String()))

	tgBot.Stop()
	sweeper.Stop()
	if apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := apiServer.Shutdown(ctx); err != nil {
			baseLog.Error("api shutdown", sl.Err(err))
		}
		cancel()
	}
	baseLog.Info("stopped")
}
