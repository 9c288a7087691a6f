package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/quakenite/server/internal/building"
	"github.com/quakenite/server/internal/config"
	"github.com/quakenite/server/internal/core/event"
	coresys "github.com/quakenite/server/internal/core/system"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/handler"
	gonet "github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
	"github.com/quakenite/server/internal/persist"
	"github.com/quakenite/server/internal/scripting"
	"github.com/quakenite/server/internal/system"
	"github.com/quakenite/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            QuakeNite  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       arena build server · Go tick loop   \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mServer:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("QUAKENITE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations (optional)
	printSection("Database")

	var ledger *persist.LedgerRepo
	if cfg.Database.DSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		applied, err := persist.RunMigrations(ctx, db.Pool, log)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		printStat("Migrations applied", applied)
		ledger = persist.NewLedgerRepo(db, cfg.Server.ID)
	} else {
		printOK("No DSN configured, build ledger disabled")
	}
	fmt.Println()

	// 4. Load the arena and precache piece assets
	printSection("Data")

	arena, err := data.LoadArenaMap(cfg.World.MapPath)
	if err != nil {
		return fmt.Errorf("load arena: %w", err)
	}
	printStat("Arena brushes", len(arena.Brushes))
	printStat("Spawn points", len(arena.Spawns))

	models := data.NewModelTable()
	printStat("Piece types", data.Precache(models))

	// 5. Lua structure scripts (optional)
	var luaEngine *scripting.Engine
	if cfg.Scripting.Dir != "" {
		luaEngine, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer luaEngine.Close()
		printOK("Lua engine loaded")
	}
	fmt.Println()

	// 6. World state and building subsystem
	bus := event.NewBus()
	worldState := world.NewState(world.Options{
		MaxEntities:  cfg.World.MaxEntities,
		LinearCensus: cfg.Building.LinearCensus,
		Arena:        arena,
		Models:       models,
		Events:       bus,
	})

	settings := building.Settings{
		Enabled:        cfg.Building.Enabled,
		StartMaterials: cfg.Building.StartMaterials,
		MaxStructures:  cfg.Building.MaxStructures,
	}
	var behavior building.BehaviorFactory
	if luaEngine != nil && luaEngine.Has("structure_think") {
		scripted := building.NewScriptedBehavior(luaEngine, worldState)
		behavior = func(data.PieceType) world.Behavior { return scripted }
	}
	validator := building.NewValidator(settings, worldState, worldState.Structures())
	spawner := building.NewSpawner(worldState, validator, behavior, log)
	commands := building.NewCommands(worldState, spawner, handler.SessionPrinter{}, log)

	// 7. Create packet handler registry and register handlers
	pktReg := packet.NewRegistry(log)
	async := handler.NewAsync(64)
	deps := &handler.Deps{
		Config: cfg,
		Log:    log,
		World:  worldState,
		Build:  commands,
		Async:  async,
	}
	if ledger != nil {
		deps.Ledger = ledger
	}
	handler.RegisterAll(pktReg, deps)

	// 8. Create network server
	sessCfg := gonet.SessionConfig{
		InQueueSize:  cfg.Network.InQueueSize,
		OutQueueSize: cfg.Network.OutQueueSize,
		WriteTimeout: cfg.Network.WriteTimeout,
		ReadTimeout:  cfg.Network.ReadTimeout,
	}
	if cfg.RateLimit.Enabled {
		sessCfg.PacketsPerSecond = cfg.RateLimit.PacketsPerSecond
		sessCfg.Burst = cfg.RateLimit.Burst
	}
	netServer, err := gonet.NewServer(cfg.Network.BindAddress, sessCfg, cfg.Network.MaxClients, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}
	go netServer.AcceptLoop()

	// 9. Create systems and register with runner
	store := gonet.NewSessionStore()
	var writer persist.LedgerWriter = discardLedger{}
	if ledger != nil {
		writer = ledger
	}

	runner := coresys.NewRunner()
	runner.Register(system.NewInputSystem(netServer, pktReg, store, cfg.Network.MaxPacketsPerTick, worldState, log))
	runner.Register(system.NewCompletionSystem(async))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewThinkSystem(worldState))
	runner.Register(system.NewReplicationSystem(worldState, bus))
	runner.Register(system.NewOutputSystem(store))
	ledgerSys := system.NewLedgerSystem(worldState, bus, writer, log, cfg.Database.LedgerFlushTicks)
	runner.Register(ledgerSys)
	runner.Register(system.NewCleanupSystem(worldState.ECS(), log))

	// 10. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("Listening on %s", netServer.Addr().String()))
	printReady(fmt.Sprintf("Game loop running (tick: %s)", cfg.Network.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			if took := runner.Tick(cfg.Network.TickRate); took > cfg.Network.TickRate {
				stats := runner.LastTick()
				log.Warn("tick overrun",
					zap.Duration("took", took),
					zap.Stringer("slowest_phase", stats.Slowest()),
					zap.Duration("slowest", stats.Phase[stats.Slowest()]))
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			ledgerSys.Flush()
			netServer.Shutdown()
			log.Info("server stopped",
				zap.Uint64("ticks", runner.Ticks()),
				zap.Int("structures", worldState.Structures().Count()))
			return nil
		}
	}
}

// discardLedger drops entries when no database is configured.
type discardLedger struct{}

func (discardLedger) WriteLedger(context.Context, []persist.LedgerEntry) error { return nil }

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
