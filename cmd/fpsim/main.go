package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gritfps/sim/internal/config"
	"github.com/gritfps/sim/internal/data"
	"github.com/gritfps/sim/internal/engine"
	"github.com/gritfps/sim/internal/level"
	"github.com/gritfps/sim/internal/observer"
	"github.com/gritfps/sim/internal/persist"
	"github.com/gritfps/sim/internal/scripting"
	"github.com/gritfps/sim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.Load("config/sim.toml")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Open the save database
	db, err := persist.Open(cfg.Save.Path)
	if err != nil {
		return fmt.Errorf("save db: %w", err)
	}
	defer db.Close()
	store, err := persist.NewStore(db)
	if err != nil {
		return fmt.Errorf("save store: %w", err)
	}
	defer store.Close()

	// 4. Load the tuning scripts and build the definition tables
	script, err := scripting.NewEngine(cfg.Scripts.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer script.Close()

	tables := data.Defaults()
	script.ApplyTuning(tables)
	log.Info("definition tables ready",
		zap.Int("weapons", len(tables.Weapons)),
		zap.Int("items", len(tables.Items)),
		zap.Int("bots", len(tables.Bots)),
	)

	// 5. Engine services: headless unless a rendering build swaps them out
	eng := engine.NewHeadless()
	svc := eng.Services()

	// 6. Build the level, resuming the newest save when asked to
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	lvl, err := buildLevel(ctx, cfg, store, svc, tables, script, log)
	if err != nil {
		return err
	}

	// 7. Observer endpoint
	if cfg.Observer.Enabled {
		obs := observer.NewServer(lvl, cfg.Observer.Addr,
			time.Duration(cfg.Observer.IntervalMS)*time.Millisecond, log)
		go func() {
			if err := obs.Run(); err != nil {
				log.Error("observer server", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			obs.Shutdown(shutdownCtx)
		}()
	}

	// 8. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	dt := time.Second / time.Duration(cfg.TickRate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	autosaveTicks := cfg.Save.AutosaveSeconds * cfg.TickRate
	saveCounter := 0

	log.Info("game loop started",
		zap.Duration("tick", dt),
		zap.Int("frag_limit", lvl.State().FragLimit),
	)

	for {
		select {
		case <-ticker.C:
			lvl.Update(dt)

			if autosaveTicks > 0 {
				saveCounter++
				if saveCounter >= autosaveTicks {
					saveCounter = 0
					autosave(lvl.State(), store, cfg.Save.AutosaveKeep, log)
				}
			}

		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if _, err := store.Save(saveCtx, "shutdown", lvl.State().Dump()); err != nil {
				log.Error("shutdown save failed", zap.Error(err))
			} else {
				log.Info("state saved")
			}
			return nil
		}
	}
}

// buildLevel resumes the newest save when configured and available, and falls
// back to a fresh level from the configured definition file.
func buildLevel(ctx context.Context, cfg config.Config, store *persist.Store, svc engine.Services, tables *data.Tables, script *scripting.Engine, log *zap.Logger) (*level.Level, error) {
	if cfg.Save.Resume {
		dump, err := store.LoadLatest(ctx)
		switch {
		case err == nil:
			log.Info("resuming from save", zap.Uint64("frame", dump.Frame))
			return level.Resume(world.RestoreState(dump), svc, tables, script, log), nil
		case errors.Is(err, persist.ErrNotFound):
			log.Info("no save to resume, starting fresh")
		default:
			return nil, fmt.Errorf("resume: %w", err)
		}
	}

	def, err := level.LoadDefinition(cfg.Level.Path)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	return level.New(def, svc, tables, script, log)
}

func autosave(st *world.State, store *persist.Store, keep int, log *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := store.Save(ctx, "auto", st.Dump()); err != nil {
		log.Error("autosave failed", zap.Error(err))
		return
	}
	if keep > 0 {
		if err := store.Prune(ctx, "auto", keep); err != nil {
			log.Error("autosave prune failed", zap.Error(err))
		}
	}
	log.Debug("autosaved", zap.Uint64("frame", st.Frame))
}

func newLogger(levelName, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(levelName)); err != nil {
		lvl = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}
