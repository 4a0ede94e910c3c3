package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"heroworld/internal/audio"
	"heroworld/internal/catalog"
	"heroworld/internal/config"
	"heroworld/internal/database"
	"heroworld/internal/progress"
	"heroworld/internal/repository"
	"heroworld/internal/service"
	"heroworld/internal/tui"

	"github.com/gdamore/tcell/v2"
)

// settingLocalPlayer remembers which player this terminal plays as
const settingLocalPlayer = "local_player_id"

var (
	nameFlag = flag.String("name", "Hero", "Player name used when no local player exists yet")
	logFlag  = flag.String("log", "heroworld-play.log", "File that receives log output while the screen is active")
	muteFlag = flag.Bool("mute", false, "Start with sounds off")
)

func main() {
	flag.Parse()

	logFile, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	progressRepo := repository.NewProgressRepository(db)
	resultRepo := repository.NewSessionResultRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	var store progress.Store
	if cfg.ProgressBackend != config.BackendMemory {
		store = progress.NewSQLStore(progressRepo)
	}
	progressService := service.NewProgressService(progress.NewManager(store), progressRepo, settingsRepo, resultRepo, cat)
	if err := progressService.InitParentPIN(ctx, cfg.ParentPIN); err != nil {
		log.Printf("Warning: failed to set parent PIN: %v", err)
	}

	// Story and drawing need the web client, so no text service here
	gameService := service.NewGameService(progressService, resultRepo, nil, cfg.SessionIdleTimeout)
	defer gameService.Shutdown()

	playerID, err := localPlayer(ctx, progressService, settingsRepo, *nameFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load player: %v\n", err)
		os.Exit(1)
	}

	speaker := audio.NewSpeaker()
	speaker.Initialize()
	speaker.SetMuted(*muteFlag || !cfg.SoundEnabled || !settingsRepo.IsSoundEnabled(ctx))
	defer speaker.Cleanup()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nHeroWorld crashed: %v\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()

	runErr := tui.New(screen, progressService, gameService, speaker, playerID).Run(ctx)
	screen.Fini()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}

// localPlayer returns the remembered player, creating one on first run
func localPlayer(ctx context.Context, progressService *service.ProgressService, settings *repository.SettingsRepository, name string) (string, error) {
	id, ok, err := settings.GetSetting(ctx, settingLocalPlayer)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		if _, err := progressService.GetPlayer(ctx, id); err == nil {
			return id, nil
		}
		log.Printf("Local player %s is gone, creating a new one", id)
	}

	player, err := progressService.CreatePlayer(ctx, name)
	if err != nil {
		return "", err
	}
	if err := settings.SetSetting(ctx, settingLocalPlayer, player.ID); err != nil {
		return "", err
	}
	log.Printf("Created local player %s (%s)", player.Name, player.ID)
	return player.ID, nil
}
