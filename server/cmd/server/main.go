package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/automoto/superpong-mp/assets"
	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/server/core"
	"github.com/automoto/superpong-mp/server/game"
	"github.com/automoto/superpong-mp/shared/arenadata"
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/automoto/superpong-mp/shared/protocol"
)

func main() {
	envFile := flag.String("env", ".env", "Optional environment file")
	port := flag.Uint("port", 0, "necs websocket port (overrides SUPERPONG_PORT)")
	httpAddr := flag.String("http", "", "Browser websocket and health listen address (overrides SUPERPONG_HTTP_ADDR)")
	name := flag.String("name", "", "Server display name (overrides SUPERPONG_NAME)")
	arena := flag.String("arena", "", "TMX arena file (overrides SUPERPONG_ARENA)")
	control := flag.String("control", "", "Paddle control mode: direct or velocity (overrides SUPERPONG_CONTROL)")
	readyUp := flag.Bool("readyup", false, "Require both players to signal ready")
	flag.Parse()

	cfg, err := config.LoadServer(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *name != "" {
		cfg.Name = *name
	}
	if *arena != "" {
		cfg.Arena = *arena
	}
	if *control != "" {
		cfg.Control = *control
	}
	if *readyUp {
		cfg.ReadyUp = true
	}

	tuning, err := buildTuning(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	match := core.NewMatch(game.NewSession(tuning, nil), core.MatchInfo{
		ServerName: cfg.Name,
		TickRate:   int(time.Second / tuning.Match.TickInterval),
	})

	replica, err := core.NewReplica()
	if err != nil {
		log.Fatalf("Failed to set up replication: %v", err)
	}
	match.AddObserver(replica)
	go replica.Run(ctx)

	var sink *core.RedisSink
	if cfg.RedisURL != "" {
		sink, err = core.NewRedisSink(cfg.RedisURL, cfg.Name)
		if err != nil {
			log.Fatalf("Failed to set up redis fan-out: %v", err)
		}
		match.AddSink(sink)
		log.Printf("Publishing match events to %s", core.EventChannel(cfg.Name))
	}

	matchDone := make(chan struct{})
	go func() {
		defer close(matchDone)
		match.Run(ctx)
	}()

	gateway := core.NewNecsGateway(match)
	go func() {
		if err := gateway.Start(cfg.Port); err != nil {
			log.Printf("necs transport error: %v", err)
			stop()
		}
	}()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           core.NewBrowserRouter(match, cfg.StaticDir),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Browser clients on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	if cfg.MasterURL != "" {
		address := cfg.PublicAddr
		if address == "" {
			address = cfg.HTTPAddr
		}
		reg := core.NewRegistration(core.RegistrationInfo{
			MasterURL: cfg.MasterURL,
			Name:      cfg.Name,
			Address:   address,
			Version:   cfg.Version,
			Region:    cfg.Region,
			GameMode:  tuning.Match.GameMode,
		}, match)
		go reg.Run(ctx)
	}

	log.Printf("Starting Super Pong server %q (necs port %d, control %s, game mode %s)",
		cfg.Name, cfg.Port, tuning.Match.Control, tuning.Match.GameMode)

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	<-matchDone
	if sink != nil {
		if err := sink.Close(); err != nil {
			log.Printf("Redis close: %v", err)
		}
	}
}

// buildTuning loads the arena and applies the server settings to the default
// tuning.
func buildTuning(cfg config.ServerConfig) (config.Tuning, error) {
	tuning := config.Current()

	fsys, path := assets.Arenas(), assets.DefaultArena
	if cfg.Arena != "" {
		fsys, path = os.DirFS(filepath.Dir(cfg.Arena)), filepath.Base(cfg.Arena)
	}
	a, err := arenadata.Load(fsys, path)
	if err != nil {
		return tuning, err
	}
	a.Apply(&tuning)
	log.Printf("Loaded arena %q (%gx%g)", a.Name, a.Width, a.Height)

	mode, err := netconfig.ParseControlMode(cfg.Control)
	if err != nil {
		return tuning, err
	}
	tuning.Match.Control = mode
	tuning.Match.ReadyUp = cfg.ReadyUp
	tuning.Ball.RandomServe = cfg.RandServe
	return tuning, nil
}
