package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/superpong-mp/bot"
	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/network"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/protocol"
)

func main() {
	server := flag.String("server", "ws://localhost:8080/ws", "Browser websocket endpoint to play on")
	difficulty := flag.String("difficulty", "normal", "Bot difficulty: easy, normal or hard")
	rematch := flag.Bool("rematch", false, "Request a new match when one finishes")
	watch := flag.String("watch", "", "Follow a server's necs port (host:port) and log match events instead of playing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *watch != "" {
		runWatcher(ctx, *watch)
		return
	}
	if err := runBot(ctx, *server, config.ParseBotDifficulty(*difficulty), *rematch); err != nil {
		log.Fatalf("[bot] %v", err)
	}
}

func runBot(ctx context.Context, url string, difficulty config.BotDifficulty, rematch bool) error {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := network.DialWS(dialCtx, url)
	cancel()
	if err != nil {
		return err
	}
	defer client.Close()

	welcome := client.Welcome()
	if welcome.Slot == 0 {
		log.Printf("[bot] %s is full, watching as observer", welcome.ServerName)
	} else {
		log.Printf("[bot] playing as player %d on %s (%s control)", welcome.Slot, welcome.ServerName, welcome.ControlMode)
		if err := client.SendMessage(messages.PlayerReady{Player: welcome.Slot}); err != nil {
			return err
		}
	}

	brain := bot.NewBrain(config.Bot.Difficulties[difficulty], config.Field, welcome.Slot, nil)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done():
			return client.Err()
		case state := <-client.States():
			if move, ok := brain.Decide(state, time.Now()); ok {
				if err := client.SendMessage(move); err != nil {
					return err
				}
			}
			for _, evt := range client.DrainEvents() {
				logEvent("[bot]", evt)
				if _, done := evt.(messages.MatchFinished); done && rematch && welcome.Slot != 0 {
					if err := client.SendMessage(messages.ResetGame{}); err != nil {
						return err
					}
				}
			}
		}
	}
}

func runWatcher(ctx context.Context, address string) {
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	client := network.NewClient()
	client.Connect(address)
	defer client.Disconnect()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	snapshots := 0
	for {
		select {
		case <-ctx.Done():
			log.Printf("[watch] stopped after %d snapshots", snapshots)
			return
		case <-ticker.C:
			if client.State() == network.StateError {
				log.Fatalf("[watch] %v", client.LastError())
			}
			if client.LatestSnapshot() != nil {
				snapshots++
			}
			for _, evt := range client.DrainEvents() {
				logEvent("[watch]", evt)
			}
		}
	}
}

func logEvent(prefix string, evt any) {
	switch e := evt.(type) {
	case messages.CountdownUpdate:
		log.Printf("%s countdown %d", prefix, e.Countdown)
	case messages.GameStarted:
		log.Printf("%s round started", prefix)
	case messages.RoundReset:
		log.Printf("%s player %d scored (%d-%d)", prefix, e.Scorer, e.Score.Player1, e.Score.Player2)
	case messages.MatchFinished:
		log.Printf("%s player %d wins %d-%d", prefix, e.Winner, e.Score.Player1, e.Score.Player2)
	}
}
