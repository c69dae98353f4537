package network

import (
	"context"
	"math/rand/v2"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/server/core"
	"github.com/automoto/superpong-mp/server/game"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

func serve(t *testing.T) string {
	t.Helper()
	cfg := config.Default()
	cfg.Match.TickInterval = 5 * time.Millisecond
	m := core.NewMatch(game.NewSession(cfg, rand.New(rand.NewPCG(1, 2))), core.MatchInfo{ServerName: "local"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	srv := httptest.NewServer(core.NewBrowserRouter(m, ""))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func TestWSClientJoinsAndPlays(t *testing.T) {
	url := serve(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	first, err := DialWS(ctx, url)
	require.NoError(t, err)
	defer first.Close()
	assert.Equal(t, 1, first.Welcome().Slot)
	assert.Equal(t, "local", first.Welcome().ServerName)

	second, err := DialWS(ctx, url)
	require.NoError(t, err)
	defer second.Close()
	assert.Equal(t, 2, second.Welcome().Slot)

	select {
	case state := <-second.States():
		assert.Equal(t, 750.0, state.Paddle2.X)
	case <-ctx.Done():
		t.Fatal("no snapshot")
	}

	y := 200.0
	require.NoError(t, first.SendMessage(messages.MovePaddle{Player: 1, Y: &y}))

	require.Eventually(t, func() bool {
		for _, evt := range second.DrainEvents() {
			if moved, ok := evt.(messages.PaddleMoved); ok && moved.Y != nil && *moved.Y == 200 {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWSClientDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := DialWS(ctx, "ws://127.0.0.1:1/ws")
	assert.Error(t, err)
}

func TestClientSendWithoutConnection(t *testing.T) {
	c := NewClient()
	assert.ErrorIs(t, c.SendMessage(messages.ResetGame{}), ErrNotConnected)
	assert.Equal(t, StateDisconnected, c.State())
	_, joined := c.Welcome()
	assert.False(t, joined)
	assert.Nil(t, c.LatestSnapshot())

	c.pushEvent(messages.GameStarted{})
	c.pushEvent(messages.CountdownUpdate{Countdown: 1})
	assert.Equal(t, []any{messages.GameStarted{}, messages.CountdownUpdate{Countdown: 1}}, c.DrainEvents())
}
