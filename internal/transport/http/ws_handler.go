package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"ladder-quiz/internal/app"
	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/security"
	"ladder-quiz/pkg/logger"
)

// DefaultTick is how often a connection polls its game timer.
const DefaultTick = 250 * time.Millisecond

// GameFactory builds a fresh controller for a new connection.
type GameFactory func(ctx context.Context) (*app.GameController, error)

type WSHandler struct {
	newGame  GameFactory
	registry app.GameRegistry
	tokens   *security.Tokens
	tick     time.Duration
	upgrader websocket.Upgrader
}

// NewWSHandler wires the game factory into websocket connections. tokens may
// be nil, in which case no player token is issued after setup.
func NewWSHandler(newGame GameFactory, registry app.GameRegistry, tokens *security.Tokens, tick time.Duration) *WSHandler {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &WSHandler{
		newGame:  newGame,
		registry: registry,
		tokens:   tokens,
		tick:     tick,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type setupPayload struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type answerPayload struct {
	Option int `json:"option"`
}

type lifelinePayload struct {
	Type string `json:"type"`
}

type topPayload struct {
	N int `json:"n"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

// connection serialises access to one game between the reader loop and the ticker.
type connection struct {
	mu   sync.Mutex
	game *app.GameController
	push func(typ string, payload any)
}

// ServeWS upgrades the request and runs one game for the lifetime of the socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err.Error())
		return
	}
	defer conn.Close()

	ctx := r.Context()
	g, err := h.newGame(ctx)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	gameID := uuid.New().String()
	if h.registry != nil {
		h.registry.Register(ctx, gameID, g)
		defer h.registry.Remove(context.Background(), gameID)
	}
	logger.Info("game connected", "game", gameID, "remote", r.RemoteAddr)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn("ws write failed", "game", gameID, "error", err.Error())
				return
			}
		}
	}()

	c := &connection{game: g}
	c.push = func(typ string, payload any) {
		select {
		case send <- outboundMessage[any]{Type: typ, Payload: payload}:
		case <-writerDone:
		}
	}

	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(h.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.mu.Lock()
				expired := c.game.Tick(ctx)
				var snap app.Snapshot
				if expired {
					snap = c.game.Snapshot()
				}
				c.mu.Unlock()
				if expired {
					c.push("state", snap)
				}
			case <-closeSignals:
				return
			}
		}
	}()

	c.mu.Lock()
	c.push("state", g.Snapshot())
	c.mu.Unlock()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if done := h.handle(ctx, c, inbound); done {
			break
		}
	}

	close(closeSignals)
	<-tickerDone

	c.mu.Lock()
	if st := g.State(); st == domain.StateQuestionDisplay || st == domain.StateAnswerProcessing {
		if err := g.Quit(context.Background()); err != nil {
			logger.Warn("record abandoned game", "game", gameID, "error", err.Error())
		} else {
			logger.Info("abandoned game recorded as quit", "game", gameID)
		}
	}
	c.mu.Unlock()
	close(send)
	<-writerDone
	logger.Info("game disconnected", "game", gameID)
}

// handle applies one inbound command and reports whether the client asked to exit.
func (h *WSHandler) handle(ctx context.Context, c *connection, msg inboundMessage) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	g := c.game
	var err error
	switch msg.Type {
	case "start":
		err = g.StartGame()
	case "leaderboardView":
		if err = g.ViewLeaderboard(); err == nil {
			c.push("leaderboard", g.LeaderboardTop(10))
		}
	case "exit":
		err = g.Exit()
	case "setup":
		var p setupPayload
		if err = decode(msg.Payload, &p); err == nil {
			if err = g.SubmitPlayerSetup(ctx, p.Name, p.Gender); err == nil {
				h.issueToken(c)
			}
		}
	case "answer":
		var p answerPayload
		if err = decode(msg.Payload, &p); err == nil {
			err = g.SubmitAnswer(ctx, p.Option)
		}
	case "lifeline":
		var p lifelinePayload
		if err = decode(msg.Payload, &p); err == nil {
			var t domain.LifelineType
			if t, err = domain.ParseLifeline(p.Type); err == nil {
				var out app.LifelineOutcome
				if out, err = g.InvokeLifeline(ctx, t); err == nil {
					c.push("lifeline", out)
				}
			}
		}
	case "advance":
		err = g.Advance(ctx)
	case "quit":
		err = g.Quit(ctx)
	case "top":
		var p topPayload
		if err = decode(msg.Payload, &p); err == nil {
			c.push("leaderboard", g.LeaderboardTop(p.N))
		}
		if err != nil {
			c.push("error", errorPayload{Message: err.Error()})
		}
		return false
	default:
		err = fmt.Errorf("unsupported message type %q", msg.Type)
	}

	if err != nil {
		c.push("error", errorPayload{Message: err.Error()})
		return false
	}
	c.push("state", g.Snapshot())
	return g.State() == domain.StateExit
}

func (h *WSHandler) issueToken(c *connection) {
	if h.tokens == nil {
		return
	}
	view, ok := c.game.Session()
	if !ok {
		return
	}
	token, err := h.tokens.Issue(view.Name, view.Gender)
	if err != nil {
		logger.Error("issue player token", "player", view.Name, "error", err.Error())
		return
	}
	c.push("token", tokenPayload{Token: token})
}

func decode(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
