package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nathanieltooley/pokeduel/duel"
)

const (
	MESSAGE_ROUND  = "round"
	MESSAGE_RESULT = "result"

	writeWait = 10 * time.Second
)

// StreamMessage is everything sent over /ws/battle. Every round is sent as a MESSAGE_ROUND,
// followed by a single MESSAGE_RESULT once the battle is over.
type StreamMessage struct {
	Type     string              `json:"type"`
	Round    *duel.RoundOutcome  `json:"round,omitempty"`
	Status   *[2]duel.SideStatus `json:"status,omitempty"`
	Result   *duel.BattleResult  `json:"result,omitempty"`
	BattleID string              `json:"battleId,omitempty"`
	Seed     int64               `json:"seed"`
	Error    string              `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) streamDelay(r *http.Request) (time.Duration, error) {
	rawDelay := r.URL.Query().Get("delay")
	if rawDelay == "" {
		return s.StreamDelay, nil
	}

	ms, err := strconv.Atoi(rawDelay)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%w: invalid delay %q", ErrBadRequest, rawDelay)
	}

	return min(time.Duration(ms)*time.Millisecond, MAX_STREAM_DELAY), nil
}

func (s *Server) streamSeed(r *http.Request) (int64, error) {
	rawSeed := r.URL.Query().Get("seed")
	if rawSeed == "" {
		return s.NewSeed(), nil
	}

	seed, err := strconv.ParseInt(rawSeed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid seed %q", ErrBadRequest, rawSeed)
	}

	return seed, nil
}

func (s *Server) streamBattle(w http.ResponseWriter, r *http.Request) {
	// everything that can be rejected gets rejected before the upgrade so the client sees a normal http error
	c1, c2, err := s.lookupPair(r.URL.Query().Get("a"), r.URL.Query().Get("b"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	delay, err := s.streamDelay(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	seed, err := s.streamSeed(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		requestLogger(r).Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := requestLogger(r).With().Int64("seed", seed).Str("a", c1.Name).Str("b", c2.Name).Logger()
	logger.Info().Msg("Streaming battle")

	battle := s.engine.NewBattle(c1, c2, duel.SeedFromInt(uint64(seed)))

	for outcome := range battle.Rounds() {
		status := battle.State().Status()
		if err := writeMessage(conn, StreamMessage{Type: MESSAGE_ROUND, Round: &outcome, Status: &status, Seed: seed}); err != nil {
			logger.Warn().Err(err).Msg("client went away mid battle")
			return
		}

		if battle.Done() || delay == 0 {
			continue
		}

		select {
		case <-r.Context().Done():
			logger.Info().Msg("Battle stream cancelled")
			return
		case <-time.After(delay):
		}
	}

	result, _ := battle.Result()

	final := StreamMessage{Type: MESSAGE_RESULT, Result: &result, Seed: seed}
	record, err := s.save(r, c1, c2, result, seed)
	if err != nil {
		logger.Err(err).Msg("couldn't save streamed battle")
		final.Error = "battle could not be saved"
	} else {
		final.BattleID = record.ID.String()
	}

	if err := writeMessage(conn, final); err != nil {
		logger.Warn().Err(err).Msg("couldn't send result")
		return
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "battle over"))
}

func writeMessage(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
