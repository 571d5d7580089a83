// internal/httpserver/routes_game.go
//
// Game endpoints.
//   POST /game/new          create a session (random, daily or fixed answer)
//   GET  /game/{id}         snapshot
//   POST /game/{id}/letter  press one letter
//   POST /game/{id}/delete  delete the last letter
//   POST /game/{id}/submit  submit the active row; replies after the reveal
//   POST /game/{id}/key     raw key dispatch (Enter, Backspace, letters)
//
// Every /game/{id} route runs behind requireSession.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tilewords/internal/daily"
	"github.com/robalobadob/tilewords/internal/game"
	"github.com/robalobadob/tilewords/internal/store"
)

type newGameReq struct {
	Mode   string `json:"mode"`             // "random" (default) or "daily"
	Answer string `json:"answer,omitempty"` // fixed target, must be a known answer
}

type newGameRes struct {
	GameID    string        `json:"gameId"`
	Token     string        `json:"token"`
	Rows      int           `json:"rows"`
	Cols      int           `json:"cols"`
	StaggerMs int64         `json:"staggerMs"`
	FlipMs    int64         `json:"flipMs"`
	Daily     *daily.Puzzle `json:"daily,omitempty"`
}

type letterReq struct {
	Letter string `json:"letter"`
}

type keyReq struct {
	Key string `json:"key"`
}

// inputRes answers press/delete/key with whether anything changed and the
// resulting state.
type inputRes struct {
	Changed bool       `json:"changed"`
	State   game.State `json:"state"`
}

type submitRes struct {
	Word     string        `json:"word"`
	Verdicts game.Verdicts `json:"verdicts"`
	State    game.State    `json:"state"`
}

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/game/{id}", s.handleState)
		r.Post("/game/{id}/letter", s.handleLetter)
		r.Post("/game/{id}/delete", s.handleDelete)
		r.Post("/game/{id}/submit", s.handleSubmit)
		r.Post("/game/{id}/key", s.handleKey)
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}

	now := s.clock.Now()
	var (
		target string
		puzzle *daily.Puzzle
	)
	switch {
	case req.Answer != "":
		if !s.words.IsAnswer(req.Answer) {
			writeError(w, http.StatusBadRequest, "unknown_answer")
			return
		}
		target = req.Answer
	case req.Mode == "daily":
		p, word := s.words.Daily(now, s.game.DailySalt)
		target, puzzle = word, &p
	case req.Mode == "" || req.Mode == "random":
		target = s.words.PickTarget()
	default:
		writeError(w, http.StatusBadRequest, "bad_mode")
		return
	}

	ctrl, err := game.New(target, s.words,
		game.WithClock(s.clock),
		game.WithTiming(s.game.Timing),
		game.WithScoring(s.game.Scoring),
	)
	if err != nil {
		log.Error().Err(err).Msg("create game")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	sess := &store.Session{
		ID:         genID(),
		Controller: ctrl,
		Daily:      puzzle,
		Created:    now,
	}
	if s.cfg.SessionTTL > 0 {
		sess.Expires = now.Add(s.cfg.SessionTTL)
	}
	exp := sess.Expires
	if exp.IsZero() {
		exp = now.Add(365 * 24 * time.Hour)
	}
	token, err := s.signSessionToken(sess.ID, now, exp)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	s.watchOutcome(sess)

	mode := "random"
	switch {
	case req.Answer != "":
		mode = "fixed"
	case puzzle != nil:
		mode = "daily"
	}
	log.Info().Str("game", sess.ID).Str("mode", mode).Msg("new game")

	s.setSessionCookie(w, r, token, exp)
	t := ctrl.Timing()
	writeJSON(w, http.StatusCreated, newGameRes{
		GameID:    sess.ID,
		Token:     token,
		Rows:      game.MaxGuesses,
		Cols:      game.WordLength,
		StaggerMs: t.Stagger.Milliseconds(),
		FlipMs:    t.Flip.Milliseconds(),
		Daily:     puzzle,
	})
}

// watchOutcome logs the session result once it is decided.
func (s *Server) watchOutcome(sess *store.Session) {
	var cancel func()
	cancel = sess.Controller.Subscribe(func(ev game.Event) {
		if ev.Kind != game.EventStatus || !ev.Status.Over() {
			return
		}
		log.Info().
			Str("game", sess.ID).
			Str("status", string(ev.Status)).
			Int("attempts", ev.Row+1).
			Msg("game finished")
		cancel()
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentSession(r).Controller.Snapshot())
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req letterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ch, size := utf8.DecodeRuneInString(req.Letter)
	if size == 0 || size != len(req.Letter) {
		writeError(w, http.StatusBadRequest, "bad_letter")
		return
	}
	ctrl := currentSession(r).Controller
	changed := ctrl.PressLetter(ch)
	writeJSON(w, http.StatusOK, inputRes{Changed: changed, State: ctrl.Snapshot()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctrl := currentSession(r).Controller
	changed := ctrl.DeleteLetter()
	writeJSON(w, http.StatusOK, inputRes{Changed: changed, State: ctrl.Snapshot()})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctrl := currentSession(r).Controller
	rev, err := ctrl.SubmitGuess()
	if err != nil {
		writeGameError(w, err)
		return
	}
	if err := rev.Wait(r.Context()); err != nil {
		// The reveal carries on; the client can poll the snapshot.
		writeError(w, http.StatusGatewayTimeout, "reveal_pending")
		return
	}
	writeJSON(w, http.StatusOK, submitRes{
		Word:     rev.Word(),
		Verdicts: rev.Verdicts(),
		State:    ctrl.Snapshot(),
	})
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ctrl := currentSession(r).Controller
	before := ctrl.Snapshot()
	rev, err := ctrl.HandleKey(req.Key)
	if err != nil {
		writeGameError(w, err)
		return
	}
	if rev != nil {
		if err := rev.Wait(r.Context()); err != nil {
			writeError(w, http.StatusGatewayTimeout, "reveal_pending")
			return
		}
		writeJSON(w, http.StatusOK, submitRes{
			Word:     rev.Word(),
			Verdicts: rev.Verdicts(),
			State:    ctrl.Snapshot(),
		})
		return
	}
	after := ctrl.Snapshot()
	changed := after.Rows[after.Active].Word() != before.Rows[before.Active].Word()
	writeJSON(w, http.StatusOK, inputRes{Changed: changed, State: after})
}

// writeGameError maps controller errors onto status codes:
// validation failures are 422 with the player-facing message, phase
// conflicts are 409.
func writeGameError(w http.ResponseWriter, err error) {
	if msg, ok := game.MessageFor(err); ok {
		code := "invalid_guess"
		if errors.Is(err, game.ErrInvalidKey) {
			code = "invalid_key"
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorRes{Error: code, Message: &msg})
		return
	}
	switch {
	case errors.Is(err, game.ErrInputLocked):
		writeError(w, http.StatusConflict, "input_locked")
	case errors.Is(err, game.ErrSessionOver):
		writeError(w, http.StatusConflict, "game_over")
	default:
		log.Error().Err(err).Msg("game input")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
