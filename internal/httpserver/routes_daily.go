package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/tilewords/internal/daily"
)

type dailyRes struct {
	Date   string `json:"date"`
	Number int    `json:"number"`
}

// mountDaily registers:
//   - GET /daily/today : the current daily puzzle (the word itself stays secret)
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily/today", func(w http.ResponseWriter, r *http.Request) {
		now := s.clock.Now()
		writeJSON(w, http.StatusOK, dailyRes{Date: daily.DateKey(now), Number: daily.Number(now)})
	})
}
