package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"comida/internal/core"
	"comida/internal/log"
)

type weekSummary struct {
	Index int `json:"index"`
	core.WeekDescriptor
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type weeksResponse struct {
	CurrentWeek  int           `json:"currentWeek"`
	SelectedWeek int           `json:"selectedWeek"`
	Weeks        []weekSummary `json:"weeks"`
}

type weekResponse struct {
	Index    int                 `json:"index"`
	Week     core.WeekDescriptor `json:"week"`
	Label    string              `json:"label"`
	Selected bool                `json:"selected"`
	Record   core.WeekRecord     `json:"record"`
}

type recordResponse struct {
	Index  int             `json:"index"`
	Record core.WeekRecord `json:"record"`
}

type selectedWeekResponse struct {
	SelectedWeek int `json:"selectedWeek"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			ServiceUnavailableError("storage not ready").Write(w)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleListWeeks(w http.ResponseWriter, r *http.Request) {
	table := s.weeks.Table(s.now())
	selected := s.session.SelectedWeek()

	resp := weeksResponse{
		CurrentWeek:  table.CurrentWeek,
		SelectedWeek: selected,
		Weeks:        make([]weekSummary, 0, core.WeeksPerYear),
	}
	for i, week := range table.Weeks {
		resp.Weeks = append(resp.Weeks, weekSummary{
			Index:          i,
			WeekDescriptor: week,
			Label:          week.Label(),
			Selected:       i == selected,
		})
	}
	NewJSONResponse().Data(resp).Write(w)
}

func (s *Server) handleGetWeek(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCellParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	_, record, err := s.session.Week(params.Week)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// The descriptor comes from the day-cached table so a long-running
	// server moves its current flag at midnight.
	week := s.weeks.Table(s.now()).Weeks[params.Week]
	NewJSONResponse().Data(weekResponse{
		Index:    params.Week,
		Week:     week,
		Label:    week.Label(),
		Selected: params.Week == s.session.SelectedWeek(),
		Record:   record,
	}).Write(w)
}

func (s *Server) handleSelectWeek(w http.ResponseWriter, r *http.Request) {
	var req selectWeekRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Index == nil {
		BadRequestError(`missing "index"`).Write(w)
		return
	}
	if err := s.session.SelectWeek(r.Context(), *req.Index); err != nil {
		s.writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(selectedWeekResponse{SelectedWeek: *req.Index}).Write(w)
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCellParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req mealTextRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Text == nil {
		BadRequestError(`missing "text"`).Write(w)
		return
	}
	record, err := s.session.UpdateMealText(r.Context(), params.Week, params.Day, params.Meal, *req.Text)
	s.writeRecord(w, r, params.Week, record, err)
}

func (s *Server) handleToggleMeal(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCellParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.session.ToggleMealOutOfPlace(r.Context(), params.Week, params.Day, params.Meal)
	s.writeRecord(w, r, params.Week, record, err)
}

func (s *Server) handleToggleGym(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCellParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.session.ToggleGym(r.Context(), params.Week, params.Day)
	s.writeRecord(w, r, params.Week, record, err)
}

func (s *Server) handleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	params, err := ParseCellParams(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req weightRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Weight == nil {
		BadRequestError(`missing "weight"`).Write(w)
		return
	}
	record, err := s.session.UpdateWeight(r.Context(), params.Week, *req.Weight)
	s.writeRecord(w, r, params.Week, record, err)
}

func (s *Server) writeRecord(w http.ResponseWriter, r *http.Request, week int, record core.WeekRecord, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	NewJSONResponse().Data(recordResponse{Index: week, Record: record}).Write(w)
}

// writeError maps client mistakes to 400 and everything else to 500.
// Internal error details are logged, not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrIndexOutOfRange), errors.Is(err, errBadRequest):
		BadRequestError(err.Error()).Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldMethod, r.Method, log.FieldPath, r.URL.Path, log.FieldError, err)
		InternalServerError("saving tracker data failed").Write(w)
	}
}
