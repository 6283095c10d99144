package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/daystream/internal/calendar"
	"github.com/sandeepkv93/daystream/internal/export"
	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/tasks"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type seriesRequest struct {
	Drafts []model.Draft `json:"drafts,omitempty"`
	Base   *model.Draft  `json:"base,omitempty"`
	Start  model.Date    `json:"start"`
	End    model.Date    `json:"end"`
	Rule   *ruleRequest  `json:"rule,omitempty"`
}

type ruleRequest struct {
	Type     model.RecurrenceType `json:"type"`
	Weekdays []string             `json:"weekdays,omitempty"`
}

func (r ruleRequest) rule() (model.RecurrenceRule, error) {
	if !r.Type.IsValid() {
		return model.RecurrenceRule{}, fmt.Errorf("%w: %q", model.ErrInvalidRecurrenceType, r.Type)
	}
	out := model.RecurrenceRule{Type: r.Type}
	if r.Type == model.RecurrenceCustom {
		days, err := model.ParseWeekdays(strings.Join(r.Weekdays, ","))
		if err != nil {
			return model.RecurrenceRule{}, err
		}
		out.Weekdays = days
	}
	return out, nil
}

type planRequest struct {
	Input string     `json:"input"`
	Date  model.Date `json:"date"`
}

type cellResponse struct {
	Date     model.Date           `json:"date"`
	IsToday  bool                 `json:"isToday"`
	Tasks    []model.Task         `json:"tasks"`
	Progress calendar.DayProgress `json:"progress"`
}

type calendarResponse struct {
	View    calendar.ViewMode `json:"view"`
	Date    model.Date        `json:"date"`
	Label   string            `json:"label"`
	Leading int               `json:"leading,omitempty"`
	Cells   []cellResponse    `json:"cells"`
}

func (s *Server) logEntry(r *http.Request, handler string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"component":  "api",
		"handler":    handler,
		"request_id": GetRequestID(r.Context()),
	})
}

func (s *Server) today() model.Date {
	return model.Today(s.now())
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("date") == "" && q.Get("view") == "" {
		writeJSON(w, http.StatusOK, s.tasks.Tasks())
		return
	}
	date, mode, err := s.viewParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var out []model.Task
	switch mode {
	case calendar.ViewDay:
		out = calendar.DayView(s.tasks.Tasks(), date, s.today()).Tasks
	case calendar.ViewWeek:
		out = make([]model.Task, 0)
		for _, c := range calendar.WeekView(s.tasks.Tasks(), date, s.today()) {
			out = append(out, c.Tasks...)
		}
	default:
		out = make([]model.Task, 0)
		for _, c := range calendar.MonthOf(s.tasks.Tasks(), date, s.today()).Cells {
			out = append(out, c.Tasks...)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.PathValue("id"))
	if err != nil {
		s.writeControllerError(w, r, "get_task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if !decodeBody(w, r, &d) {
		return
	}
	t, err := s.tasks.CreateSingle(d)
	if err != nil {
		s.writeControllerError(w, r, "create_task", err)
		return
	}
	s.logEntry(r, "create_task").WithField("task_id", t.ID).Info("task created")
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) createSeries(w http.ResponseWriter, r *http.Request) {
	var req seriesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var (
		created []model.Task
		err     error
	)
	switch {
	case req.Base != nil:
		if req.Rule == nil {
			writeError(w, http.StatusBadRequest, "rule is required with base")
			return
		}
		if req.Start.IsZero() || req.End.IsZero() {
			writeError(w, http.StatusBadRequest, "start and end are required with base")
			return
		}
		rule, rerr := req.Rule.rule()
		if rerr != nil {
			writeError(w, http.StatusBadRequest, rerr.Error())
			return
		}
		created, err = s.tasks.CreateRecurring(*req.Base, req.Start, req.End, rule)
	default:
		created, err = s.tasks.CreateSeries(req.Drafts)
	}
	if err != nil {
		s.writeControllerError(w, r, "create_series", err)
		return
	}
	if created == nil {
		created = []model.Task{}
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tasks.SeriesMembers(r.PathValue("id")))
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var p model.Patch
	if !decodeBody(w, r, &p) {
		return
	}
	t, err := s.tasks.Update(r.PathValue("id"), p)
	if err != nil {
		s.writeControllerError(w, r, "update_task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.PathValue("id")); err != nil {
		s.writeControllerError(w, r, "delete_task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.ToggleComplete(r.PathValue("id"))
	if err != nil {
		s.writeControllerError(w, r, "toggle_task", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date.IsZero() {
		req.Date = s.today()
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.planTimeout)
	defer cancel()

	created, err := s.tasks.Plan(ctx, s.planner, req.Input, req.Date)
	if err != nil {
		s.metrics.observePlan(planOutcome(err))
		s.writeControllerError(w, r, "plan", err)
		return
	}
	s.metrics.observePlan("ok")
	s.logEntry(r, "plan").WithFields(logrus.Fields{
		"date":  req.Date.String(),
		"tasks": len(created),
	}).Info("plan imported")
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) calendarView(w http.ResponseWriter, r *http.Request) {
	date, mode, err := s.viewParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	all := s.tasks.Tasks()
	today := s.today()
	resp := calendarResponse{View: mode, Date: date, Label: calendar.HeaderLabel(date, mode)}
	switch mode {
	case calendar.ViewDay:
		resp.Cells = []cellResponse{toCell(calendar.DayView(all, date, today))}
	case calendar.ViewWeek:
		for _, c := range calendar.WeekView(all, date, today) {
			resp.Cells = append(resp.Cells, toCell(c))
		}
	default:
		mv := calendar.MonthOf(all, date, today)
		resp.Leading = mv.Leading
		for _, c := range mv.Cells {
			resp.Cells = append(resp.Cells, toCell(c))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) exportICS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="daystream.ics"`)
	if err := export.WriteICS(w, s.tasks.Tasks(), s.now()); err != nil {
		s.logEntry(r, "export").WithError(err).Error("write calendar")
	}
}

// viewParams reads ?date= and ?view=, defaulting to today and the day view.
func (s *Server) viewParams(r *http.Request) (model.Date, calendar.ViewMode, error) {
	q := r.URL.Query()
	date := s.today()
	if raw := q.Get("date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			return model.Date{}, "", err
		}
		date = d
	}
	mode := calendar.ViewDay
	if raw := q.Get("view"); raw != "" {
		m, err := calendar.ParseViewMode(raw)
		if err != nil {
			return model.Date{}, "", err
		}
		mode = m
	}
	return date, mode, nil
}

func (s *Server) writeControllerError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	status := statusFor(err)
	entry := s.logEntry(r, handler).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tasks.ErrInvalidTask):
		return http.StatusBadRequest
	case errors.Is(err, tasks.ErrPlannerBusy):
		return http.StatusConflict
	case errors.Is(err, tasks.ErrPlannerFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func planOutcome(err error) string {
	switch {
	case errors.Is(err, tasks.ErrPlannerBusy):
		return "busy"
	case errors.Is(err, tasks.ErrInvalidTask):
		return "invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "failed"
	}
}

func toCell(c calendar.Cell) cellResponse {
	return cellResponse{
		Date:     c.Date,
		IsToday:  c.IsToday,
		Tasks:    c.Tasks,
		Progress: calendar.Progress(c.Tasks),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
