package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/catalog"
	"github.com/star/snwatch/internal/config"
	"github.com/star/snwatch/internal/report"
	"github.com/star/snwatch/internal/search"
	"github.com/star/snwatch/internal/selection"
	"github.com/star/snwatch/internal/visibility"
)

type handlers struct {
	pipeline    *search.Pipeline
	coordinator *search.Coordinator
	defaults    config.SearchConfig
	language    string
	now         func() time.Time
	logger      *zap.Logger
}

// writeJSON sends v with status. Encoding happens after the header is sent,
// so a failure (usually a client that went away) can only be logged.
func (h *handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("writing json response failed", zap.Int("status", status), zap.Error(err))
	}
}

func (h *handlers) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *handlers) writeBody(w http.ResponseWriter, body []byte) {
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("writing response body failed", zap.Error(err))
	}
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, selection.ErrInvalidCriteria):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNoSnapshot):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"service": "snwatch",
		"routes": []string{
			"GET /api/v1/sites",
			"GET /api/v1/windows",
			"POST /api/v1/search",
			"GET /api/v1/search",
			"GET /api/v1/candidates",
		},
	})
}

func (h *handlers) sites(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.pipeline.Profile().Sites)
}

type windowView struct {
	Name string `json:"name"`
	visibility.Bounds
}

func (h *handlers) windows(w http.ResponseWriter, r *http.Request) {
	p := h.pipeline.Profile()
	out := make([]windowView, 0, len(p.Windows))
	for _, name := range p.WindowNames() {
		out = append(out, windowView{Name: name, Bounds: p.Windows[name]})
	}
	h.writeJSON(w, http.StatusOK, out)
}

type triggerResponse struct {
	TaskID      string             `json:"task_id"`
	Disposition search.Disposition `json:"disposition"`
	State       search.State       `json:"state"`
}

// triggerSearch starts a background fetch-and-select. The JSON body, if
// any, overrides the configured defaults; ?refresh=true marks the trigger
// as a refresh that is dropped while a search runs.
func (h *handlers) triggerSearch(w http.ResponseWriter, r *http.Request) {
	req := search.DefaultRequest(h.defaults, h.now())
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, eris.Wrap(selection.ErrInvalidCriteria, "decoding request body: "+err.Error()))
		return
	}
	if _, err := req.Criteria(h.pipeline.Profile()); err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	kind := search.KindSearch
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		kind = search.KindRefresh
	}

	id, disp := h.coordinator.Trigger(req, kind)
	h.writeJSON(w, http.StatusAccepted, triggerResponse{
		TaskID:      id,
		Disposition: disp,
		State:       h.coordinator.Status().State,
	})
}

type resultView struct {
	TaskID     string                `json:"task_id"`
	Started    time.Time             `json:"started"`
	Finished   time.Time             `json:"finished"`
	Error      string                `json:"error,omitempty"`
	Source     string                `json:"source,omitempty"`
	FetchedAt  *time.Time            `json:"fetched_at,omitempty"`
	Count      int                   `json:"count"`
	Candidates []selection.Candidate `json:"candidates,omitempty"`
}

type statusResponse struct {
	State     search.State `json:"state"`
	TaskID    string       `json:"task_id,omitempty"`
	PendingID string       `json:"pending_id,omitempty"`
	Result    *resultView  `json:"result,omitempty"`
}

func newResultView(res *search.Result) *resultView {
	v := &resultView{TaskID: res.TaskID, Started: res.Started, Finished: res.Finished}
	if res.Err != nil {
		v.Error = res.Err.Error()
		return v
	}
	if out := res.Outcome; out != nil {
		if out.Snapshot != nil {
			v.Source = out.Snapshot.Source
			fetched := out.Snapshot.FetchedAt
			v.FetchedAt = &fetched
		}
		v.Count = len(out.Candidates)
		v.Candidates = out.Candidates
	}
	return v
}

func (h *handlers) searchStatus(w http.ResponseWriter, r *http.Request) {
	st := h.coordinator.Status()
	resp := statusResponse{State: st.State, TaskID: st.TaskID, PendingID: st.PendingID}
	if st.Last != nil {
		resp.Result = newResultView(st.Last)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// candidates re-filters the retained snapshot with criteria from the query
// string and renders it as json, text or pdf.
func (h *handlers) candidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := requestFromQuery(search.DefaultRequest(h.defaults, h.now()), q)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	format := q.Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "text" && format != "pdf" {
		h.writeError(w, http.StatusBadRequest, eris.Errorf("unknown format %q", format))
		return
	}

	out, err := h.pipeline.Refilter(req)
	if err != nil {
		h.writeError(w, statusFor(err), err)
		return
	}

	rep := report.Report{Criteria: out.Criteria, Candidates: out.Candidates, Language: h.language}
	if lang := q.Get("lang"); lang != "" {
		rep.Language = lang
	}

	switch format {
	case "json":
		h.writeJSON(w, http.StatusOK, out.Candidates)
	case "text":
		var buf bytes.Buffer
		if err := report.WriteText(&buf, rep); err != nil {
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		h.writeBody(w, buf.Bytes())
	case "pdf":
		var buf bytes.Buffer
		if err := report.WritePDF(&buf, rep); err != nil {
			h.logger.Error("rendering pdf failed", zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+rep.FileName("pdf")+`"`)
		h.writeBody(w, buf.Bytes())
	}
}

// requestFromQuery overlays query parameters onto req.
func requestFromQuery(req search.Request, q url.Values) (search.Request, error) {
	floats := map[string]*float64{
		"magnitude":    &req.Magnitude,
		"hours":        &req.Hours,
		"min_altitude": &req.MinAltitude,
	}
	for key, dst := range floats {
		if v := q.Get(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return req, eris.Wrapf(selection.ErrInvalidCriteria, "%s: %q is not a number", key, v)
			}
			*dst = f
		}
	}
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, eris.Wrapf(selection.ErrInvalidCriteria, "days: %q is not an integer", v)
		}
		req.Days = n
	}

	strs := map[string]*string{
		"date":   &req.ObservationDate,
		"time":   &req.ObservationTime,
		"site":   &req.Site,
		"window": &req.Window,
	}
	for key, dst := range strs {
		if q.Has(key) {
			*dst = q.Get(key)
		}
	}
	return req, nil
}
