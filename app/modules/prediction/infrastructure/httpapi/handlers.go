package predictionhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Black-And-White-Club/matchday-bot/app/observability"
	predictionservice "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/application"
	predictiondomain "github.com/Black-And-White-Club/matchday-bot/app/modules/prediction/domain"
	"github.com/go-chi/chi/v5"
)

// Handlers serves the participant and admin HTTP routes.
type Handlers struct {
	service predictionservice.Service
	logger  *slog.Logger
}

func NewHandlers(service predictionservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

type submitPredictionBody struct {
	Home      *json.Number          `json:"home"`
	Away      *json.Number          `json:"away"`
	Qualifier predictiondomain.Side `json:"qualifier,omitempty"`
}

type errorBody struct {
	Error    string     `json:"error"`
	LockTime *time.Time `json:"lock_time,omitempty"`
}

// HandleSubmitPrediction creates or replaces the caller's prediction.
func (h *Handlers) HandleSubmitPrediction(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFrom(r.Context())

	var body submitPredictionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Home == nil || body.Away == nil {
		writeError(w, http.StatusBadRequest, "home and away are required")
		return
	}
	home, err := goals(*body.Home)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	away, err := goals(*body.Away)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	view, err := h.service.SubmitPrediction(r.Context(), predictionservice.SubmitPredictionRequest{
		TournamentID:  tournamentParam(r),
		MatchID:       predictiondomain.MatchID(chi.URLParam(r, "matchID")),
		ParticipantID: caller.ParticipantID,
		Home:          home,
		Away:          away,
		Qualifier:     body.Qualifier,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// goals converts a JSON number to a predicted goal count. Fractions and
// exponents are invalid scores, not malformed bodies.
func goals(n json.Number) (int, error) {
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a whole number", predictiondomain.ErrInvalidScore, n)
	}
	return v, nil
}

// HandleGetPrediction returns the prediction that counts for the caller.
func (h *Handlers) HandleGetPrediction(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFrom(r.Context())

	view, err := h.service.GetPrediction(r.Context(), tournamentParam(r), predictiondomain.MatchID(chi.URLParam(r, "matchID")), caller.ParticipantID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleGetAggregate returns the caller's result for a matchday.
func (h *Handlers) HandleGetAggregate(w http.ResponseWriter, r *http.Request) {
	caller, _ := CallerFrom(r.Context())
	matchday, ok := matchdayParam(w, r)
	if !ok {
		return
	}

	agg, err := h.service.GetMatchdayAggregate(r.Context(), tournamentParam(r), matchday, caller.ParticipantID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg)
}

func (h *Handlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	matchday, ok := matchdayParam(w, r)
	if !ok {
		return
	}

	standings, err := h.service.GetMatchdayStandings(r.Context(), tournamentParam(r), matchday)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

func (h *Handlers) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.service.GetTournamentRankings(r.Context(), tournamentParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rankings)
}

func (h *Handlers) HandleExportStandings(w http.ResponseWriter, r *http.Request) {
	matchday, ok := matchdayParam(w, r)
	if !ok {
		return
	}

	export, err := h.service.ExportMatchdayStandings(r.Context(), tournamentParam(r), matchday)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeExport(w, export, true)
}

func (h *Handlers) HandleParticipantChart(w http.ResponseWriter, r *http.Request) {
	participant := predictiondomain.ParticipantID(chi.URLParam(r, "participantID"))

	export, err := h.service.RenderParticipantChart(r.Context(), tournamentParam(r), participant)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeExport(w, export, false)
}

// HandleApplyDefaults persists default predictions for a matchday.
func (h *Handlers) HandleApplyDefaults(w http.ResponseWriter, r *http.Request) {
	matchday, ok := matchdayParam(w, r)
	if !ok {
		return
	}

	inserted, err := h.service.ApplyDefaultPredictions(r.Context(), tournamentParam(r), matchday)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

// HandleDesignateBonusMatch picks the matchday's bonus match.
func (h *Handlers) HandleDesignateBonusMatch(w http.ResponseWriter, r *http.Request) {
	matchday, ok := matchdayParam(w, r)
	if !ok {
		return
	}

	d, err := h.service.DesignateBonusMatch(r.Context(), tournamentParam(r), matchday)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tournament_id": d.TournamentID,
		"matchday":      d.Matchday,
		"match_id":      d.MatchID,
	})
}

// statusFor maps service errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, predictiondomain.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, predictiondomain.ErrInvalidScore),
		errors.Is(err, predictionservice.ErrInvalidQualifier):
		return http.StatusUnprocessableEntity
	case errors.Is(err, predictionservice.ErrMatchNotFound),
		errors.Is(err, predictionservice.ErrPredictionNotFound):
		return http.StatusNotFound
	case errors.Is(err, predictionservice.ErrBonusMatchDisabled),
		errors.Is(err, predictiondomain.ErrNoBonusCandidates):
		return http.StatusConflict
	case errors.Is(err, predictionservice.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("path", r.URL.Path),
			observability.CorrelationAttr(r.Context()),
			slog.Any("error", err),
		)
		writeError(w, status, http.StatusText(status))
		return
	}

	body := errorBody{Error: rootMessage(err)}
	var locked *predictiondomain.LockedError
	if errors.As(err, &locked) {
		lt := locked.LockTime.UTC()
		body.LockTime = &lt
	}
	writeJSON(w, status, body)
}

// rootMessage strips operation prefixes so clients see the sentinel text.
func rootMessage(err error) string {
	for _, target := range []error{
		predictiondomain.ErrLocked,
		predictiondomain.ErrInvalidScore,
		predictionservice.ErrInvalidQualifier,
		predictionservice.ErrMatchNotFound,
		predictionservice.ErrPredictionNotFound,
		predictionservice.ErrBonusMatchDisabled,
		predictiondomain.ErrNoBonusCandidates,
		predictionservice.ErrExportUnavailable,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func tournamentParam(r *http.Request) predictiondomain.TournamentID {
	return predictiondomain.TournamentID(chi.URLParam(r, "tournamentID"))
}

func matchdayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	md, err := strconv.Atoi(chi.URLParam(r, "matchday"))
	if err != nil || md < 1 {
		writeError(w, http.StatusBadRequest, "invalid matchday")
		return 0, false
	}
	return md, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeExport(w http.ResponseWriter, export *predictionservice.Export, attachment bool) {
	w.Header().Set("Content-Type", export.ContentType)
	if attachment {
		w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Body)
}
