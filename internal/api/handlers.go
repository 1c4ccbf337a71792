package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nandobmont/ano-safra/calendar"
	"github.com/nandobmont/ano-safra/internal/config"
	"github.com/nandobmont/ano-safra/internal/database"
	"github.com/nandobmont/ano-safra/internal/logger"
)

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db     *database.DB
	calc   *calendar.Calculator
	cfg    *config.Config
	logger *slog.Logger
	loc    *time.Location
}

// NewHandlers creates a new Handlers instance. Dates in requests are
// interpreted in the host's local time zone.
func NewHandlers(db *database.DB, calc *calendar.Calculator, cfg *config.Config, log *slog.Logger) *Handlers {
	if calc == nil {
		calc = calendar.NewCalculator()
	}
	return &Handlers{
		db:     db,
		calc:   calc,
		cfg:    cfg,
		logger: log,
		loc:    time.Local,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		h.log(r).Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

type intervalResponse struct {
	From string `json:"de"`
	To   string `json:"ate"`
}

type semestersResponse struct {
	Date      string                      `json:"date"`
	Current   calendar.Half               `json:"current"`
	Semesters map[string]intervalResponse `json:"semesters"`
}

// GetSemesters handles GET /api/v1/semesters?date=YYYY-MM-DD
func (h *Handlers) GetSemesters(w http.ResponseWriter, r *http.Request) {
	date, ok := h.queryDate(w, r)
	if !ok {
		return
	}

	pair := h.calc.Semesters(date)
	resp := semestersResponse{
		Date:      calendar.FormatDate(date),
		Current:   h.calc.CurrentHalf(date),
		Semesters: make(map[string]intervalResponse, len(calendar.Halves)),
	}
	for _, half := range calendar.Halves {
		iv, _ := pair.Interval(half)
		resp.Semesters[strconv.Itoa(int(half))] = intervalResponse{
			From: calendar.FormatDate(iv.From),
			To:   calendar.FormatDate(iv.To),
		}
	}
	WriteSuccess(w, resp)
}

// GetHarvestYear handles GET /api/v1/harvest-year?date=YYYY-MM-DD&separator=/
//
// An absent separator parameter falls back to the configured one; an
// explicitly empty one is honoured.
func (h *Handlers) GetHarvestYear(w http.ResponseWriter, r *http.Request) {
	date, ok := h.queryDate(w, r)
	if !ok {
		return
	}

	separator := h.cfg.Separator
	if values, present := r.URL.Query()["separator"]; present {
		separator = values[0]
	}

	WriteSuccess(w, h.calc.HarvestYearWithSeparator(date, separator))
}

// GetHarvestYearStatus handles GET /api/v1/harvest-year/status?date=YYYY-MM-DD
func (h *Handlers) GetHarvestYearStatus(w http.ResponseWriter, r *http.Request) {
	date, ok := h.queryDate(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, h.calc.Status(date))
}

// ListHarvestYears handles GET /api/v1/harvest-years
func (h *Handlers) ListHarvestYears(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.db.SummarizeHarvestYears(r.Context())
	if err != nil {
		h.log(r).Error("failed to summarize harvest years", slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve harvest years")
		return
	}

	if summaries == nil {
		summaries = []database.HarvestSummary{}
	}
	WriteSuccess(w, summaries)
}

// GetHarvestYearDays handles GET /api/v1/harvest-years/{harvest}/days
//
// {harvest} is either the four-digit year the harvest starts in ("2023")
// or a label with a separator ("23-24", escaped "23%2F24"). Labels repeat
// every century, so a label matching stored days from more than one
// harvest is answered with 409 and the candidate start years.
func (h *Handlers) GetHarvestYearDays(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "harvest")
	harvest, err := url.PathUnescape(raw)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid harvest-year: %s", raw))
		return
	}

	var days []database.CalendarDay
	if spanStart, ok := parseStartYear(harvest); ok {
		days, err = h.db.ListDaysByHarvest(r.Context(), spanStart)
	} else {
		start, end, perr := ParseSpan(harvest)
		if perr != nil {
			WriteBadRequest(w, perr.Error())
			return
		}
		days, err = h.db.ListDaysBySpan(r.Context(), start, end)
	}
	if err != nil {
		h.log(r).Error("failed to list harvest days",
			slog.String("harvest", harvest),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve harvest days")
		return
	}

	if len(days) == 0 {
		WriteNotFound(w, fmt.Sprintf("No stored days for harvest-year %s", harvest))
		return
	}

	if starts := spanStarts(days); len(starts) > 1 {
		WriteConflict(w, fmt.Sprintf("Harvest-year %s is ambiguous, request one of: %s",
			harvest, strings.Join(starts, ", ")))
		return
	}

	WriteSuccess(w, map[string]any{
		"anoInicio": days[0].SpanStart,
		"inicio":    days[0].StartYear,
		"fim":       days[0].EndYear,
		"days":      days,
	})
}

// GetDay handles GET /api/v1/days/{date}
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	dateStr := chi.URLParam(r, "date")
	if _, err := calendar.ParseDate(dateStr, h.loc); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return
	}

	day, err := h.db.GetDay(r.Context(), dateStr)
	if err != nil {
		if database.IsNotFound(err) {
			WriteNotFound(w, fmt.Sprintf("Day %s has not been seeded", dateStr))
			return
		}
		h.log(r).Error("failed to get day",
			slog.String("date", dateStr),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to retrieve day")
		return
	}

	WriteSuccess(w, day)
}

type seedRequest struct {
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Separator *string `json:"separator,omitempty"`
}

// SeedDays handles POST /api/v1/days/seed
func (h *Handlers) SeedDays(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if req.Start == "" || req.End == "" {
		WriteBadRequest(w, "Both start and end are required")
		return
	}

	start, err := calendar.ParseDate(req.Start, h.loc)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid start date format: %s. Use YYYY-MM-DD", req.Start))
		return
	}
	end, err := calendar.ParseDate(req.End, h.loc)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid end date format: %s. Use YYYY-MM-DD", req.End))
		return
	}

	separator := h.cfg.Separator
	if req.Separator != nil {
		separator = *req.Separator
	}

	n, err := h.db.SeedRange(r.Context(), start, end, separator, h.cfg.MaxRangeDays)
	if err != nil {
		if errors.Is(err, database.ErrInvalidRange) {
			WriteBadRequest(w, err.Error())
			return
		}
		h.log(r).Error("failed to seed days",
			slog.String("start", req.Start),
			slog.String("end", req.End),
			slog.Any("error", err))
		WriteInternalError(w, "Failed to seed days")
		return
	}

	WriteSuccess(w, map[string]any{
		"start": req.Start,
		"end":   req.End,
		"days":  n,
	})
}

// queryDate reads the optional date query parameter. An absent parameter
// yields the calculator's current time so the echoed date is concrete.
// On a parse failure a 400 is written and ok is false.
func (h *Handlers) queryDate(w http.ResponseWriter, r *http.Request) (date time.Time, ok bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return h.calc.Now(), true
	}

	date, err := calendar.ParseDate(dateStr, h.loc)
	if err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid date format: %s. Use YYYY-MM-DD", dateStr))
		return time.Time{}, false
	}
	return date, true
}

func (h *Handlers) log(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context(), h.logger)
}

// ParseSpan splits a harvest-year label into its two-digit start and end
// tokens. Any separator, including none, is accepted between them; the
// days route reads four bare digits as a start year before calling it.
func ParseSpan(label string) (start, end string, err error) {
	if len(label) < 4 {
		return "", "", fmt.Errorf("invalid harvest-year label %q: want YY<sep>YY", label)
	}

	start, end = label[:2], label[len(label)-2:]
	if !isTwoDigits(start) || !isTwoDigits(end) {
		return "", "", fmt.Errorf("invalid harvest-year label %q: want YY<sep>YY", label)
	}
	return start, end, nil
}

// parseStartYear accepts exactly four digits.
func parseStartYear(s string) (int, bool) {
	if len(s) != 4 || !isTwoDigits(s[:2]) || !isTwoDigits(s[2:]) {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	return year, err == nil
}

// spanStarts lists the distinct start years of days, which arrive in date order.
func spanStarts(days []database.CalendarDay) []string {
	var starts []string
	seen := make(map[int]bool)
	for _, d := range days {
		if !seen[d.SpanStart] {
			seen[d.SpanStart] = true
			starts = append(starts, strconv.Itoa(d.SpanStart))
		}
	}
	return starts
}

func isTwoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// decodeJSON decodes a JSON request body, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return fmt.Errorf("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
