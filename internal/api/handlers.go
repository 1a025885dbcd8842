// ABOUTME: HTTP handlers for qibla, alignment, prayer times and alarms
// ABOUTME: Query coordinates override the saved location when both are given

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/harper/salah/internal/compass"
	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/qibla"
	"github.com/harper/salah/internal/storage"
	"github.com/julienschmidt/httprouter"
)

var errNoLocation = errors.New("no location set")

// QiblaResponse is the body of GET /v1/qibla.
type QiblaResponse struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Bearing    float64 `json:"bearing"`
	Cardinal   string  `json:"cardinal"`
	DistanceKm float64 `json:"distance_km"`
}

// AlignmentResponse is the body of GET /v1/alignment. Each request is
// evaluated on its own, so there is no just-aligned transition to report.
type AlignmentResponse struct {
	Bearing      float64  `json:"bearing"`
	Heading      *float64 `json:"heading"`
	AngularError float64  `json:"angular_error"`
	Rotation     float64  `json:"rotation"`
	Aligned      bool     `json:"aligned"`
}

// TimesResponse is the body of GET /v1/times.
type TimesResponse struct {
	Location models.Location   `json:"location"`
	Day      models.DayTimings `json:"day"`
}

// NextResponse is the body of GET /v1/next.
type NextResponse struct {
	models.NextPrayerInfo
	MinutesRemaining int `json:"minutes_remaining"`
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.sendJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"read_only": a.repo.IsReadOnly(),
	})
}

// parseFloatParam reads an optional float query parameter.
func parseFloatParam(r *http.Request, name string, fieldErrors map[string][]string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], fmt.Sprintf("invalid number %q", raw))
		return nil
	}
	return &v
}

// location resolves lat/lng query parameters, falling back to the saved location.
// It writes the error response itself and returns false on failure.
func (a *API) location(w http.ResponseWriter, r *http.Request) (models.Location, bool) {
	fieldErrors := make(map[string][]string)
	lat := parseFloatParam(r, "lat", fieldErrors)
	lng := parseFloatParam(r, "lng", fieldErrors)

	switch {
	case len(fieldErrors) > 0:
	case lat != nil && lng == nil:
		fieldErrors["lng"] = append(fieldErrors["lng"], "required with lat")
	case lng != nil && lat == nil:
		fieldErrors["lat"] = append(fieldErrors["lat"], "required with lng")
	case lat != nil:
		loc, err := models.NewLocation(*lat, *lng)
		if err != nil {
			fieldErrors["coordinates"] = append(fieldErrors["coordinates"], err.Error())
			break
		}
		return *loc, true
	default:
		loc, err := a.repo.GetLocation()
		if errors.Is(err, storage.ErrNotFound) {
			a.domainErrorResponse(w, errNoLocation)
			return models.Location{}, false
		}
		if err != nil {
			a.domainErrorResponse(w, err)
			return models.Location{}, false
		}
		return *loc, true
	}

	a.validationErrorResponse(w, fieldErrors)
	return models.Location{}, false
}

func (a *API) qiblaHandler(w http.ResponseWriter, r *http.Request) {
	loc, ok := a.location(w, r)
	if !ok {
		return
	}

	bearing, err := qibla.QiblaBearing(loc.Coordinate())
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}
	distance, err := qibla.Distance(loc.Coordinate(), qibla.Kaaba)
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}

	a.sendJSON(w, http.StatusOK, QiblaResponse{
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Bearing:    bearing.Degrees(),
		Cardinal:   bearing.Cardinal(),
		DistanceKm: distance,
	})
}

func (a *API) alignmentHandler(w http.ResponseWriter, r *http.Request) {
	fieldErrors := make(map[string][]string)
	heading := parseFloatParam(r, "heading", fieldErrors)
	if len(fieldErrors) > 0 {
		a.validationErrorResponse(w, fieldErrors)
		return
	}

	loc, ok := a.location(w, r)
	if !ok {
		return
	}

	bearing, state, err := compass.Evaluate(loc.Coordinate(), heading, a.compass)
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}

	a.sendJSON(w, http.StatusOK, AlignmentResponse{
		Bearing:      bearing.Degrees(),
		Heading:      heading,
		AngularError: state.AngularError,
		Rotation:     state.Rotation,
		Aligned:      state.Aligned,
	})
}

func (a *API) timesHandler(w http.ResponseWriter, r *http.Request) {
	date := a.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, a.now().Location())
		if err != nil {
			a.validationErrorResponse(w, map[string][]string{"date": {"want YYYY-MM-DD"}})
			return
		}
		date = parsed.Add(12 * time.Hour)
	}

	loc, ok := a.location(w, r)
	if !ok {
		return
	}

	day, err := a.times.Timings(r.Context(), loc, date)
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, TimesResponse{Location: loc, Day: *day})
}

func (a *API) nextHandler(w http.ResponseWriter, r *http.Request) {
	loc, ok := a.location(w, r)
	if !ok {
		return
	}

	now := a.now()
	day, err := a.times.Timings(r.Context(), loc, now)
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}
	next, err := models.NextPrayer(day.Times, now)
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}

	a.sendJSON(w, http.StatusOK, NextResponse{
		NextPrayerInfo:   next,
		MinutesRemaining: int(next.Remaining(now).Minutes()),
	})
}

func (a *API) alarmsHandler(w http.ResponseWriter, r *http.Request) {
	alarms, err := a.repo.ListAlarms()
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}
	if alarms == nil {
		alarms = []*models.Alarm{}
	}
	a.sendJSON(w, http.StatusOK, map[string]any{
		"alarms": alarms,
		"count":  len(alarms),
	})
}

func (a *API) alarmHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())
	alarm, err := storage.FindAlarm(a.repo, params.ByName("id"))
	if err != nil {
		a.domainErrorResponse(w, err)
		return
	}
	a.sendJSON(w, http.StatusOK, alarm)
}
