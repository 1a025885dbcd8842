// ABOUTME: MCP tool definitions and handlers
// ABOUTME: Exposes qibla, prayer time, alarm and location operations to AI agents

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/qibla"
	"github.com/harper/salah/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.registerQiblaBearingTool()
	s.registerGetPrayerTimesTool()
	s.registerNextPrayerTool()
	s.registerListAlarmsTool()
	s.registerAddAlarmTool()
	s.registerSetLocationTool()
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(jsonBytes)}},
	}
}

var errNoLocation = errors.New("no location set; call set_location first")

// resolveLocation uses explicit coordinates when given, otherwise the saved location.
func (s *Server) resolveLocation(lat, lng *float64) (models.Location, error) {
	switch {
	case lat != nil && lng != nil:
		loc, err := models.NewLocation(*lat, *lng)
		if err != nil {
			return models.Location{}, err
		}
		return *loc, nil
	case lat != nil || lng != nil:
		return models.Location{}, fmt.Errorf("latitude and longitude must be given together")
	}

	loc, err := s.repo.GetLocation()
	if errors.Is(err, storage.ErrNotFound) {
		return models.Location{}, errNoLocation
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to load location: %w", err)
	}
	return *loc, nil
}

// QiblaBearingInput defines input for qibla_bearing tool.
type QiblaBearingInput struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// QiblaBearingOutput defines output for qibla_bearing tool.
type QiblaBearingOutput struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Bearing    float64 `json:"bearing"`
	Cardinal   string  `json:"cardinal"`
	DistanceKm float64 `json:"distance_km"`
}

func (s *Server) registerQiblaBearingTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "qibla_bearing",
		Description: "Compute the qibla direction (degrees clockwise from true north) and distance to the Kaaba. Uses the saved location when no coordinates are given.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"latitude": map[string]interface{}{
					"type":        "number",
					"description": "Observer latitude (-90 to 90)",
				},
				"longitude": map[string]interface{}{
					"type":        "number",
					"description": "Observer longitude (-180 to 180)",
				},
			},
		},
	}, s.handleQiblaBearing)
}

func (s *Server) handleQiblaBearing(_ context.Context, req *mcp.CallToolRequest, input QiblaBearingInput) (*mcp.CallToolResult, QiblaBearingOutput, error) {
	loc, err := s.resolveLocation(input.Latitude, input.Longitude)
	if err != nil {
		return nil, QiblaBearingOutput{}, err
	}

	bearing, err := qibla.QiblaBearing(loc.Coordinate())
	if err != nil {
		return nil, QiblaBearingOutput{}, err
	}
	distance, err := qibla.Distance(loc.Coordinate(), qibla.Kaaba)
	if err != nil {
		return nil, QiblaBearingOutput{}, err
	}

	output := QiblaBearingOutput{
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		Bearing:    bearing.Degrees(),
		Cardinal:   bearing.Cardinal(),
		DistanceKm: distance,
	}
	return jsonResult(output), output, nil
}

// GetPrayerTimesInput defines input for get_prayer_times tool.
type GetPrayerTimesInput struct {
	Date string `json:"date,omitempty"`
}

// PrayerTimesOutput defines output for get_prayer_times tool.
type PrayerTimesOutput struct {
	Location      models.Location    `json:"location"`
	Date          string             `json:"date"`
	Weekday       string             `json:"weekday,omitempty"`
	Hijri         string             `json:"hijri"`
	Times         models.PrayerTimes `json:"times"`
	Notifications map[string]bool    `json:"notifications"`
}

func (s *Server) registerGetPrayerTimesTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_prayer_times",
		Description: "Get the day's prayer times (Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha) for the saved location, with the Hijri date.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"date": map[string]interface{}{
					"type":        "string",
					"description": "Optional date in YYYY-MM-DD format (defaults to today)",
				},
			},
		},
	}, s.handleGetPrayerTimes)
}

func (s *Server) handleGetPrayerTimes(ctx context.Context, req *mcp.CallToolRequest, input GetPrayerTimesInput) (*mcp.CallToolResult, PrayerTimesOutput, error) {
	loc, err := s.resolveLocation(nil, nil)
	if err != nil {
		return nil, PrayerTimesOutput{}, err
	}

	date := s.now()
	if input.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", input.Date, time.Local)
		if err != nil {
			return nil, PrayerTimesOutput{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", input.Date)
		}
		// Midday keeps the request inside the intended day in any zone offset.
		date = date.Add(12 * time.Hour)
	}

	day, err := s.times.Timings(ctx, loc, date)
	if err != nil {
		return nil, PrayerTimesOutput{}, fmt.Errorf("failed to get prayer times: %w", err)
	}

	settings, err := s.repo.GetSettings()
	if err != nil {
		return nil, PrayerTimesOutput{}, fmt.Errorf("failed to load settings: %w", err)
	}
	notifications := make(map[string]bool, len(models.NotifiablePrayers))
	for _, p := range models.NotifiablePrayers {
		notifications[p] = settings.NotificationEnabled(p)
	}

	output := PrayerTimesOutput{
		Location:      loc,
		Date:          day.Date.Gregorian,
		Weekday:       day.Date.Weekday,
		Hijri:         day.Date.Hijri.String(),
		Times:         day.Times,
		Notifications: notifications,
	}
	return jsonResult(output), output, nil
}

// NextPrayerInput is empty but required for type.
type NextPrayerInput struct{}

// NextPrayerOutput defines output for next_prayer tool.
type NextPrayerOutput struct {
	Name             string    `json:"name"`
	ArabicName       string    `json:"arabic_name"`
	Time             string    `json:"time"`
	NextDay          bool      `json:"next_day"`
	At               time.Time `json:"at"`
	MinutesRemaining int       `json:"minutes_remaining"`
}

func (s *Server) registerNextPrayerTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "next_prayer",
		Description: "Get the next of the five daily prayers for the saved location and the minutes remaining until it.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleNextPrayer)
}

func (s *Server) handleNextPrayer(ctx context.Context, req *mcp.CallToolRequest, input NextPrayerInput) (*mcp.CallToolResult, NextPrayerOutput, error) {
	loc, err := s.resolveLocation(nil, nil)
	if err != nil {
		return nil, NextPrayerOutput{}, err
	}

	now := s.now()
	day, err := s.times.Timings(ctx, loc, now)
	if err != nil {
		return nil, NextPrayerOutput{}, fmt.Errorf("failed to get prayer times: %w", err)
	}

	next, err := models.NextPrayer(day.Times, now)
	if err != nil {
		return nil, NextPrayerOutput{}, err
	}

	output := NextPrayerOutput{
		Name:             next.Name,
		ArabicName:       next.ArabicName,
		Time:             next.Time,
		NextDay:          next.NextDay,
		At:               next.At,
		MinutesRemaining: int(next.Remaining(now).Minutes()),
	}
	return jsonResult(output), output, nil
}

// AlarmOutput defines output for alarm tools.
type AlarmOutput struct {
	ID        string    `json:"id"`
	Time      string    `json:"time"`
	Label     string    `json:"label"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

func toAlarmOutput(a *models.Alarm) AlarmOutput {
	return AlarmOutput{
		ID:        a.ID.String(),
		Time:      a.Time,
		Label:     a.Label,
		Enabled:   a.Enabled,
		CreatedAt: a.CreatedAt,
	}
}

// ListAlarmsInput is empty but required for type.
type ListAlarmsInput struct{}

// ListAlarmsOutput defines output for list_alarms tool.
type ListAlarmsOutput struct {
	Alarms []AlarmOutput `json:"alarms"`
	Count  int           `json:"count"`
}

func (s *Server) registerListAlarmsTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_alarms",
		Description: "List the religious reminder alarms ordered by time of day.",
		InputSchema: map[string]interface{}{
			"type": "object",
		},
	}, s.handleListAlarms)
}

func (s *Server) handleListAlarms(_ context.Context, req *mcp.CallToolRequest, input ListAlarmsInput) (*mcp.CallToolResult, ListAlarmsOutput, error) {
	alarms, err := s.repo.ListAlarms()
	if err != nil {
		return nil, ListAlarmsOutput{}, fmt.Errorf("failed to list alarms: %w", err)
	}

	outputs := make([]AlarmOutput, len(alarms))
	for i, a := range alarms {
		outputs[i] = toAlarmOutput(a)
	}

	output := ListAlarmsOutput{
		Alarms: outputs,
		Count:  len(outputs),
	}
	return jsonResult(output), output, nil
}

// AddAlarmInput defines input for add_alarm tool.
type AddAlarmInput struct {
	Time  string `json:"time"`
	Label string `json:"label,omitempty"`
}

func (s *Server) registerAddAlarmTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "add_alarm",
		Description: "Add a daily religious reminder alarm.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"time": map[string]interface{}{
					"type":        "string",
					"description": "Time of day in HH:MM (24-hour) format",
				},
				"label": map[string]interface{}{
					"type":        "string",
					"description": "Optional label (e.g., 'أذكار الصباح')",
				},
			},
			"required": []string{"time"},
		},
	}, s.handleAddAlarm)
}

func (s *Server) handleAddAlarm(_ context.Context, req *mcp.CallToolRequest, input AddAlarmInput) (*mcp.CallToolResult, AlarmOutput, error) {
	alarm, err := models.NewAlarm(input.Time, input.Label)
	if err != nil {
		return nil, AlarmOutput{}, err
	}
	if err := s.repo.CreateAlarm(alarm); err != nil {
		return nil, AlarmOutput{}, fmt.Errorf("failed to create alarm: %w", err)
	}

	output := toAlarmOutput(alarm)
	return jsonResult(output), output, nil
}

// SetLocationInput defines input for set_location tool.
type SetLocationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
}

func (s *Server) registerSetLocationTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_location",
		Description: "Save the observer location used for the qibla and prayer times.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"latitude": map[string]interface{}{
					"type":        "number",
					"description": "Latitude coordinate (-90 to 90)",
				},
				"longitude": map[string]interface{}{
					"type":        "number",
					"description": "Longitude coordinate (-180 to 180)",
				},
				"city": map[string]interface{}{
					"type":        "string",
					"description": "Optional city name",
				},
				"country": map[string]interface{}{
					"type":        "string",
					"description": "Optional country name",
				},
			},
			"required": []string{"latitude", "longitude"},
		},
	}, s.handleSetLocation)
}

func (s *Server) handleSetLocation(ctx context.Context, req *mcp.CallToolRequest, input SetLocationInput) (*mcp.CallToolResult, QiblaBearingOutput, error) {
	loc, err := models.NewLocation(input.Latitude, input.Longitude)
	if err != nil {
		return nil, QiblaBearingOutput{}, err
	}
	loc.City = input.City
	loc.Country = input.Country

	if err := s.repo.SetLocation(loc); err != nil {
		return nil, QiblaBearingOutput{}, fmt.Errorf("failed to save location: %w", err)
	}

	return s.handleQiblaBearing(ctx, req, QiblaBearingInput{})
}
