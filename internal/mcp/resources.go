// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only view of the saved preferences for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/salah/internal/models"
	"github.com/harper/salah/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SettingsURI is the URI of the settings resource.
const SettingsURI = "salah://settings"

// SettingsOutput is the body of the settings resource.
type SettingsOutput struct {
	Location *models.Location `json:"location"`
	Settings *models.Settings `json:"settings"`
	Tasbeeh  *models.Tasbeeh  `json:"tasbeeh"`
	Alarms   int              `json:"alarm_count"`
}

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        SettingsURI,
		Description: "Saved location, notification settings, tasbeeh counter and alarm count",
		URI:         SettingsURI,
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

func (s *Server) handleSettingsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	output := SettingsOutput{}

	loc, err := s.repo.GetLocation()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to load location: %w", err)
	}
	output.Location = loc

	if output.Settings, err = s.repo.GetSettings(); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if output.Tasbeeh, err = s.repo.GetTasbeeh(); err != nil {
		return nil, fmt.Errorf("failed to load tasbeeh: %w", err)
	}
	alarms, err := s.repo.ListAlarms()
	if err != nil {
		return nil, fmt.Errorf("failed to list alarms: %w", err)
	}
	output.Alarms = len(alarms)

	jsonBytes, _ := json.MarshalIndent(output, "", "  ") //nolint:errchkjson // output is always serializable

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      SettingsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
