package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yeremiapane/floorplan-admin/floorplan"
	"github.com/yeremiapane/floorplan-admin/models"
)

var _ floorplan.FloorService = (*FloorClient)(nil)

// FloorClient talks to the floor-plan API over HTTP.
type FloorClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// envelope is the {status, message, data} wrapper every endpoint responds with.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("floor api: %d %s", e.StatusCode, e.Message)
}

func NewFloorClient(baseURL string) *FloorClient {
	return &FloorClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FloorClient) ListZones(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	if err := c.do(ctx, http.MethodGet, "/zones", nil, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *FloorClient) CreateZone(ctx context.Context, name string) (*models.Zone, error) {
	var zone models.Zone
	if err := c.do(ctx, http.MethodPost, "/zones", models.CreateZoneRequest{Name: name}, &zone); err != nil {
		return nil, err
	}
	return &zone, nil
}

func (c *FloorClient) GetZoneLayout(ctx context.Context, zoneID string) (*models.ZoneLayout, error) {
	var layout models.ZoneLayout
	path := "/zones/" + url.PathEscape(zoneID) + "/layout"
	if err := c.do(ctx, http.MethodGet, path, nil, &layout); err != nil {
		return nil, err
	}
	return &layout, nil
}

func (c *FloorClient) CreateTable(ctx context.Context, req models.CreateTableRequest) (*models.TableRecord, error) {
	var rec models.TableRecord
	if err := c.do(ctx, http.MethodPost, "/tables", req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *FloorClient) UpdateTable(ctx context.Context, id string, req models.UpdateTableRequest) (*models.TableRecord, error) {
	var rec models.TableRecord
	if err := c.do(ctx, http.MethodPatch, "/tables/"+url.PathEscape(id), req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *FloorClient) DeleteTable(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tables/"+url.PathEscape(id), nil, nil)
}

func (c *FloorClient) BatchUpdatePositions(ctx context.Context, req models.BatchPositionRequest) (*models.BatchPositionResponse, error) {
	var resp models.BatchPositionResponse
	if err := c.do(ctx, http.MethodPut, "/tables/positions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *FloorClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
