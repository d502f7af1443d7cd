package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
)

// Client implements ports.TogglAPI using the Toggl Track API v9.
type Client struct {
	baseURL     string
	apiToken    string
	http        *http.Client
	deletePause time.Duration
	log         *slog.Logger
}

// NewClient builds a track API client. deletePause is the delay between
// individual deletes in DeleteTags, kept to stay under Toggl's rate limit.
func NewClient(baseURL, apiToken string, deletePause time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.track.toggl.com"
	}
	if deletePause <= 0 {
		deletePause = 250 * time.Millisecond
	}
	return &Client{
		baseURL:     baseURL,
		apiToken:    apiToken,
		deletePause: deletePause,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListWorkspaces fetches all workspaces accessible by the api token.
// Toggl v9: GET /api/v9/workspaces
func (c *Client) ListWorkspaces(ctx context.Context) ([]domain.Workspace, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v9/workspaces", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("toggl", resp)
	}
	var raw []rawWorkspace
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]domain.Workspace, 0, len(raw))
	for _, w := range raw {
		out = append(out, domain.Workspace{ID: w.ID, Name: w.Name})
	}
	return out, nil
}

// ListTags fetches all tags of a workspace. A null body is normalized to
// an empty list, matching the server's behavior for tagless workspaces.
// Toggl v9: GET /api/v9/workspaces/{wid}/tags
func (c *Client) ListTags(ctx context.Context, workspaceID int64) ([]domain.Tag, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v9/workspaces/%d/tags", workspaceID), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("toggl", resp)
	}
	var raw []rawTag
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]domain.Tag, 0, len(raw))
	for _, t := range raw {
		out = append(out, domain.Tag{ID: t.ID, WorkspaceID: t.WorkspaceID, Name: t.Name})
	}
	return out, nil
}

// ReplaceTimeEntryTags overwrites the entry's whole tag set. Toggl has no
// partial tag edit, so the caller sends the union it wants to end up with.
// Toggl v9: PUT /api/v9/workspaces/{wid}/time_entries/{id}
func (c *Client) ReplaceTimeEntryTags(ctx context.Context, entry domain.TimeEntry, tags []string) (domain.TimeEntry, error) {
	if tags == nil {
		tags = []string{}
	}
	// The time_entry request wrapper is the pre-v9 shape; the v9 path
	// proper takes a bare body. Kept for the deployments this tool was
	// built against.
	payload := struct {
		TimeEntry struct {
			Tags []string `json:"tags"`
		} `json:"time_entry"`
	}{}
	payload.TimeEntry.Tags = tags
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.TimeEntry{}, err
	}

	path := fmt.Sprintf("/api/v9/workspaces/%d/time_entries/%d", entry.WorkspaceID, entry.ID)
	resp, err := c.do(ctx, http.MethodPut, path, bytes.NewReader(body))
	if err != nil {
		return domain.TimeEntry{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.TimeEntry{}, statusErr("toggl", resp)
	}
	// Older deployments wrap the entry in {"data":{...}}; current v9
	// returns it bare. Accept both shapes.
	var raw struct {
		rawTimeEntry
		Data *rawTimeEntry `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.TimeEntry{}, err
	}
	got := raw.rawTimeEntry
	if raw.Data != nil {
		got = *raw.Data
	}
	updated := entry
	updated.Tags = got.Tags
	if updated.Tags == nil {
		updated.Tags = []string{}
	}
	return updated, nil
}

// DeleteTag removes one tag.
// Toggl v9: DELETE /api/v9/workspaces/{wid}/tags/{id}
func (c *Client) DeleteTag(ctx context.Context, tag domain.Tag) error {
	path := fmt.Sprintf("/api/v9/workspaces/%d/tags/%d", tag.WorkspaceID, tag.ID)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusErr("toggl", resp)
	}
	return nil
}

// DeleteTags deletes tags sequentially with a pacing delay between calls.
// It stops at the first failed delete and returns the ids deleted so far
// together with the error; deletes already issued are not rolled back.
func (c *Client) DeleteTags(ctx context.Context, tags []domain.Tag) ([]int64, error) {
	deleted := make([]int64, 0, len(tags))
	for i, tag := range tags {
		if err := c.DeleteTag(ctx, tag); err != nil {
			return deleted, fmt.Errorf("delete tag %d (%s): %w", tag.ID, tag.Name, err)
		}
		deleted = append(deleted, tag.ID)
		c.log.Debug("deleted tag", slog.Int64("id", tag.ID), slog.String("name", tag.Name))

		if i == len(tags)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return deleted, ctx.Err()
		case <-time.After(c.deletePause):
		}
	}
	return deleted, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if c.apiToken == "" {
		return nil, errors.New("toggl: missing api token")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.apiToken))
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// basicAuth encodes Toggl's token auth pair: token:api_token.
func basicAuth(apiToken string) string {
	return base64.StdEncoding.EncodeToString([]byte(apiToken + ":api_token"))
}

func statusErr(api string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%s: unexpected status %d: %s", api, resp.StatusCode, string(body))
}

// rawWorkspace mirrors the JSON from Toggl v9.
type rawWorkspace struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawTag struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Name        string `json:"name"`
}

type rawTimeEntry struct {
	ID   int64    `json:"id"`
	Tags []string `json:"tags"`
}
