// Package invoiceninja talks to the InvoiceNinja v1 REST API.
package invoiceninja

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
)

// Client implements ports.InvoiceNinjaAPI.
type Client struct {
	baseURL  string
	apiToken string
	http     *http.Client
	log      *slog.Logger
}

func NewClient(baseURL, apiToken string, log *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// GetTask fetches one task by id. A 404 maps to domain.ErrTaskNotFound so
// callers can tell "missing" from transport trouble.
func (c *Client) GetTask(ctx context.Context, id string) (domain.Task, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, domain.ErrTaskNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Task{}, statusErr(resp)
	}
	var envelope struct {
		Data rawTask `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Task{}, err
	}
	return envelope.Data.toDomain(), nil
}

// CreateTask posts a new task and returns it with the server-assigned id
// and number.
func (c *Client) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	return c.writeTask(ctx, http.MethodPost, "/api/v1/tasks", task)
}

// UpdateTask replaces the remote task's fields with the given task's. The
// response is the new canonical state.
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID == "" {
		return domain.Task{}, errors.New("invoiceninja: update requires a task id")
	}
	return c.writeTask(ctx, http.MethodPut, "/api/v1/tasks/"+url.PathEscape(task.ID), task)
}

// DeleteTask soft-deletes one task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusErr(resp)
	}
	return nil
}

// ListActiveTasks collects every non-deleted task, following the response
// pagination until currentPage == totalPages.
func (c *Client) ListActiveTasks(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	page := 1
	for {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		resp, err := c.do(ctx, http.MethodGet, "/api/v1/tasks", query, nil)
		if err != nil {
			return nil, err
		}
		var envelope struct {
			Data []rawTask `json:"data"`
			Meta struct {
				Pagination struct {
					CurrentPage int `json:"current_page"`
					TotalPages  int `json:"total_pages"`
				} `json:"pagination"`
			} `json:"meta"`
		}
		if resp.StatusCode != http.StatusOK {
			err = statusErr(resp)
		} else {
			err = json.NewDecoder(resp.Body).Decode(&envelope)
		}
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		for _, t := range envelope.Data {
			if t.IsDeleted {
				continue
			}
			tasks = append(tasks, t.toDomain())
		}
		if envelope.Meta.Pagination.CurrentPage >= envelope.Meta.Pagination.TotalPages {
			break
		}
		page = envelope.Meta.Pagination.CurrentPage + 1
	}
	c.log.Debug("fetched tasks", slog.Int("count", len(tasks)))
	return tasks, nil
}

func (c *Client) writeTask(ctx context.Context, method, path string, task domain.Task) (domain.Task, error) {
	body, err := json.Marshal(fromDomain(task))
	if err != nil {
		return domain.Task{}, err
	}
	resp, err := c.do(ctx, method, path, nil, bytes.NewReader(body))
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.Task{}, statusErr(resp)
	}
	var envelope struct {
		Data rawTask `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return domain.Task{}, err
	}
	return envelope.Data.toDomain(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	if c.apiToken == "" {
		return nil, errors.New("invoiceninja: missing api token")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	// Self-hosted instances can live under a subpath; keep it.
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Token", c.apiToken)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

func statusErr(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("invoiceninja: unexpected status %d: %s", resp.StatusCode, string(body))
}

// rawTask mirrors the InvoiceNinja task JSON.
type rawTask struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	TimeLog     string `json:"time_log"`
	ClientID    string `json:"client_id,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	TogglID     int64  `json:"toggl_id,omitempty"`
	TogglUser   string `json:"toggl_user,omitempty"`
	Number      string `json:"number,omitempty"`
	IsDeleted   bool   `json:"is_deleted"`
}

func (t rawTask) toDomain() domain.Task {
	return domain.Task{
		ID:          t.ID,
		Description: t.Description,
		TimeLog:     t.TimeLog,
		ClientID:    t.ClientID,
		ProjectID:   t.ProjectID,
		UserID:      t.UserID,
		TogglID:     t.TogglID,
		TogglUser:   t.TogglUser,
		Number:      t.Number,
		Deleted:     t.IsDeleted,
	}
}

func fromDomain(t domain.Task) rawTask {
	return rawTask{
		ID:          t.ID,
		Description: t.Description,
		TimeLog:     t.TimeLog,
		ClientID:    t.ClientID,
		ProjectID:   t.ProjectID,
		UserID:      t.UserID,
		TogglID:     t.TogglID,
		TogglUser:   t.TogglUser,
		Number:      t.Number,
		IsDeleted:   t.Deleted,
	}
}
