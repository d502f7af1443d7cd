package toggl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goevexx/toggl-invoiceninja-sync/internal/domain"
)

// ReportsClient implements ports.ReportsAPI using the Toggl reports API v2.
// The detailed report caps entries per page, so a full fetch walks pages
// until the reported total count is collected.
type ReportsClient struct {
	baseURL   string
	apiToken  string
	userAgent string
	http      *http.Client
	log       *slog.Logger
}

func NewReportsClient(baseURL, apiToken, userAgent string, log *slog.Logger) *ReportsClient {
	if baseURL == "" {
		baseURL = "https://api.track.toggl.com"
	}
	return &ReportsClient{
		baseURL:   baseURL,
		apiToken:  apiToken,
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// ListTimeEntries fetches every detailed-report page for the window and
// merges them in page order. Page 1 carries the total count and page size
// that determine how many more pages to request.
func (c *ReportsClient) ListTimeEntries(ctx context.Context, workspaceID int64, since, until time.Time) ([]domain.TimeEntry, error) {
	first, err := c.detailedReport(ctx, workspaceID, since, until, 1)
	if err != nil {
		return nil, err
	}
	entries := first.entries(workspaceID)

	if first.PerPage <= 0 {
		return entries, nil
	}
	lastPage := (first.TotalCount + first.PerPage - 1) / first.PerPage
	for page := 2; page <= lastPage; page++ {
		report, err := c.detailedReport(ctx, workspaceID, since, until, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		entries = append(entries, report.entries(workspaceID)...)
	}
	c.log.Debug("fetched time entries",
		slog.Int64("workspace", workspaceID),
		slog.Int("pages", max(lastPage, 1)),
		slog.Int("count", len(entries)),
	)
	return entries, nil
}

// detailedReport requests one page of the detailed report.
// Toggl reports v2: GET /reports/api/v2/details
func (c *ReportsClient) detailedReport(ctx context.Context, workspaceID int64, since, until time.Time, page int) (*rawDetailedReport, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/reports/api/v2/details"
	q := u.Query()
	q.Set("user_agent", c.userAgent)
	q.Set("workspace_id", strconv.FormatInt(workspaceID, 10))
	q.Set("since", since.Format("2006-01-02"))
	q.Set("until", until.Format("2006-01-02"))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.apiToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusErr("toggl reports", resp)
	}
	var report rawDetailedReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, err
	}
	return &report, nil
}

// rawDetailedReport mirrors the JSON from the reports API v2.
type rawDetailedReport struct {
	TotalCount int              `json:"total_count"`
	PerPage    int              `json:"per_page"`
	Data       []rawReportEntry `json:"data"`
}

type rawReportEntry struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Tags        []string  `json:"tags"`
	Client      string    `json:"client"`
	Project     string    `json:"project"`
	User        string    `json:"user"`
	Billable    bool      `json:"is_billable"`
}

func (r *rawDetailedReport) entries(workspaceID int64) []domain.TimeEntry {
	out := make([]domain.TimeEntry, 0, len(r.Data))
	for _, e := range r.Data {
		tags := e.Tags
		if tags == nil {
			tags = []string{}
		}
		out = append(out, domain.TimeEntry{
			ID:          e.ID,
			WorkspaceID: workspaceID,
			Description: e.Description,
			Start:       e.Start,
			End:         e.End,
			Tags:        tags,
			Client:      e.Client,
			Project:     e.Project,
			User:        e.User,
			Billable:    e.Billable,
		})
	}
	return out
}
