package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

// Release represents a GitHub release
type Release struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

// Checker queries the latest release of one repository
type Checker struct {
	BaseURL   string
	Owner     string
	Repo      string
	UserAgent string
	Client    *http.Client
}

func NewChecker(owner, repo string) *Checker {
	return &Checker{
		BaseURL:   DefaultBaseURL,
		Owner:     owner,
		Repo:      repo,
		UserAgent: "AI-Workbench-Updater",
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CheckForUpdates returns the latest release if its tag differs from
// currentVersion, or nil when up to date
func (c *Checker) CheckForUpdates(ctx context.Context, currentVersion string) (*Release, error) {
	if c.Owner == "" || c.Repo == "" {
		return nil, fmt.Errorf("owner and repo required")
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.BaseURL, "/"), c.Owner, c.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to check update: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to check update: %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}

	// Normalize versions (remove 'v' prefix)
	current := strings.TrimPrefix(currentVersion, "v")
	remote := strings.TrimPrefix(rel.TagName, "v")

	if remote != "" && current != remote {
		return &rel, nil
	}
	return nil, nil // No update
}
