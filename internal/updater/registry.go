package updater

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/packrat-dev/packrat/internal/branding"
)

// CheckLatestVersion asks the registry API for the latest released CLI
// version.
func (u *Updater) CheckLatestVersion() (*Release, error) {
	if !u.resolve() {
		return nil, fmt.Errorf("version check unavailable")
	}

	url := strings.TrimRight(u.baseURL, "/") + "/cli/latest"
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName()+"/"+u.currentVersion)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching latest version: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if release.Version == "" {
		return nil, fmt.Errorf("registry response has no version")
	}
	return &release, nil
}
