package preflight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// CheckWikiAPI verifies that the MediaWiki API answers a siteinfo query.
// It makes a single attempt bounded by timeout.
func CheckWikiAPI(ctx context.Context, apiURL, userAgent string, timeout time.Duration) Result {
	const name = "MediaWiki API"

	endpoint, err := url.Parse(strings.TrimSpace(apiURL))
	if err != nil || endpoint.Host == "" {
		return Result{Name: name, Detail: "invalid api url"}
	}
	params := endpoint.Query()
	params.Set("action", "query")
	params.Set("meta", "siteinfo")
	params.Set("format", "json")
	endpoint.RawQuery = params.Encode()

	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	var payload struct {
		Query struct {
			General struct {
				SiteName  string `json:"sitename"`
				Generator string `json:"generator"`
			} `json:"general"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Result{Name: name, Detail: "response is not MediaWiki JSON"}
	}
	site := strings.TrimSpace(payload.Query.General.SiteName)
	if site == "" {
		return Result{Name: name, Detail: "siteinfo missing from response"}
	}
	detail := site
	if gen := strings.TrimSpace(payload.Query.General.Generator); gen != "" {
		detail = fmt.Sprintf("%s (%s)", site, gen)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timed out (API unreachable)"
	}
	return err.Error()
}
