// Package ghsrc fetches published scenario-pack bundles: tagged GitHub
// releases of a scenario-pack repository and the assets attached to them.
// Every asset of a release is listed; no filtering by file type is done.
package ghsrc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/go-github/v48/github"
	"golang.org/x/oauth2"
)

// Bundle is one published release of a scenario pack.
type Bundle struct {
	Name   string
	Tag    string
	Assets []Asset
}

// Asset is one downloadable file attached to a Bundle.
type Asset struct {
	ID          int64
	Name        string
	URL         string
	ContentType string
}

// BundleFetcher is the release-listing subset of Manager's behavior, so
// tests can substitute a fake.
type BundleFetcher interface {
	ListBundles(repo string) ([]Bundle, error)
}

// Manager fetches scenario-pack release bundles from GitHub.
type Manager struct {
	ManagerConfig
	client *github.Client
}

// ManagerConfig configures a Manager. Token is required only for bundles
// published to a private repository.
type ManagerConfig struct {
	Token string
}

// NewManager returns a Manager. conf is variadic only to make it optional;
// if more than one is passed, the last argument silently wins.
func NewManager(conf ...ManagerConfig) Manager {
	opts := ManagerConfig{}
	if len(conf) > 0 {
		opts = conf[len(conf)-1]
	}

	var httpClient *http.Client
	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}

	return Manager{ManagerConfig: opts, client: github.NewClient(httpClient)}
}

// ListBundles lists every release of repo (formatted "owner/name") as a
// scenario-pack Bundle, with its downloadable assets.
func (m *Manager) ListBundles(repo string) ([]Bundle, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("ghsrc: repo %q must be formatted owner/name", repo)
	}

	releases, _, err := m.client.Repositories.ListReleases(context.Background(), parts[0], parts[1], &github.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("ghsrc: listing releases for %s: %w", repo, err)
	}

	bundles := make([]Bundle, 0, len(releases))
	for _, release := range releases {
		assets := make([]Asset, 0, len(release.Assets))
		for _, a := range release.Assets {
			assets = append(assets, Asset{
				ID:          a.GetID(),
				Name:        a.GetName(),
				URL:         a.GetURL(),
				ContentType: a.GetContentType(),
			})
		}
		bundles = append(bundles, Bundle{
			Name:   release.GetName(),
			Tag:    release.GetTagName(),
			Assets: assets,
		})
	}
	return bundles, nil
}

// FetchAsset downloads one release asset's raw content, for the `workload
// fetch` CLI command to write to disk unparsed.
func (m *Manager) FetchAsset(repo string, assetID int64) ([]byte, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 {
		return nil, fmt.Errorf("ghsrc: repo %q must be formatted owner/name", repo)
	}

	rc, _, err := m.client.Repositories.DownloadReleaseAsset(context.Background(), parts[0], parts[1], assetID, http.DefaultClient)
	if err != nil {
		return nil, fmt.Errorf("ghsrc: downloading asset %s for %s: %w", strconv.FormatInt(assetID, 10), repo, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ghsrc: reading asset %s for %s: %w", strconv.FormatInt(assetID, 10), repo, err)
	}
	return data, nil
}
