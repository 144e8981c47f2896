// Package gitsrc resolves and inspects the git repository a scenario pack
// lives in. Scenario packs (internal/workload's JSON scripts) are versioned
// like any other source tree, so this package wraps go-git, scoped down to
// what a scenario pack actually needs: the repository's commit history and
// its tagged revisions.
package gitsrc

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
)

const (
	CacheDirName     = "xv6sched"
	CacheRepoDirName = "scenario-packs"
)

// ResolveOpts controls how a scenario pack's repository is retrieved.
type ResolveOpts struct {
	// InMemory retrieves entirely in memory rather than caching to disk.
	// Fine for small scenario packs; large ones should use the on-disk
	// cache instead.
	InMemory bool
}

// Revision identifies one versioned snapshot of a scenario pack.
type Revision struct {
	Tag        string
	Date       time.Time
	LastCommit Hash
}

type Hash [20]byte

func (h Hash) String() string { return hex.EncodeToString(h[:]) }

type Person struct {
	Name  string
	Email string
}

// Commit is one change to a scenario pack (a new/edited scenario file), the
// unit this package's history queries return.
type Commit struct {
	Hash      Hash
	Date      time.Time
	Author    Person
	Committer Person
	Message   []byte
}

// Pack is a checked-out (or in-memory cloned) scenario pack repository.
type Pack struct {
	URL  string
	Repo *git.Repository
}

// Manager resolves and queries scenario pack repositories.
type Manager struct {
	ManagerConfig
}

// ManagerConfig configures a Manager. AccessToken is stored but not read by
// Resolve or any Manager method; clones and fetches are unauthenticated.
type ManagerConfig struct {
	AccessToken string
}

// NewManager returns a Manager. conf is variadic only to make it optional;
// if more than one is passed, the last argument silently wins.
func NewManager(conf ...ManagerConfig) Manager {
	if len(conf) > 0 {
		return Manager{ManagerConfig: conf[len(conf)-1]}
	}
	return Manager{}
}

// History returns every commit touching a scenario pack, newest first.
func (m *Manager) History(p Pack) ([]Commit, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("gitsrc: history requested for a pack with no repository reference")
	}
	iter, err := p.Repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("gitsrc: reading history: %w", err)
	}
	var commits []Commit
	_ = iter.ForEach(func(o *object.Commit) error {
		commits = append(commits, Commit{
			Hash: Hash(o.Hash),
			Date: o.Committer.When,
			Committer: Person{
				Name:  o.Committer.Name,
				Email: o.Committer.Email,
			},
			Author: Person{
				Name:  o.Author.Name,
				Email: o.Author.Email,
			},
			Message: []byte(o.Message),
		})
		return nil
	})
	return commits, nil
}

// Revisions returns every tagged revision of a scenario pack.
func (m *Manager) Revisions(p Pack) ([]Revision, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("gitsrc: revisions requested for a pack with no repository reference")
	}
	refs, err := p.Repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("gitsrc: reading tags for pack %s: %w", p.URL, err)
	}
	var revisions []Revision
	_ = refs.ForEach(func(ref *plumbing.Reference) error {
		rev := plumbing.Revision(ref.Name().String())
		hash, err := p.Repo.ResolveRevision(rev)
		if err != nil {
			return nil
		}
		commit, err := p.Repo.CommitObject(*hash)
		if err != nil {
			return nil
		}
		revisions = append(revisions, Revision{
			Tag:        ref.Name().Short(),
			Date:       commit.Committer.When,
			LastCommit: Hash(commit.Hash),
		})
		return nil
	})
	return revisions, nil
}

// Resolve fetches or opens the scenario pack at url. By default it caches
// the clone under $XDG_DATA_HOME/xv6sched/scenario-packs/<base64(url)> and
// fetches new commits if it's already cached; pass ResolveOpts{InMemory:
// true} to skip the cache entirely.
func Resolve(url string, opts ...ResolveOpts) (*Pack, error) {
	conf := ResolveOpts{}
	if len(opts) > 0 {
		conf = opts[len(opts)-1]
	}
	if conf.InMemory {
		return resolveInMemory(url)
	}

	fp := filepath.Join(cacheLocation(), cacheName(url))
	if _, err := os.Stat(fp); err != nil {
		return cloneToCache(url)
	}

	repo, err := git.PlainOpen(fp)
	if err != nil {
		return nil, fmt.Errorf("gitsrc: opening cached pack: %w", err)
	}
	if err := repo.Fetch(&git.FetchOptions{RemoteURL: url}); err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("gitsrc: fetching updates for cached pack: %w", err)
	}
	return &Pack{URL: url, Repo: repo}, nil
}

func cloneToCache(url string) (*Pack, error) {
	if err := ensureCacheDir(); err != nil {
		return nil, fmt.Errorf("gitsrc: preparing cache directory: %w", err)
	}
	fp := filepath.Join(cacheLocation(), cacheName(url))
	repo, err := git.PlainClone(fp, true, &git.CloneOptions{URL: url, NoCheckout: true})
	if err != nil {
		return nil, err
	}
	return &Pack{URL: url, Repo: repo}, nil
}

func resolveInMemory(url string) (*Pack, error) {
	repo, err := git.Clone(memory.NewStorage(), nil, &git.CloneOptions{URL: url, NoCheckout: true})
	if err != nil {
		return nil, err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, err
	}
	if len(remotes) < 1 {
		return nil, fmt.Errorf("gitsrc: in-memory clone of %s had no remotes", url)
	}
	return &Pack{URL: url, Repo: repo}, nil
}

func ensureCacheDir() error {
	fp := cacheLocation()
	if _, err := os.Stat(fp); err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(fp, 0777)
		}
		return err
	}
	return nil
}

func cacheLocation() string {
	return filepath.Join(xdg.DataHome, CacheDirName, CacheRepoDirName)
}

func cacheName(url string) string {
	return base64.StdEncoding.EncodeToString([]byte(url))
}
