// Package locate resolves the repository root, the source directories and the
// upstream web URL the aggregation pipeline works against.
package locate

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/Pikatsuto/raspberry-builds/internal/config"
	"github.com/Pikatsuto/raspberry-builds/internal/foundation/errors"
)

// Sources holds the resolved, absolute input locations of a run.
type Sources struct {
	RepoRoot  string
	WikiDir   string
	ImagesDir string
	// Upstream is the web URL of the upstream repository, without trailing slash.
	// Empty disables upstream link rewriting.
	Upstream string
}

// Resolve computes the input locations for cfg. workDir anchors a relative
// configured repo root and the git repository search.
func Resolve(cfg *config.Config, workDir string) (Sources, error) {
	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return Sources{}, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve working directory").Build()
	}

	var repo *git.Repository
	root := cfg.Sources.RepoRoot
	if root != "" {
		if !filepath.IsAbs(root) {
			root = filepath.Join(absWork, root)
		}
		root = filepath.Clean(root)
		repo, _ = openRepository(root)
	} else {
		repo, root = detectRoot(absWork)
	}

	info, err := os.Stat(root)
	if err != nil {
		return Sources{}, errors.WrapError(err, errors.CategoryConfig, "repository root is not accessible").
			WithContext("path", root).
			Build()
	}
	if !info.IsDir() {
		return Sources{}, errors.ConfigError("repository root is not a directory").
			WithContext("path", root).
			Build()
	}

	upstream := cfg.Links.Upstream
	if upstream == "" && repo != nil {
		upstream = originURL(repo)
	}

	return Sources{
		RepoRoot:  root,
		WikiDir:   cfg.WikiPath(root),
		ImagesDir: cfg.ImagesPath(root),
		Upstream:  upstream,
	}, nil
}

func openRepository(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
}

// detectRoot walks up from dir to the enclosing git worktree. Outside a repository
// dir itself is the root.
func detectRoot(dir string) (*git.Repository, string) {
	repo, err := openRepository(dir)
	if err != nil {
		return nil, dir
	}
	wt, err := repo.Worktree()
	if err != nil {
		// Bare repository: no worktree to aggregate from.
		return repo, dir
	}
	return repo, wt.Filesystem.Root()
}

// originURL returns the normalized web URL of the origin remote, or "".
func originURL(repo *git.Repository) string {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return ""
	}
	for _, raw := range remote.Config().URLs {
		if u := NormalizeRemoteURL(raw); u != "" {
			return u
		}
	}
	return ""
}

// NormalizeRemoteURL converts a git remote URL into the repository's https web URL.
// scp-style (git@host:owner/repo.git) and ssh:// remotes are mapped to https; local
// paths and file:// remotes yield "".
func NormalizeRemoteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var host, path string
	if !strings.Contains(raw, "://") {
		// scp-like syntax: [user@]host:path
		at := strings.LastIndex(raw, "@")
		colon := strings.Index(raw, ":")
		if colon <= at+1 || strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ".") {
			return ""
		}
		host = raw[at+1 : colon]
		path = raw[colon+1:]
	} else {
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		switch u.Scheme {
		case "http", "https", "ssh", "git", "git+ssh":
		default:
			return ""
		}
		host = u.Hostname()
		path = u.Path
		if u.Scheme == "http" || u.Scheme == "https" {
			// Keep explicit ports of web remotes, drop credentials.
			host = u.Host
		}
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if host == "" || path == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/%s", host, path)
}
