package forge

import (
	"net/url"
	"strings"

	"github.com/repops/repops/internal/repository"
)

// Detect guesses the server type of a remote URL by host pattern.
// Unknown hosts default to GitHub.
func Detect(remoteURL string) repository.ServerType {
	host := strings.ToLower(extractHost(remoteURL))
	lower := strings.ToLower(remoteURL)

	switch {
	case isAzureDevOps(host):
		return repository.AzureDevOps
	case isGitLab(host, lower):
		return repository.GitLab
	default:
		return repository.GitHub
	}
}

// extractHost parses the hostname from a git remote URL.
// Handles SSH format (git@host:path) and HTTPS format (https://host/path).
func extractHost(remoteURL string) string {
	// SSH format: git@github.com:user/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		withoutPrefix := strings.TrimPrefix(remoteURL, "git@")
		if idx := strings.Index(withoutPrefix, ":"); idx > 0 {
			return withoutPrefix[:idx]
		}
	}

	// HTTPS format: https://github.com/user/repo.git
	// SSH format with explicit protocol: ssh://git@github.com/user/repo.git
	for _, scheme := range []string{"http://", "https://", "ssh://"} {
		if strings.HasPrefix(remoteURL, scheme) {
			if parsed, err := url.Parse(remoteURL); err == nil {
				return parsed.Hostname()
			}
		}
	}

	return ""
}

// isAzureDevOps matches dev.azure.com, ssh.dev.azure.com and legacy
// *.visualstudio.com hosts.
func isAzureDevOps(host string) bool {
	return host == "dev.azure.com" || host == "ssh.dev.azure.com" ||
		strings.HasSuffix(host, ".visualstudio.com")
}

// isGitLab checks if a URL points to a GitLab instance
func isGitLab(host, url string) bool {
	// gitlab.com (SaaS) and common self-hosted gitlab.* patterns
	if strings.Contains(host, "gitlab.") {
		return true
	}
	// Some orgs host at company.com/gitlab/
	return strings.Contains(url, "/gitlab/")
}
