// Package fetch retrieves instruction documents from remote URLs and local
// paths, selecting credentials by hosting provider.
package fetch

import (
	"net/url"
	"strings"
)

// GitHub hosts recognized for credential selection.
const (
	githubHost    = "github.com"
	githubRawHost = "raw.githubusercontent.com"
)

// Hostname suffixes of GitHub's managed enterprise offerings.
var githubEnterpriseSuffixes = []string{".ghe.com", ".github.us"}

// Azure DevOps hosts and API path markers.
const (
	azureDevOpsHost         = "dev.azure.com"
	azureDevOpsLegacySuffix = ".visualstudio.com"
)

var azureDevOpsAPIMarkers = []string{"/_apis/", "/_api/"}

// GitHubClass describes how a URL's host relates to GitHub.
type GitHubClass struct {
	// Known is true for github.com, raw.githubusercontent.com, and the
	// enterprise domain variants.
	Known bool
	// Enterprise is true only for the enterprise domain variants.
	Enterprise bool
}

// ClassifyGitHub inspects a URL's hostname and reports whether it belongs
// to GitHub. Host comparison is case-insensitive; a URL that fails to parse
// classifies as unknown.
func ClassifyGitHub(rawURL string) GitHubClass {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return GitHubClass{}
	}
	host := strings.ToLower(u.Hostname())
	if host == githubHost || host == githubRawHost {
		return GitHubClass{Known: true}
	}
	for _, suffix := range githubEnterpriseSuffixes {
		if strings.HasSuffix(host, suffix) {
			return GitHubClass{Known: true, Enterprise: true}
		}
	}
	return GitHubClass{}
}

// IsAzureDevOps reports whether the URL points at Azure DevOps, either by
// hostname or by the API path markers its services embed in URLs.
func IsAzureDevOps(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == azureDevOpsHost || strings.HasSuffix(host, azureDevOpsLegacySuffix) {
		return true
	}
	for _, marker := range azureDevOpsAPIMarkers {
		if strings.Contains(u.Path, marker) {
			return true
		}
	}
	return false
}

// IsLocalPath reports whether spec refers to the local filesystem rather
// than a network location: a file:// URI, a Windows drive path, or a rooted
// path. A doubled leading separator is a network-share form, not local.
func IsLocalPath(spec string) bool {
	if strings.HasPrefix(spec, "file://") {
		return true
	}
	if len(spec) >= 3 && isDriveLetter(spec[0]) && spec[1] == ':' && isPathSep(spec[2]) {
		return true
	}
	if len(spec) >= 1 && isPathSep(spec[0]) {
		return len(spec) < 2 || !isPathSep(spec[1])
	}
	return false
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isPathSep(c byte) bool {
	return c == '/' || c == '\\'
}
