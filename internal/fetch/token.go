package fetch

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ProviderKind selects which credential a fetch should request.
type ProviderKind string

const (
	// ProviderNone requests no credential.
	ProviderNone ProviderKind = ""
	// ProviderGitHub covers github.com and raw.githubusercontent.com.
	ProviderGitHub ProviderKind = "github"
	// ProviderGitHubEnterprise covers GitHub's enterprise domains.
	ProviderGitHubEnterprise ProviderKind = "github-enterprise"
	// ProviderAzureDevOps covers dev.azure.com and *.visualstudio.com.
	ProviderAzureDevOps ProviderKind = "azure-devops"
)

// ProviderFor classifies a URL into the credential kind its fetch should
// request. Unknown hosts request no credential.
func ProviderFor(rawURL string) ProviderKind {
	if class := ClassifyGitHub(rawURL); class.Known {
		if class.Enterprise {
			return ProviderGitHubEnterprise
		}
		return ProviderGitHub
	}
	if IsAzureDevOps(rawURL) {
		return ProviderAzureDevOps
	}
	return ProviderNone
}

// TokenProvider supplies credentials for remote fetches. Implementations
// return ("", nil) when no credential is available; missing credentials are
// not an error, the fetch simply goes out unauthenticated.
type TokenProvider interface {
	Token(kind ProviderKind) (string, error)
}

// tokenEnvVars lists the environment variables consulted per provider, in
// priority order.
var tokenEnvVars = map[ProviderKind][]string{
	ProviderGitHub:           {"INSTRSYNC_GITHUB_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"},
	ProviderGitHubEnterprise: {"INSTRSYNC_GITHUB_TOKEN", "GH_ENTERPRISE_TOKEN", "GITHUB_TOKEN", "GH_TOKEN"},
	ProviderAzureDevOps:      {"INSTRSYNC_AZURE_TOKEN", "AZURE_DEVOPS_EXT_PAT", "SYSTEM_ACCESSTOKEN"},
}

// EnvTokenProvider resolves credentials from the environment, optionally
// falling back to a one-time terminal prompt per provider.
type EnvTokenProvider struct {
	// Interactive enables a terminal prompt when the environment holds no
	// credential and stdin is a terminal. Each provider is asked at most
	// once per process; an empty answer is remembered too.
	Interactive bool

	prompted map[ProviderKind]string
}

// Token implements TokenProvider.
func (p *EnvTokenProvider) Token(kind ProviderKind) (string, error) {
	if kind == ProviderNone {
		return "", nil
	}
	for _, name := range tokenEnvVars[kind] {
		if v := os.Getenv(name); v != "" {
			return v, nil
		}
	}
	if !p.Interactive {
		return "", nil
	}
	if tok, ok := p.prompted[kind]; ok {
		return tok, nil
	}
	tok := promptToken(kind)
	if p.prompted == nil {
		p.prompted = make(map[ProviderKind]string)
	}
	p.prompted[kind] = tok
	return tok, nil
}

// promptToken asks for a credential on the terminal without echoing it.
// Any prompt failure degrades to an unauthenticated fetch.
func promptToken(kind ProviderKind) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}
	fmt.Fprintf(os.Stderr, "Enter %s token (leave empty to skip): ", kind)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// StaticTokenProvider serves fixed credentials. Useful in tests and for
// callers that resolve credentials elsewhere.
type StaticTokenProvider map[ProviderKind]string

// Token implements TokenProvider.
func (p StaticTokenProvider) Token(kind ProviderKind) (string, error) {
	return p[kind], nil
}
