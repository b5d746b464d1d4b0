package proxy

import (
	"net/url"
	"strings"

	"github.com/prognoshealth/proxycontainer/containerconfig"
)

// ResolvedPath is the outcome of resolving an incoming request path against
// the configured service base path.
type ResolvedPath struct {
	// Raw is the path as received from api gateway.
	Raw string
	// Path is the path handed to the router or http handler.
	Path string
	// StrippedPrefix is the base path removed from Raw, or "" if nothing was
	// removed.
	StrippedPrefix string
}

// Resolve maps rawPath onto the path a downstream handler should route on.
//
// The base path is only removed when stripping is enabled, a base path is
// configured, and rawPath equals the base path or continues it with "/".
// Matching is case-sensitive and never matches part of a segment, so with a
// base path of "/prod" the path "/production/users" passes through as is.
//
// rawPath is still escaped. The base path may be configured either escaped
// or decoded: "/my api" and "/my%20api" both match "/my%20api/users", and
// StrippedPrefix holds the prefix as it appeared in rawPath.
//
// A path that does not start with the base path is returned unchanged. This
// is not an error: callers get the original path back and routing proceeds
// on a best effort basis.
func Resolve(rawPath string, config *containerconfig.ContainerConfig) ResolvedPath {
	if rawPath == "" {
		rawPath = "/"
	}

	resolved := ResolvedPath{Raw: rawPath, Path: rawPath}

	basePath := config.ServiceBasePath()
	if !config.IsStripBasePath() || basePath == "" {
		return resolved
	}

	if !hasBasePath(rawPath, basePath) {
		basePath = escapePath(basePath)
		if !hasBasePath(rawPath, basePath) {
			return resolved
		}
	}

	resolved.Path = rawPath[len(basePath):]
	if !strings.HasPrefix(resolved.Path, "/") {
		resolved.Path = "/" + resolved.Path
	}
	resolved.StrippedPrefix = basePath

	return resolved
}

// escapePath percent-encodes p the way it appears in a request path.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}

// hasBasePath reports whether p equals basePath or is nested under it.
func hasBasePath(p, basePath string) bool {
	return p == basePath || strings.HasPrefix(p, basePath+"/")
}

// Stripped returns true if a base path was removed.
func (resolved ResolvedPath) Stripped() bool {
	return resolved.StrippedPrefix != ""
}

// Restore joins the stripped prefix back onto the resolved path, giving the
// externally visible path. When stripping occurred it is equal to Raw.
func (resolved ResolvedPath) Restore() string {
	if !resolved.Stripped() {
		return resolved.Path
	}

	// "/" stands in for an empty remainder when Raw was the bare base path.
	if resolved.Path == "/" && !strings.HasSuffix(resolved.Raw, "/") {
		return resolved.StrippedPrefix
	}

	return joinPath(resolved.StrippedPrefix, resolved.Path)
}

// ContextPath returns the path prefix under which the application is visible
// to clients: the stage name (only when the configuration reports the stage
// as the context root) followed by the stripped base path. It is "" when
// neither applies, in which case the application is served from "/".
//
// Link builders should prefix generated paths with this value.
func ContextPath(resolved ResolvedPath, stage string, config *containerconfig.ContainerConfig) string {
	contextPath := ""

	if config.IsUseStageAsServletContext() && stage != "" && stage != "$default" {
		contextPath = "/" + strings.Trim(stage, "/")
	}

	if resolved.StrippedPrefix != "" {
		contextPath = joinPath(contextPath, resolved.StrippedPrefix)
	}

	return contextPath
}

// joinPath concatenates prefix and suffix with a single "/" between them.
func joinPath(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}

	if suffix == "" {
		return prefix
	}

	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(suffix, "/")
}
