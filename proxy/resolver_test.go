package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prognoshealth/proxycontainer/containerconfig"
)

func TestResolve(t *testing.T) {
	config := stripConfig("/prod")

	cases := []struct {
		raw            string
		expectedPath   string
		expectedPrefix string
	}{
		{"/prod/users", "/users", "/prod"},
		{"/prod/users/42/", "/users/42/", "/prod"},
		{"/prod", "/", "/prod"},
		{"/prod/", "/", "/prod"},
		{"/production/users", "/production/users", ""},
		{"/Prod/users", "/Prod/users", ""},
		{"/users", "/users", ""},
		{"/", "/", ""},
		{"", "/", ""},
	}

	for _, c := range cases {
		resolved := Resolve(c.raw, config)

		assert.Equal(t, c.expectedPath, resolved.Path, c.raw)
		assert.Equal(t, c.expectedPrefix, resolved.StrippedPrefix, c.raw)
		assert.Equal(t, c.expectedPrefix != "", resolved.Stripped(), c.raw)
	}
}

func TestResolve_identityWithoutStrip(t *testing.T) {
	configs := []*containerconfig.ContainerConfig{
		nil,
		containerconfig.Default(),
		testConfig(containerconfig.WithServiceBasePath("/prod")),
		testConfig(containerconfig.WithServiceBasePath("/prod"), containerconfig.WithStripBasePath(false)),
	}

	paths := []string{"/", "/prod", "/prod/users", "/a/b/c", "/production"}

	for _, config := range configs {
		for _, p := range paths {
			resolved := Resolve(p, config)

			assert.Equal(t, p, resolved.Path)
			assert.Equal(t, p, resolved.Raw)
			assert.Equal(t, "", resolved.StrippedPrefix)
		}
	}
}

func TestResolve_stripWithoutBasePath(t *testing.T) {
	config := testConfig(containerconfig.WithStripBasePath(true))

	resolved := Resolve("/prod/users", config)

	assert.Equal(t, "/prod/users", resolved.Path)
	assert.False(t, resolved.Stripped())
}

func TestResolve_nestedBasePath(t *testing.T) {
	config := stripConfig("api/v1/")

	resolved := Resolve("/api/v1/users", config)
	assert.Equal(t, "/users", resolved.Path)
	assert.Equal(t, "/api/v1", resolved.StrippedPrefix)

	resolved = Resolve("/api/v2/users", config)
	assert.Equal(t, "/api/v2/users", resolved.Path)
	assert.Equal(t, "", resolved.StrippedPrefix)
}

func TestResolve_idempotent(t *testing.T) {
	config := stripConfig("/prod")

	for _, p := range []string{"/prod/users", "/prod/orders/7", "/prod"} {
		once := Resolve(p, config)
		twice := Resolve(once.Path, config)

		assert.Equal(t, once.Path, twice.Path, p)
		assert.False(t, twice.Stripped(), p)
	}
}

func TestResolvedPath_Restore(t *testing.T) {
	config := stripConfig("/prod")

	paths := []string{"/prod", "/prod/", "/prod/users", "/prod/users/", "/prod//double", "/production", "/"}

	for _, p := range paths {
		resolved := Resolve(p, config)
		assert.Equal(t, p, resolved.Restore(), p)
	}
}

func TestContextPath(t *testing.T) {
	cases := []struct {
		config   *containerconfig.ContainerConfig
		raw      string
		stage    string
		expected string
	}{
		{containerconfig.Default(), "/users", "prod", ""},
		{stripConfig("/api"), "/api/users", "prod", "/api"},
		{stripConfig("/api"), "/other", "prod", ""},
		{testConfig(containerconfig.WithUseStageAsServletContext(true)), "/users", "prod", "/prod"},
		{testConfig(containerconfig.WithUseStageAsServletContext(true)), "/users", "", ""},
		{testConfig(containerconfig.WithUseStageAsServletContext(true)), "/users", "$default", ""},
		{testConfig(
			containerconfig.WithServiceBasePath("/api"),
			containerconfig.WithStripBasePath(true),
			containerconfig.WithUseStageAsServletContext(true),
		), "/api/users", "dev", "/dev/api"},
	}

	for _, c := range cases {
		resolved := Resolve(c.raw, c.config)
		assert.Equal(t, c.expected, ContextPath(resolved, c.stage, c.config), c.raw)
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct {
		prefix   string
		suffix   string
		expected string
	}{
		{"", "/users", "/users"},
		{"/api", "", "/api"},
		{"/api", "/", "/api/"},
		{"/api", "/users", "/api/users"},
		{"/api/", "/users", "/api/users"},
		{"/api", "users", "/api/users"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, joinPath(c.prefix, c.suffix))
	}
}

func TestResolve_escapedBasePath(t *testing.T) {
	cases := []struct {
		basePath       string
		raw            string
		expectedPath   string
		expectedPrefix string
	}{
		{"/my api", "/my%20api/users", "/users", "/my%20api"},
		{"/my%20api", "/my%20api/users", "/users", "/my%20api"},
		{"/my api", "/my%20api", "/", "/my%20api"},
		{"/café", "/caf%C3%A9/menu", "/menu", "/caf%C3%A9"},
		{"/my api", "/my%20apis/users", "/my%20apis/users", ""},
	}

	for _, c := range cases {
		resolved := Resolve(c.raw, stripConfig(c.basePath))

		assert.Equal(t, c.expectedPath, resolved.Path, c.raw)
		assert.Equal(t, c.expectedPrefix, resolved.StrippedPrefix, c.raw)
		assert.Equal(t, c.raw, resolved.Restore(), c.raw)
	}
}
