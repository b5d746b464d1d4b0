package proxy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRoute(t *testing.T) {
	r, err := NewRoute(GET, "/users", testHandler)

	assert.NoError(t, err)
	assert.Equal(t, GET, r.Method)
	assert.True(t, r.Regex.MatchString("/users"))
	assert.False(t, r.Regex.MatchString("/users/somethingelse"))
	assert.NotNil(t, r.Handler)
}

func TestNewRoute_Error(t *testing.T) {
	_, err := NewRoute(GET, "asom (?<in-invalid>.*)", testHandler)
	assert.Error(t, err)
}

func TestRoute_IsMatch(t *testing.T) {
	r, err := NewRoute(GET, "/users", testHandler)
	assert.NoError(t, err)

	cases := []struct {
		method         string
		path           string
		expectedMatch  bool
		expectedGroups []string
	}{
		{"GET", "/users", true, []string{"/users"}},
		{"GET", "/users/", true, []string{"/users/"}},
		{"GET", "/something-else", false, nil},
		{"POST", "/users", false, nil},
		{"GET", "/prod/users", false, nil},
		{"get", "/users", false, nil},
		{"FETCH", "/users", false, nil},
	}

	for _, c := range cases {
		matched, groups := r.IsMatch(c.method, c.path)

		assert.Equal(t, c.expectedMatch, matched, c.path)
		assert.Equal(t, c.expectedGroups, groups, c.path)
	}
}

func TestRoute_IsMatch_wild(t *testing.T) {
	r, err := NewRoute(OPTIONS, ".*", testHandler)
	assert.NoError(t, err)

	matched, groups := r.IsMatch("OPTIONS", "/users")

	assert.True(t, matched)
	assert.Equal(t, []string{"/users"}, groups)
}

func TestRoute_IsMatch_groups(t *testing.T) {
	r, err := NewRoute(GET, "/users/(?P<key>[^/]+)", testHandler)
	assert.NoError(t, err)

	matched, groups := r.IsMatch("GET", "/users/the-id")

	assert.True(t, matched)
	assert.Equal(t, []string{"/users/the-id", "the-id"}, groups)
}

func TestRoute_Context(t *testing.T) {
	r, err := NewRoute(GET, "/users", testHandler)
	assert.NoError(t, err)

	ctx := context.Background()
	request := testRequest(GET, "/users")
	resolved := Resolve(request.RawPath, nil)

	matched, groups := r.IsMatch(request.RequestContext.HTTP.Method, resolved.Path)
	assert.True(t, matched)

	rctx, err := r.Context(ctx, request, resolved, groups)

	assert.NoError(t, err)
	assert.Equal(t, ctx, rctx.Context)
	assert.Equal(t, request, rctx.Request)
	assert.Equal(t, resolved, rctx.Path)
	assert.Empty(t, rctx.Params)
}

func TestRoute_Context_noGroups(t *testing.T) {
	r, err := NewRoute(GET, "/users", testHandler)
	assert.NoError(t, err)

	request := testRequest(GET, "/users")

	_, err = r.Context(context.Background(), request, Resolve(request.RawPath, nil), nil)
	assert.Error(t, err)
}

func TestRoute_Context_strippedPath(t *testing.T) {
	r, err := NewRoute(GET, "/users/(?P<id>[0-9]+)", testHandler)
	assert.NoError(t, err)

	request := testRequest(GET, "/prod/users/4")
	resolved := Resolve(request.RawPath, stripConfig("/prod"))

	matched, groups := r.IsMatch("GET", resolved.Path)
	assert.True(t, matched)

	rctx, err := r.Context(context.Background(), request, resolved, groups)

	assert.NoError(t, err)
	assert.Equal(t, "/users/4", rctx.Path.Path)
	assert.Equal(t, "/prod", rctx.Path.StrippedPrefix)
	assert.Equal(t, map[string]string{"id": "4"}, rctx.Params)
}

func TestRoute_Context_params(t *testing.T) {
	cases := []struct {
		method   HttpMethod
		pattern  string
		category string
		expected map[string]string
	}{
		{GET, "/wowza", "params-query", map[string]string{"jones": "arm", "whoop": "poor"}},
		{POST, "/wowza", "params-form", map[string]string{"dude": "the dude", "wow": "scooby"}},
		{GET, "/wowza", "params-awspath", map[string]string{"jones": "leg", "whoop": "mistake"}},
		{POST, "/wowza/(?P<regex>[^/]+)", "params-multi", map[string]string{
			"form":      "hi",
			"regex":     "hi",
			"query":     "hi",
			"awsparams": "hi",
		}},
	}

	for _, c := range cases {
		r, err := NewRoute(c.method, c.pattern, testHandler)
		assert.NoError(t, err)

		request := dummyAPIGatewayV2HTTPRequest(c.category)
		resolved := Resolve(request.RawPath, nil)

		matched, groups := r.IsMatch(request.RequestContext.HTTP.Method, resolved.Path)
		assert.True(t, matched, c.category)

		rctx, err := r.Context(context.Background(), request, resolved, groups)

		assert.NoError(t, err, c.category)
		assert.Equal(t, c.expected, rctx.Params, c.category)
	}
}

func TestRoute_Context_params_regexWins(t *testing.T) {
	r, err := NewRoute(GET, "/users/(?P<id>[0-9]+)", testHandler)
	assert.NoError(t, err)

	request := testRequest(GET, "/users/4")
	request.QueryStringParameters = map[string]string{"id": "99", "page": "2"}

	rctx, err := r.Context(context.Background(), request, Resolve(request.RawPath, nil), []string{"/users/4", "4"})

	assert.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "4", "page": "2"}, rctx.Params)
}

func TestRoute_extractParamsFromFormPost(t *testing.T) {
	cases := []struct {
		method          HttpMethod
		contentType     string
		body            string
		isBase64Encoded bool
		expected        map[string]string
	}{
		{GET, "application/x-www-form-urlencoded", "a=b", false, map[string]string{}},
		{POST, "text/plain", "a=b", false, map[string]string{}},
		{POST, "", "a=b", false, map[string]string{}},
		{POST, "application/x-www-form-urlencoded", "eW9sbz1kaWNlJnN1cGVyPXNtYXJ0eStwYW50eg==", true, map[string]string{
			"super": "smarty pantz",
			"yolo":  "dice",
		}},
		{POST, "application/x-www-form-urlencoded", "super=red+sonya&die=hard", false, map[string]string{
			"super": "red sonya",
			"die":   "hard",
		}},
	}

	for _, c := range cases {
		r, err := NewRoute(c.method, "/hi", testHandler)
		assert.NoError(t, err)

		request := testRequest(c.method, "/hi")
		request.Headers["content-type"] = c.contentType
		request.Body = c.body
		request.IsBase64Encoded = c.isBase64Encoded

		params := map[string]string{}
		err = r.extractParamsFromFormPost(params, request)

		assert.NoError(t, err, c.body)
		assert.Equal(t, c.expected, params, c.body)
	}
}

func TestRoute_extractParamsFromFormPost_errors(t *testing.T) {
	cases := []struct {
		body            string
		isBase64Encoded bool
		expectedError   string
	}{
		{"eW9sbz1ka****==", true, "illegal base64 data"},
		{"asdfg=hi %Z yolo", false, "unable to decode"},
	}

	for _, c := range cases {
		r, err := NewRoute(POST, "/hi", testHandler)
		assert.NoError(t, err)

		request := testRequest(POST, "/hi")
		request.Headers["Content-Type"] = "application/x-www-form-urlencoded"
		request.Body = c.body
		request.IsBase64Encoded = c.isBase64Encoded

		err = r.extractParamsFromFormPost(map[string]string{}, request)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), c.expectedError)
	}
}

func TestRoute_Follow(t *testing.T) {
	r, err := NewRoute(GET, "/users", testHandler)
	assert.NoError(t, err)

	request := testRequest(GET, "/users")
	resolved := Resolve(request.RawPath, nil)

	matched, groups := r.IsMatch("GET", resolved.Path)
	assert.True(t, matched)

	response, err := r.Follow(context.Background(), request, resolved, groups)

	assert.NoError(t, err)
	assert.Equal(t, 200, response.StatusCode)
}

func TestRoute_Follow_error(t *testing.T) {
	r, err := NewRoute(GET, "/users", testHandler)
	assert.NoError(t, err)

	request := testRequest(GET, "/users")

	_, err = r.Follow(context.Background(), request, Resolve(request.RawPath, nil), []string{})
	assert.Error(t, err)
}

func TestRoute_String(t *testing.T) {
	r, err := NewRoute(PATCH, "/users/(?P<id>[0-9]+)", testHandler)
	assert.NoError(t, err)

	assert.Equal(t, "PATCH ^/users/(?P<id>[0-9]+)/?$", r.String())
}
