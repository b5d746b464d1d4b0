package proxy

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"regexp"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// RouteHandler defines the function interface the route uses to execute a
// request when the route is matched.
type RouteHandler func(*RouteContext) (events.APIGatewayProxyResponse, error)

// Route defines a HttpMethod and Regex that are used in combination for
// matching against an incoming request. When a match occurs the configured
// handler is called.
type Route struct {
	Method  HttpMethod
	Regex   *regexp.Regexp
	Handler RouteHandler
}

// NewRoute returns a Route for the specified method, pattern and handler.
func NewRoute(method HttpMethod, pattern string, handler RouteHandler) (*Route, error) {
	rx, err := regexp.Compile("^" + pattern + "/?$")

	if err != nil {
		return nil, errors.Wrapf(err, "failed compiling regex pattern '%s'", pattern)
	}

	route := &Route{
		Method:  method,
		Regex:   rx,
		Handler: handler,
	}

	return route, nil
}

// String returns a string representation of this route.
func (route *Route) String() string {
	return fmt.Sprintf("%s %s", route.Method, route.Regex)
}

// IsMatch return true if the method and the resolved path match the route,
// otherwise false. The match groups are also returned.
func (route *Route) IsMatch(method string, path string) (bool, []string) {
	if m, err := ParseHttpMethod(method); err != nil || m != route.Method {
		return false, nil
	}

	groups := route.Regex.FindStringSubmatch(path)

	if len(groups) == 0 {
		return false, nil
	}

	return true, groups
}

// Context constructs a RouteContext for the route for passing to the handler.
//
// Params are collected from the query string, the api gateway path
// parameters, a url encoded form body and finally the named regex groups;
// later sources win on a name clash.
func (route *Route) Context(ctx context.Context, request events.APIGatewayV2HTTPRequest, resolved ResolvedPath, groups []string) (*RouteContext, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no matches available, unable to generate context for route %v", route)
	}

	params := make(map[string]string)

	for k, v := range request.QueryStringParameters {
		params[k] = v
	}

	for k, v := range request.PathParameters {
		params[k] = v
	}

	if err := route.extractParamsFromFormPost(params, request); err != nil {
		return nil, errors.Wrapf(err, "failed extracting form params for route %v", route)
	}

	for i, name := range route.Regex.SubexpNames() {
		if i != 0 && name != "" && groups[i] != "" {
			params[name] = groups[i]
		}
	}

	return &RouteContext{
		Context: ctx,
		Request: request,
		Path:    resolved,
		Params:  params,
	}, nil
}

// extractParamsFromFormPost adds the fields of a url encoded POST body to
// params. Other requests are left alone.
func (route *Route) extractParamsFromFormPost(params map[string]string, request events.APIGatewayV2HTTPRequest) error {
	if route.Method != POST {
		return nil
	}

	contentType := request.Headers["content-type"]
	if contentType == "" {
		contentType = request.Headers["Content-Type"]
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "application/x-www-form-urlencoded" {
		return nil
	}

	body, err := (&RouteContext{Request: request}).Body()
	if err != nil {
		return err
	}

	values, err := url.ParseQuery(body)
	if err != nil {
		return errors.Wrap(err, "unable to decode form body")
	}

	for k := range values {
		params[k] = values.Get(k)
	}

	return nil
}

// Follow extracts the route context for the given request and executed the
// route's handler function.
func (route *Route) Follow(ctx context.Context, request events.APIGatewayV2HTTPRequest, resolved ResolvedPath, groups []string) (events.APIGatewayProxyResponse, error) {
	rctx, err := route.Context(ctx, request, resolved, groups)

	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrapf(err, "failed getting context for route %v", route.Regex)
	}

	return route.Handler(rctx)
}
