package proxy

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// RouteContext contains all the request information for a route when matched.
type RouteContext struct {
	Context context.Context
	Request events.APIGatewayV2HTTPRequest
	Path    ResolvedPath
	Params  map[string]string
}

// Body returns a string representation of the request body
func (ctx *RouteContext) Body() (string, error) {
	b, err := decodeBody(ctx.Request.Body, ctx.Request.IsBase64Encoded)
	if err != nil {
		return "", errors.Wrapf(err, "unable to decode request body for request %v", ctx.Request.RawPath)
	}

	return string(b), nil
}

// ContextPath returns the externally visible prefix of the application as
// recorded by the router, see the package level ContextPath.
func (ctx *RouteContext) ContextPath() string {
	if ctx.Context == nil {
		return ""
	}

	attrs, ok := AttributesFromContext(ctx.Context)
	if !ok {
		return ""
	}

	v, _ := attrs.Attribute(ContextPathProperty)
	contextPath, _ := v.(string)
	return contextPath
}

// Link returns p prefixed with the context path so it resolves to this
// application from the client's point of view.
func (ctx *RouteContext) Link(p string) string {
	return joinPath(ctx.ContextPath(), p)
}
