// Package proxy runs http style applications behind aws api gateway lambda
// proxy integrations.
//
// Incoming paths are first resolved against the configured service base path
// (see Resolve): with stripping enabled "/prod/users" reaches the application
// as "/users", while the stripped "/prod" is kept so that ContextPath and
// RouteContext.Link can rebuild urls as the client sees them. Paths that do
// not carry the base path are passed through unchanged.
//
// Two ways of serving requests are provided. Adapter and RequestReader turn
// events.APIGatewayProxyRequest and events.APIGatewayV2HTTPRequest into
// *http.Request for any http.Handler and convert the buffered output back
// with ResponseWriter. Router is a small regex router working directly on
// events.APIGatewayV2HTTPRequest and events.APIGatewayProxyResponse; it is
// designed to be as simplistic as possible and is not feature rich.
package proxy
