package proxy

import (
	"context"
	"net/http"
	"sync"
)

// Attribute keys set on every translated request.
const (
	APIGatewayContextProperty   = "com.amazonaws.apigateway.request.context"
	APIGatewayStageVarsProperty = "com.amazonaws.apigateway.stage.variables"
	LambdaContextProperty       = "com.amazonaws.lambda.context"
	ResolvedPathProperty        = "com.amazonaws.serverless.resolved.path"
	ContextPathProperty         = "com.amazonaws.serverless.context.path"
)

// AttributeSetter is the capability the request reader needs to attach values
// to a request.
type AttributeSetter interface {
	SetAttribute(key string, value interface{})
}

// Attributes is a set of named values attached to a translated request. It is
// safe for concurrent use.
type Attributes struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewAttributes returns an empty attribute set.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]interface{})}
}

// SetAttribute stores value under key, replacing any previous value.
func (attrs *Attributes) SetAttribute(key string, value interface{}) {
	attrs.mu.Lock()
	defer attrs.mu.Unlock()

	if attrs.values == nil {
		attrs.values = make(map[string]interface{})
	}
	attrs.values[key] = value
}

// Attribute returns the value stored under key and whether it was present.
func (attrs *Attributes) Attribute(key string) (interface{}, bool) {
	attrs.mu.RLock()
	defer attrs.mu.RUnlock()

	v, ok := attrs.values[key]
	return v, ok
}

// Names returns the keys of all stored attributes.
func (attrs *Attributes) Names() []string {
	attrs.mu.RLock()
	defer attrs.mu.RUnlock()

	names := make([]string, 0, len(attrs.values))
	for k := range attrs.values {
		names = append(names, k)
	}
	return names
}

type attributesKey struct{}

// WithAttributes returns a copy of ctx carrying attrs.
func WithAttributes(ctx context.Context, attrs *Attributes) context.Context {
	return context.WithValue(ctx, attributesKey{}, attrs)
}

// AttributesFromContext returns the attributes carried by ctx, if any.
func AttributesFromContext(ctx context.Context) (*Attributes, bool) {
	attrs, ok := ctx.Value(attributesKey{}).(*Attributes)
	return attrs, ok
}

// AttributesFromRequest returns the attributes attached to a request built by
// the RequestReader. A request without attributes yields an empty set.
func AttributesFromRequest(r *http.Request) *Attributes {
	if attrs, ok := AttributesFromContext(r.Context()); ok {
		return attrs
	}
	return NewAttributes()
}

// RequestContextPath returns the context path recorded on a translated
// request, or "" if there is none.
func RequestContextPath(r *http.Request) string {
	v, _ := AttributesFromRequest(r).Attribute(ContextPathProperty)
	contextPath, _ := v.(string)
	return contextPath
}
