package proxy

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prognoshealth/proxycontainer/containerconfig"
)

// Adapter serves api gateway proxy events with an ordinary http.Handler.
//
// Example:
//
//	func main() {
//		config, err := containerconfig.New(
//			containerconfig.WithServiceBasePath("/api"),
//			containerconfig.WithStripBasePath(true),
//		)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		adapter := proxy.NewAdapter(mux, config)
//		lambda.Start(adapter.Proxy)
//	}
type Adapter struct {
	Handler http.Handler
	Config  *containerconfig.ContainerConfig
	Logger  logrus.FieldLogger

	reader *RequestReader
}

// AdapterOption customises an Adapter built by NewAdapter.
type AdapterOption func(*Adapter)

// WithLogger sets the logger used for invocation and base path diagnostics.
func WithLogger(logger logrus.FieldLogger) AdapterOption {
	return func(adapter *Adapter) {
		adapter.Logger = logger
	}
}

// NewAdapter returns an Adapter serving handler with config. A nil config
// selects containerconfig.Default().
func NewAdapter(handler http.Handler, config *containerconfig.ContainerConfig, opts ...AdapterOption) *Adapter {
	if config == nil {
		config = containerconfig.Default()
	}

	adapter := &Adapter{
		Handler: handler,
		Config:  config,
		Logger:  logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(adapter)
	}

	adapter.reader = &RequestReader{Config: config}
	return adapter
}

// Proxy serves a rest api (payload format 1.0) event.
func (adapter *Adapter) Proxy(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := adapter.Logger.WithFields(logrus.Fields{
		"request_id": request.RequestContext.RequestID,
		"stage":      request.RequestContext.Stage,
	})
	adapter.checkBasePath(logger, request.Path)

	r, err := adapter.reader.ReadRequest(ctx, request)
	if err != nil {
		logger.WithError(err).Warn("failed reading request event")
		return events.APIGatewayProxyResponse{}, errors.Wrap(err, "failed reading request event")
	}

	w := NewResponseWriter()
	adapter.Handler.ServeHTTP(w, r)

	logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": w.StatusCode(),
	}).Debug("served request")

	return w.ProxyResponse(adapter.Config), nil
}

// ProxyV2 serves an http api (payload format 2.0) event.
func (adapter *Adapter) ProxyV2(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	logger := adapter.Logger.WithFields(logrus.Fields{
		"request_id": request.RequestContext.RequestID,
		"stage":      request.RequestContext.Stage,
	})
	adapter.checkBasePath(logger, request.RawPath)

	r, err := adapter.reader.ReadV2Request(ctx, request)
	if err != nil {
		logger.WithError(err).Warn("failed reading request event")
		return events.APIGatewayV2HTTPResponse{}, errors.Wrap(err, "failed reading request event")
	}

	w := NewResponseWriter()
	adapter.Handler.ServeHTTP(w, r)

	logger.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
		"status": w.StatusCode(),
	}).Debug("served request")

	return w.V2Response(adapter.Config), nil
}

// checkBasePath logs requests that should have carried the base path but did
// not. They are still served with their original path.
func (adapter *Adapter) checkBasePath(logger logrus.FieldLogger, rawPath string) {
	basePath := adapter.Config.ServiceBasePath()
	if !adapter.Config.IsStripBasePath() || basePath == "" {
		return
	}

	if !Resolve(rawPath, adapter.Config).Stripped() {
		logger.WithFields(logrus.Fields{
			"path":      rawPath,
			"base_path": basePath,
		}).Warn("request path does not start with base path, passing through unchanged")
	}
}
