// Command proxyecho is a lambda function that answers api gateway proxy
// events with a description of the request it received. It is useful for
// checking base path and stage settings of a deployment.
//
// Configuration is read from PROXY_* environment variables, or from the
// parameter store when PROXY_PARAMETER_PATH is set. PROXY_PAYLOAD_VERSION
// selects the event format ("1.0" for rest apis, "2.0" for http apis).
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sort"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prognoshealth/proxycontainer/containerconfig"
	"github.com/prognoshealth/proxycontainer/lambdautils"
	"github.com/prognoshealth/proxycontainer/proxy"
)

const envPrefix = "PROXY_"

type echo struct {
	Method      string              `json:"method"`
	Path        string              `json:"path"`
	ContextPath string              `json:"contextPath"`
	Query       map[string][]string `json:"query,omitempty"`
	Attributes  []string            `json:"attributes"`
	RequestID   string              `json:"requestId,omitempty"`
	Alias       string              `json:"alias,omitempty"`
}

func echoHandler(logger logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := lambdautils.GetLambdaMetaData(r.Context())

		attributes := proxy.AttributesFromRequest(r).Names()
		sort.Strings(attributes)

		b, err := json.Marshal(echo{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContextPath: proxy.RequestContextPath(r),
			Query:       r.URL.Query(),
			Attributes:  attributes,
			RequestID:   meta.RequestID,
			Alias:       meta.Alias(),
		})
		if err != nil {
			logger.WithError(err).WithField("request_id", meta.RequestID).Error("failed encoding echo")
			http.Error(w, "failed encoding echo", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(b); err != nil {
			logger.WithError(err).WithField("request_id", meta.RequestID).Warn("failed writing echo")
		}
	}
}

func newMux(logger logrus.FieldLogger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", echoHandler(logger))
	return mux
}

func loadConfig(ctx context.Context) (*containerconfig.ContainerConfig, error) {
	if p := os.Getenv(envPrefix + "PARAMETER_PATH"); p != "" {
		loader := containerconfig.NewParameterStoreLoader(os.Getenv("AWS_REGION"), p)
		loader.WithDecryption = true
		return loader.Load(ctx)
	}
	return containerconfig.FromEnvironment(envPrefix)
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if os.Getenv(envPrefix+"DEBUG") != "" {
		logger.SetLevel(logrus.DebugLevel)
	}

	config, err := loadConfig(context.Background())
	if err != nil {
		logger.WithError(errors.Wrap(err, "failed loading configuration")).Fatal("unable to start")
	}
	logger.WithField("config", config.String()).Info("starting")

	adapter := proxy.NewAdapter(newMux(logger), config, proxy.WithLogger(logger))

	if os.Getenv(envPrefix+"PAYLOAD_VERSION") == "2.0" {
		lambda.Start(adapter.ProxyV2)
		return
	}
	lambda.Start(adapter.Proxy)
}
