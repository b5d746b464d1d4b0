package proxy

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/prognoshealth/proxycontainer/containerconfig"
)

func testHandler(context *RouteContext) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{StatusCode: 200}, nil
}

func testRequest(method HttpMethod, path string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: method.String(),
			},
		},
		Headers: map[string]string{},
	}
}

func testProxyRequest(method HttpMethod, path string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{
		Path:       path,
		HTTPMethod: method.String(),
		RequestContext: events.APIGatewayProxyRequestContext{
			Stage:      "prod",
			DomainName: "abc123.execute-api.us-east-1.amazonaws.com",
			RequestID:  "req-1",
			Protocol:   "HTTP/1.1",
			Identity: events.APIGatewayRequestIdentity{
				SourceIP: "203.0.113.7",
			},
		},
	}
}

func testConfig(opts ...containerconfig.Option) *containerconfig.ContainerConfig {
	config, err := containerconfig.New(opts...)
	if err != nil {
		log.Fatal(err)
	}
	return config
}

func stripConfig(basePath string) *containerconfig.ContainerConfig {
	return testConfig(
		containerconfig.WithServiceBasePath(basePath),
		containerconfig.WithStripBasePath(true),
	)
}

func dummy(v interface{}, category string) interface{} {
	file := fmt.Sprintf("testdata/%s.json", category)
	content, err := ioutil.ReadFile(file)
	if err != nil {
		log.Fatal(err)
	}

	err = json.Unmarshal(content, v)
	if err != nil {
		log.Fatal(err)
	}

	return v
}

func dummyAPIGatewayV2HTTPRequest(category string) events.APIGatewayV2HTTPRequest {
	return *dummy(&events.APIGatewayV2HTTPRequest{}, category).(*events.APIGatewayV2HTTPRequest)
}

func dummyAPIGatewayProxyRequest(category string) events.APIGatewayProxyRequest {
	return *dummy(&events.APIGatewayProxyRequest{}, category).(*events.APIGatewayProxyRequest)
}
