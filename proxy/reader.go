package proxy

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/prognoshealth/proxycontainer/containerconfig"
	"github.com/prognoshealth/proxycontainer/lambdautils"
)

// RequestReader converts api gateway proxy events into http requests that can
// be served by any http.Handler.
//
// The request path is resolved against the configured base path (see
// Resolve), the gateway request context, stage variables and lambda metadata
// are attached as request attributes, and the context path is recorded so
// handlers can build links that match the externally visible url.
type RequestReader struct {
	Config *containerconfig.ContainerConfig
}

// ReadRequest converts a rest api (payload format 1.0) event.
func (reader *RequestReader) ReadRequest(ctx context.Context, request events.APIGatewayProxyRequest) (*http.Request, error) {
	resolved := Resolve(request.Path, reader.Config)

	body, err := decodeBody(request.Body, request.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	u, err := reader.requestURL(resolved.Path, queryFromParameters(request.MultiValueQueryStringParameters, request.QueryStringParameters))
	if err != nil {
		return nil, err
	}

	method := request.HTTPMethod
	if method == "" {
		method = request.RequestContext.HTTPMethod
	}

	attrs := requestAttributes(ctx, reader.Config, request.RequestContext, request.StageVariables, resolved, request.RequestContext.Stage)

	r, err := newHTTPRequest(WithAttributes(ctx, attrs), method, u, body)
	if err != nil {
		return nil, err
	}

	r.Header = headerFromParameters(request.MultiValueHeaders, request.Headers)
	r.Host = firstNonEmpty(r.Header.Get("Host"), request.RequestContext.DomainName)
	r.RemoteAddr = request.RequestContext.Identity.SourceIP
	setProto(r, request.RequestContext.Protocol)

	return r, nil
}

// ReadV2Request converts an http api (payload format 2.0) event.
func (reader *RequestReader) ReadV2Request(ctx context.Context, request events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	resolved := Resolve(request.RawPath, reader.Config)

	body, err := decodeBody(request.Body, request.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	u, err := reader.requestURL(resolved.Path, request.RawQueryString)
	if err != nil {
		return nil, err
	}

	attrs := requestAttributes(ctx, reader.Config, request.RequestContext, request.StageVariables, resolved, request.RequestContext.Stage)

	r, err := newHTTPRequest(WithAttributes(ctx, attrs), request.RequestContext.HTTP.Method, u, body)
	if err != nil {
		return nil, err
	}

	r.Header = headerFromParameters(nil, request.Headers)
	if len(request.Cookies) > 0 {
		r.Header.Set("Cookie", strings.Join(request.Cookies, "; "))
	}
	r.Host = firstNonEmpty(r.Header.Get("Host"), request.RequestContext.DomainName)
	r.RemoteAddr = request.RequestContext.HTTP.SourceIP
	setProto(r, request.RequestContext.HTTP.Protocol)

	return r, nil
}

// requestAttributes collects the attributes attached to every translated
// request.
func requestAttributes(ctx context.Context, config *containerconfig.ContainerConfig, gatewayContext interface{}, stageVariables map[string]string, resolved ResolvedPath, stage string) *Attributes {
	attrs := NewAttributes()
	setRequestAttributes(ctx, attrs, config, gatewayContext, stageVariables, resolved, stage)
	return attrs
}

func setRequestAttributes(ctx context.Context, attrs AttributeSetter, config *containerconfig.ContainerConfig, gatewayContext interface{}, stageVariables map[string]string, resolved ResolvedPath, stage string) {
	attrs.SetAttribute(APIGatewayContextProperty, gatewayContext)
	attrs.SetAttribute(APIGatewayStageVarsProperty, stageVariables)
	attrs.SetAttribute(LambdaContextProperty, lambdautils.GetLambdaMetaData(ctx))
	attrs.SetAttribute(ResolvedPathProperty, resolved)
	attrs.SetAttribute(ContextPathProperty, ContextPath(resolved, stage, config))
}

// requestURL builds the request url for the resolved path. Percent escapes in the
// path are decoded with the configured charset; the escaped form is kept in
// RawPath when it differs from the default encoding of the decoded path.
func (reader *RequestReader) requestURL(resolvedPath string, rawQuery string) (*url.URL, error) {
	decoded, err := DecodePath(resolvedPath, reader.Config.URIEncoding())
	if err != nil {
		return nil, err
	}

	u := &url.URL{Path: decoded, RawQuery: rawQuery}
	if u.EscapedPath() != resolvedPath && strings.Contains(resolvedPath, "%") {
		u.RawPath = resolvedPath
	}

	return u, nil
}

// DecodePath decodes the percent escapes in p and interprets the resulting
// bytes in the given charset. Paths without escapes are returned unchanged.
func DecodePath(p string, charset string) (string, error) {
	if !strings.Contains(p, "%") {
		return p, nil
	}

	unescaped, err := url.PathUnescape(p)
	if err != nil {
		return "", &InvalidRequestEventError{Reason: "malformed path " + p, Err: err}
	}

	if strings.EqualFold(charset, containerconfig.DefaultURIEncoding) || charset == "" {
		return unescaped, nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return "", errors.Wrapf(err, "failed resolving charset %s", charset)
	}

	decoded, err := enc.NewDecoder().String(unescaped)
	if err != nil {
		return "", &InvalidRequestEventError{Reason: "path is not valid " + charset, Err: err}
	}

	return decoded, nil
}

func decodeBody(body string, isBase64Encoded bool) ([]byte, error) {
	if !isBase64Encoded {
		return []byte(body), nil
	}

	b, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, &InvalidRequestEventError{Reason: "unable to decode request body", Err: err}
	}

	return b, nil
}

func newHTTPRequest(ctx context.Context, method string, u *url.URL, body []byte) (*http.Request, error) {
	if method == "" {
		return nil, &InvalidRequestEventError{Reason: "missing http method"}
	}

	r, err := http.NewRequestWithContext(ctx, method, "/", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed creating %s request", method)
	}

	r.URL = u
	r.RequestURI = u.RequestURI()
	r.ContentLength = int64(len(body))

	return r, nil
}

// queryFromParameters prefers the multi value parameters, which carry every
// value, over the single value ones.
func queryFromParameters(multi map[string][]string, single map[string]string) string {
	values := url.Values{}

	if len(multi) > 0 {
		for k, vs := range multi {
			for _, v := range vs {
				values.Add(k, v)
			}
		}
	} else {
		for k, v := range single {
			values.Set(k, v)
		}
	}

	return values.Encode()
}

func headerFromParameters(multi map[string][]string, single map[string]string) http.Header {
	header := http.Header{}

	if len(multi) > 0 {
		for k, vs := range multi {
			for _, v := range vs {
				header.Add(k, v)
			}
		}
	} else {
		for k, v := range single {
			header.Set(k, v)
		}
	}

	return header
}

func setProto(r *http.Request, protocol string) {
	if protocol == "" {
		return
	}

	if major, minor, ok := http.ParseHTTPVersion(protocol); ok {
		r.Proto = protocol
		r.ProtoMajor = major
		r.ProtoMinor = minor
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
