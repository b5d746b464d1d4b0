package proxy

import (
	"bytes"
	"encoding/base64"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"

	"github.com/prognoshealth/proxycontainer/containerconfig"
)

const setCookieHeader = "Set-Cookie"

// ResponseWriter is an http.ResponseWriter that buffers everything a handler
// writes so it can be returned to api gateway as a proxy response. A
// ResponseWriter serves a single invocation.
type ResponseWriter struct {
	header http.Header
	body   bytes.Buffer
	status int
}

// NewResponseWriter returns an empty ResponseWriter.
func NewResponseWriter() *ResponseWriter {
	return &ResponseWriter{header: http.Header{}}
}

// Header returns the response headers.
func (w *ResponseWriter) Header() http.Header {
	if w.header == nil {
		w.header = http.Header{}
	}
	return w.header
}

// Write appends b to the buffered body, implicitly writing a 200 status.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.body.Write(b)
}

// WriteHeader records the status code. Only the first call has an effect.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.status != 0 {
		return
	}
	w.status = statusCode
}

// StatusCode returns the recorded status, 200 if none was written.
func (w *ResponseWriter) StatusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// ProxyResponse converts the buffered response into a rest api response.
//
// Headers carries the first value of each header and MultiValueHeaders every
// value. Set-Cookie is the exception: api gateway merges both maps, so both
// carry the same cookies. That is all cookies joined with ", " when the
// configuration consolidates Set-Cookie headers, and the first cookie
// otherwise.
func (w *ResponseWriter) ProxyResponse(config *containerconfig.ContainerConfig) events.APIGatewayProxyResponse {
	body, isBase64 := w.encodedBody()

	header := w.Header().Clone()
	if cookies := header.Values(setCookieHeader); len(cookies) > 0 {
		header[setCookieHeader] = []string{setCookieValue(cookies, config.IsConsolidateSetCookieHeaders())}
	}

	return events.APIGatewayProxyResponse{
		StatusCode:        w.StatusCode(),
		Headers:           singleValueHeaders(header),
		MultiValueHeaders: multiValueHeaders(header),
		Body:              body,
		IsBase64Encoded:   isBase64,
	}
}

// V2Response converts the buffered response into an http api response.
// Repeated headers are joined with ",". Set-Cookie headers are returned
// through Cookies, which api gateway emits as separate headers; only the
// first one is kept unless the configuration consolidates them.
func (w *ResponseWriter) V2Response(config *containerconfig.ContainerConfig) events.APIGatewayV2HTTPResponse {
	body, isBase64 := w.encodedBody()

	header := w.Header().Clone()
	cookies := header.Values(setCookieHeader)
	header.Del(setCookieHeader)

	if len(cookies) > 1 && !config.IsConsolidateSetCookieHeaders() {
		cookies = cookies[:1]
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode:      w.StatusCode(),
		Headers:         joinedHeaders(header),
		Body:            body,
		IsBase64Encoded: isBase64,
		Cookies:         cookies,
	}
}

// encodedBody returns the body as a string, base64 encoded when it is binary.
func (w *ResponseWriter) encodedBody() (string, bool) {
	b := w.body.Bytes()
	if isTextContent(w.Header().Get("Content-Type"), b) {
		return string(b), false
	}
	return base64.StdEncoding.EncodeToString(b), true
}

func setCookieValue(cookies []string, consolidate bool) string {
	if consolidate {
		return strings.Join(cookies, ", ")
	}
	return cookies[0]
}

func singleValueHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}
	return headers
}

func joinedHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for name, values := range header {
		if len(values) > 0 {
			headers[name] = strings.Join(values, ",")
		}
	}
	return headers
}

func multiValueHeaders(header http.Header) map[string][]string {
	headers := make(map[string][]string, len(header))
	for name, values := range header {
		headers[name] = append([]string(nil), values...)
	}
	return headers
}

// isTextContent reports whether a body can be returned to api gateway as is.
// Bodies without a content type are sniffed.
func isTextContent(contentType string, body []byte) bool {
	if len(body) == 0 {
		return true
	}

	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	textual := strings.HasPrefix(mediaType, "text/") ||
		strings.HasSuffix(mediaType, "+json") ||
		strings.HasSuffix(mediaType, "+xml")

	switch mediaType {
	case "application/json", "application/xml", "application/javascript", "application/x-www-form-urlencoded":
		textual = true
	}

	return textual && utf8.Valid(body)
}
