package proxy

import "fmt"

// HttpMethod is an enum of the standard Http Methods.
type HttpMethod int

const (
	GET HttpMethod = iota
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

var httpMethodNames = [...]string{"GET", "HEAD", "POST", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

func (method HttpMethod) String() string {
	if method < 0 || int(method) >= len(httpMethodNames) {
		return fmt.Sprintf("HttpMethod(%d)", int(method))
	}
	return httpMethodNames[method]
}

// ParseHttpMethod returns the HttpMethod for its upper case name.
func ParseHttpMethod(name string) (HttpMethod, error) {
	for i, n := range httpMethodNames {
		if n == name {
			return HttpMethod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown http method '%s'", name)
}
