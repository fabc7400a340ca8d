package soap

import (
	"context"
	"errors"
	"net/http"

	"github.com/beevik/etree"
)

// Namespace is the SOAP 1.1 envelope namespace.
const Namespace = "http://schemas.xmlsoap.org/soap/envelope/"

// ContentType is the SOAP 1.1 media type.
const ContentType = "text/xml; charset=utf-8"

// Generic fault codes.
const (
	FaultClient = "soap:Client"
	FaultServer = "soap:Server"
)

// MaxBodySize bounds request bodies.
const MaxBodySize = 10 << 20

// Call is one parsed SOAP request.
type Call struct {
	// Operation is the local name of the first Body child.
	Operation string
	// Body is the operation element itself.
	Body *etree.Element
	// Header is the SOAP Header element, or nil.
	Header *etree.Element
	// QueryString is the raw URL query of the HTTP request.
	QueryString string
	Request     *http.Request
}

// Service executes SOAP calls. The returned element is placed inside the
// operation response wrapper.
type Service interface {
	Invoke(ctx context.Context, call *Call) (*etree.Element, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, call *Call) (*etree.Element, error)

// Invoke calls f.
func (f ServiceFunc) Invoke(ctx context.Context, call *Call) (*etree.Element, error) {
	return f(ctx, call)
}

// HeaderFunc returns the element placed in the SOAP Header of every
// response. Returning nil omits the header.
type HeaderFunc func() *etree.Element

// Fault is a SOAP 1.1 fault. It is also an error so services can return it.
type Fault struct {
	Code    string
	Message string
	Detail  string
	// Err is the underlying cause, kept for logging.
	Err error
}

func (f *Fault) Error() string {
	if f.Message == "" {
		return f.Code
	}
	return f.Code + ": " + f.Message
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// AsFault returns the *Fault in err's chain, or a soap:Server fault
// wrapping err.
func AsFault(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return &Fault{Code: FaultServer, Message: err.Error(), Err: err}
}

// Config configures a Handler.
type Config struct {
	// Path the handler is mounted on, used in the generated WSDL.
	Path string
	// ServiceName is the WSDL service name.
	ServiceName string
	// Namespace is the target namespace of the operations and of the
	// response wrapper elements.
	Namespace string
	// Operations lists the operation names advertised in the WSDL.
	Operations []string
	// WSDL, when set, is served instead of the generated document.
	WSDL []byte
}
