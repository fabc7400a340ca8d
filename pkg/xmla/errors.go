package xmla

import (
	"context"
	"errors"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/soap"
)

// Fault codes returned to clients.
const (
	FaultInvalidCredentials   = "soap:Client.InvalidCredentialsError"
	FaultUnsupportedOperation = "soap:Client.UnsupportedOperation"
	FaultCatalogNotFound      = "soap:Client.CatalogNotFound"
	FaultTimeout              = "soap:Server.Timeout"
)

// InvalidCredentialsMessage is the faultstring of rejected requests.
const InvalidCredentialsMessage = "You do not have permission to access this resource"

var (
	// ErrInvalidCredentials is returned by the authentication gate.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnsupportedRequestType is wrapped by UnsupportedRequestError.
	ErrUnsupportedRequestType = errors.New("unsupported request type")

	// ErrUnsupportedOperation is returned for SOAP operations other than
	// Discover and Execute.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrMalformedRequest is returned when a request body lacks required
	// elements.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrExecutionTimeout is returned when a statement runs past the
	// request timeout.
	ErrExecutionTimeout = errors.New("statement execution timed out")
)

// UnsupportedRequestError reports a Discover request type with no handler.
type UnsupportedRequestError struct {
	RequestType string
}

func (e *UnsupportedRequestError) Error() string {
	return "unsupported request type " + e.RequestType
}

func (e *UnsupportedRequestError) Unwrap() error {
	return ErrUnsupportedRequestType
}

// FaultFor maps an error of the provider to the SOAP fault sent to clients.
func FaultFor(err error) *soap.Fault {
	var f *soap.Fault
	if errors.As(err, &f) {
		return f
	}

	fault := &soap.Fault{Code: soap.FaultServer, Message: err.Error(), Err: err}
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		fault.Code = FaultInvalidCredentials
		fault.Message = InvalidCredentialsMessage
	case errors.Is(err, ErrUnsupportedRequestType), errors.Is(err, ErrUnsupportedOperation):
		fault.Code = FaultUnsupportedOperation
	case errors.Is(err, catalog.ErrCatalogNotFound):
		fault.Code = FaultCatalogNotFound
	case errors.Is(err, ErrExecutionTimeout), errors.Is(err, context.DeadlineExceeded):
		fault.Code = FaultTimeout
	case errors.Is(err, ErrMalformedRequest):
		fault.Code = soap.FaultClient
	}
	return fault
}
