package soap

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/httputil"
	"github.com/olapd/olapd/pkg/logging"
	"github.com/olapd/olapd/pkg/metrics"
)

// AllowedMethods is the Allow header sent for preflight and 405 responses.
const AllowedMethods = "POST, OPTIONS"

const unknownOperation = "unknown"

// Handler serves a SOAP endpoint over HTTP.
type Handler struct {
	config  *Config
	service Service
	header  HeaderFunc
	log     *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithHeader sets the function producing the SOAP header of every response.
func WithHeader(fn HeaderFunc) Option {
	return func(h *Handler) {
		h.header = fn
	}
}

// WithLogger sets the handler logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler creates a handler dispatching to svc.
func NewHandler(config *Config, svc Service, opts ...Option) (*Handler, error) {
	if config == nil {
		return nil, errors.New("soap: config is required")
	}
	if svc == nil {
		return nil, errors.New("soap: service is required")
	}
	h := &Handler{
		config:  config,
		service: svc,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		h.servePreflight(w)
		return
	}

	for key := range r.URL.Query() {
		if strings.EqualFold(key, "wsdl") {
			h.serveWSDL(w, r)
			return
		}
	}

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", AllowedMethods)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	start := time.Now()
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize))
	defer func() { _ = r.Body.Close() }()
	if err != nil {
		h.writeFault(w, r, start, unknownOperation, &Fault{
			Code:    FaultClient,
			Message: "Failed to read request body",
			Err:     err,
		})
		return
	}

	header, op, err := parseEnvelope(body)
	if err != nil {
		h.writeFault(w, r, start, unknownOperation, &Fault{
			Code:    FaultClient,
			Message: "Failed to parse SOAP envelope: " + err.Error(),
			Err:     err,
		})
		return
	}

	call := &Call{
		Operation:   op.Tag,
		Body:        op,
		Header:      header,
		QueryString: r.URL.RawQuery,
		Request:     r,
	}
	result, err := h.service.Invoke(r.Context(), call)
	if err != nil {
		h.writeFault(w, r, start, call.Operation, AsFault(err))
		return
	}
	h.writeResponse(w, r, start, call.Operation, result)
}

// servePreflight answers OPTIONS without dispatching any operation.
func (h *Handler) servePreflight(w http.ResponseWriter) {
	w.Header().Set("Allow", AllowedMethods)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) serveWSDL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data := h.config.WSDL
	if data == nil {
		var err error
		data, err = BuildWSDL(WSDLConfig{
			ServiceName: h.config.ServiceName,
			Namespace:   h.config.Namespace,
			Location:    endpointURL(r, h.config.Path),
			Operations:  h.config.Operations,
		})
		if err != nil {
			h.log.Error("failed to build wsdl", "error", err)
			h.writeError(w, http.StatusInternalServerError, "WSDL not available")
			return
		}
	}

	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, start time.Time, operation string, result *etree.Element) {
	wrapper := etree.NewElement(operation + "Response")
	if h.config.Namespace != "" {
		wrapper.CreateAttr("xmlns", h.config.Namespace)
	}
	if result != nil {
		wrapper.AddChild(result)
	}

	if !h.write(w, http.StatusOK, wrapper) {
		return
	}

	d := time.Since(start)
	metrics.RecordRequest(operation, "ok", d)
	h.log.Info("soap call",
		"operation", operation,
		"remote", r.RemoteAddr,
		"duration_ms", d.Milliseconds(),
	)
}

// writeFault sends fault with HTTP 500 as SOAP 1.1 requires.
func (h *Handler) writeFault(w http.ResponseWriter, r *http.Request, start time.Time, operation string, fault *Fault) {
	h.write(w, http.StatusInternalServerError, faultElement(fault))

	d := time.Since(start)
	metrics.RecordRequest(operation, "fault", d)
	metrics.RecordFault(fault.Code)

	attrs := []any{
		"operation", operation,
		"remote", r.RemoteAddr,
		"code", fault.Code,
		"message", fault.Message,
		"duration_ms", d.Milliseconds(),
	}
	if fault.Err != nil {
		attrs = append(attrs, "error", fault.Err)
	}
	if strings.HasPrefix(fault.Code, FaultServer) {
		h.log.Error("soap fault", attrs...)
	} else {
		h.log.Warn("soap fault", attrs...)
	}
}

// write serializes an envelope around payload. It reports false when the
// envelope could not be written.
func (h *Handler) write(w http.ResponseWriter, status int, payload *etree.Element) bool {
	var header *etree.Element
	if h.header != nil {
		header = h.header()
	}
	doc := newEnvelope(header, payload)

	out, err := doc.WriteToBytes()
	if err != nil {
		h.log.Error("failed to serialize soap envelope", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return false
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	_, _ = w.Write(out)
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	httputil.WriteText(w, status, message)
}

func endpointURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	if path == "" {
		path = r.URL.Path
	}
	return scheme + "://" + r.Host + path
}
