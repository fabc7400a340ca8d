package soap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

const testNS = "urn:test"

type recordingService struct {
	calls  []*Call
	result func(*Call) *etree.Element
	err    error
}

func (s *recordingService) Invoke(_ context.Context, call *Call) (*etree.Element, error) {
	s.calls = append(s.calls, call)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result(call), nil
	}
	return etree.NewElement("return"), nil
}

func testHeader() *etree.Element {
	el := etree.NewElement("Session")
	el.CreateAttr("xmlns", testNS)
	el.CreateAttr("SessionId", "abc")
	return el
}

// mustNewHandler creates a new handler and fails the test if it errors.
func mustNewHandler(t *testing.T, svc Service) *Handler {
	t.Helper()
	handler, err := NewHandler(&Config{
		Path:        "/xmla",
		ServiceName: "TestService",
		Namespace:   testNS,
		Operations:  []string{"Discover", "Execute"},
	}, svc, WithHeader(testHeader))
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}
	return handler
}

func envelope(body string) string {
	return `<?xml version="1.0"?>` +
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<SOAP-ENV:Body>` + body + `</SOAP-ENV:Body>` +
		`</SOAP-ENV:Envelope>`
}

func parseResponse(t *testing.T, rec *httptest.ResponseRecorder) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rec.Body.Bytes()); err != nil {
		t.Fatalf("response is not XML: %v\n%s", err, rec.Body.String())
	}
	return doc.Root()
}

func TestNewHandler_Validation(t *testing.T) {
	if _, err := NewHandler(nil, &recordingService{}); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewHandler(&Config{}, nil); err == nil {
		t.Error("expected error for nil service")
	}
}

func TestHandler_Dispatch(t *testing.T) {
	svc := &recordingService{}
	h := mustNewHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/xmla?admin",
		strings.NewReader(envelope(`<Discover xmlns="urn:test"><RequestType>X</RequestType></Discover>`)))
	req.Header.Set("Content-Type", ContentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != ContentType {
		t.Errorf("expected content type %q, got %q", ContentType, ct)
	}
	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(svc.calls))
	}
	call := svc.calls[0]
	if call.Operation != "Discover" {
		t.Errorf("expected operation Discover, got %q", call.Operation)
	}
	if call.QueryString != "admin" {
		t.Errorf("expected query string admin, got %q", call.QueryString)
	}
	if got := Text(call.Body, "RequestType"); got != "X" {
		t.Errorf("expected RequestType X, got %q", got)
	}

	root := parseResponse(t, rec)
	session := Find(root, "Header", "Session")
	if session == nil || session.SelectAttrValue("SessionId", "") != "abc" {
		t.Errorf("missing session header in %s", rec.Body.String())
	}
	wrapper := Find(root, "Body", "DiscoverResponse")
	if wrapper == nil {
		t.Fatalf("missing DiscoverResponse in %s", rec.Body.String())
	}
	if ns := wrapper.SelectAttrValue("xmlns", ""); ns != testNS {
		t.Errorf("expected wrapper namespace %q, got %q", testNS, ns)
	}
	if Child(wrapper, "return") == nil {
		t.Error("expected return element inside wrapper")
	}
}

func TestHandler_Faults(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "typed fault",
			err:      &Fault{Code: "soap:Client.InvalidCredentialsError", Message: "denied"},
			wantCode: "soap:Client.InvalidCredentialsError",
			wantMsg:  "denied",
		},
		{
			name:     "wrapped fault",
			err:      errors.Join(errors.New("context"), &Fault{Code: "soap:Server.Timeout", Message: "slow"}),
			wantCode: "soap:Server.Timeout",
			wantMsg:  "slow",
		},
		{
			name:     "plain error",
			err:      errors.New("boom <&>"),
			wantCode: FaultServer,
			wantMsg:  "boom <&>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mustNewHandler(t, &recordingService{err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/xmla", strings.NewReader(envelope(`<Execute/>`)))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}
			root := parseResponse(t, rec)
			fault := Find(root, "Body", "Fault")
			if fault == nil {
				t.Fatalf("missing fault in %s", rec.Body.String())
			}
			if got := Text(fault, "faultcode"); got != tt.wantCode {
				t.Errorf("faultcode = %q, want %q", got, tt.wantCode)
			}
			if got := Text(fault, "faultstring"); got != tt.wantMsg {
				t.Errorf("faultstring = %q, want %q", got, tt.wantMsg)
			}
			if Find(root, "Header", "Session") == nil {
				t.Error("expected session header on fault")
			}
		})
	}
}

func TestHandler_MalformedEnvelope(t *testing.T) {
	tests := map[string]string{
		"not xml":        "this is not xml",
		"wrong root":     `<Foo/>`,
		"missing body":   `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"/>`,
		"empty body":     envelope(""),
		"soap 1.2":       `<env:Envelope xmlns:env="http://www.w3.org/2003/05/soap-envelope"><env:Body><Discover/></env:Body></env:Envelope>`,
		"truncated body": `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &recordingService{}
			h := mustNewHandler(t, svc)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/xmla", strings.NewReader(body)))

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}
			if len(svc.calls) != 0 {
				t.Error("service must not be called for malformed envelopes")
			}
			root := parseResponse(t, rec)
			if got := Text(root, "Body", "Fault", "faultcode"); got != FaultClient {
				t.Errorf("expected %s, got %q", FaultClient, got)
			}
		})
	}
}

func TestHandler_Preflight(t *testing.T) {
	svc := &recordingService{}
	h := mustNewHandler(t, svc)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/xmla", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST, OPTIONS" {
		t.Errorf("expected Allow: POST, OPTIONS, got %q", allow)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
	if len(svc.calls) != 0 {
		t.Error("preflight must not dispatch")
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := mustNewHandler(t, &recordingService{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/xmla", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, rec.Code)
		}
	}
}

func TestHandler_WSDL(t *testing.T) {
	h := mustNewHandler(t, &recordingService{})

	req := httptest.NewRequest(http.MethodGet, "http://olap.example.com/xmla?WSDL", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		t.Fatalf("invalid wsdl: %v", err)
	}
	root := doc.Root()
	if root.Tag != "definitions" {
		t.Errorf("expected definitions root, got %s", root.Tag)
	}
	addr := Find(root, "service", "port", "address")
	if addr == nil || addr.SelectAttrValue("location", "") != "http://olap.example.com/xmla" {
		t.Errorf("unexpected soap:address in %s", body)
	}
	var ops []string
	for _, op := range Child(root, "portType").ChildElements() {
		ops = append(ops, op.SelectAttrValue("name", ""))
	}
	if strings.Join(ops, ",") != "Discover,Execute" {
		t.Errorf("unexpected operations %v", ops)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/xmla?wsdl", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST ?wsdl: expected 405, got %d", rec.Code)
	}
}

func TestHandler_StaticWSDL(t *testing.T) {
	static := []byte(`<definitions name="Static"/>`)
	h, err := NewHandler(&Config{WSDL: static}, &recordingService{})
	if err != nil {
		t.Fatalf("NewHandler failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/xmla?wsdl", nil))
	if rec.Body.String() != string(static) {
		t.Errorf("expected static wsdl, got %q", rec.Body.String())
	}
}

func TestBuildWSDL_Validation(t *testing.T) {
	if _, err := BuildWSDL(WSDLConfig{Operations: []string{"Discover"}}); err == nil {
		t.Error("expected error without service name")
	}
	if _, err := BuildWSDL(WSDLConfig{ServiceName: "S"}); err == nil {
		t.Error("expected error without operations")
	}
}

func TestText(t *testing.T) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(`<a><x:b xmlns:x="urn:x"><c>  value  </c></x:b></a>`); err != nil {
		t.Fatal(err)
	}
	if got := Text(doc.Root(), "b", "c"); got != "value" {
		t.Errorf("expected value, got %q", got)
	}
	if got := Text(doc.Root(), "b", "missing"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
	if Find(nil, "a") != nil {
		t.Error("expected nil for nil parent")
	}
}

func TestHandler_Latin1Envelope(t *testing.T) {
	svc := &recordingService{}
	h := mustNewHandler(t, svc)

	body := `<?xml version="1.0" encoding="ISO-8859-1"?>` +
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">` +
		`<SOAP-ENV:Body><Execute xmlns="urn:test"><Command><Statement>caf` + "\xe9" +
		`</Statement></Command></Execute></SOAP-ENV:Body></SOAP-ENV:Envelope>`
	req := httptest.NewRequest(http.MethodPost, "/xmla", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(svc.calls))
	}
	if got := Text(svc.calls[0].Body, "Command", "Statement"); got != "café" {
		t.Errorf("expected statement café, got %q", got)
	}
}
