package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/config"
	"github.com/olapd/olapd/pkg/xmla"
)

const testDataDir = "../catalog/testdata"

const envelope = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Header>
    <BeginSession xmlns="urn:schemas-microsoft-com:xml-analysis"/>
  </soap:Header>
  <soap:Body>%s</soap:Body>
</soap:Envelope>`

func discoverBody(requestType, restrictions, properties string) string {
	return fmt.Sprintf(envelope, `<Discover xmlns="urn:schemas-microsoft-com:xml-analysis">
  <RequestType>`+requestType+`</RequestType>
  <Restrictions><RestrictionList>`+restrictions+`</RestrictionList></Restrictions>
  <Properties><PropertyList>`+properties+`</PropertyList></Properties>
</Discover>`)
}

func executeBody(statement, catalogName string) string {
	return fmt.Sprintf(envelope, `<Execute xmlns="urn:schemas-microsoft-com:xml-analysis">
  <Command><Statement>`+statement+`</Statement></Command>
  <Properties><PropertyList><Catalog>`+catalogName+`</Catalog></PropertyList></Properties>
</Execute>`)
}

func newTestServer(t *testing.T, mutate func(cfg *config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.Source.DataDir = testDataDir
	if mutate != nil {
		mutate(cfg)
	}

	registry := catalog.NewRegistry(catalog.NewCSVSource(cfg.Source.DataDir))
	t.Cleanup(func() { _ = registry.Close() })

	s, err := New(cfg, registry, WithSession(xmla.NewSessionWithID("test-session")))
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

type soapResponse struct {
	status int
	body   *etree.Element
	header *etree.Element
}

func post(t *testing.T, url, body string) soapResponse {
	t.Helper()
	resp, err := http.Post(url, "text/xml; charset=utf-8", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/xml; charset=utf-8", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data), "body: %s", data)
	env := doc.Root()
	require.NotNil(t, env)
	return soapResponse{
		status: resp.StatusCode,
		body:   env.SelectElement("Body").ChildElements()[0],
		header: env.SelectElement("Header"),
	}
}

func sessionID(t *testing.T, r soapResponse) string {
	t.Helper()
	require.NotNil(t, r.header, "missing SOAP header")
	s := r.header.SelectElement("Session")
	require.NotNil(t, s, "missing Session header")
	assert.Equal(t, xmla.Namespace, s.SelectAttrValue("xmlns", ""))
	return s.SelectAttrValue("SessionId", "")
}

func rowValues(ret *etree.Element, column string) []string {
	var out []string
	for _, row := range ret.FindElements("root/row") {
		if el := row.SelectElement(column); el != nil {
			out = append(out, el.Text())
		}
	}
	return out
}

func TestServer_DiscoverCubes(t *testing.T) {
	_, ts := newTestServer(t, nil)

	r := post(t, ts.URL+"/xmla", discoverBody(xmla.RequestMDSchemaCubes, "", ""))

	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "DiscoverResponse", r.body.Tag)
	assert.Equal(t, xmla.Namespace, r.body.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "test-session", sessionID(t, r))

	ret := r.body.SelectElement("return")
	require.NotNil(t, ret)
	assert.Equal(t, []string{"foodmart", "sales"}, rowValues(ret, "CUBE_NAME"))
}

func TestServer_DiscoverDimensionsOfCatalog(t *testing.T) {
	_, ts := newTestServer(t, nil)

	r := post(t, ts.URL+"/xmla", discoverBody(xmla.RequestMDSchemaDimensions,
		"<CATALOG_NAME>sales</CATALOG_NAME>", "<Catalog>sales</Catalog>"))

	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, []string{"[Measures]", "[Product]", "[Store]"},
		rowValues(r.body.SelectElement("return"), "DIMENSION_UNIQUE_NAME"))
}

func TestServer_ExecuteTotals(t *testing.T) {
	_, ts := newTestServer(t, nil)

	r := post(t, ts.URL+"/xmla", executeBody("SELECT {[Measures].[amount]} ON COLUMNS FROM [sales]", "sales"))

	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, "ExecuteResponse", r.body.Tag)
	assert.Equal(t, "test-session", sessionID(t, r))

	root := r.body.FindElement("return/root")
	require.NotNil(t, root)
	assert.Equal(t, xmla.MDDatasetNamespace, root.SelectAttrValue("xmlns", ""))
	assert.Equal(t, "sales", root.FindElement("OlapInfo/CubeInfo/Cube/CubeName").Text())

	cells := root.FindElements("CellData/Cell")
	require.Len(t, cells, 1)
	assert.Equal(t, "20", cells[0].SelectElement("Value").Text())
	assert.Equal(t, "[Measures].[amount]", root.FindElement("Axes/Axis/Tuples/Tuple/Member/UName").Text())
}

func TestServer_ExecuteEmptyStatement(t *testing.T) {
	_, ts := newTestServer(t, nil)

	r := post(t, ts.URL+"/xmla", executeBody("", "sales"))

	require.Equal(t, http.StatusOK, r.status)
	root := r.body.FindElement("return/root")
	require.NotNil(t, root)
	assert.Equal(t, xmla.EmptyNamespace, root.SelectAttrValue("xmlns", ""))
	assert.Empty(t, root.ChildElements())
}

func TestServer_ExecuteUnknownCatalog(t *testing.T) {
	_, ts := newTestServer(t, nil)

	r := post(t, ts.URL+"/xmla", executeBody("SELECT 1", "nope"))

	require.Equal(t, http.StatusInternalServerError, r.status)
	assert.Equal(t, "Fault", r.body.Tag)
	assert.Equal(t, xmla.FaultCatalogNotFound, r.body.SelectElement("faultcode").Text())
	assert.Equal(t, "test-session", sessionID(t, r))
}

func TestServer_Authentication(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.XMLA.Authentication = true
	})

	r := post(t, ts.URL+"/xmla", discoverBody(xmla.RequestDBSchemaCatalogs, "", ""))
	require.Equal(t, http.StatusInternalServerError, r.status)
	assert.Equal(t, xmla.FaultInvalidCredentials, r.body.SelectElement("faultcode").Text())
	assert.Equal(t, xmla.InvalidCredentialsMessage, r.body.SelectElement("faultstring").Text())
	assert.Equal(t, "test-session", sessionID(t, r))

	r = post(t, ts.URL+"/xmla?admin", discoverBody(xmla.RequestDBSchemaCatalogs, "", ""))
	require.Equal(t, http.StatusOK, r.status)
	assert.Equal(t, []string{"foodmart", "sales"}, rowValues(r.body.SelectElement("return"), "CATALOG_NAME"))

	r = post(t, ts.URL+"/xmla", executeBody("SELECT {[Measures].[count]} ON 0 FROM [sales]", "sales"))
	require.Equal(t, http.StatusOK, r.status, "Execute is not gated unless authenticate_execute is set")
}

func TestServer_AuthenticateExecute(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.XMLA.Authentication = true
		cfg.XMLA.AuthenticateExecute = true
	})

	r := post(t, ts.URL+"/xmla", executeBody("SELECT 1", "sales"))
	require.Equal(t, http.StatusInternalServerError, r.status)
	assert.Equal(t, xmla.FaultInvalidCredentials, r.body.SelectElement("faultcode").Text())
}

func TestServer_Preflight(t *testing.T) {
	_, ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/xmla", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "POST, OPTIONS", resp.Header.Get("Allow"))
}

func TestServer_CORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.XMLA.CORSOrigins = []string{"https://excel.example"}
	})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/xmla", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://excel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
	assert.Equal(t, "https://excel.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_WSDL(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/xmla?wsdl")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), xmla.ServiceName)
	assert.Contains(t, string(body), ts.URL+"/xmla")
}

func TestServer_HealthAndReady(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
	assert.Contains(t, string(body), `"session":"test-session"`)

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"catalogs":3`)
}

func TestServer_Metrics(t *testing.T) {
	_, ts := newTestServer(t, nil)

	post(t, ts.URL+"/xmla", discoverBody(xmla.RequestDiscoverDatasources, "", ""))

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `olapd_xmla_requests_total{operation="Discover",outcome="ok"}`)
}

func TestServer_StartStop(t *testing.T) {
	s, _ := newTestServer(t, nil)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start fails")

	addr := s.Addr()
	require.NotNil(t, addr)
	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.Nil(t, s.Addr())
	require.NoError(t, s.Stop(ctx), "stopping twice is a no-op")
}
