// Package server wires the XMLA provider, the catalog registry and the
// operational endpoints into an HTTP server.
//
// Routes:
//
//	/xmla      SOAP endpoint (POST, OPTIONS, GET ?wsdl); the path is configurable
//	/healthz   liveness
//	/readyz    readiness: the catalog source can be listed
//	/metrics   Prometheus text exposition
package server
