// Package soap is the SOAP 1.1 transport of the XMLA endpoint.
//
// Handler parses envelopes, hands the first Body child to a Service and
// wraps what the service returns in a <{Operation}Response> element. Errors
// returned by the service become SOAP faults; a *Fault carries its own code,
// anything else is reported as soap:Server.
//
// Every response, faults included, may carry a SOAP header produced by a
// HeaderFunc. The XMLA provider uses it for the Session element.
//
//	h, err := soap.NewHandler(&soap.Config{
//	    Path:        "/xmla",
//	    ServiceName: "XmlaProviderService",
//	    Namespace:   "urn:schemas-microsoft-com:xml-analysis",
//	    Operations:  []string{"Discover", "Execute"},
//	}, provider, soap.WithHeader(session.Header))
//
// OPTIONS requests are answered with Allow: POST, OPTIONS and no body. GET
// with a ?wsdl query returns a WSDL describing the configured operations.
package soap
