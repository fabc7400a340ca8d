// Package xmla implements the XML for Analysis provider behind the SOAP
// endpoint: the Discover and Execute operations.
//
// Provider is a soap.Service. For every call it
//
//   - checks the authentication gate,
//   - decodes the request into a DiscoverRequest or ExecuteRequest,
//   - routes Discover to the DiscoveryTools handler registered for the
//     request type,
//   - for Execute, activates the requested catalog, classifies the
//     statement and runs it on the execute.Engine, then assembles the
//     multidimensional dataset.
//
// All per-call state lives in an execute.QueryContext created for that
// call. The only process-wide values are the Session and the immutable
// configuration, so concurrent calls against different catalogs never see
// each other's statement or catalog.
package xmla
