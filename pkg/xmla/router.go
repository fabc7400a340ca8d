package xmla

import (
	"context"
	"strings"

	"github.com/beevik/etree"
)

// DiscoveryTools produces the rowset of every supported request type.
// DiscoverDatasources takes no request: the datasource list doesn't
// depend on restrictions or properties.
type DiscoveryTools interface {
	DiscoverDatasources(ctx context.Context) (*etree.Element, error)
	DiscoverProperties(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	DiscoverSchemaRowsets(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	DiscoverEnumerators(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	DiscoverKeywords(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	DiscoverLiterals(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	DBSchemaCatalogs(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	DBSchemaTables(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaCubes(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaDimensions(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaHierarchies(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaLevels(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaMeasures(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaMeasureGroups(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaMeasureGroupDimensions(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaSets(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaKPIs(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaProperties(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaMembers(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaFunctions(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
	MDSchemaActions(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
}

type (
	noArgHandler   func(ctx context.Context) (*etree.Element, error)
	requestHandler func(ctx context.Context, req *DiscoverRequest) (*etree.Element, error)
)

type route struct {
	noArg noArgHandler
	req   requestHandler
}

// Router maps Discover request types to handlers. Only the request types
// in its table are served.
type Router struct {
	routes map[string]route
}

// NewRouter builds the routing table over tools.
func NewRouter(tools DiscoveryTools) *Router {
	return &Router{routes: map[string]route{
		RequestDiscoverDatasources:           {noArg: tools.DiscoverDatasources},
		RequestDiscoverProperties:            {req: tools.DiscoverProperties},
		RequestDiscoverSchemaRowsets:         {req: tools.DiscoverSchemaRowsets},
		RequestDiscoverEnumerators:           {req: tools.DiscoverEnumerators},
		RequestDiscoverKeywords:              {req: tools.DiscoverKeywords},
		RequestDiscoverLiterals:              {req: tools.DiscoverLiterals},
		RequestDBSchemaCatalogs:              {req: tools.DBSchemaCatalogs},
		RequestDBSchemaTables:                {req: tools.DBSchemaTables},
		RequestMDSchemaCubes:                 {req: tools.MDSchemaCubes},
		RequestMDSchemaDimensions:            {req: tools.MDSchemaDimensions},
		RequestMDSchemaHierarchies:           {req: tools.MDSchemaHierarchies},
		RequestMDSchemaLevels:                {req: tools.MDSchemaLevels},
		RequestMDSchemaMeasures:              {req: tools.MDSchemaMeasures},
		RequestMDSchemaMeasureGroups:         {req: tools.MDSchemaMeasureGroups},
		RequestMDSchemaMeasureGroupDimension: {req: tools.MDSchemaMeasureGroupDimensions},
		RequestMDSchemaSets:                  {req: tools.MDSchemaSets},
		RequestMDSchemaKPIs:                  {req: tools.MDSchemaKPIs},
		RequestMDSchemaProperties:            {req: tools.MDSchemaProperties},
		RequestMDSchemaMembers:               {req: tools.MDSchemaMembers},
		RequestMDSchemaFunctions:             {req: tools.MDSchemaFunctions},
		RequestMDSchemaActions:               {req: tools.MDSchemaActions},
	}}
}

// Dispatch calls the handler registered for req.RequestType. Request
// types are matched case-insensitively.
func (r *Router) Dispatch(ctx context.Context, req *DiscoverRequest) (*etree.Element, error) {
	rt, ok := r.routes[strings.ToUpper(strings.TrimSpace(req.RequestType))]
	if !ok {
		return nil, &UnsupportedRequestError{RequestType: req.RequestType}
	}
	if rt.noArg != nil {
		return rt.noArg(ctx)
	}
	return rt.req(ctx, req)
}

// Supports reports whether requestType has a handler.
func (r *Router) Supports(requestType string) bool {
	_, ok := r.routes[strings.ToUpper(strings.TrimSpace(requestType))]
	return ok
}
