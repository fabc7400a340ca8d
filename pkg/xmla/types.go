package xmla

// XML namespaces of XMLA payloads.
const (
	Namespace          = "urn:schemas-microsoft-com:xml-analysis"
	EmptyNamespace     = Namespace + ":empty"
	MDDatasetNamespace = Namespace + ":mddataset"
	RowsetNamespace    = Namespace + ":rowset"
	EngineNamespace    = "http://schemas.microsoft.com/analysisservices/2003/engine"
	XSDNamespace       = "http://www.w3.org/2001/XMLSchema"
	XSINamespace       = "http://www.w3.org/2001/XMLSchema-instance"
)

// ServiceName is the SOAP service name advertised in the WSDL.
const ServiceName = "XmlaProviderService"

// SOAP operations.
const (
	OperationDiscover = "Discover"
	OperationExecute  = "Execute"
)

// Operations lists the supported SOAP operations.
func Operations() []string {
	return []string{OperationDiscover, OperationExecute}
}

// Discover request types.
const (
	RequestDiscoverDatasources           = "DISCOVER_DATASOURCES"
	RequestDiscoverProperties            = "DISCOVER_PROPERTIES"
	RequestDiscoverSchemaRowsets         = "DISCOVER_SCHEMA_ROWSETS"
	RequestDiscoverEnumerators           = "DISCOVER_ENUMERATORS"
	RequestDiscoverKeywords              = "DISCOVER_KEYWORDS"
	RequestDiscoverLiterals              = "DISCOVER_LITERALS"
	RequestDBSchemaCatalogs              = "DBSCHEMA_CATALOGS"
	RequestDBSchemaTables                = "DBSCHEMA_TABLES"
	RequestMDSchemaCubes                 = "MDSCHEMA_CUBES"
	RequestMDSchemaDimensions            = "MDSCHEMA_DIMENSIONS"
	RequestMDSchemaHierarchies           = "MDSCHEMA_HIERARCHIES"
	RequestMDSchemaLevels                = "MDSCHEMA_LEVELS"
	RequestMDSchemaMeasures              = "MDSCHEMA_MEASURES"
	RequestMDSchemaMeasureGroups         = "MDSCHEMA_MEASUREGROUPS"
	RequestMDSchemaMeasureGroupDimension = "MDSCHEMA_MEASUREGROUP_DIMENSIONS"
	RequestMDSchemaSets                  = "MDSCHEMA_SETS"
	RequestMDSchemaKPIs                  = "MDSCHEMA_KPIS"
	RequestMDSchemaProperties            = "MDSCHEMA_PROPERTIES"
	RequestMDSchemaMembers               = "MDSCHEMA_MEMBERS"
	RequestMDSchemaFunctions             = "MDSCHEMA_FUNCTIONS"
	RequestMDSchemaActions               = "MDSCHEMA_ACTIONS"
)

// RequestTypes returns every supported Discover request type in routing
// table order.
func RequestTypes() []string {
	return []string{
		RequestDiscoverDatasources,
		RequestDiscoverProperties,
		RequestDiscoverSchemaRowsets,
		RequestDiscoverEnumerators,
		RequestDiscoverKeywords,
		RequestDiscoverLiterals,
		RequestDBSchemaCatalogs,
		RequestDBSchemaTables,
		RequestMDSchemaCubes,
		RequestMDSchemaDimensions,
		RequestMDSchemaHierarchies,
		RequestMDSchemaLevels,
		RequestMDSchemaMeasures,
		RequestMDSchemaMeasureGroups,
		RequestMDSchemaMeasureGroupDimension,
		RequestMDSchemaSets,
		RequestMDSchemaKPIs,
		RequestMDSchemaProperties,
		RequestMDSchemaMembers,
		RequestMDSchemaFunctions,
		RequestMDSchemaActions,
	}
}
