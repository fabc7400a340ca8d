package discover

import (
	"context"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/xmla"
)

// DiscoverDatasources lists the single datasource served.
func (t *Tools) DiscoverDatasources(context.Context) (*etree.Element, error) {
	rs := NewRowset(
		str("DataSourceName"),
		str("DataSourceDescription"),
		str("URL"),
		str("DataSourceInfo"),
		str("ProviderName"),
		str("ProviderType"),
		str("AuthenticationMode"),
	)
	ds := t.datasource
	rs.Add(ds.Name, ds.Description, ds.URL, ds.Info, ds.Provider, "MDP", "Unauthenticated")
	return rs.Element(), nil
}

// DiscoverProperties lists the server properties. The Catalog property
// echoes the catalog of the request.
func (t *Tools) DiscoverProperties(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("PropertyName"),
		str("PropertyDescription"),
		str("PropertyType"),
		str("PropertyAccessType"),
		boolean("IsRequired"),
		str("Value"),
	)
	rs.Add("ServerName", "ServerName", "string", "Read", "false", t.datasource.Name)
	rs.Add("ProviderVersion", "ProviderVersion", "string", "Read", "false", "0.1")
	rs.Add("ProviderName", "ProviderName", "string", "Read", "false", t.datasource.Provider)
	rs.Add("DBMSVersion", "DBMSVersion", "string", "Read", "false", "0.1")
	rs.Add("MdpropMdxSubqueries", "MdpropMdxSubqueries", "int", "Read", "false", "15")
	rs.Add("MdpropMdxDrillFunctions", "MdpropMdxDrillFunctions", "int", "Read", "false", "3")
	rs.Add("MdpropMdxNamedSets", "MdpropMdxNamedSets", "int", "Read", "false", "15")
	rs.Add("Catalog", "Catalog", "string", "ReadWrite", "false", req.Catalog())
	rs.Add("Timeout", "Timeout", "int", "ReadWrite", "false", "0")
	return rs.Filter(req.Restrictions).Element(), nil
}

// DiscoverSchemaRowsets lists the request types this server answers.
func (t *Tools) DiscoverSchemaRowsets(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(str("SchemaName"), str("SchemaGuid"), str("Description"), uint32c("RestrictionsMask"))
	for _, rt := range xmla.RequestTypes() {
		rs.Add(rt, "", rt)
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

var enumerators = []struct {
	name, description, enumType string
	values                     []string
}{
	{"ProviderType", "The types of data supported by the provider.", "string", []string{"TDP", "MDP", "DMP"}},
	{"AuthenticationMode", "Specification of what type of security mode the data source uses.", "string", []string{"Unauthenticated", "Authenticated", "Integrated"}},
	{"PropertyAccessType", "Access for a property.", "string", []string{"Read", "Write", "ReadWrite"}},
	{"StateSupport", "Support for session state.", "string", []string{"None", "Sessions"}},
}

// DiscoverEnumerators lists the enumerations used by other rowsets.
func (t *Tools) DiscoverEnumerators(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("EnumName"),
		str("EnumDescription"),
		str("EnumType"),
		str("ElementName"),
		str("ElementDescription"),
		str("ElementValue"),
	)
	for _, e := range enumerators {
		for i, v := range e.values {
			rs.Add(e.name, e.description, e.enumType, v, "", itoa(i))
		}
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

var keywords = []string{
	"AGGREGATE", "ANCESTOR", "AND", "ASC", "AS", "AXIS", "BASC", "BDESC",
	"CELL", "CHAPTERS", "CHILDREN", "COLUMNS", "CROSSJOIN", "CURRENTMEMBER",
	"DESC", "DESCENDANTS", "DIMENSION", "DRILLTHROUGH", "EMPTY", "EXCEPT",
	"FILTER", "FROM", "HIERARCHIZE", "HIERARCHY", "IIF", "IS", "LEVEL",
	"MEMBER", "MEMBERS", "NON", "NOT", "ON", "OR", "ORDER", "PAGES",
	"PROPERTIES", "ROWS", "SECTIONS", "SELECT", "SET", "STRTOMEMBER",
	"STRTOSET", "TOPCOUNT", "UNION", "WHERE", "WITH", "XOR",
}

// DiscoverKeywords lists the reserved words of the query language.
func (t *Tools) DiscoverKeywords(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(str("Keyword"))
	for _, k := range keywords {
		rs.Add(k)
	}
	return rs.Filter(req.Restrictions).Element(), nil
}

var literals = []struct {
	name, value, invalid, invalidStart string
	maxLength, enum                    int
}{
	{"DBLITERAL_CATALOG_NAME", "", ".", "0123456789", 24, 2},
	{"DBLITERAL_CATALOG_SEPARATOR", ".", "", "", 0, 3},
	{"DBLITERAL_COLUMN_ALIAS", "", "'\"[]", "0123456789", -1, 5},
	{"DBLITERAL_COLUMN_NAME", "", ".", "0123456789", -1, 6},
	{"DBLITERAL_CORRELATION_NAME", "", "'\"[]", "0123456789", -1, 7},
	{"DBLITERAL_CUBE_NAME", "", ".", "0123456789", -1, 21},
	{"DBLITERAL_DIMENSION_NAME", "", ".", "0123456789", -1, 22},
	{"DBLITERAL_HIERARCHY_NAME", "", ".", "0123456789", -1, 23},
	{"DBLITERAL_LEVEL_NAME", "", ".", "0123456789", -1, 24},
	{"DBLITERAL_MEMBER_NAME", "", ".", "0123456789", -1, 25},
	{"DBLITERAL_PROCEDURE_NAME", "", ".", "0123456789", -1, 14},
	{"DBLITERAL_PROPERTY_NAME", "", ".", "0123456789", -1, 26},
	{"DBLITERAL_QUOTE_PREFIX", "[", "", "", -1, 15},
	{"DBLITERAL_QUOTE_SUFFIX", "]", "", "", -1, 28},
	{"DBLITERAL_TABLE_NAME", "", ".", "0123456789", -1, 17},
	{"DBLITERAL_TEXT_COMMAND", "", "", "", -1, 18},
	{"DBLITERAL_USER_NAME", "", "", "", 0, 19},
}

// DiscoverLiterals lists the literals of the query language.
func (t *Tools) DiscoverLiterals(_ context.Context, req *xmla.DiscoverRequest) (*etree.Element, error) {
	rs := NewRowset(
		str("LiteralName"),
		str("LiteralValue"),
		str("LiteralInvalidChars"),
		str("LiteralInvalidStartingChars"),
		integer("LiteralMaxLength"),
		integer("LiteralNameEnumValue"),
	)
	for _, l := range literals {
		rs.Add(l.name, l.value, l.invalid, l.invalidStart, itoa(l.maxLength), itoa(l.enum))
	}
	return rs.Filter(req.Restrictions).Element(), nil
}
