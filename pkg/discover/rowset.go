package discover

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/olapd/olapd/pkg/xmla"
)

const sqlNamespace = "urn:schemas-microsoft-com:xml-sql"

// Column types.
const (
	typeString   = "xsd:string"
	typeInt      = "xsd:int"
	typeUInt     = "xsd:unsignedInt"
	typeShort    = "xsd:short"
	typeUShort   = "xsd:unsignedShort"
	typeBoolean  = "xsd:boolean"
	typeDateTime = "xsd:dateTime"
)

// Column is one field of a rowset.
type Column struct {
	Name string
	Type string
}

func str(name string) Column     { return Column{Name: name, Type: typeString} }
func integer(name string) Column { return Column{Name: name, Type: typeInt} }
func uint32c(name string) Column { return Column{Name: name, Type: typeUInt} }
func short(name string) Column   { return Column{Name: name, Type: typeShort} }
func ushort(name string) Column  { return Column{Name: name, Type: typeUShort} }
func boolean(name string) Column { return Column{Name: name, Type: typeBoolean} }
func datetime(name string) Column {
	return Column{Name: name, Type: typeDateTime}
}

// Rowset is a table of string values with a fixed column list. Empty values
// are omitted from the rendered row.
type Rowset struct {
	columns []Column
	index   map[string]int
	rows    [][]string
}

// NewRowset creates an empty rowset with the given columns.
func NewRowset(columns ...Column) *Rowset {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c.Name] = i
	}
	return &Rowset{columns: columns, index: index}
}

// Add appends a row. Values are positional and must match the columns;
// trailing columns may be left out.
func (rs *Rowset) Add(values ...string) {
	if len(values) > len(rs.columns) {
		panic(fmt.Sprintf("discover: row has %d values, rowset has %d columns", len(values), len(rs.columns)))
	}
	row := make([]string, len(rs.columns))
	copy(row, values)
	rs.rows = append(rs.rows, row)
}

// Len returns the number of rows.
func (rs *Rowset) Len() int {
	return len(rs.rows)
}

// Value returns the value of column name in row i.
func (rs *Rowset) Value(i int, name string) string {
	c, ok := rs.index[name]
	if !ok || i < 0 || i >= len(rs.rows) {
		return ""
	}
	return rs.rows[i][c]
}

// Filter removes the rows that don't match restrictions. Restrictions on
// unknown columns and empty restriction values are ignored.
func (rs *Rowset) Filter(restrictions map[string]string) *Rowset {
	for name, want := range restrictions {
		c, ok := rs.index[name]
		if !ok || want == "" {
			continue
		}
		kept := rs.rows[:0]
		for _, row := range rs.rows {
			if row[c] == want {
				kept = append(kept, row)
			}
		}
		rs.rows = kept
	}
	return rs
}

// Element renders the rowset inside a return element.
func (rs *Rowset) Element() *etree.Element {
	ret := etree.NewElement("return")
	root := ret.CreateElement("root")
	root.CreateAttr("xmlns", xmla.RowsetNamespace)
	root.CreateAttr("xmlns:xsd", xmla.XSDNamespace)
	root.CreateAttr("xmlns:xsi", xmla.XSINamespace)
	root.AddChild(rs.schema())

	for _, values := range rs.rows {
		row := root.CreateElement("row")
		for i, v := range values {
			if v == "" {
				continue
			}
			row.CreateElement(rs.columns[i].Name).SetText(v)
		}
	}
	return ret
}

func (rs *Rowset) schema() *etree.Element {
	schema := etree.NewElement("xsd:schema")
	schema.CreateAttr("targetNamespace", xmla.RowsetNamespace)
	schema.CreateAttr("xmlns:sql", sqlNamespace)
	schema.CreateAttr("elementFormDefault", "qualified")

	root := schema.CreateElement("xsd:element")
	root.CreateAttr("name", "root")
	seq := root.CreateElement("xsd:complexType").CreateElement("xsd:sequence")
	seq.CreateAttr("minOccurs", "0")
	seq.CreateAttr("maxOccurs", "unbounded")
	row := seq.CreateElement("xsd:element")
	row.CreateAttr("name", "row")
	row.CreateAttr("type", "row")

	rowType := schema.CreateElement("xsd:complexType")
	rowType.CreateAttr("name", "row")
	fields := rowType.CreateElement("xsd:sequence")
	for _, c := range rs.columns {
		el := fields.CreateElement("xsd:element")
		el.CreateAttr("sql:field", c.Name)
		el.CreateAttr("name", c.Name)
		el.CreateAttr("type", c.Type)
		el.CreateAttr("minOccurs", "0")
	}
	return schema
}
