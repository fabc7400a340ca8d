package discover

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olapd/olapd/pkg/xmla"
)

func rows(t *testing.T, ret *etree.Element) []*etree.Element {
	t.Helper()
	require.Equal(t, "return", ret.Tag)
	root := ret.SelectElement("root")
	require.NotNil(t, root)
	return root.SelectElements("row")
}

func TestRowset_Element(t *testing.T) {
	rs := NewRowset(str("NAME"), integer("ORDINAL"), str("NOTE"))
	rs.Add("a", "1", "")
	rs.Add("b")

	ret := rs.Element()
	root := ret.SelectElement("root")
	assert.Equal(t, xmla.RowsetNamespace, root.SelectAttrValue("xmlns", ""))

	schema := root.ChildElements()[0]
	assert.Equal(t, "xsd", schema.Space)
	assert.Equal(t, "schema", schema.Tag)
	fields := schema.FindElements("complexType[@name='row']/sequence/element")
	require.Len(t, fields, 3)
	assert.Equal(t, "ORDINAL", fields[1].SelectAttrValue("name", ""))
	assert.Equal(t, "xsd:int", fields[1].SelectAttrValue("type", ""))

	got := rows(t, ret)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].SelectElement("NAME").Text())
	assert.Equal(t, "1", got[0].SelectElement("ORDINAL").Text())
	assert.Nil(t, got[0].SelectElement("NOTE"), "empty values are omitted")
	assert.Len(t, got[1].ChildElements(), 1)
}

func TestRowset_Filter(t *testing.T) {
	rs := NewRowset(str("CATALOG_NAME"), str("CUBE_NAME"))
	rs.Add("sales", "sales")
	rs.Add("sales", "returns")
	rs.Add("foodmart", "foodmart")

	rs.Filter(map[string]string{
		"CATALOG_NAME": "sales",
		"UNKNOWN":      "ignored",
		"CUBE_NAME":    "",
	})
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, "returns", rs.Value(1, "CUBE_NAME"))

	rs.Filter(map[string]string{"CUBE_NAME": "returns"})
	require.Equal(t, 1, rs.Len())
	assert.Equal(t, "sales", rs.Value(0, "CATALOG_NAME"))
}

func TestRowset_AddTooManyValues(t *testing.T) {
	rs := NewRowset(str("A"))
	assert.Panics(t, func() { rs.Add("1", "2") })
}
