package xmla

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDiscover(t *testing.T) {
	el := element(t, `<Discover xmlns="urn:schemas-microsoft-com:xml-analysis">
  <RequestType>MDSCHEMA_CUBES</RequestType>
  <Restrictions>
    <RestrictionList>
      <CATALOG_NAME>sales</CATALOG_NAME>
      <CUBE_NAME> sales </CUBE_NAME>
    </RestrictionList>
  </Restrictions>
  <Properties>
    <PropertyList>
      <Catalog>sales</Catalog>
      <Format>Tabular</Format>
    </PropertyList>
  </Properties>
</Discover>`)

	req, err := DecodeDiscover(el)
	require.NoError(t, err)
	assert.Equal(t, RequestMDSchemaCubes, req.RequestType)
	assert.Equal(t, "sales", req.Restriction("CATALOG_NAME"))
	assert.Equal(t, "sales", req.Restriction("CUBE_NAME"))
	assert.Equal(t, "", req.Restriction("DIMENSION_NAME"))
	assert.Equal(t, "sales", req.Catalog())
	assert.Equal(t, "Tabular", req.Properties["Format"])
}

func TestDecodeDiscover_EmptyLists(t *testing.T) {
	el := element(t, `<Discover><RequestType>DISCOVER_DATASOURCES</RequestType><Restrictions/><Properties/></Discover>`)

	req, err := DecodeDiscover(el)
	require.NoError(t, err)
	assert.Empty(t, req.Restrictions)
	assert.Empty(t, req.Properties)
	assert.Equal(t, "", req.Catalog())
}

func TestDecodeDiscover_MissingRequestType(t *testing.T) {
	_, err := DecodeDiscover(element(t, `<Discover><Restrictions/></Discover>`))
	assert.True(t, errors.Is(err, ErrMalformedRequest), "err = %v", err)
}

func TestDecodeExecute(t *testing.T) {
	el := element(t, `<Execute xmlns="urn:schemas-microsoft-com:xml-analysis">
  <Command>
    <Statement>SELECT {[Measures].[amount]} ON 0 FROM [sales]</Statement>
  </Command>
  <Properties>
    <PropertyList>
      <Catalog>sales</Catalog>
      <AxisFormat>TupleFormat</AxisFormat>
    </PropertyList>
  </Properties>
</Execute>`)

	req, err := DecodeExecute(el)
	require.NoError(t, err)
	assert.Equal(t, "SELECT {[Measures].[amount]} ON 0 FROM [sales]", req.Statement)
	assert.Equal(t, "sales", req.Catalog)
	assert.Equal(t, "TupleFormat", req.Properties["AxisFormat"])
}

func TestDecodeExecute_EmptyStatement(t *testing.T) {
	tests := map[string]string{
		"no command":     `<Execute/>`,
		"empty":          `<Execute><Command><Statement/></Command></Execute>`,
		"whitespace":     `<Execute><Command><Statement>  </Statement></Command></Execute>`,
		"no catalog set": `<Execute><Command><Statement></Statement></Command><Properties><PropertyList/></Properties></Execute>`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			req, err := DecodeExecute(element(t, body))
			require.NoError(t, err)
			assert.True(t, req.Empty())
			assert.Equal(t, "", req.Catalog)
		})
	}
}

func TestDecodeExecute_StatementVerbatim(t *testing.T) {
	el := element(t, "<Execute><Command><Statement>\n  SELECT 1 FROM [sales]\n</Statement></Command></Execute>")

	req, err := DecodeExecute(el)
	require.NoError(t, err)
	assert.Equal(t, "\n  SELECT 1 FROM [sales]\n", req.Statement)
	assert.False(t, req.Empty())
}

func TestDecodeExecute_Nil(t *testing.T) {
	_, err := DecodeExecute(nil)
	assert.True(t, errors.Is(err, ErrMalformedRequest), "err = %v", err)
}
