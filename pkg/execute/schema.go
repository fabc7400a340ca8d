package execute

// MDDatasetSchema is the inline XSD sent at the head of every
// multidimensional dataset.
const MDDatasetSchema = `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"` +
	` xmlns="urn:schemas-microsoft-com:xml-analysis:mddataset"` +
	` targetNamespace="urn:schemas-microsoft-com:xml-analysis:mddataset"` +
	` elementFormDefault="qualified">` +
	`<xs:complexType name="MemberType">` +
	`<xs:sequence>` +
	`<xs:element name="UName" type="xs:string"/>` +
	`<xs:element name="Caption" type="xs:string"/>` +
	`<xs:element name="LName" type="xs:string"/>` +
	`<xs:element name="LNum" type="xs:unsignedInt"/>` +
	`<xs:element name="DisplayInfo" type="xs:unsignedInt"/>` +
	`<xs:sequence maxOccurs="unbounded" minOccurs="0">` +
	`<xs:any processContents="lax" maxOccurs="unbounded"/>` +
	`</xs:sequence>` +
	`</xs:sequence>` +
	`<xs:attribute name="Hierarchy" type="xs:string"/>` +
	`</xs:complexType>` +
	`<xs:complexType name="PropType">` +
	`<xs:attribute name="name" type="xs:string"/>` +
	`<xs:attribute name="type" type="xs:QName"/>` +
	`</xs:complexType>` +
	`<xs:complexType name="TupleType">` +
	`<xs:sequence maxOccurs="unbounded">` +
	`<xs:element name="Member" type="MemberType"/>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`<xs:complexType name="MembersType">` +
	`<xs:sequence maxOccurs="unbounded">` +
	`<xs:element name="Member" type="MemberType"/>` +
	`</xs:sequence>` +
	`<xs:attribute name="Hierarchy" type="xs:string"/>` +
	`</xs:complexType>` +
	`<xs:complexType name="TuplesType">` +
	`<xs:sequence maxOccurs="unbounded">` +
	`<xs:element name="Tuple" type="TupleType"/>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`<xs:complexType name="CrossProductType">` +
	`<xs:sequence>` +
	`<xs:choice minOccurs="0" maxOccurs="unbounded">` +
	`<xs:element name="Members" type="MembersType"/>` +
	`<xs:element name="Tuples" type="TuplesType"/>` +
	`</xs:choice>` +
	`</xs:sequence>` +
	`<xs:attribute name="Size" type="xs:unsignedInt"/>` +
	`</xs:complexType>` +
	`<xs:complexType name="OlapInfo">` +
	`<xs:sequence>` +
	`<xs:element name="CubeInfo">` +
	`<xs:complexType>` +
	`<xs:sequence>` +
	`<xs:element name="Cube" maxOccurs="unbounded">` +
	`<xs:complexType>` +
	`<xs:sequence>` +
	`<xs:element name="CubeName" type="xs:string"/>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`<xs:element name="AxesInfo">` +
	`<xs:complexType>` +
	`<xs:sequence>` +
	`<xs:element name="AxisInfo" maxOccurs="unbounded">` +
	`<xs:complexType>` +
	`<xs:sequence>` +
	`<xs:element name="HierarchyInfo" minOccurs="0" maxOccurs="unbounded">` +
	`<xs:complexType>` +
	`<xs:sequence>` +
	`<xs:any processContents="lax" maxOccurs="unbounded"/>` +
	`</xs:sequence>` +
	`<xs:attribute name="name" type="xs:string" use="required"/>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:sequence>` +
	`<xs:attribute name="name" type="xs:string"/>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`<xs:element name="CellInfo">` +
	`<xs:complexType>` +
	`<xs:sequence>` +
	`<xs:any processContents="lax" minOccurs="0" maxOccurs="unbounded"/>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`<xs:complexType name="Axes">` +
	`<xs:sequence maxOccurs="unbounded">` +
	`<xs:element name="Axis">` +
	`<xs:complexType>` +
	`<xs:choice minOccurs="0" maxOccurs="unbounded">` +
	`<xs:element name="CrossProduct" type="CrossProductType"/>` +
	`<xs:element name="Tuples" type="TuplesType"/>` +
	`<xs:element name="Members" type="MembersType"/>` +
	`</xs:choice>` +
	`<xs:attribute name="name" type="xs:string"/>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`<xs:complexType name="CellData">` +
	`<xs:sequence>` +
	`<xs:element name="Cell" minOccurs="0" maxOccurs="unbounded">` +
	`<xs:complexType>` +
	`<xs:sequence maxOccurs="unbounded">` +
	`<xs:choice>` +
	`<xs:element name="Value"/>` +
	`<xs:element name="FmtValue" type="xs:string"/>` +
	`<xs:element name="FormatString" type="xs:string"/>` +
	`</xs:choice>` +
	`</xs:sequence>` +
	`<xs:attribute name="CellOrdinal" type="xs:unsignedInt" use="required"/>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`<xs:element name="root">` +
	`<xs:complexType>` +
	`<xs:sequence maxOccurs="unbounded">` +
	`<xs:element name="OlapInfo" type="OlapInfo"/>` +
	`<xs:element name="Axes" type="Axes"/>` +
	`<xs:element name="CellData" type="CellData"/>` +
	`</xs:sequence>` +
	`</xs:complexType>` +
	`</xs:element>` +
	`</xs:schema>`
