// Package discover answers XMLA Discover requests with rowsets built from
// catalog metadata.
//
// Every request type served by xmla.Router has a method on Tools. A rowset
// is rendered as
//
//	<return>
//	  <root xmlns="urn:schemas-microsoft-com:xml-analysis:rowset" ...>
//	    <xsd:schema .../>
//	    <row>...</row>
//	  </root>
//	</return>
//
// Restrictions whose name is a column of the rowset keep only the rows with
// an equal value in that column. Other restrictions are ignored.
package discover
