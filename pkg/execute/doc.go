// Package execute runs MDX statements against an activated catalog and
// renders the result as the fragments of an XMLA multidimensional dataset.
//
// A QueryContext is built per request and carries the catalog and cube the
// statement runs against. Engine turns it into a Result; Tools renders the
// Result as OlapInfo, Axes and CellData fragments.
//
// TotalsEngine is the built-in engine. It understands enough MDX to answer
// the measure queries spreadsheet clients send when a pivot table is first
// opened: every [Measures].[name] reference that exists in the cube is
// placed on Axis0 and its cell holds the grand total over the facts table.
package execute
