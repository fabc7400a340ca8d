// Package catalog loads OLAP catalogs and keeps the ones already activated
// in memory.
//
// A catalog is a named group of cubes. Each cube has a facts table holding
// numeric measure columns plus any number of dimension tables. Catalogs
// come from a Source: CSVSource reads directories of CSV files and
// DBSource reads PostgreSQL schemas.
//
// Registry sits in front of a Source and caches activated catalogs so that
// repeated activations of the same name are cheap and idempotent.
package catalog
