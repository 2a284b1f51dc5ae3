// Package metamodel provides entity metamodels for the reference hosts.
//
// An Entity implements criteria.EntityType: the ordered persistent
// attributes of a mapped table. Entities come from Go structs (FromStruct)
// or from CUE schema files (Compile, LoadFile).
package metamodel
