// Package schema loads JSON documents, compiles JSON Schemas and validates
// data model examples against them.
//
// # Loading
//
// LoadFile performs a single strict JSON parse. A file that cannot be read
// or parsed yields a *ParseError; callers treat it as unrecoverable since it
// means the input tree itself is broken.
//
// # Common schemas
//
// Schemas referenced through $ref by several models (the *-schema.json
// companions and any imported schema) are registered with the compiler
// before the target is compiled. They are registered under their $id when
// they declare one, so absolute references resolve locally. Remote schemas
// are never fetched: LoadRemote always fails with ErrNotImplemented.
//
// # Usage
//
//	eng, _ := schema.NewEngine(schema.Options{Draft: "draft-07"})
//	v, err := eng.Compile(rec, dir, "schema.json", commons)
//	if err != nil {
//		return err // fatal parse error or fail-fast abort
//	}
//	err = eng.ValidateExamples(rec, dir, v)
package schema
