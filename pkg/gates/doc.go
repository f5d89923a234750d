// Package gates holds gate styles and gating hierarchies.
//
// A gate is a polygon selection over two channels drawn on the linked map
// view. Charts refer to gates only by identifier: a violin whose id equals a
// gate id is recoloured together with that gate through a [Store].
//
// # Stores
//
// Three backends implement [Store]:
//   - [MemoryStore]: process memory, for the CLI and tests
//   - [RedisStore]: one hash per gate, shared by several server instances
//   - [MongoStore]: one document per gate
//
// # Gating hierarchies
//
// [ParseGatingML] reads Gating-ML 2.0 polygon gates into a [Schema]. Leaf
// gates name cell populations; [Schema.Labels] applies each leaf together
// with its ancestors to label events:
//
//	schema, err := gates.ParseGatingML(f)
//	schema.Tag(events)
//	records := events.CountRecords()
package gates
