// Package mediastore implements media ingestion and object lifecycle: it
// classifies uploaded payloads, probes intrinsic metadata, derives browsing
// previews, writes originals and derivatives to an object store under a
// deterministic key scheme, and records owner-scoped metadata in a document
// store.
//
// Construct a Service with New and the functional options:
//
//	svc, err := mediastore.New(
//		mediastore.WithRepository(mongorepo.New(db)),
//		mediastore.WithBlobStore(s3store),
//	)
//
// There is no distributed transaction across the two stores. Objects are
// always written before the record is inserted and deleted before the record
// is removed, so a failure window leaves at worst orphaned objects, never a
// record pointing at missing objects. Insert failures trigger a best-effort
// reclaim of the just-written objects and are logged for reconciliation.
package mediastore
