// Package compressor turns a file plus declarative compression options into a
// single transcoding job and returns the encoded result as an in-memory blob.
//
// A Compressor lazily loads one engine, serializes Options into the engine's
// argument list, moves bytes in and out of the engine's virtual filesystem,
// and removes the job's virtual files on every exit path. An instance runs at
// most one job at a time; callers that need parallelism create one instance
// per worker (see the batch package).
//
// BuildArgs is exported so the argument list can be inspected without running
// anything.
package compressor
