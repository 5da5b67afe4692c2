// Package batch fans a list of input files out over a fixed number of
// workers. Each worker owns one compressor for its whole lifetime, so the
// single-job restriction of a compressor never surfaces as a busy error.
package batch
