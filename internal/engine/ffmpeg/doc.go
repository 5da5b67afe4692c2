// Package ffmpeg implements the engine contract on top of a local ffmpeg
// executable.
//
// Each engine owns a private scratch directory that plays the role of the
// virtual filesystem. The directory is guarded by an advisory file lock so
// that scratch space abandoned by crashed processes can be swept on the next
// Load without disturbing engines that are still alive.
package ffmpeg
