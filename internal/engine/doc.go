// Package engine defines the capability contract a transcoding engine must
// satisfy to be driven by the compressor.
//
// An engine owns a flat virtual filesystem used to pass input and output byte
// buffers across the call boundary, executes one command-line-style argument
// list at a time, and reports log lines and progress fractions through
// subscribed handlers while a command runs. The compressor never looks past
// this contract, so tests substitute a double and production wires the ffmpeg
// adapter from the ffmpeg subpackage.
package engine
