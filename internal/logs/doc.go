// Package logs reads the vcompress log file for the `vcompress logs` command.
//
// Last returns the trailing lines of a file with bounded memory, and Follow
// polls from an offset until the context ends. A missing file is treated as
// empty so the command works before the first logged run.
package logs
