// Package ffprobe inspects media files with ffprobe and condenses the JSON
// report into the fields the probe command and the post-compression size
// report display.
package ffprobe
