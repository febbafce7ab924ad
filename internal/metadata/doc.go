// Package metadata polls the station's now-playing text endpoint and parses
// its "<artist> - <title>" responses. Failures are best effort: they are
// logged and the next scheduled poll tries again.
package metadata
