package platform

// Package platform contains OS/filesystem integration: cache directory
// resolution and file replacement helpers used by the artwork and history caches.
