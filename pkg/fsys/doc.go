// Package fsys lists directories for the navigator.
//
// Listings go through a [billy.Filesystem] so the same code serves the real
// disk ([NewOSLister]), in-memory trees in tests and the bundled demo tree
// ([DemoFS]). Entries are ordered directories first, then by case-insensitive
// name, and truncated to the caller's limit.
//
// [Watcher] reports changes to the directory being viewed so interactive
// front ends can refresh.
package fsys
