// Package build writes a complete site to the output directory.
//
// A build runs one compile session: every compiler entry's sources are
// resolved, compiled concurrently, passed through the build transform
// pipeline and written. A failing file does not stop the others; the build
// reports every failure and fails as a whole.
package build
