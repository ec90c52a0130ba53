// Package process cleans up the headless Chrome process tree launched for
// print-to-PDF. The browser spawns renderer and GPU children that outlive the
// launcher when it is killed alone.
package process
