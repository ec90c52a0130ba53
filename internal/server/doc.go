// Package server serves the single-user browser UI over a loopback HTTP
// listener: the upload screen, the preview screen, HTML export downloads,
// and stylesheets. All state lives in one mdconv.Session.
package server
