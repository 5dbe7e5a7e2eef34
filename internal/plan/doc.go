// Package plan walks directory trees and produces ordered, immutable
// operation plans for the dissolve, migrate, and rename strategies. Planning
// never mutates the filesystem; execution is the executor package's job.
package plan
