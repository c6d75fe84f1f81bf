// Package path builds and transforms reasoning paths: ordered sequences of
// dependency-annotated assignment steps extracted from a straight-line
// computation.
//
// A Path is append-only while it is being built and read-only afterwards.
// Simplify derives a new Path and never mutates its receiver, so a reference
// computation and many sampled variants can be processed side by side with
// no shared mutable state. Steps hold no back-pointer to their owning path;
// anything that needs path-level context receives the path explicitly.
package path
