// Package resolver turns dotted module names into loaded handles. Names are
// looked up in the build-time registry first; anything the registry does not
// know is loaded from a unit file under the Program Anchor. Every handle is
// cached so each unit executes at most once per resolver.
package resolver
