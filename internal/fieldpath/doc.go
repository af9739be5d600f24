// internal/fieldpath/doc.go

/*
Package fieldpath provides a structured representation of dotted paths used
to navigate a payload, e.g. `user.age` or `items[0].name`.

The format is a dot-separated sequence of segments. A segment is a key,
optionally followed by one or more `[n]` indices into a list. A purely
numeric segment is also accepted as a list index, so `items.0` and
`items[0]` address the same element.

Lookup never fails: a path that does not resolve yields "undefined",
reported as ok == false.
*/
package fieldpath
