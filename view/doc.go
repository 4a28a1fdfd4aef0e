// Package view derives what a notes page displays from the fetched
// collection: a text filter, a pinned-first sort and an optional grouping.
//
// Everything here is a pure function of (notes, query, sort spec, options);
// nothing is cached, so a page recomputes its view after every change to
// its collection.
package view
