// Package collectionjson implements a read view over Collection+JSON
// documents.
//
// The collectionjson package provides:
// - Representation, a decorated and immutable view of one HTTP response
// - Link, Item, Query and Template affordances with relation-based lookup
// - Form, the ordered result of filling a Template
package collectionjson
