// Package models defines the domain entities of the mvx movie client.
//
// The package contains two kinds of types:
//
// 1. Records mirrored from the movie database API
//   - [Movie] : summary returned by title search (title, year, poster, identifier)
//   - [MovieDetail] : the summary plus plot text and the other fields of a lookup by identifier
//   - [SearchResult] : one page of search hits
//
// 2. Client state
//   - [Favorites] : ordered set of [Movie] records keyed by identifier
//
// JSON field names follow the upstream API, so a serialized favorites array is
// the same shape the API returns for search hits.
package models
