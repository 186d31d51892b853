// Package services defines the [MovieService] interface for movie database providers and implements it for OMDb.
//
// # Service Interface
//
// The controller, CLI and HTTP surface all talk to a [MovieService], so tests
// substitute a double without touching the network.
//
// # OMDb Implementation
//
// [OMDbService] issues plain HTTP GET requests against an OMDb-compatible
// endpoint. Every request carries the API key as the apikey query parameter.
//   - title search uses s=<title> with optional y, type and page
//   - lookup by identifier uses i=<id> with plot=short|full
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : no API key configured
//   - [shared.ErrInvalidInput] : blank title or identifier
//   - [shared.ErrMovieNotFound] : upstream answered Response=False
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or undecodable body
//
// There are no retries. Callers map the two failure classes onto their own messages.
package services
