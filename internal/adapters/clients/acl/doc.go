// Package acl translates downstream registry payloads and failures into domain
// types, so nothing outside this package sees a registry DTO or status code.
//
// Failures map as follows:
//   - 404 becomes [domain.NotFoundError]
//   - 400 and 422 become [domain.ValidationError]
//   - transport errors, an open circuit, 401/403, 429 and 5xx become [domain.StorageError]
//
// A StorageError leaves the caller's unit of work to roll back, exactly as a
// failing database would.
package acl
