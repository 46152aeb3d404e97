// Package api contains the HTTP handlers, request/response models, and
// error-to-status mapping for the block queue API. Handlers stay thin:
// decode, validate, call the service, map the result.
package api
