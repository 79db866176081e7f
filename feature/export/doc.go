// Package export implements the figure export feature.
//
// It turns figure JSON into static images by driving the supervised render
// server, and offers three destinations for the result:
//  1. HTTP response: raw image bytes with the matching Content-Type.
//  2. Local file: the format is inferred from the file extension.
//  3. Storage (S3/MinIO): the image is uploaded to the configured bucket.
//
// Completed renders are optionally recorded in the render history database.
//
// # Components
//
//   - Service: Applies configured defaults, drives the render client and
//     records history.
//   - Handler: Exposes HTTP endpoints for rendering and server status.
//   - Feature: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /render          : Render a figure and return the image bytes.
//   - GET  /render/status   : Current state of the supervised render server.
//   - GET  /render/formats  : Supported image formats.
package export
