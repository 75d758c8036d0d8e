// Package validation binds echo requests into typed payloads and turns
// validator failures into 400 errs.HTTPError values with field errors.
package validation
