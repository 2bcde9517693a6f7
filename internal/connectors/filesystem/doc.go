// Package filesystem watches a local sources directory and reports files
// that appear or change, so they can be ingested.
package filesystem
