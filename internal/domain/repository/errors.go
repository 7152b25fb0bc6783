package repository

import "errors"

var (
	// ErrUpstreamUnavailable is returned when the video platform answers with a
	// non-success status or cannot be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamShapeMismatch is returned when an upstream body cannot be decoded
	// into the expected shape.
	ErrUpstreamShapeMismatch = errors.New("unexpected upstream response")

	// ErrSnapshotNotFound is returned when no snapshot has been stored under a name yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrBucketNotFound is returned when the configured bucket does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
