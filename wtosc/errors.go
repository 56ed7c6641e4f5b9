package wtosc

import "errors"

var (
	// ErrClusterIndex is returned when a cluster index is outside the pool.
	ErrClusterIndex = errors.New("wtosc: cluster index out of range")
	// ErrLaneIndex is returned when a lane index is not below StereoVoicesPerVector.
	ErrLaneIndex = errors.New("wtosc: lane index out of range")
	// ErrNotInitialized is returned by operations that need Initialize first.
	ErrNotInitialized = errors.New("wtosc: engine not initialized")
)
