package status

import (
	"errors"
	"fmt"
)

// ErrConnect defines a failure in establishing the transport to the node,
// no block was fetched when this error is returned
type ErrConnect struct {
	Endpoint string
	Err      error
}

// Error implements error interface
func (e *ErrConnect) Error() string {
	return fmt.Sprintf("unable to connect to node at %s: %s", e.Endpoint, e.Err)
}

// Unwrap returns the underlying transport error
func (e *ErrConnect) Unwrap() error {
	return e.Err
}

// ErrFetchBlock defines a block fetch error, it carries the number of the block
// whose fetch failed
type ErrFetchBlock struct {
	BlockNumber uint64
	Err         error
}

// Error implements error interface
func (e *ErrFetchBlock) Error() string {
	return fmt.Sprintf("failure in pulling block %d: %s", e.BlockNumber, e.Err)
}

// Unwrap returns the underlying fetch error
func (e *ErrFetchBlock) Unwrap() error {
	return e.Err
}

// ErrWriteArtifact defines a failure in persisting a fetched block to disk
type ErrWriteArtifact struct {
	BlockNumber uint64
	Path        string
	Err         error
}

// Error implements error interface
func (e *ErrWriteArtifact) Error() string {
	return fmt.Sprintf("failure in writing block %d to %s: %s", e.BlockNumber, e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error
func (e *ErrWriteArtifact) Unwrap() error {
	return e.Err
}

// ErrInvalidRange is returned when the final block of a range is lower than the starting one
var ErrInvalidRange = errors.New("starting block bigger than finishing block")

// ErrShutdown is returned when an ongoing operation is stopped by an instance shutdown
var ErrShutdown = errors.New("operation stopped due to shutdown")

// ErrClosed is returned when an operation is attempted on a shutdown instance
var ErrClosed = errors.New("unable to make operation: instance is shutdown")

// ErrAlreadyConnected is returned when Connect is called on a connected instance
var ErrAlreadyConnected = errors.New("instance is already connected")

// ErrNotConnected is returned when an operation requiring a connection is attempted
// on an instance that never connected
var ErrNotConnected = errors.New("instance is not connected")
