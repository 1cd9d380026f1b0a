// Package colpack provides a binary container format for tabular numeric
// data: a column codec with element-wise/minimum-offset delta compression,
// lossless float-width reduction, fixed-point rounding, and optional
// supplemental byte compression, wrapped in a concurrency-safe file
// container.
//
// # Basic usage
//
// Writing a container:
//
//	c := colpack.Create("rows.cpk")
//	_ = c.SetColumn("id", true, numeric.Uint32Array{1, 2, 3}, nil)
//	_ = c.SetColumn("price", false, numeric.Float64Array{9.99, 1.50, 3.25}, &container.Options{
//	    BytesPerValue:  8,
//	    Kind:           kind.Float,
//	    UseCompression: true,
//	    CompressionMode: numeric.ModeElementWise,
//	})
//	if err := c.Write(); err != nil {
//	    log.Fatal(err)
//	}
//
// Reading one back:
//
//	c, err := colpack.Open("rows.cpk")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	price, err := c.GetColumn("price")
//
// # Package structure
//
// This package provides convenient top-level wrappers around the container
// package, simplifying the most common use case. For fine-grained control
// over column options, use the container and column packages directly.
package colpack

import (
	"github.com/colpack/colpack/container"
	"github.com/colpack/colpack/errs"
	"github.com/colpack/colpack/kind"
)

// Create returns a new, empty Container backed by the file at path. The
// file isn't touched until Write is called.
//
// Example:
//
//	c := colpack.Create("rows.cpk")
//	_ = c.SetColumn("id", true, numeric.Uint32Array{1, 2, 3}, nil)
//	err := c.Write()
func Create(path string, opts ...container.Option) *container.Container {
	return container.New(path, opts...)
}

// Open reads an existing container file at path and returns a Container
// populated with its columns, ready for GetColumn.
//
// Example:
//
//	c, err := colpack.Open("rows.cpk")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	id, err := c.GetColumn("id")
func Open(path string, opts ...container.Option) (*container.Container, error) {
	c := container.New(path, opts...)
	if err := c.Read(); err != nil {
		return nil, err
	}
	return c, nil
}

// MustKind validates that (k, bits) names a real numeric representation
// and returns k unchanged, panicking otherwise. Intended for static,
// known-good column declarations (tests, examples) where a kind/width
// mismatch would be a programming error rather than a runtime condition to
// handle.
func MustKind(k kind.Code, bits int) kind.Code {
	if _, err := kind.NumericType(k, bits); err != nil {
		panic(err)
	}
	return k
}

// Re-exported for callers that only need the container package's error
// sentinels through the root package.
var (
	ErrNoColumns      = errs.ErrNoColumns
	ErrColumnNotFound = errs.ErrColumnNotFound
	ErrShapeMismatch  = errs.ErrShapeMismatch
)
