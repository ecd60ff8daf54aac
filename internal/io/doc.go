// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Atomic file writes for the collection store
//   - Filename sanitization for cover cache entries
//   - Directory creation
//   - Cover thumbnail generation
//
// # File Operations
//
//	// Replace a file without exposing a half-written version
//	err := ioutils.WriteFileAtomic(ctx, "/data/books_v5.json", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("978:0/14") // Returns "978_0_14"
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	thumb, _ := svc.Thumbnail(ctx, imageData, 300)
package ioutils
