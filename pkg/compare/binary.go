package compare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// BinaryComparator compares files byte-by-byte
// This is the most thorough comparison but also the slowest
// Useful for detecting the exact byte offset where files differ
type BinaryComparator struct {
	bufferSize     int
	bufferPool     *sync.Pool
	progressReport func(path string, current, total int64) // Optional progress callback
	readerWrapper  ReaderWrapper                           // Optional reader wrapper (e.g., for rate limiting)
}

// NewBinaryComparator creates a new byte-by-byte comparator
func NewBinaryComparator(bufferSize int) *BinaryComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &BinaryComparator{
		bufferSize: bufferSize,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetProgressCallback sets the progress reporting callback
func (c *BinaryComparator) SetProgressCallback(callback func(path string, current, total int64)) {
	c.progressReport = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *BinaryComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares two files byte-by-byte
func (c *BinaryComparator) Compare(ctx context.Context, sourcePath, targetPath string) (*Comparison, error) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}

	targetInfo, err := os.Stat(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat target file: %w", err)
	}

	// Quick check: if sizes differ, files are different
	if sourceInfo.Size() != targetInfo.Size() {
		return &Comparison{
			Result: Different,
			Reason: fmt.Sprintf("size mismatch: source=%d, target=%d", sourceInfo.Size(), targetInfo.Size()),
		}, nil
	}

	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	targetFile, err := os.Open(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open target file: %w", err)
	}
	defer targetFile.Close()

	// Apply reader wrapper if set (e.g., for rate limiting)
	var sourceReader io.Reader = sourceFile
	var targetReader io.Reader = targetFile
	if c.readerWrapper != nil {
		sourceReader = c.readerWrapper(sourceFile)
		targetReader = c.readerWrapper(targetFile)
	}

	// Get buffers from pool
	sourceBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(sourceBufPtr)
	sourceBuf := *sourceBufPtr

	targetBufPtr := c.bufferPool.Get().(*[]byte)
	defer c.bufferPool.Put(targetBufPtr)
	targetBuf := *targetBufPtr

	// Progress reporting with throttling
	const (
		progressReportInterval = 50 * time.Millisecond
		progressReportBytes    = 64 * 1024 // 64KB
	)

	var bytesCompared int64
	var lastReported int64
	var lastReportTime time.Time

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sourceN, sourceErr := sourceReader.Read(sourceBuf)
		targetN, targetErr := targetReader.Read(targetBuf)

		// Both should read the same amount (or both EOF)
		if sourceN != targetN {
			return &Comparison{
				Result: Different,
				Reason: fmt.Sprintf("read mismatch at offset %d", bytesCompared),
			}, nil
		}

		if sourceN > 0 {
			// Compare the buffers
			if !bytes.Equal(sourceBuf[:sourceN], targetBuf[:targetN]) {
				// Find the exact byte offset where they differ
				diffOffset := bytesCompared
				for i := 0; i < sourceN; i++ {
					if sourceBuf[i] != targetBuf[i] {
						diffOffset = bytesCompared + int64(i)
						break
					}
				}
				return &Comparison{
					Result: Different,
					Reason: fmt.Sprintf("binary content differs at byte offset %d", diffOffset),
				}, nil
			}

			bytesCompared += int64(sourceN)

			// Throttled progress reporting
			if c.progressReport != nil {
				bytesSinceLastReport := bytesCompared - lastReported
				timeSinceLastReport := time.Since(lastReportTime)
				shouldReport := bytesSinceLastReport >= progressReportBytes ||
					timeSinceLastReport >= progressReportInterval

				if shouldReport {
					c.progressReport(sourcePath, bytesCompared, sourceInfo.Size())
					lastReported = bytesCompared
					lastReportTime = time.Now()
				}
			}
		}

		// Check for errors
		if sourceErr == io.EOF && targetErr == io.EOF {
			// Final progress report
			if c.progressReport != nil && bytesCompared > lastReported {
				c.progressReport(sourcePath, bytesCompared, sourceInfo.Size())
			}
			break // Both files ended at the same point
		}

		if sourceErr == io.EOF && targetErr != io.EOF {
			return &Comparison{
				Result: Different,
				Reason: fmt.Sprintf("source ended at %d but target continues", bytesCompared),
			}, nil
		}

		if sourceErr != io.EOF && targetErr == io.EOF {
			return &Comparison{
				Result: Different,
				Reason: fmt.Sprintf("target ended at %d but source continues", bytesCompared),
			}, nil
		}

		if sourceErr != nil {
			return nil, fmt.Errorf("failed to read source file: %w", sourceErr)
		}
		if targetErr != nil {
			return nil, fmt.Errorf("failed to read target file: %w", targetErr)
		}
	}

	// Files are identical
	return &Comparison{
		Result: Equal,
		Reason: fmt.Sprintf("binary content matches (%d bytes)", bytesCompared),
	}, nil
}

// Name returns the comparator name
func (c *BinaryComparator) Name() string {
	return "binary"
}
