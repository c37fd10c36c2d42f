package compare

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Partial hashing configuration
const (
	// Minimum file size to enable partial hashing (1MB)
	partialHashThreshold = 1 * 1024 * 1024
	// Size of partial hash to compute (256KB)
	partialHashSize = 256 * 1024
)

// HashComparator compares files using SHA-256 hash
type HashComparator struct {
	bufferSize        int
	bufferPool        *sync.Pool
	progressReport    func(path string, current, total int64) // Optional progress callback
	enablePartialHash bool                                    // Enable partial hashing optimization
	readerWrapper     ReaderWrapper                           // Optional reader wrapper (e.g., for rate limiting)
}

// NewHashComparator creates a new hash-based comparator
func NewHashComparator(bufferSize int) *HashComparator {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &HashComparator{
		bufferSize:        bufferSize,
		enablePartialHash: true, // Enabled by default
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// SetPartialHashEnabled enables or disables the partial hashing optimization
func (c *HashComparator) SetPartialHashEnabled(enabled bool) {
	c.enablePartialHash = enabled
}

// SetProgressCallback sets a callback for progress reporting during hash calculation
func (c *HashComparator) SetProgressCallback(callback func(path string, current, total int64)) {
	c.progressReport = callback
}

// SetReaderWrapper sets a function to wrap readers (e.g., for rate limiting)
func (c *HashComparator) SetReaderWrapper(wrapper ReaderWrapper) {
	c.readerWrapper = wrapper
}

// Compare compares two files using SHA-256 hash
func (c *HashComparator) Compare(ctx context.Context, sourcePath, targetPath string) (*Comparison, error) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}

	targetInfo, err := os.Stat(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat target file: %w", err)
	}

	// If sizes differ, files are different
	if sourceInfo.Size() != targetInfo.Size() {
		return &Comparison{
			Result: Different,
			Reason: "file sizes differ",
		}, nil
	}

	// Partial hash optimization for large files (parallel execution)
	// Compute partial hashes first for quick rejection of different files
	if c.enablePartialHash && sourceInfo.Size() >= partialHashThreshold {
		var sourcePartialHash, targetPartialHash string
		var sourcePartialErr, targetPartialErr error
		var wg sync.WaitGroup

		wg.Add(2)
		go func() {
			defer wg.Done()
			sourcePartialHash, sourcePartialErr = c.computePartialHash(ctx, sourcePath)
		}()
		go func() {
			defer wg.Done()
			targetPartialHash, targetPartialErr = c.computePartialHash(ctx, targetPath)
		}()
		wg.Wait()

		// Only use partial hash results if both succeeded
		if sourcePartialErr == nil && targetPartialErr == nil {
			// If partial hashes differ, files are different - no need for full hash
			if sourcePartialHash != targetPartialHash {
				return &Comparison{
					Result: Different,
					Reason: "file partial hashes differ",
				}, nil
			}
			// Partial hashes match - continue to full hash verification
		}
		// If either partial hash fails, fall back to full hash
	}

	// Compute full hashes in parallel
	var sourceHash, targetHash string
	var sourceHashErr, targetHashErr error
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		sourceHash, sourceHashErr = c.computeHash(ctx, sourcePath)
	}()
	go func() {
		defer wg.Done()
		targetHash, targetHashErr = c.computeHash(ctx, targetPath)
	}()
	wg.Wait()

	if sourceHashErr != nil {
		return nil, fmt.Errorf("failed to hash source file: %w", sourceHashErr)
	}
	if targetHashErr != nil {
		return nil, fmt.Errorf("failed to hash target file: %w", targetHashErr)
	}

	if sourceHash != targetHash {
		return &Comparison{
			Result: Different,
			Reason: "file hashes differ",
		}, nil
	}

	return &Comparison{
		Result: Equal,
		Reason: "file hashes match",
	}, nil
}

// computeHash computes the SHA-256 hash of a file using streaming
func (c *HashComparator) computeHash(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat file: %w", err)
	}
	fileSize := info.Size()

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Apply reader wrapper if set (e.g., for rate limiting)
	var reader io.Reader = file
	if c.readerWrapper != nil {
		reader = c.readerWrapper(file)
	}

	hasher := sha256.New()

	// Get buffer from pool
	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	// Progress throttling variables
	const (
		progressReportInterval = 50 * time.Millisecond // Minimum time between reports
		progressReportBytes    = 64 * 1024             // Minimum bytes between reports (64KB)
	)
	var totalRead int64
	var lastReported int64
	lastReportTime := time.Now()

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)

			// Report progress if callback is set (with throttling)
			if c.progressReport != nil {
				bytesSinceLastReport := totalRead - lastReported
				timeSinceLastReport := time.Since(lastReportTime)
				shouldReport := bytesSinceLastReport >= progressReportBytes ||
					timeSinceLastReport >= progressReportInterval

				if shouldReport {
					c.progressReport(path, totalRead, fileSize)
					lastReported = totalRead
					lastReportTime = time.Now()
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	// Ensure final progress report shows 100% completion
	if c.progressReport != nil && totalRead > lastReported {
		c.progressReport(path, totalRead, fileSize)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// computePartialHash hashes the first partialHashSize bytes of a file
// Used for quick rejection of different files without computing the full hash
func (c *HashComparator) computePartialHash(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Apply reader wrapper if set (e.g., for rate limiting)
	var reader io.Reader = file
	if c.readerWrapper != nil {
		reader = c.readerWrapper(file)
	}

	hasher := sha256.New()

	// Get buffer from pool
	bufPtr := c.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer c.bufferPool.Put(bufPtr)

	// Read up to partialHashSize bytes
	var totalRead int64
	for totalRead < partialHashSize {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			// Only hash up to the limit
			bytesToHash := int64(n)
			if totalRead+bytesToHash > partialHashSize {
				bytesToHash = partialHashSize - totalRead
			}
			hasher.Write(buffer[:bytesToHash])
			totalRead += bytesToHash
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// Name returns the comparator name
func (c *HashComparator) Name() string {
	return "hash"
}
