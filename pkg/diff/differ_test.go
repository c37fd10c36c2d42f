package diff

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/models"
)

// TestHelper provides utilities for diff tests
type TestHelper struct {
	t         *testing.T
	tempDir   string
	sourceDir string
	targetDir string
}

// NewTestHelper creates a new test helper with empty source and target trees
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "diffnorris-diff-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	sourceDir := filepath.Join(tempDir, "source")
	targetDir := filepath.Join(tempDir, "target")

	if err := os.MkdirAll(sourceDir, 0755); err != nil {
		t.Fatalf("failed to create source dir: %v", err)
	}
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		t.Fatalf("failed to create target dir: %v", err)
	}

	return &TestHelper{
		t:         t,
		tempDir:   tempDir,
		sourceDir: sourceDir,
		targetDir: targetDir,
	}
}

func (h *TestHelper) Cleanup() {
	os.RemoveAll(h.tempDir)
}

func (h *TestHelper) CreateSourceFile(name string, content []byte) {
	h.t.Helper()
	h.createFile(h.sourceDir, name, content)
}

func (h *TestHelper) CreateTargetFile(name string, content []byte) {
	h.t.Helper()
	h.createFile(h.targetDir, name, content)
}

func (h *TestHelper) CreateSourceDir(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.sourceDir, name), 0755); err != nil {
		h.t.Fatalf("failed to create source dir: %v", err)
	}
}

func (h *TestHelper) CreateTargetDir(name string) {
	h.t.Helper()
	if err := os.MkdirAll(filepath.Join(h.targetDir, name), 0755); err != nil {
		h.t.Fatalf("failed to create target dir: %v", err)
	}
}

func (h *TestHelper) createFile(root, name string, content []byte) {
	h.t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		h.t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		h.t.Fatalf("failed to create file: %v", err)
	}
}

// SourceListing builds a listing over the source tree from explicit paths
func (h *TestHelper) SourceListing(paths ...string) *models.Listing {
	return &models.Listing{Root: h.sourceDir, Paths: paths}
}

// TargetListing builds a listing over the target tree from explicit paths
func (h *TestHelper) TargetListing(paths ...string) *models.Listing {
	return &models.Listing{Root: h.targetDir, Paths: paths}
}

// contentOptions returns diff options with content comparison enabled
func contentOptions(workers int) Options {
	return Options{
		CompareContent: true,
		Comparator:     compare.NewBinaryComparator(4096),
		Workers:        workers,
	}
}

// listing builds a listing that never touches the filesystem; usable only
// with content comparison off
func listing(paths ...string) *models.Listing {
	return &models.Listing{Root: "/nonexistent", Paths: paths}
}

// TestDiff_SetCorrectness verifies removed = A-B, added = B-A, common = A∩B
func TestDiff_SetCorrectness(t *testing.T) {
	source := listing("a", "b", "d", "f")
	target := listing("b", "c", "d", "e")

	result, err := Diff(context.Background(), source, target, Options{})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	expected := []models.DiffEntry{
		{Path: "a", Status: models.DiffRemoved},
		{Path: "b", Status: models.DiffCommon, Content: models.ContentNotCompared},
		{Path: "c", Status: models.DiffAdded},
		{Path: "d", Status: models.DiffCommon, Content: models.ContentNotCompared},
		{Path: "e", Status: models.DiffAdded},
		{Path: "f", Status: models.DiffRemoved},
	}
	if !reflect.DeepEqual(result.Entries, expected) {
		t.Errorf("Diff() entries = %v, want %v", result.Entries, expected)
	}

	if result.Summary.Removed != 2 || result.Summary.Added != 2 || result.Summary.Common != 2 {
		t.Errorf("Diff() summary = %+v, want removed=2 added=2 common=2", result.Summary)
	}
}

// TestDiff_OutputOrder verifies entries come back in ascending path order
func TestDiff_OutputOrder(t *testing.T) {
	source := listing("a/x", "b", "c/y/z", "d")
	target := listing("a/x", "b-side", "c/y/z", "e")

	result, err := Diff(context.Background(), source, target, Options{})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	paths := make([]string, len(result.Entries))
	for i, e := range result.Entries {
		paths[i] = e.Path
	}
	if !sort.StringsAreSorted(paths) {
		t.Errorf("Diff() output order not ascending: %v", paths)
	}
}

// TestDiff_SelfDiff verifies diffing a listing against itself
func TestDiff_SelfDiff(t *testing.T) {
	source := listing("a.txt", "b.txt", "sub", "sub/c.txt")
	target := listing("a.txt", "b.txt", "sub", "sub/c.txt")

	result, err := Diff(context.Background(), source, target, Options{})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if result.Summary.Removed != 0 || result.Summary.Added != 0 {
		t.Errorf("self-diff should have no removed/added, got %+v", result.Summary)
	}
	if result.Summary.Common != 4 {
		t.Errorf("self-diff common = %d, want 4", result.Summary.Common)
	}
	for _, e := range result.Entries {
		if e.Content != models.ContentNotCompared {
			t.Errorf("entry %s content = %s, want %s", e.Path, e.Content, models.ContentNotCompared)
		}
	}
}

// TestDiff_EmptyListings tests the boundary cases around empty inputs
func TestDiff_EmptyListings(t *testing.T) {
	t.Run("BothEmpty", func(t *testing.T) {
		result, err := Diff(context.Background(), listing(), listing(), Options{})
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if len(result.Entries) != 0 {
			t.Errorf("Diff() entries = %v, want none", result.Entries)
		}
		if result.Summary.Total() != 0 {
			t.Errorf("Diff() summary = %+v, want all zero", result.Summary)
		}
	})

	t.Run("EmptySourceNonEmptyTarget", func(t *testing.T) {
		result, err := Diff(context.Background(), listing(), listing("a", "b", "c"), Options{})
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if result.Summary.Removed != 0 || result.Summary.Added != 3 || result.Summary.Common != 0 {
			t.Errorf("Diff() summary = %+v, want removed=0 added=3 common=0", result.Summary)
		}
	})

	t.Run("NonEmptySourceEmptyTarget", func(t *testing.T) {
		result, err := Diff(context.Background(), listing("a", "b"), listing(), Options{})
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if result.Summary.Removed != 2 || result.Summary.Added != 0 || result.Summary.Common != 0 {
			t.Errorf("Diff() summary = %+v, want removed=2 added=0 common=0", result.Summary)
		}
	})
}

// TestDiff_UnsortedInput verifies the differ establishes its own path
// order and leaves the input listings untouched
func TestDiff_UnsortedInput(t *testing.T) {
	sourcePaths := []string{"z.txt", "a.txt", "m.txt"}
	targetPaths := []string{"m.txt", "b.txt"}
	source := &models.Listing{Root: "/src", Paths: sourcePaths}
	target := &models.Listing{Root: "/dst", Paths: targetPaths}

	result, err := Diff(context.Background(), source, target, Options{})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	expected := []models.DiffEntry{
		{Path: "a.txt", Status: models.DiffRemoved},
		{Path: "b.txt", Status: models.DiffAdded},
		{Path: "m.txt", Status: models.DiffCommon, Content: models.ContentNotCompared},
		{Path: "z.txt", Status: models.DiffRemoved},
	}
	if !reflect.DeepEqual(result.Entries, expected) {
		t.Errorf("Diff() entries = %v, want %v", result.Entries, expected)
	}

	if !reflect.DeepEqual(sourcePaths, []string{"z.txt", "a.txt", "m.txt"}) {
		t.Errorf("Diff() mutated source paths: %v", sourcePaths)
	}
	if !reflect.DeepEqual(targetPaths, []string{"m.txt", "b.txt"}) {
		t.Errorf("Diff() mutated target paths: %v", targetPaths)
	}
}

// TestDiff_Scenario runs the canonical two-tree example end to end
func TestDiff_Scenario(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	helper.CreateSourceFile("a.txt", []byte("only in source"))
	helper.CreateSourceFile("b.txt", []byte("shared content"))
	helper.CreateTargetFile("b.txt", []byte("shared content"))
	helper.CreateTargetFile("c.txt", []byte("only in target"))

	source := helper.SourceListing("a.txt", "b.txt")
	target := helper.TargetListing("b.txt", "c.txt")

	result, err := Diff(context.Background(), source, target, contentOptions(2))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	expected := []models.DiffEntry{
		{Path: "a.txt", Status: models.DiffRemoved},
		{Path: "b.txt", Status: models.DiffCommon, Content: models.ContentUnchanged},
		{Path: "c.txt", Status: models.DiffAdded},
	}
	if !reflect.DeepEqual(result.Entries, expected) {
		t.Errorf("Diff() entries = %v, want %v", result.Entries, expected)
	}

	s := result.Summary
	if s.Removed != 1 || s.Added != 1 || s.Common != 1 || s.Unchanged != 1 || s.Changed != 0 {
		t.Errorf("Diff() summary = %+v, want removed=1 added=1 common=1 unchanged=1 changed=0", s)
	}
}

// TestDiff_ContentStatuses covers every content verdict
func TestDiff_ContentStatuses(t *testing.T) {
	t.Run("IdenticalFiles", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateSourceFile("same.txt", []byte("identical"))
		helper.CreateTargetFile("same.txt", []byte("identical"))

		result, err := Diff(context.Background(),
			helper.SourceListing("same.txt"), helper.TargetListing("same.txt"),
			contentOptions(1))
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if result.Entries[0].Content != models.ContentUnchanged {
			t.Errorf("content = %s, want %s", result.Entries[0].Content, models.ContentUnchanged)
		}
	})

	t.Run("DifferentFiles", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateSourceFile("diff.txt", []byte("source version"))
		helper.CreateTargetFile("diff.txt", []byte("target version"))

		result, err := Diff(context.Background(),
			helper.SourceListing("diff.txt"), helper.TargetListing("diff.txt"),
			contentOptions(1))
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if result.Entries[0].Content != models.ContentChanged {
			t.Errorf("content = %s, want %s", result.Entries[0].Content, models.ContentChanged)
		}
		if result.Summary.Changed != 1 {
			t.Errorf("summary changed = %d, want 1", result.Summary.Changed)
		}
	})

	t.Run("TypeChange", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		// Directory in the source tree, regular file in the target tree
		helper.CreateSourceDir("config")
		helper.CreateTargetFile("config", []byte("now a file"))

		result, err := Diff(context.Background(),
			helper.SourceListing("config"), helper.TargetListing("config"),
			contentOptions(1))
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if result.Entries[0].Content != models.ContentChanged {
			t.Errorf("type change content = %s, want %s", result.Entries[0].Content, models.ContentChanged)
		}
	})

	t.Run("BothDirectories", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateSourceDir("shared")
		helper.CreateTargetDir("shared")

		result, err := Diff(context.Background(),
			helper.SourceListing("shared"), helper.TargetListing("shared"),
			contentOptions(1))
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}
		if result.Entries[0].Content != models.ContentNotCompared {
			t.Errorf("directory content = %s, want %s", result.Entries[0].Content, models.ContentNotCompared)
		}
	})

	t.Run("MissingOnOneSide", func(t *testing.T) {
		helper := NewTestHelper(t)
		defer helper.Cleanup()

		// The path is listed on both sides but only exists in source,
		// as happens when an entry disappears between listing and compare
		helper.CreateSourceFile("gone.txt", []byte("still here"))

		result, err := Diff(context.Background(),
			helper.SourceListing("gone.txt"), helper.TargetListing("gone.txt"),
			contentOptions(1))
		if err != nil {
			t.Fatalf("Diff() error = %v", err)
		}

		e := result.Entries[0]
		if e.Content != models.ContentCompareFailed {
			t.Errorf("content = %s, want %s", e.Content, models.ContentCompareFailed)
		}
		if e.Reason == "" {
			t.Error("compare failure should carry a reason")
		}
		if result.Summary.CompareFailed != 1 {
			t.Errorf("summary compare failed = %d, want 1", result.Summary.CompareFailed)
		}
	})

	t.Run("UnreadableFile", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("running as root bypasses permission checks")
		}

		helper := NewTestHelper(t)
		defer helper.Cleanup()

		helper.CreateSourceFile("locked.txt", []byte("cannot read"))
		helper.CreateTargetFile("locked.txt", []byte("cannot read"))

		lockedPath := filepath.Join(helper.sourceDir, "locked.txt")
		if err := os.Chmod(lockedPath, 0000); err != nil {
			t.Fatalf("failed to chmod: %v", err)
		}
		defer os.Chmod(lockedPath, 0644)

		result, err := Diff(context.Background(),
			helper.SourceListing("locked.txt"), helper.TargetListing("locked.txt"),
			contentOptions(1))
		if err != nil {
			t.Fatalf("one unreadable file must not abort the diff: %v", err)
		}

		e := result.Entries[0]
		if e.Content != models.ContentCompareFailed {
			t.Errorf("content = %s, want %s", e.Content, models.ContentCompareFailed)
		}
		if e.Reason == "" {
			t.Error("compare failure should carry a reason")
		}
	})
}

// TestDiff_ContentDisabled verifies common entries stay not compared
// when content comparison is off, even when contents differ on disk
func TestDiff_ContentDisabled(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	helper.CreateSourceFile("file.txt", []byte("source version"))
	helper.CreateTargetFile("file.txt", []byte("target version"))

	result, err := Diff(context.Background(),
		helper.SourceListing("file.txt"), helper.TargetListing("file.txt"),
		Options{})
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if result.Entries[0].Content != models.ContentNotCompared {
		t.Errorf("content = %s, want %s", result.Entries[0].Content, models.ContentNotCompared)
	}
	if result.Summary.Unchanged != 0 || result.Summary.Changed != 0 {
		t.Errorf("summary = %+v, want no content counts", result.Summary)
	}
}

// TestDiff_Idempotence verifies repeated runs on unchanged trees agree
func TestDiff_Idempotence(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	helper.CreateSourceFile("a.txt", []byte("alpha"))
	helper.CreateSourceFile("shared.txt", []byte("same"))
	helper.CreateTargetFile("shared.txt", []byte("same"))
	helper.CreateTargetFile("z.txt", []byte("omega"))

	source := helper.SourceListing("a.txt", "shared.txt")
	target := helper.TargetListing("shared.txt", "z.txt")

	first, err := Diff(context.Background(), source, target, contentOptions(2))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	second, err := Diff(context.Background(), source, target, contentOptions(2))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated Diff() disagrees:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestDiff_ParallelMatchesSequential verifies worker scheduling never
// changes the observable result
func TestDiff_ParallelMatchesSequential(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	var paths []string
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("file%02d.txt", i)
		content := []byte(fmt.Sprintf("content %d", i))
		helper.CreateSourceFile(name, content)
		if i%3 == 0 {
			// Every third file differs in the target tree
			helper.CreateTargetFile(name, []byte(fmt.Sprintf("changed %d", i)))
		} else {
			helper.CreateTargetFile(name, content)
		}
		paths = append(paths, name)
	}

	source := helper.SourceListing(paths...)
	target := helper.TargetListing(paths...)

	sequential, err := Diff(context.Background(), source, target, contentOptions(1))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}
	parallel, err := Diff(context.Background(), source, target, contentOptions(8))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if !reflect.DeepEqual(sequential, parallel) {
		t.Errorf("parallel Diff() disagrees with sequential:\nsequential: %+v\nparallel:   %+v",
			sequential.Summary, parallel.Summary)
	}
}

// TestDiff_ProgressCallback verifies progress reporting over the
// comparison phase
func TestDiff_ProgressCallback(t *testing.T) {
	helper := NewTestHelper(t)
	defer helper.Cleanup()

	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("file%d.txt", i)
		helper.CreateSourceFile(name, []byte("x"))
		helper.CreateTargetFile(name, []byte("x"))
	}

	paths := make([]string, 10)
	for i := range paths {
		paths[i] = fmt.Sprintf("file%d.txt", i)
	}

	var mu sync.Mutex
	calls := 0
	maxDone := 0

	options := contentOptions(4)
	options.OnProgress = func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if done > maxDone {
			maxDone = done
		}
		if total != 10 {
			t.Errorf("OnProgress total = %d, want 10", total)
		}
	}

	_, err := Diff(context.Background(),
		helper.SourceListing(paths...), helper.TargetListing(paths...), options)
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 10 {
		t.Errorf("OnProgress called %d times, want 10", calls)
	}
	if maxDone != 10 {
		t.Errorf("OnProgress max done = %d, want 10", maxDone)
	}
}

// TestDiff_ContextCancellation verifies a cancelled context aborts the run
func TestDiff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Diff(ctx, listing("a"), listing("a"), Options{})
	if err == nil {
		t.Error("Diff() should return error on cancelled context")
	}
}
