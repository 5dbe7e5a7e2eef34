package executor

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"reorg/internal/conflict"
	"reorg/internal/plan"
	"reorg/internal/testsupport"
)

func TestRunEmptyPlan(t *testing.T) {
	root := t.TempDir()
	res, err := plan.NewPlanner(plan.Options{}).NestedDissolve(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(Options{Mode: Apply}).Run(res.Plan); err != ErrEmptyPlan {
		t.Fatalf("err = %v, want ErrEmptyPlan", err)
	}
}

func TestPreviewDoesNotMutate(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"A/A/x.txt": "x",
		"B/B/y.txt": "y",
	})
	before := testsupport.ListTree(t, root)

	planned, err := plan.NewPlanner(plan.Options{}).NestedDissolve(root)
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(Options{Mode: Preview}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Succeeded != planned.Plan.Len() {
		t.Fatalf("succeeded = %d, want %d", res.Succeeded, planned.Plan.Len())
	}
	if len(res.Applied) != 0 {
		t.Fatalf("preview recorded applied ops: %+v", res.Applied)
	}
	testsupport.SameTree(t, before, testsupport.ListTree(t, root))

	// Preview is idempotent: a second run over the unchanged tree reports
	// the same counts.
	again, err := New(Options{Mode: Preview}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if again.Succeeded != res.Succeeded || again.Skipped != res.Skipped {
		t.Fatalf("second preview diverged: %+v vs %+v", again, res)
	}
}

func TestApplyNestedDissolve(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"A/A/x.txt": "x",
	})

	planned, err := plan.NewPlanner(plan.Options{}).NestedDissolve(root)
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(Options{Mode: Apply}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 0 || res.Succeeded != 2 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(root, "A", "x.txt")); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "A", "A")); !os.IsNotExist(err) {
		t.Fatal("inner wrapper should be deleted")
	}
	if len(res.Applied) != 2 {
		t.Fatalf("applied = %+v", res.Applied)
	}
	if res.Applied[0].Timestamp.IsZero() {
		t.Fatal("applied operations must be timestamped")
	}
}

func TestApplyRenameConflict(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	testsupport.WriteTree(t, base, map[string]string{
		"src/a.txt":    "new",
		"target/a.txt": "old",
	})

	planned, err := plan.NewPlanner(plan.Options{}).Migrate([]string{filepath.Join(base, "src")}, target, plan.ModeFlat, false)
	if err != nil {
		t.Fatal(err)
	}
	exec := New(Options{
		Mode:     Apply,
		Resolver: conflict.NewResolver(conflict.PolicyRename, conflict.PolicyRename),
	})
	res, err := exec.Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 0 {
		t.Fatalf("failures: %+v", res.ItemErrors)
	}
	data, err := os.ReadFile(filepath.Join(target, "a_1.txt"))
	if err != nil {
		t.Fatalf("renamed destination: %v", err)
	}
	if string(data) != "new" {
		t.Fatalf("renamed content = %q", data)
	}
	if data, err := os.ReadFile(filepath.Join(target, "a.txt")); err != nil || string(data) != "old" {
		t.Fatalf("original destination disturbed: %q, %v", data, err)
	}
}

func TestApplySkipKeepsWrapper(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTree(t, root, map[string]string{
		"Movie/Movie.zip": "inner",
		"Movie.zip":       "existing",
	})

	planned, err := plan.NewPlanner(plan.Options{ArchiveExtensions: []string{".zip"}}).ArchiveDissolve(root)
	if err != nil {
		t.Fatal(err)
	}
	exec := New(Options{
		Mode:     Apply,
		Resolver: conflict.NewResolver(conflict.PolicySkip, conflict.PolicySkip),
	})
	res, err := exec.Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	// The move skips on the existing destination; the delete then skips
	// because the wrapper still holds the archive.
	if res.Skipped != 2 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(root, "Movie", "Movie.zip")); err != nil {
		t.Fatalf("skipped source should remain: %v", err)
	}
}

func TestApplyDirectoryMerge(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	testsupport.WriteTree(t, base, map[string]string{
		"src/pack/x.txt":     "x",
		"src/pack/sub/s.txt": "s",
		"target/pack/y.txt":  "y",
	})

	planned, err := plan.NewPlanner(plan.Options{}).Migrate([]string{filepath.Join(base, "src", "pack")}, target, plan.ModeDirect, false)
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(Options{Mode: Apply}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 0 {
		t.Fatalf("failures: %+v", res.ItemErrors)
	}
	for _, name := range []string{"x.txt", "y.txt", filepath.Join("sub", "s.txt")} {
		if _, err := os.Stat(filepath.Join(target, "pack", name)); err != nil {
			t.Fatalf("merged entry %s missing: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(base, "src", "pack")); !os.IsNotExist(err) {
		t.Fatal("merged source should be removed")
	}
	// Nested moves are recorded individually so the merge can be undone.
	var moves int
	for _, op := range res.Applied {
		if op.Type == plan.OpMove {
			moves++
		}
	}
	if moves != 2 {
		t.Fatalf("recorded moves = %d, applied: %+v", moves, res.Applied)
	}
}

func TestApplyWorkerPool(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	entries := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		entries["src/"+name+".txt"] = name
	}
	testsupport.WriteTree(t, base, entries)

	planned, err := plan.NewPlanner(plan.Options{}).Migrate([]string{filepath.Join(base, "src")}, target, plan.ModeFlat, false)
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(Options{Mode: Apply, Workers: 4}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 0 || res.Succeeded != planned.Plan.Len() {
		t.Fatalf("result = %+v", res)
	}
	for name := range entries {
		if _, err := os.Stat(filepath.Join(target, filepath.Base(name))); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestItemErrorDoesNotAbort(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	testsupport.WriteTree(t, base, map[string]string{
		"src/a.txt": "a",
		"src/b.txt": "b",
	})

	planned, err := plan.NewPlanner(plan.Options{}).Migrate([]string{filepath.Join(base, "src")}, target, plan.ModeFlat, false)
	if err != nil {
		t.Fatal(err)
	}
	// One source vanishes between planning and execution.
	if err := os.Remove(filepath.Join(base, "src", "a.txt")); err != nil {
		t.Fatal(err)
	}

	res, err := New(Options{Mode: Apply, Workers: 1}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed != 1 || len(res.ItemErrors) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if _, err := os.Stat(filepath.Join(target, "b.txt")); err != nil {
		t.Fatalf("surviving item should still be applied: %v", err)
	}
}

func TestProgressAlwaysSendsEndpoints(t *testing.T) {
	root := t.TempDir()
	entries := map[string]string{}
	for i := 0; i < 30; i++ {
		entries["src/"+string(rune('a'+i%26))+string(rune('0'+i/26))+".txt"] = "x"
	}
	testsupport.WriteTree(t, root, entries)

	planned, err := plan.NewPlanner(plan.Options{}).Migrate([]string{filepath.Join(root, "src")}, filepath.Join(root, "dst"), plan.ModeFlat, false)
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var updates []Progress
	sink := ProgressFunc(func(p Progress) {
		mu.Lock()
		updates = append(updates, p)
		mu.Unlock()
	})
	if _, err := New(Options{Mode: Preview, Progress: sink}).Run(planned.Plan); err != nil {
		t.Fatal(err)
	}

	if len(updates) < 2 {
		t.Fatalf("want at least start and completion, got %d", len(updates))
	}
	if updates[0].Percent != 0 {
		t.Fatalf("first update percent = %v", updates[0].Percent)
	}
	if last := updates[len(updates)-1]; last.Percent != 100 {
		t.Fatalf("last update percent = %v", last.Percent)
	}
}

func TestThrottleSuppressesAndFlushes(t *testing.T) {
	var updates []Progress
	sink := ProgressFunc(func(p Progress) { updates = append(updates, p) })

	clock := time.Unix(0, 0)
	th := newThrottle(sink, 10, time.Second)
	th.now = func() time.Time { return clock }

	th.publish(Progress{Percent: 0})  // endpoint, always sent
	th.publish(Progress{Percent: 3})  // below step, held
	th.publish(Progress{Percent: 7})  // still below step, replaces pending
	th.publish(Progress{Percent: 12}) // advanced >= 10 points, sends
	th.publish(Progress{Percent: 14}) // held
	th.flush()

	want := []float64{0, 12, 14}
	if len(updates) != len(want) {
		t.Fatalf("updates = %+v", updates)
	}
	for i, pct := range want {
		if updates[i].Percent != pct {
			t.Fatalf("update %d percent = %v, want %v", i, updates[i].Percent, pct)
		}
	}
}

func TestThrottleIntervalForcesSend(t *testing.T) {
	var updates []Progress
	sink := ProgressFunc(func(p Progress) { updates = append(updates, p) })

	clock := time.Unix(0, 0)
	th := newThrottle(sink, 50, 100*time.Millisecond)
	th.now = func() time.Time { return clock }

	th.publish(Progress{Percent: 0})
	clock = clock.Add(150 * time.Millisecond)
	th.publish(Progress{Percent: 1})
	if len(updates) != 2 {
		t.Fatalf("updates = %+v", updates)
	}
}

func TestBufferedObserverDelivers(t *testing.T) {
	var mu sync.Mutex
	var got []float64
	inner := ProgressFunc(func(p Progress) {
		mu.Lock()
		got = append(got, p.Percent)
		mu.Unlock()
	})
	b := NewBuffered(inner, 8)
	for i := 0; i <= 4; i++ {
		b.OnProgress(Progress{Percent: float64(i * 25)})
	}
	b.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 5 || got[4] != 100 {
		t.Fatalf("delivered = %v", got)
	}
}

func TestApplyCountsTransfers(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	testsupport.WriteTree(t, base, map[string]string{
		"src/a.txt": "a",
		"src/b.txt": "b",
	})

	planned, err := plan.NewPlanner(plan.Options{}).Migrate([]string{filepath.Join(base, "src")}, target, plan.ModeFlat, false)
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(Options{Mode: Apply}).Run(planned.Plan)
	if err != nil {
		t.Fatal(err)
	}
	// The leading CreateDir counts as a success but not as a transfer.
	if res.Succeeded != 3 || res.Transferred != 2 {
		t.Fatalf("result = %+v", res)
	}
}
