package model

import (
	"sync"
	"testing"
	"time"
)

func TestRegistryCreateAndView(t *testing.T) {
	registry := NewJobRegistry()

	job := registry.Create("t5-small")
	if job.ID == "" {
		t.Fatal("expected a generated job ID")
	}
	if job.Status != JobStatusPending {
		t.Errorf("new job status = %s, want pending", job.Status)
	}

	view := registry.View(job.ID)
	if view.Status != "processing" || view.Summary != "" {
		t.Errorf("pending view = %+v, want processing", view)
	}
}

func TestRegistryUnknownIDPollsAsProcessing(t *testing.T) {
	registry := NewJobRegistry()

	view := registry.View("no-such-job")
	if view.Status != "processing" {
		t.Errorf("unknown ID view = %+v, want processing", view)
	}
}

func TestRegistryCompleteIsVisibleAndIdempotentToPoll(t *testing.T) {
	registry := NewJobRegistry()
	job := registry.Create("t5-small")

	if !registry.Complete(job.ID, "hi") {
		t.Fatal("expected the first completion to succeed")
	}

	first := registry.View(job.ID)
	second := registry.View(job.ID)
	if first != second {
		t.Errorf("polling twice returned different views: %+v vs %+v", first, second)
	}
	if first.Summary != "hi" || first.Status != "" {
		t.Errorf("completed view = %+v, want summary only", first)
	}
}

func TestRegistryFailKeepsErrorPrefix(t *testing.T) {
	registry := NewJobRegistry()
	job := registry.Create("t5-small")

	registry.Fail(job.ID, "transcription failed: bad media")

	view := registry.View(job.ID)
	if view.Status != "failed" {
		t.Errorf("failed view status = %q, want failed", view.Status)
	}
	if view.Summary != "Error: transcription failed: bad media" {
		t.Errorf("failed view summary = %q", view.Summary)
	}
}

func TestRegistryTerminalTransitionIsAtMostOnce(t *testing.T) {
	registry := NewJobRegistry()
	job := registry.Create("t5-small")

	if !registry.Complete(job.ID, "first") {
		t.Fatal("first outcome rejected")
	}
	if registry.Complete(job.ID, "second") {
		t.Error("second completion should be a no-op")
	}
	if registry.Fail(job.ID, "late failure") {
		t.Error("failing a completed job should be a no-op")
	}

	if view := registry.View(job.ID); view.Summary != "first" {
		t.Errorf("result was overwritten: %+v", view)
	}
}

func TestRegistryFinishUnknownJob(t *testing.T) {
	registry := NewJobRegistry()
	if registry.Complete("ghost", "x") {
		t.Error("completing an unknown job should report false")
	}
}

func TestRegistryEviction(t *testing.T) {
	registry := NewJobRegistry()

	done := registry.Create("t5-small")
	registry.Complete(done.ID, "hi")
	pending := registry.Create("t5-small")

	removed := registry.EvictTerminalBefore(time.Now().UTC().Add(time.Second))
	if removed != 1 {
		t.Fatalf("evicted %d jobs, want 1", removed)
	}

	if _, exists := registry.Get(pending.ID); !exists {
		t.Error("pending job must never be evicted")
	}
	if view := registry.View(done.ID); view.Status != "processing" {
		// Evicted terminal jobs fall back to the unknown-ID shape.
		t.Errorf("evicted job view = %+v", view)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewJobRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job := registry.Create("t5-small")
			registry.Complete(job.ID, "done")
			if view := registry.View(job.ID); view.Summary != "done" {
				t.Errorf("unexpected view after completion: %+v", view)
			}
		}()
	}
	wg.Wait()

	if registry.Len() != 32 {
		t.Errorf("registry holds %d jobs, want 32", registry.Len())
	}
}
