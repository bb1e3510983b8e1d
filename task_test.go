// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/upload/pixel"
)

// countingCondition records condition traffic.
type countingCondition struct {
	needs     bool
	asked     int
	submitted int
}

func (c *countingCondition) NeedsUpload(context.Context) bool {
	c.asked++
	return c.needs
}

func (c *countingCondition) UploadSubmitted() { c.submitted++ }

func TestRecordUpload(t *testing.T) {
	rec := testRecorder(nil)
	info := pixel.Info{Type: pixel.RGBA8Premul}
	target := rgbaTarget(4, 4, false)

	var list List
	if err := list.RecordUpload(nil); !errors.Is(err, ErrInvalidInstance) {
		t.Errorf("err = %v, want ErrInvalidInstance", err)
	}

	in, err := MakeUpload(rec, target, info, info,
		[]MipLevel{{Pixels: make([]byte, 64)}}, target.Bounds(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := list.RecordUpload(in); err != nil {
		t.Fatal(err)
	}
	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
}

func TestSnapUploadTask(t *testing.T) {
	rec := testRecorder(nil)
	if task := rec.SnapUploadTask(); task != nil {
		t.Fatal("snap of empty recorder returned a task")
	}

	info := pixel.Info{Type: pixel.RGBA8Premul}
	target := rgbaTarget(4, 4, false)
	in, err := MakeUpload(rec, target, info, info,
		[]MipLevel{{Pixels: make([]byte, 64)}}, target.Bounds(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rec.PendingUploads().RecordUpload(in); err != nil {
		t.Fatal(err)
	}

	task := rec.SnapUploadTask()
	if task == nil || task.Len() != 1 {
		t.Fatal("snap did not produce a single-upload task")
	}
	if rec.PendingUploads().Len() != 0 {
		t.Error("snap left uploads pending")
	}
}

func TestUploadTaskAddCommands(t *testing.T) {
	rec := testRecorder(nil)
	info := pixel.Info{Type: pixel.RGBA8Premul}
	target := rgbaTarget(8, 8, false)
	rect := image.Rect(2, 1, 6, 5)

	in, err := MakeUpload(rec, target, info, info,
		[]MipLevel{{Pixels: make([]byte, 4*16)}}, rect, nil)
	if err != nil {
		t.Fatal(err)
	}
	task := NewTaskFromInstance(in)
	if task == nil {
		t.Fatal("no task")
	}

	cb := NewHALCommandBuffer()

	// Commands before preparation must fail: the proxy has no texture.
	if err := task.AddCommands(context.Background(), cb, nil); !errors.Is(err, ErrTextureNotInstantiated) {
		t.Fatalf("err = %v, want ErrTextureNotInstantiated", err)
	}

	provider := &stubTexProvider{}
	if err := task.PrepareResources(provider); err != nil {
		t.Fatal(err)
	}
	if err := task.AddCommands(context.Background(), cb, nil); err != nil {
		t.Fatal(err)
	}

	ops := cb.Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops, want 1", len(ops))
	}
	op := ops[0]
	if op.Destination.Origin.X != 2 || op.Destination.Origin.Y != 1 {
		t.Errorf("origin = %+v", op.Destination.Origin)
	}
	if op.Size.Width != 4 || op.Size.Height != 4 || op.Size.DepthOrArrayLayers != 1 {
		t.Errorf("size = %+v", op.Size)
	}
	if op.Layout.BytesPerRow != 256 {
		t.Errorf("bytes per row = %d", op.Layout.BytesPerRow)
	}
}

func TestUploadTaskPrepareFailure(t *testing.T) {
	rec := testRecorder(nil)
	info := pixel.Info{Type: pixel.RGBA8Premul}
	target := rgbaTarget(4, 4, false)

	in, err := MakeUpload(rec, target, info, info,
		[]MipLevel{{Pixels: make([]byte, 64)}}, target.Bounds(), nil)
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	task := NewTaskFromInstance(in)
	if err := task.PrepareResources(&stubTexProvider{err: boom}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestReplayRedirection(t *testing.T) {
	info := pixel.Info{Type: pixel.RGBA8Premul}

	stage := func(t *testing.T, rect image.Rectangle, cond Condition) (*Recorder, *UploadTask, *Instance) {
		t.Helper()
		rec := testRecorder(nil)
		target := rgbaTarget(8, 8, false)
		in, err := MakeUpload(rec, target, info, info,
			[]MipLevel{{Pixels: make([]byte, rect.Dx()*rect.Dy()*4)}}, rect, cond)
		if err != nil {
			t.Fatal(err)
		}
		task := NewTaskFromInstance(in)
		if err := task.PrepareResources(&stubTexProvider{}); err != nil {
			t.Fatal(err)
		}
		return rec, task, in
	}

	t.Run("fully outside emits nothing", func(t *testing.T) {
		_, task, in := stage(t, image.Rect(0, 0, 4, 4), nil)
		cb := NewHALCommandBuffer()
		replay := &ReplayTarget{Target: in.Target(), Translation: image.Pt(100, 100)}
		if err := task.AddCommands(context.Background(), cb, replay); err != nil {
			t.Fatal(err)
		}
		if got := len(cb.Ops()); got != 0 {
			t.Errorf("got %d ops, want 0", got)
		}
	})

	t.Run("fully outside leaves the condition unsubmitted", func(t *testing.T) {
		cond := &countingCondition{needs: true}
		_, task, in := stage(t, image.Rect(0, 0, 4, 4), cond)
		cb := NewHALCommandBuffer()
		replay := &ReplayTarget{Target: in.Target(), Translation: image.Pt(100, 100)}
		if err := task.AddCommands(context.Background(), cb, replay); err != nil {
			t.Fatal(err)
		}
		if got := len(cb.Ops()); got != 0 {
			t.Fatalf("got %d ops, want 0", got)
		}
		if cond.submitted != 0 {
			t.Errorf("submitted = %d after a fully clipped replay, want 0", cond.submitted)
		}

		// A later replay that does intersect still needs the upload.
		replay.Translation = image.Pt(2, 2)
		if err := task.AddCommands(context.Background(), cb, replay); err != nil {
			t.Fatal(err)
		}
		if got := len(cb.Ops()); got != 1 {
			t.Errorf("got %d ops after an intersecting replay, want 1", got)
		}
		if cond.submitted != 1 {
			t.Errorf("submitted = %d after an intersecting replay, want 1", cond.submitted)
		}
	})

	t.Run("partial overlap crops and advances the offset", func(t *testing.T) {
		_, task, in := stage(t, image.Rect(0, 0, 4, 4), nil)
		cb := NewHALCommandBuffer()
		replay := &ReplayTarget{Target: in.Target(), Translation: image.Pt(-2, -1)}
		if err := task.AddCommands(context.Background(), cb, replay); err != nil {
			t.Fatal(err)
		}

		ops := cb.Ops()
		if len(ops) != 1 {
			t.Fatalf("got %d ops, want 1", len(ops))
		}
		op := ops[0]
		if op.Destination.Origin.X != 0 || op.Destination.Origin.Y != 0 {
			t.Errorf("origin = %+v, want (0,0)", op.Destination.Origin)
		}
		if op.Size.Width != 2 || op.Size.Height != 3 {
			t.Errorf("size = %dx%d, want 2x3", op.Size.Width, op.Size.Height)
		}

		// One clipped row and two clipped columns of 4-byte texels.
		base := in.Copies()[0]
		want := base.BufferOffset + 1*base.BufferRowBytes + 2*4
		if op.Layout.Offset != want {
			t.Errorf("offset = %d, want %d", op.Layout.Offset, want)
		}
	})

	t.Run("translation within bounds moves the rect", func(t *testing.T) {
		_, task, in := stage(t, image.Rect(0, 0, 4, 4), nil)
		cb := NewHALCommandBuffer()
		replay := &ReplayTarget{Target: in.Target(), Translation: image.Pt(3, 2)}
		if err := task.AddCommands(context.Background(), cb, replay); err != nil {
			t.Fatal(err)
		}
		op := cb.Ops()[0]
		if op.Destination.Origin.X != 3 || op.Destination.Origin.Y != 2 {
			t.Errorf("origin = %+v, want (3,2)", op.Destination.Origin)
		}
		if op.Layout.Offset != in.Copies()[0].BufferOffset {
			t.Errorf("offset moved for an unclipped translation")
		}
	})

	t.Run("different target is not redirected", func(t *testing.T) {
		_, task, in := stage(t, image.Rect(2, 2, 6, 6), nil)
		other := rgbaTarget(8, 8, false)
		cb := NewHALCommandBuffer()
		replay := &ReplayTarget{Target: other, Translation: image.Pt(100, 100)}
		if err := task.AddCommands(context.Background(), cb, replay); err != nil {
			t.Fatal(err)
		}
		ops := cb.Ops()
		if len(ops) != 1 {
			t.Fatalf("got %d ops, want 1", len(ops))
		}
		if ops[0].Destination.Origin.X != 2 || ops[0].Destination.Origin.Y != 2 {
			t.Errorf("origin = %+v, want untranslated (2,2)", ops[0].Destination.Origin)
		}
		_ = in
	})
}

func TestConditionalUpload(t *testing.T) {
	info := pixel.Info{Type: pixel.RGBA8Premul}

	stage := func(t *testing.T, cond Condition) *UploadTask {
		t.Helper()
		rec := testRecorder(nil)
		target := rgbaTarget(4, 4, false)
		in, err := MakeUpload(rec, target, info, info,
			[]MipLevel{{Pixels: make([]byte, 64)}}, target.Bounds(), cond)
		if err != nil {
			t.Fatal(err)
		}
		task := NewTaskFromInstance(in)
		if err := task.PrepareResources(&stubTexProvider{}); err != nil {
			t.Fatal(err)
		}
		return task
	}

	t.Run("skipped when not needed", func(t *testing.T) {
		cond := &countingCondition{needs: false}
		task := stage(t, cond)
		cb := NewHALCommandBuffer()
		if err := task.AddCommands(context.Background(), cb, nil); err != nil {
			t.Fatal(err)
		}
		if len(cb.Ops()) != 0 {
			t.Error("skipped upload emitted commands")
		}
		if cond.submitted != 0 {
			t.Error("skipped upload notified submission")
		}
	})

	t.Run("notified when emitted", func(t *testing.T) {
		cond := &countingCondition{needs: true}
		task := stage(t, cond)
		cb := NewHALCommandBuffer()
		if err := task.AddCommands(context.Background(), cb, nil); err != nil {
			t.Fatal(err)
		}
		if len(cb.Ops()) != 1 {
			t.Fatal("conditional upload did not emit")
		}
		if cond.submitted != 1 {
			t.Errorf("submitted = %d, want 1", cond.submitted)
		}
	})

	t.Run("once condition uploads once", func(t *testing.T) {
		cond := &OnceCondition{}
		task := stage(t, cond)
		cb := NewHALCommandBuffer()
		for range 3 {
			if err := task.AddCommands(context.Background(), cb, nil); err != nil {
				t.Fatal(err)
			}
		}
		if got := len(cb.Ops()); got != 1 {
			t.Errorf("got %d ops across replays, want 1", got)
		}
	})
}

func TestTransferStaging(t *testing.T) {
	rec := testRecorder(nil)
	info := pixel.Info{Type: pixel.RGBA8Premul}
	target := rgbaTarget(4, 4, false)

	in, err := MakeUpload(rec, target, info, info,
		[]MipLevel{{Pixels: make([]byte, 64)}}, target.Bounds(), nil)
	if err != nil {
		t.Fatal(err)
	}

	cb := NewHALCommandBuffer()
	if err := rec.TransferStaging(cb); err != nil {
		t.Fatal(err)
	}
	buffers := cb.TrackedBuffers()
	if len(buffers) != 1 || buffers[0] != in.buffer {
		t.Fatalf("tracked %d buffers", len(buffers))
	}
	if in.buffer.IsMapped() {
		t.Error("buffer still mapped after transfer")
	}

	cb.ReleaseUploadBuffers()
	if !in.buffer.IsDestroyed() {
		t.Error("release did not destroy the staging buffer")
	}
}
