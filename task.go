// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"context"
	"errors"
	"image"

	"github.com/gogpu/upload/texture"
)

// ErrInvalidInstance is returned when recording an upload that holds no
// staged data.
var ErrInvalidInstance = errors.New("upload: invalid upload instance")

// ReplayTarget redirects uploads during recording replay. Uploads whose
// destination proxy equals Target have their copy rects translated by
// Translation and clipped to the target's bounds.
type ReplayTarget struct {
	// Target is the proxy being replayed onto.
	Target *texture.Proxy

	// Translation is the texel offset applied to destination rects.
	Translation image.Point
}

// Task is one unit of deferred GPU work with a two-phase protocol:
// resources first, commands second.
type Task interface {
	// PrepareResources backs the task's proxies with real textures.
	PrepareResources(provider texture.Provider) error

	// AddCommands records the task's work into cb. replay may be nil.
	AddCommands(ctx context.Context, cb CommandBuffer, replay *ReplayTarget) error
}

// List accumulates upload instances during recording.
//
// The zero List is ready to use.
type List struct {
	instances []*Instance
}

// RecordUpload appends a staged upload to the list.
func (l *List) RecordUpload(in *Instance) error {
	if !in.IsValid() {
		return ErrInvalidInstance
	}
	l.instances = append(l.instances, in)
	return nil
}

// Len returns the number of recorded uploads.
func (l *List) Len() int { return len(l.instances) }

// UploadTask executes a batch of staged uploads.
type UploadTask struct {
	instances []*Instance
}

// NewTask takes ownership of the uploads in list and wraps them in a
// task, leaving the list empty. It returns nil when the list is empty.
func NewTask(list *List) *UploadTask {
	if list.Len() == 0 {
		return nil
	}
	t := &UploadTask{instances: list.instances}
	list.instances = nil
	return t
}

// NewTaskFromInstance wraps a single staged upload in a task. It returns
// nil for an invalid instance.
func NewTaskFromInstance(in *Instance) *UploadTask {
	if !in.IsValid() {
		return nil
	}
	return &UploadTask{instances: []*Instance{in}}
}

// PrepareResources instantiates every upload's target texture.
func (t *UploadTask) PrepareResources(provider texture.Provider) error {
	for _, in := range t.instances {
		if err := in.prepareResources(provider); err != nil {
			return err
		}
	}
	return nil
}

// AddCommands records every upload's copies into cb, honoring each
// upload's condition and the replay redirection if one applies.
func (t *UploadTask) AddCommands(ctx context.Context, cb CommandBuffer, replay *ReplayTarget) error {
	for _, in := range t.instances {
		if err := in.addCommand(ctx, cb, replay); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of uploads in the task.
func (t *UploadTask) Len() int { return len(t.instances) }

var _ Task = (*UploadTask)(nil)
