// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package upload

import (
	"context"
	"sync/atomic"
)

// Condition gates an upload at command-recording time. It decouples the
// decision "is this data already resident" from the recording that staged
// it, which lets one recording be inserted many times while uploading the
// data only when needed.
type Condition interface {
	// NeedsUpload reports whether the upload's commands should be
	// emitted. Returning false skips the upload entirely.
	NeedsUpload(ctx context.Context) bool

	// UploadSubmitted is called after the upload's copy commands have
	// been recorded into a command buffer. It is not called when the
	// upload is skipped, including a replay whose clipping left nothing
	// to copy.
	UploadSubmitted()
}

// OnceCondition uploads the first time its task is added to a command
// buffer and skips every time after. Safe for concurrent use.
type OnceCondition struct {
	done atomic.Bool
}

// NeedsUpload reports whether the upload has not yet been submitted.
func (c *OnceCondition) NeedsUpload(context.Context) bool {
	return !c.done.Load()
}

// UploadSubmitted marks the upload as resident.
func (c *OnceCondition) UploadSubmitted() {
	c.done.Store(true)
}

var _ Condition = (*OnceCondition)(nil)
