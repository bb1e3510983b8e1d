// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package upload implements deferred texture uploads for a recording GPU
// backend.
//
// Pixel data destined for GPU textures is staged at recording time:
// an upload instance copies (and if needed color-converts) the data into
// mapped staging memory and remembers the buffer-to-texture copy regions.
// No GPU work happens yet. When the recording is snapped and inserted,
// the resulting upload task instantiates its target textures, then
// encodes the remembered copies into a command buffer, which takes
// ownership of the staging memory until the GPU has consumed it.
//
// The two-phase split (prepare, then add commands) lets a recording be
// replayed against different targets: replay redirection translates an
// upload's destination rectangle and clips it against the new target.
//
// Uploads may be conditional. A Condition is consulted at command time;
// if the data is already resident the upload is skipped.
package upload
