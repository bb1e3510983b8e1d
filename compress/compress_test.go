// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compress

import "testing"

func TestMipLevelCount(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          int
	}{
		{"1x1", 1, 1, 1},
		{"2x2", 2, 2, 2},
		{"16x16", 16, 16, 5},
		{"256x256", 256, 256, 9},
		{"wide", 256, 4, 9},
		{"tall", 4, 256, 9},
		{"npot", 13, 7, 4},
		{"degenerate", 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MipLevelCount(tt.width, tt.height); got != tt.want {
				t.Errorf("MipLevelCount(%d, %d) = %d, want %d", tt.width, tt.height, got, tt.want)
			}
		})
	}
}

func TestDimensionsInBlocks(t *testing.T) {
	tests := []struct {
		name          string
		kind          Kind
		width, height int
		wantW, wantH  int
	}{
		{"none is 1x1 blocks", KindNone, 13, 7, 13, 7},
		{"etc2 exact", KindETC2RGB8, 16, 8, 4, 2},
		{"etc2 partial blocks round up", KindETC2RGB8, 13, 7, 4, 2},
		{"bc1 single texel", KindBC1RGB8, 1, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.kind.DimensionsInBlocks(tt.width, tt.height)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("DimensionsInBlocks(%d, %d) = (%d, %d), want (%d, %d)",
					tt.width, tt.height, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRowBytes(t *testing.T) {
	if got := KindETC2RGB8.RowBytes(13); got != 32 {
		t.Errorf("ETC2 RowBytes(13) = %d, want 32", got)
	}
	if got := KindNone.RowBytes(13); got != 0 {
		t.Errorf("None RowBytes(13) = %d, want 0", got)
	}
}

func TestDataSize(t *testing.T) {
	t.Run("single level", func(t *testing.T) {
		total, offsets := DataSize(KindBC1RGBA8, 16, 16, false)
		if total != 128 {
			t.Errorf("total = %d, want 128", total)
		}
		if len(offsets) != 1 || offsets[0] != 0 {
			t.Errorf("offsets = %v, want [0]", offsets)
		}
	})

	t.Run("full chain", func(t *testing.T) {
		// 16x16 -> 8x8 -> 4x4 -> 2x2 -> 1x1, 8 bytes per 4x4 block.
		total, offsets := DataSize(KindBC1RGBA8, 16, 16, true)
		wantOffsets := []int{0, 128, 160, 168, 176}
		if total != 184 {
			t.Errorf("total = %d, want 184", total)
		}
		if len(offsets) != len(wantOffsets) {
			t.Fatalf("got %d offsets, want %d", len(offsets), len(wantOffsets))
		}
		for i, want := range wantOffsets {
			if offsets[i] != want {
				t.Errorf("offsets[%d] = %d, want %d", i, offsets[i], want)
			}
		}
	})

	t.Run("none", func(t *testing.T) {
		total, offsets := DataSize(KindNone, 16, 16, true)
		if total != 0 || offsets != nil {
			t.Errorf("DataSize(None) = (%d, %v), want (0, nil)", total, offsets)
		}
	})
}

func TestKindString(t *testing.T) {
	if KindETC2RGB8.String() != "ETC2_RGB8" {
		t.Errorf("String() = %q", KindETC2RGB8.String())
	}
	if Kind(200).String() != "Unknown(200)" {
		t.Errorf("String() = %q", Kind(200).String())
	}
}
