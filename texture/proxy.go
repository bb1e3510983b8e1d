// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/wgpu/hal"
)

// Proxy errors.
var (
	// ErrNilProvider is returned when instantiation is attempted without
	// a texture provider.
	ErrNilProvider = errors.New("texture: nil provider")

	// ErrInvalidInfo is returned when a proxy's description cannot back
	// a real texture.
	ErrInvalidInfo = errors.New("texture: invalid texture info")
)

// InstantiateFunc produces the backing texture for a lazy proxy. It runs
// at most once, at resource preparation time.
type InstantiateFunc func(Provider) (hal.Texture, error)

// Proxy is a deferred reference to a GPU texture. Recording-time code
// operates on proxies; the backing hal.Texture is created later, when the
// recorded work is prepared for submission.
//
// A proxy is either eager (backed on first Instantiate via its Info) or
// lazy (backed by a caller-supplied InstantiateFunc). Proxies are not safe
// for concurrent use.
type Proxy struct {
	info Info

	tex          hal.Texture
	lazy         InstantiateFunc
	instantiated bool
}

// NewProxy returns an eager proxy for the described texture.
func NewProxy(info Info) *Proxy {
	return &Proxy{info: info}
}

// NewLazyProxy returns a proxy whose backing texture is produced by fn
// at instantiation time.
func NewLazyProxy(info Info, fn InstantiateFunc) *Proxy {
	return &Proxy{info: info, lazy: fn}
}

// Wrap returns an already-instantiated proxy around an existing texture.
func Wrap(info Info, tex hal.Texture) *Proxy {
	return &Proxy{info: info, tex: tex, instantiated: true}
}

// Info returns the texture description.
func (p *Proxy) Info() Info { return p.info }

// Bounds returns the full texture bounds in texel coordinates.
func (p *Proxy) Bounds() image.Rectangle { return p.info.Bounds() }

// IsLazy reports whether the proxy defers creation to an InstantiateFunc.
func (p *Proxy) IsLazy() bool { return p.lazy != nil }

// IsInstantiated reports whether a backing texture exists.
func (p *Proxy) IsInstantiated() bool { return p.instantiated }

// Texture returns the backing texture, or nil before instantiation.
func (p *Proxy) Texture() hal.Texture {
	if !p.instantiated {
		return nil
	}
	return p.tex
}

// Instantiate creates the backing texture if it does not exist yet.
// It is idempotent.
func (p *Proxy) Instantiate(provider Provider) error {
	if p.instantiated {
		return nil
	}
	if !p.info.IsValid() {
		return fmt.Errorf("%w: %dx%d", ErrInvalidInfo, p.info.Width, p.info.Height)
	}

	var (
		tex hal.Texture
		err error
	)
	if p.lazy != nil {
		tex, err = p.lazy(provider)
	} else {
		if provider == nil {
			return ErrNilProvider
		}
		tex, err = provider.CreateTexture(p.info)
	}
	if err != nil {
		return fmt.Errorf("texture: instantiating %q: %w", p.info.Label, err)
	}

	p.tex = tex
	p.instantiated = true
	return nil
}

// InstantiateIfNotLazy instantiates p unless it is lazy. Lazy proxies are
// resolved by their owner later in the preparation pass; everything else
// must be backed before commands referencing it are recorded into a
// command buffer.
func InstantiateIfNotLazy(provider Provider, p *Proxy) error {
	if p.IsLazy() {
		return nil
	}
	return p.Instantiate(provider)
}
