package display

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/folio/content"
	"github.com/pthm-cable/folio/renderer"
)

// Texture is a GPU texture usable as a swarm sprite.
type Texture struct {
	tex rl.Texture2D
}

func (t *Texture) Size() (int, int) { return int(t.tex.Width), int(t.tex.Height) }

// Raw returns the underlying raylib texture.
func (t *Texture) Raw() rl.Texture2D { return t.tex }

type loadResult struct {
	ctx  context.Context
	url  string
	data []byte
	err  error
	done func(renderer.Image, error)
}

// TextureLoader fetches and decodes images off the main thread and uploads
// them to the GPU in Pump. Every done callback runs inside Pump, on the
// thread that owns the raylib context.
type TextureLoader struct {
	fetch content.Fetcher
	log   *slog.Logger

	mu       sync.Mutex
	ready    []loadResult
	wg       sync.WaitGroup
	textures []*Texture
}

// NewTextureLoader creates a loader reading through f.
func NewTextureLoader(f content.Fetcher, log *slog.Logger) *TextureLoader {
	if log == nil {
		log = slog.Default()
	}
	return &TextureLoader{fetch: f, log: log}
}

// Load starts fetching url. It satisfies swarm.ImageLoader.
func (l *TextureLoader) Load(ctx context.Context, url string, done func(renderer.Image, error)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		data, err := l.fetch.Fetch(ctx, url)
		l.mu.Lock()
		l.ready = append(l.ready, loadResult{ctx: ctx, url: url, data: data, err: err, done: done})
		l.mu.Unlock()
	}()
}

// Pump uploads finished fetches and runs their callbacks. Call once per
// frame from the main thread.
func (l *TextureLoader) Pump() {
	l.mu.Lock()
	batch := l.ready
	l.ready = nil
	l.mu.Unlock()

	for _, r := range batch {
		if err := r.ctx.Err(); err != nil {
			r.done(nil, err)
			continue
		}
		if r.err != nil {
			r.done(nil, r.err)
			continue
		}
		tex, err := l.upload(r.url, r.data)
		if err != nil {
			r.done(nil, err)
			continue
		}
		r.done(tex, nil)
	}
}

func (l *TextureLoader) upload(url string, data []byte) (*Texture, error) {
	ext := strings.ToLower(path.Ext(url))
	if ext == "" {
		return nil, fmt.Errorf("decoding %s: unknown image type", url)
	}
	img := rl.LoadImageFromMemory(ext, data, int32(len(data)))
	if img == nil || img.Data == nil {
		return nil, fmt.Errorf("decoding %s: %w", url, errUnsupportedImage)
	}
	defer rl.UnloadImage(img)

	t := &Texture{tex: rl.LoadTextureFromImage(img)}
	rl.SetTextureFilter(t.tex, rl.FilterBilinear)
	l.textures = append(l.textures, t)
	l.log.Debug("texture loaded", "url", url, "width", img.Width, "height", img.Height)
	return t, nil
}

var errUnsupportedImage = errors.New("unsupported or corrupt image")

// Wait blocks until every started fetch has finished.
func (l *TextureLoader) Wait() { l.wg.Wait() }

// Unload waits for outstanding fetches and frees every uploaded texture.
func (l *TextureLoader) Unload() {
	l.wg.Wait()
	for _, t := range l.textures {
		rl.UnloadTexture(t.tex)
	}
	l.textures = nil
}
