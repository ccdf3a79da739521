package editor

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"sync"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/sethvargo/go-retry"
	xdraw "golang.org/x/image/draw"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
	"github.com/MKhiriev/go-note-keeper/models"
)

// queueEntry is one uploaded file waiting in the pipeline.
type queueEntry struct {
	hash        string
	upload      FileUpload
	enqueueTime time.Time
}

// Pipeline validates, deduplicates, compresses and persists uploaded images,
// then splices the resulting markup into the live editor content.
//
// Files move through a single FIFO queue, one at a time end to end, so only
// one decode/compress/encode cycle is live at any moment. A failed file is
// still dequeued; its failure never blocks the files behind it.
type Pipeline struct {
	cfg     config.Editor
	images  store.ImageRepository
	surface Surface
	logger  *logger.Logger

	// onInserted fires after each successful insertion so the owner can mark
	// content dirty and record history. onFailed fires once per abandoned
	// file so the owner can tell the user.
	onInserted func()
	onFailed   func(name string, err error)

	mu       sync.Mutex
	queue    []queueEntry
	draining bool

	now func() time.Time
}

func NewPipeline(cfg config.Editor, images store.ImageRepository, surface Surface, onInserted func(), onFailed func(name string, err error), log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		images:     images,
		surface:    surface,
		onInserted: onInserted,
		onFailed:   onFailed,
		logger:     log,
		now:        time.Now,
	}
}

// Enqueue validates upload and appends it to the processing queue, then
// drains the queue unless a drain is already running. Re-selecting a file
// whose content is still queued is a silent no-op.
//
// Validation failures are returned immediately and leave no state behind.
// Failures of queued files are logged and reported through onFailed;
// Enqueue itself returns nil for them.
func (p *Pipeline) Enqueue(ctx context.Context, upload FileUpload) error {
	if !strings.HasPrefix(upload.MIME, "image/") {
		return fmt.Errorf("%w: %s", ErrImageBadType, upload.MIME)
	}
	if upload.Size > p.cfg.MaxImageBytes || int64(len(upload.Data)) > p.cfg.MaxImageBytes {
		return fmt.Errorf("%w: %s", ErrImageTooLarge, upload.Name)
	}

	hash := models.ContentHash(upload.Data)

	p.mu.Lock()
	for _, entry := range p.queue {
		if entry.hash == hash {
			p.mu.Unlock()
			return nil
		}
	}
	p.queue = append(p.queue, queueEntry{hash: hash, upload: upload, enqueueTime: p.now()})

	if p.draining {
		p.mu.Unlock()
		return nil
	}
	p.draining = true
	p.mu.Unlock()

	p.drain(ctx)
	return nil
}

// drain processes queued files one at a time. The entry under processing
// stays at the queue head so duplicate selections of it are still caught.
func (p *Pipeline) drain(ctx context.Context) {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.draining = false
			p.mu.Unlock()
			return
		}
		entry := p.queue[0]
		p.mu.Unlock()

		if err := p.process(ctx, entry); err != nil {
			p.logger.Err(err).
				Str("func", "Pipeline.drain").
				Str("file", entry.upload.Name).
				Msg("image upload abandoned")
			if p.onFailed != nil {
				p.onFailed(entry.upload.Name, err)
			}
		}

		p.mu.Lock()
		p.queue = p.queue[1:]
		p.mu.Unlock()
	}
}

// process runs one file through compress, persist and insert.
func (p *Pipeline) process(ctx context.Context, entry queueEntry) error {
	dataURL, err := p.resolveImageData(ctx, entry)
	if err != nil {
		return err
	}

	img := models.Image{
		ID:        entry.hash,
		Data:      dataURL,
		Timestamp: p.now().UnixMilli(),
	}

	if err := p.persist(ctx, img); err != nil {
		return err
	}

	p.insert(entry.hash, dataURL)
	return nil
}

// resolveImageData returns the stored data URL when the content hash is
// already persisted, avoiding a redundant compression; otherwise it
// compresses the upload.
func (p *Pipeline) resolveImageData(ctx context.Context, entry queueEntry) (string, error) {
	existing, err := p.images.Get(ctx, entry.hash)
	if err == nil {
		return existing.Data, nil
	}
	if !errors.Is(err, store.ErrImageNotFound) {
		p.logger.Err(err).
			Str("func", "Pipeline.resolveImageData").
			Str("image_id", entry.hash).
			Msg("dedupe lookup failed, compressing anyway")
	}

	return p.compress(entry.upload.Data)
}

// compress decodes the upload, scales it down so neither dimension exceeds
// the configured maximum (preserving aspect ratio) and re-encodes it as a
// JPEG data URL. Lossy and one-directional.
func (p *Pipeline) compress(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrImageBadType, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	maxDimension := p.cfg.MaxImageDimension
	if width > maxDimension || height > maxDimension {
		if width >= height {
			height = height * maxDimension / width
			width = maxDimension
		} else {
			width = width * maxDimension / height
			height = maxDimension
		}
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}

		scaled := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Over, nil)
		src = scaled
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: p.cfg.JPEGQuality}); err != nil {
		return "", fmt.Errorf("failed to encode compressed image: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// persist writes the image to the blob store, retrying with linearly
// increasing backoff before abandoning the file.
func (p *Pipeline) persist(ctx context.Context, img models.Image) error {
	backoff := retry.WithMaxRetries(uint64(p.cfg.UploadRetries), linearBackoff(p.cfg.RetryBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, addErr := p.images.Add(ctx, img); addErr != nil {
			return retry.RetryableError(addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	return nil
}

// insert splices the image markup at the cursor, or at the content end when
// no valid selection exists.
func (p *Pipeline) insert(id, dataURL string) {
	markup := ImageMarkup(id, dataURL)

	if !p.surface.InsertAtCursor(markup) {
		p.surface.SetContent(p.surface.Content() + markup)
	}

	if p.onInserted != nil {
		p.onInserted()
	}
}

// QueueLen reports the number of files currently queued, including the one
// being processed.
func (p *Pipeline) QueueLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// linearBackoff waits base on the first retry, 2×base on the second and so
// on (1s, 2s, 3s with a one second base).
func linearBackoff(base time.Duration) retry.Backoff {
	var attempt int64
	var mu sync.Mutex

	return retry.BackoffFunc(func() (time.Duration, bool) {
		mu.Lock()
		defer mu.Unlock()
		attempt++
		return time.Duration(attempt) * base, false
	})
}
