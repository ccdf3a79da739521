package editor

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
)

// Placeholder graphics substituted when an embedded image cannot be
// resolved. A missing image (no blob stored under the id) renders
// differently from a blob that exists but fails to load.
const (
	missingImagePlaceholder = `data:image/svg+xml,<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><rect width="100" height="100" fill="%23ddd"/><text x="50%" y="50%" text-anchor="middle" dy=".3em" fill="%23666">图片丢失</text></svg>`

	loadErrorImagePlaceholder = `data:image/svg+xml,<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100"><rect width="100" height="100" fill="%23ddd"/><text x="50%" y="50%" text-anchor="middle" dy=".3em" fill="%23666">加载失败</text></svg>`
)

var (
	imgTagPattern  = regexp.MustCompile(`<img[^>]*\bdata-image-id="([^"]+)"[^>]*>`)
	srcAttrPattern = regexp.MustCompile(`src="[^"]*"`)
)

// ImageMarkup renders the container element spliced into note content for an
// uploaded image. The data-image-id attribute is the weak back-reference to
// the blob store; src carries the inline data URL for immediate display.
func ImageMarkup(id, dataURL string) string {
	return fmt.Sprintf(
		`<div class="image-container"><img class="uploaded-image" data-image-id="%s" src="%s"></div>`,
		id, dataURL,
	)
}

// ExtractImageIDs returns the distinct image ids referenced by markup, in
// order of first appearance.
func ExtractImageIDs(markup string) []string {
	var ids []string
	seen := make(map[string]struct{})

	for _, match := range imgTagPattern.FindAllStringSubmatch(markup, -1) {
		id := match[1]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids
}

// RemoveImageMarkup deletes every image container referencing id from
// markup. Used when the user removes an embedded image from a note.
func RemoveImageMarkup(markup, id string) string {
	container := regexp.MustCompile(
		`<div class="image-container">\s*<img[^>]*\bdata-image-id="` + regexp.QuoteMeta(id) + `"[^>]*>\s*</div>`,
	)
	markup = container.ReplaceAllString(markup, "")

	// bare tags outside a container
	bare := regexp.MustCompile(`<img[^>]*\bdata-image-id="` + regexp.QuoteMeta(id) + `"[^>]*>`)
	return bare.ReplaceAllString(markup, "")
}

// RestoreImages re-resolves every data-image-id reference in markup against
// the blob store and rewrites the src attribute with live image data.
// Unresolvable references degrade to a placeholder graphic instead of
// failing the note open.
func RestoreImages(ctx context.Context, markup string, images store.ImageRepository) string {
	log := logger.FromContext(ctx)

	return imgTagPattern.ReplaceAllStringFunc(markup, func(tag string) string {
		id := imgTagPattern.FindStringSubmatch(tag)[1]

		image, err := images.Get(ctx, id)
		switch {
		case err == nil:
			return setImageSrc(tag, image.Data)
		case errors.Is(err, store.ErrImageNotFound):
			log.Warn().Str("image_id", id).Msg("image data is missing, substituting placeholder")
			return setImageSrc(tag, missingImagePlaceholder)
		default:
			log.Err(err).Str("image_id", id).Msg("failed to restore image, substituting placeholder")
			return setImageSrc(tag, loadErrorImagePlaceholder)
		}
	})
}

func setImageSrc(tag, src string) string {
	newSrc := `src="` + src + `"`
	if srcAttrPattern.MatchString(tag) {
		return srcAttrPattern.ReplaceAllString(tag, newSrc)
	}

	// no src attribute yet, add one after the tag name
	return "<img " + newSrc + tag[len("<img"):]
}
