package media

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// PhotoProcessor normalizes uploaded portrait photos and stores them. The
// returned path is what ends up in a person's photo_reference.
type PhotoProcessor struct {
	store   Store
	maxSize int
}

func NewPhotoProcessor(store Store, maxSize int) *PhotoProcessor {
	if maxSize <= 0 {
		maxSize = DefaultPhotoSize
	}
	return &PhotoProcessor{store: store, maxSize: maxSize}
}

// ProcessPhoto decodes an uploaded image, applies its EXIF orientation,
// fits it into maxSize x maxSize and saves it as JPEG under a UUID name.
func (p *PhotoProcessor) ProcessPhoto(fileData io.Reader) (string, error) {
	img, err := imaging.Decode(fileData, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode uploaded photo: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return "", fmt.Errorf("invalid photo dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}
	fitted := imaging.Fit(img, p.maxSize, p.maxSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(PhotoJpegQuality)); err != nil {
		return "", fmt.Errorf("photo encoding failed: %w", err)
	}

	photoUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate UUID for photo: %w", err)
	}
	savedRelPath, err := p.store.Save(AssetTypePhoto, photoUUID.String()+PhotoFileExtension, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to save photo via store: %w", err)
	}

	log.Printf("processor: Processed and saved photo to %s (%dx%d)", savedRelPath, fitted.Bounds().Dx(), fitted.Bounds().Dy())
	return savedRelPath, nil
}
