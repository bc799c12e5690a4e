package media

import "github.com/disintegration/imaging"

// IsRasterImage reports whether filename has an extension the photo
// pipeline can decode (jpeg, png, gif, tiff, bmp).
func IsRasterImage(filename string) bool {
	_, err := imaging.FormatFromFilename(filename)
	return err == nil
}
