package media

type AssetType string

const (
	AssetTypePhoto AssetType = "photo"
)

const (
	PhotoJpegQuality   = 85
	PhotoFileExtension = ".jpg"
	DefaultPhotoSize   = 800
)
