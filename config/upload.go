package config

// UploadRule - ограничения на файл одного вида загрузки.
type UploadRule struct {
	AllowedMimeTypes  []string
	AllowedExtensions []string
	MaxSizeMB         int64
}

const (
	UploadInspectionPhoto = "inspection_photo"
	UploadEquipmentImport = "equipment_import"
)

var UploadContexts = map[string]UploadRule{
	UploadInspectionPhoto: {
		AllowedMimeTypes:  []string{"image/jpeg", "image/png", "image/webp"},
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
		MaxSizeMB:         20,
	},
	// xlsx по сигнатуре - zip-архив, поэтому расширение проверяется отдельно
	UploadEquipmentImport: {
		AllowedMimeTypes:  []string{"application/zip"},
		AllowedExtensions: []string{".xlsx"},
		MaxSizeMB:         10,
	},
}
