package file

import (
	"path/filepath"
)

// TranslatedName builds the output file name for a translated caption file:
// the full original name, a dash, the language code and the original
// extension again ("movie.srt" -> "movie.srt-pt.srt").
func TranslatedName(path, lang string) string {
	if path == "" {
		return path
	}
	filename := filepath.Base(path)
	return filename + "-" + lang + filepath.Ext(filename)
}

// TranslatedPath places TranslatedName(path, lang) inside outputDir
func TranslatedPath(outputDir, path, lang string) string {
	return filepath.Join(outputDir, TranslatedName(path, lang))
}
