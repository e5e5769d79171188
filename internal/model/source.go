package model

import "path/filepath"

// Path represents a file system path.
type Path string

// Language identifies a supported source language family.
type Language string

const (
	// LangPython covers .py sources tested with pytest-style runners.
	LangPython Language = "python"
	// LangRust covers .rs sources tested with cargo test.
	LangRust Language = "rust"
	// LangJavaScript covers .js/.mjs/.cjs sources.
	LangJavaScript Language = "javascript"
	// LangTypeScript covers .ts/.mts/.cts sources.
	LangTypeScript Language = "typescript"
	// LangTSX covers .tsx/.jsx sources.
	LangTSX Language = "tsx"
)

// DetectLanguage maps a file path to its language family by extension.
// The second return value is false for unsupported extensions.
func DetectLanguage(path Path) (Language, bool) {
	switch filepath.Ext(string(path)) {
	case ".py":
		return LangPython, true
	case ".rs":
		return LangRust, true
	case ".js", ".mjs", ".cjs":
		return LangJavaScript, true
	case ".ts", ".mts", ".cts":
		return LangTypeScript, true
	case ".tsx", ".jsx":
		return LangTSX, true
	default:
		return "", false
	}
}
