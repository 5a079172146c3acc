package classifier

import (
	"path/filepath"
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
)

var fileTypeExtensions = map[string]model.FileType{
	".go": model.FileTypeGo,

	".c": model.FileTypeC,
	".h": model.FileTypeC,

	".cpp": model.FileTypeCpp,
	".cxx": model.FileTypeCpp,
	".cc":  model.FileTypeCpp,
	".hpp": model.FileTypeCpp,
	".hxx": model.FileTypeCpp,
	".hh":  model.FileTypeCpp,
	".mm":  model.FileTypeCpp,

	".java": model.FileTypeJava,
	".aidl": model.FileTypeJava,
	".kt":   model.FileTypeKotlin,
	".kts":  model.FileTypeKotlin,

	".js":  model.FileTypeJavaScript,
	".jsx": model.FileTypeJavaScript,
	".mjs": model.FileTypeJavaScript,
	".cjs": model.FileTypeJavaScript,
	".ts":  model.FileTypeTypeScript,
	".tsx": model.FileTypeTypeScript,

	".rs":    model.FileTypeRust,
	".swift": model.FileTypeSwift,
	".cs":    model.FileTypeCSharp,

	".py":  model.FileTypePython,
	".pyi": model.FileTypePython,

	".rb":      model.FileTypeRuby,
	".rake":    model.FileTypeRuby,
	".gemspec": model.FileTypeRuby,

	".sh":   model.FileTypeShell,
	".bash": model.FileTypeShell,
	".zsh":  model.FileTypeShell,
	".mk":   model.FileTypeMakefile,

	".yaml": model.FileTypeYAML,
	".yml":  model.FileTypeYAML,
	".toml": model.FileTypeTOML,
	".sql":  model.FileTypeSQL,
	".lua":  model.FileTypeLua,

	".html": model.FileTypeHTML,
	".htm":  model.FileTypeHTML,
	".xml":  model.FileTypeXML,
	".md":   model.FileTypeMarkdown,
}

var fileTypeNames = map[string]model.FileType{
	"makefile":    model.FileTypeMakefile,
	"gnumakefile": model.FileTypeMakefile,
	"gemfile":     model.FileTypeRuby,
	"rakefile":    model.FileTypeRuby,
	"dockerfile":  model.FileTypeShell,
	"android.mk":  model.FileTypeMakefile,
}

// DetectFileType returns file type by path name or extension.
func DetectFileType(filePath string) model.FileType {
	if filePath == "" {
		return model.FileTypeUnknown
	}

	if ft, ok := fileTypeNames[strings.ToLower(filepath.Base(filePath))]; ok {
		return ft
	}
	if ft, ok := fileTypeExtensions[strings.ToLower(filepath.Ext(filePath))]; ok {
		return ft
	}

	return model.FileTypeUnknown
}
