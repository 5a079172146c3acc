package model

// FileType is a tag used to decide which lines of a file carry no meaning
type FileType string

const (
	FileTypeUnknown FileType = "unknown"

	FileTypeGo         FileType = "go"
	FileTypeC          FileType = "c"
	FileTypeCpp        FileType = "cpp"
	FileTypeJava       FileType = "java"
	FileTypeKotlin     FileType = "kotlin"
	FileTypeJavaScript FileType = "javascript"
	FileTypeTypeScript FileType = "typescript"
	FileTypeRust       FileType = "rust"
	FileTypeSwift      FileType = "swift"
	FileTypeCSharp     FileType = "csharp"
	FileTypePython     FileType = "python"
	FileTypeRuby       FileType = "ruby"
	FileTypeShell      FileType = "shell"
	FileTypeMakefile   FileType = "makefile"
	FileTypeYAML       FileType = "yaml"
	FileTypeTOML       FileType = "toml"
	FileTypeSQL        FileType = "sql"
	FileTypeLua        FileType = "lua"
	FileTypeHTML       FileType = "html"
	FileTypeXML        FileType = "xml"
	FileTypeMarkdown   FileType = "markdown"
)
