package classifier

import (
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
)

type Config struct {
	// KeepComments makes comment-only lines significant, only blank lines are ignored then.
	KeepComments bool `yaml:"keep_comments" env:"PATCHGAP_CLASSIFIER_KEEP_COMMENTS"`
	// Syntax makes the classifier parse lines with tree-sitter grammars before falling back to comment prefixes.
	Syntax bool `yaml:"syntax" env:"PATCHGAP_CLASSIFIER_SYNTAX"`
}

// commentSyntax describes how comments look in a file type
type commentSyntax struct {
	line       []string
	blockStart string
	blockEnd   string
}

var (
	cStyle    = commentSyntax{line: []string{"//"}, blockStart: "/*", blockEnd: "*/"}
	hashStyle = commentSyntax{line: []string{"#"}}
	markup    = commentSyntax{blockStart: "<!--", blockEnd: "-->"}
)

var commentSyntaxes = map[model.FileType]commentSyntax{
	model.FileTypeGo:         cStyle,
	model.FileTypeC:          cStyle,
	model.FileTypeCpp:        cStyle,
	model.FileTypeJava:       cStyle,
	model.FileTypeKotlin:     cStyle,
	model.FileTypeJavaScript: cStyle,
	model.FileTypeTypeScript: cStyle,
	model.FileTypeRust:       cStyle,
	model.FileTypeSwift:      cStyle,
	model.FileTypeCSharp:     cStyle,

	model.FileTypePython:   hashStyle,
	model.FileTypeRuby:     hashStyle,
	model.FileTypeShell:    hashStyle,
	model.FileTypeMakefile: hashStyle,
	model.FileTypeYAML:     hashStyle,
	model.FileTypeTOML:     hashStyle,

	model.FileTypeSQL: {line: []string{"--"}, blockStart: "/*", blockEnd: "*/"},
	model.FileTypeLua: {line: []string{"--"}},

	model.FileTypeHTML:     markup,
	model.FileTypeXML:      markup,
	model.FileTypeMarkdown: markup,
}

// Classifier tells blank and comment-only lines apart from code.
// It looks at one line at a time, so text inside multi-line block comments
// is only recognized on lines that begin with the block delimiters or with '*'.
type Classifier struct {
	keepComments bool
	parseSyntax  bool
}

func New(cfg Config) *Classifier {
	return &Classifier{keepComments: cfg.KeepComments, parseSyntax: cfg.Syntax}
}

func (c *Classifier) FileType(path string) model.FileType {
	return DetectFileType(path)
}

func (c *Classifier) IsMeaningless(line string, fileType model.FileType) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	if c.keepComments {
		return false
	}
	if c.parseSyntax {
		if comment, ok := commentOnly(trimmed, fileType); ok {
			return comment
		}
	}

	syntax, ok := commentSyntaxes[fileType]
	if !ok {
		return false
	}
	for _, prefix := range syntax.line {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	if syntax.blockStart == "" {
		return false
	}
	if strings.HasPrefix(trimmed, syntax.blockStart) || strings.HasPrefix(trimmed, syntax.blockEnd) {
		return true
	}
	// continuation of a javadoc-like block
	return syntax.blockStart == "/*" && (trimmed == "*" || strings.HasPrefix(trimmed, "* "))
}
