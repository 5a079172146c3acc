package classifier

import (
	"context"
	"strings"

	"github.com/maxbolgarin/patchgap/internal/model"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/kotlin"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/swift"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

var grammars = map[model.FileType]*sitter.Language{
	model.FileTypeGo:         golang.GetLanguage(),
	model.FileTypeC:          c.GetLanguage(),
	model.FileTypeCpp:        cpp.GetLanguage(),
	model.FileTypeJava:       java.GetLanguage(),
	model.FileTypeKotlin:     kotlin.GetLanguage(),
	model.FileTypeJavaScript: javascript.GetLanguage(),
	model.FileTypeTypeScript: typescript.GetLanguage(),
	model.FileTypeRust:       rust.GetLanguage(),
	model.FileTypeSwift:      swift.GetLanguage(),
	model.FileTypeCSharp:     csharp.GetLanguage(),
	model.FileTypePython:     python.GetLanguage(),
	model.FileTypeRuby:       ruby.GetLanguage(),
	model.FileTypeShell:      bash.GetLanguage(),
	model.FileTypeSQL:        sql.GetLanguage(),
	model.FileTypeLua:        lua.GetLanguage(),
	model.FileTypeHTML:       html.GetLanguage(),
	model.FileTypeTOML:       toml.GetLanguage(),
}

// commentOnly parses a single line with the grammar of the file type.
// ok is false when there is no grammar or the line is not valid on its own,
// e.g. a statement that is only legal inside a function body or a line of a block comment.
func commentOnly(line string, fileType model.FileType) (comment bool, ok bool) {
	language, found := grammars[fileType]
	if !found {
		return false, false
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language)

	tree, err := parser.ParseCtx(context.Background(), nil, []byte(line))
	if err != nil {
		return false, false
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() || root.NamedChildCount() == 0 {
		return false, false
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if !strings.Contains(root.NamedChild(i).Type(), "comment") {
			return false, true
		}
	}
	return true, true
}
