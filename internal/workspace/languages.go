package workspace

import (
	"path"
	"sort"
)

// languageGlobs maps a language identifier to the file name patterns whose
// presence marks a root as using that language. Patterns are matched against
// base names only.
var languageGlobs = map[string][]string{
	"go":         {"go.mod", "*.go"},
	"typescript": {"tsconfig.json", "*.ts", "*.tsx"},
	"javascript": {"package.json", "*.js", "*.jsx", "*.mjs"},
	"python":     {"pyproject.toml", "requirements.txt", "setup.py", "*.py"},
	"csharp":     {"*.csproj", "*.sln", "*.cs"},
	"java":       {"pom.xml", "build.gradle", "*.java"},
	"kotlin":     {"build.gradle.kts", "*.kt", "*.kts"},
	"rust":       {"Cargo.toml", "*.rs"},
	"ruby":       {"Gemfile", "*.rb", "Rakefile"},
	"php":        {"composer.json", "*.php"},
	"cpp":        {"CMakeLists.txt", "*.cpp", "*.cc", "*.cxx", "*.hpp"},
	"swift":      {"Package.swift", "*.swift"},
}

// Languages returns every detectable language identifier, sorted.
func Languages() []string {
	langs := make([]string, 0, len(languageGlobs))
	for lang := range languageGlobs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// matchLanguages returns the languages whose patterns match the file name.
func matchLanguages(name string) []string {
	var matched []string
	for lang, globs := range languageGlobs {
		for _, glob := range globs {
			if ok, _ := path.Match(glob, name); ok {
				matched = append(matched, lang)
				break
			}
		}
	}
	return matched
}
