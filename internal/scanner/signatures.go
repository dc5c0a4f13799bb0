package scanner

import (
	"regexp"
	"sync"
)

var (
	registryOnce sync.Once
	registry     []LanguageSignature
	registryIdx  map[string]*LanguageSignature
)

// Signatures returns the process-wide language registry. The slice is built
// once and must be treated as read-only; concurrent readers need no locking.
func Signatures() []LanguageSignature {
	registryOnce.Do(buildRegistry)
	return registry
}

// lookupSignature returns the registry entry for a language name.
func lookupSignature(name string) (*LanguageSignature, bool) {
	registryOnce.Do(buildRegistry)
	sig, ok := registryIdx[name]
	return sig, ok
}

func buildRegistry() {
	registry = signatureTable()
	registryIdx = make(map[string]*LanguageSignature, len(registry))
	for i := range registry {
		registryIdx[registry[i].Name] = &registry[i]
	}
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

func signatureTable() []LanguageSignature {
	return []LanguageSignature{
		{
			Name:         "javascript",
			Extensions:   []string{".js", ".jsx", ".mjs", ".cjs"},
			Interpreters: []string{"node", "nodejs"},
			Syntax:       regexp.MustCompile(`^\s*(import\s|export\s|const\s|let\s|var\s|function[\s*]|class\s|module\.exports|require\(|async\s+function|return\s|if\s*\(|for\s*\(|\}\)?;?$)`),
			ContentPatterns: patterns(
				`\bconsole\.log\(`,
				`\bfunction\s*\w*\s*\(`,
				`=>\s*[{(]?`,
				`\brequire\(['"][^'"]+['"]\)`,
				`\bmodule\.exports\b`,
				`\bdocument\.\w+`,
				`\b(const|let)\s+\w+\s*=`,
			),
			Keywords:  []string{"const", "let", "var", "function", "async", "await", "undefined", "typeof", "prototype", "console"},
			Category:  "web",
			Ecosystem: "npm",
			Features:  []string{"dynamic-typing", "closures", "async-await", "prototypes"},
		},
		{
			Name:         "typescript",
			Extensions:   []string{".ts", ".tsx", ".mts", ".cts"},
			Interpreters: []string{"ts-node", "deno", "tsx"},
			Syntax:       regexp.MustCompile(`^\s*(import\s|export\s|const\s|let\s|var\s|function[\s*]|class\s|interface\s|type\s+\w+|enum\s|declare\s|namespace\s|abstract\s|module\.exports|require\(|async\s+function|return\s|if\s*\(|for\s*\(|\}\)?;?$)`),
			ContentPatterns: patterns(
				`:\s*(string|number|boolean|void|any|unknown|never)\b`,
				`\binterface\s+\w+`,
				`\btype\s+\w+\s*=`,
				`<\w+(\[\])?>`,
				`\b(public|private|protected|readonly)\s+\w+`,
				`\bas\s+(const|\w+)\b`,
				`\bimport\s+(type\s+)?\{[^}]*\}\s+from\s`,
			),
			Keywords:  []string{"interface", "type", "enum", "readonly", "implements", "namespace", "declare", "keyof", "unknown", "never"},
			Category:  "web",
			Ecosystem: "npm",
			Features:  []string{"static-typing", "generics", "interfaces", "async-await"},
		},
		{
			Name:         "python",
			Extensions:   []string{".py", ".pyw", ".pyi"},
			Interpreters: []string{"python", "pypy"},
			Syntax:       regexp.MustCompile(`^\s*(def\s+\w+\s*\(|class\s+\w+|import\s+\w|from\s+[\w.]+\s+import|if\s.*:$|elif\s|else:|for\s.*\sin\s.*:$|while\s.*:$|try:|except\b|with\s.*:$|return\b|print\(|@\w+|async\s+def|raise\s|pass$|yield\b)`),
			ContentPatterns: patterns(
				`(?m)^\s*def\s+\w+\s*\(.*\)\s*(->\s*[\w\[\], ]+)?:`,
				`(?m)^\s*class\s+\w+(\(.*\))?:`,
				`(?m)^\s*(from\s+[\w.]+\s+)?import\s+\w`,
				`\bself\.\w+`,
				`if\s+__name__\s*==\s*['"]__main__['"]`,
				`\bprint\(`,
				`\b(None|True|False)\b`,
			),
			Keywords:  []string{"def", "elif", "lambda", "self", "None", "True", "False", "yield", "pass", "nonlocal"},
			Category:  "general",
			Ecosystem: "pypi",
			Features:  []string{"dynamic-typing", "indentation-blocks", "generators", "decorators"},
		},
		{
			Name:       "java",
			Extensions: []string{".java"},
			Syntax:     regexp.MustCompile(`^\s*(package\s|import\s+[\w.]+;|(public|private|protected)\s|class\s|interface\s|@\w+|return\s|if\s*\(|for\s*\(|\}$)`),
			ContentPatterns: patterns(
				`\bpublic\s+(static\s+)?(class|interface|enum)\s+\w+`,
				`\bpublic\s+static\s+void\s+main\s*\(`,
				`\bSystem\.out\.print`,
				`(?m)^\s*import\s+java\.`,
				`(?m)^\s*package\s+[\w.]+;`,
				`@Override\b`,
			),
			Keywords:  []string{"public", "private", "protected", "static", "final", "extends", "implements", "throws", "synchronized", "void"},
			Category:  "enterprise",
			Ecosystem: "maven",
			Features:  []string{"static-typing", "classes", "generics", "annotations"},
		},
		{
			Name:       "kotlin",
			Extensions: []string{".kt", ".kts"},
			Syntax:     regexp.MustCompile(`^\s*(package\s|import\s|fun\s|val\s|var\s|class\s|data\s+class|object\s|companion\s|override\s|@\w+|return\s|when\s*[({]|\}$)`),
			ContentPatterns: patterns(
				`\bfun\s+\w+\s*\(`,
				`\bval\s+\w+\s*[:=]`,
				`\bdata\s+class\b`,
				`\bcompanion\s+object\b`,
				`\bwhen\s*\(`,
				`\?\.\w+`,
			),
			Keywords:  []string{"fun", "val", "var", "when", "companion", "object", "suspend", "lateinit", "sealed", "override"},
			Category:  "mobile",
			Ecosystem: "maven",
			Features:  []string{"static-typing", "null-safety", "coroutines", "data-classes"},
		},
		{
			Name:       "go",
			Extensions: []string{".go"},
			Syntax:     regexp.MustCompile(`^\s*(package\s+\w+|import\s|func\s|type\s+\w+\s+(struct|interface)|var\s|const\s|return\b|if\s.*\{$|for\s.*\{$|defer\s|go\s+\w|\}$|\)$)`),
			ContentPatterns: patterns(
				`(?m)^package\s+\w+`,
				`\bfunc\s+(\(\w+\s+\*?\w+\)\s+)?\w+\s*\(`,
				`:=`,
				`\bif\s+err\s*!=\s*nil\b`,
				`\btype\s+\w+\s+struct\s*\{`,
				`\bfmt\.\w+\(`,
				`\bgo\s+func\s*\(`,
			),
			Keywords:  []string{"func", "package", "defer", "chan", "goroutine", "struct", "interface", "nil", "range", "select"},
			Category:  "systems",
			Ecosystem: "go",
			Features:  []string{"static-typing", "goroutines", "channels", "interfaces"},
		},
		{
			Name:       "rust",
			Extensions: []string{".rs"},
			Syntax:     regexp.MustCompile(`^\s*(fn\s|pub\s|use\s|mod\s|struct\s|enum\s|impl\b|trait\s|let\s|match\s|#\[|return\b|if\s.*\{$|\}$)`),
			ContentPatterns: patterns(
				`\bfn\s+\w+\s*(<[^>]*>)?\s*\(`,
				`\blet\s+mut\s+\w+`,
				`\bimpl(<[^>]*>)?\s+\w+`,
				`\buse\s+(std|crate|super)::`,
				`\b\w+!\(`,
				`->\s*(Result|Option)<`,
				`&(mut\s+)?self\b`,
			),
			Keywords:  []string{"fn", "mut", "impl", "trait", "crate", "match", "unsafe", "pub", "mod", "lifetime"},
			Category:  "systems",
			Ecosystem: "crates.io",
			Features:  []string{"ownership", "pattern-matching", "traits", "zero-cost-abstractions"},
		},
		{
			Name:         "ruby",
			Extensions:   []string{".rb", ".rake", ".gemspec"},
			Interpreters: []string{"ruby"},
			Syntax:       regexp.MustCompile(`^\s*(def\s|class\s|module\s|require\s|require_relative\s|end$|if\s|unless\s|elsif\s|do(\s*\|.*\|)?$|attr_(accessor|reader|writer)\s|puts\s|include\s)`),
			ContentPatterns: patterns(
				`(?m)^\s*def\s+\w+[?!]?`,
				`(?m)^\s*end\s*$`,
				`\bdo\s*\|\w+(,\s*\w+)*\|`,
				`\battr_(accessor|reader|writer)\b`,
				`(?m)^\s*require\s+['"]`,
				`:\w+\s*=>`,
			),
			Keywords:  []string{"def", "end", "elsif", "unless", "puts", "module", "require", "attr_accessor", "yield", "nil"},
			Category:  "web",
			Ecosystem: "rubygems",
			Features:  []string{"dynamic-typing", "blocks", "mixins", "metaprogramming"},
		},
		{
			Name:         "php",
			Extensions:   []string{".php", ".phtml"},
			Interpreters: []string{"php"},
			Syntax:       regexp.MustCompile(`^\s*(<\?php|namespace\s|use\s|function\s|class\s|public\s|private\s|protected\s|\$\w+\s*=|echo\s|return\s|if\s*\(|\}$)`),
			ContentPatterns: patterns(
				`<\?php`,
				`\$\w+\s*=`,
				`\$this->\w+`,
				`\bfunction\s+\w+\s*\(`,
				`\becho\s`,
				`(?m)^\s*namespace\s+[\w\\]+;`,
			),
			Keywords:  []string{"echo", "function", "namespace", "public", "private", "array", "foreach", "isset", "require_once", "static"},
			Category:  "web",
			Ecosystem: "packagist",
			Features:  []string{"dynamic-typing", "server-side-rendering", "classes"},
		},
		{
			Name:       "c",
			Extensions: []string{".c", ".h"},
			Syntax:     regexp.MustCompile(`^\s*(#include\s|#define\s|#if|#endif|typedef\s|struct\s|static\s|int\s|void\s|char\s|return\b|if\s*\(|for\s*\(|\}$)`),
			ContentPatterns: patterns(
				`(?m)^#include\s*<\w+\.h>`,
				`\bint\s+main\s*\(`,
				`\bprintf\s*\(`,
				`\bmalloc\s*\(`,
				`\btypedef\s+struct\b`,
				`\bsizeof\s*\(`,
			),
			Keywords:  []string{"printf", "malloc", "free", "sizeof", "typedef", "struct", "unsigned", "extern", "NULL", "void"},
			Category:  "systems",
			Ecosystem: "native",
			Features:  []string{"manual-memory", "pointers", "preprocessor"},
		},
		{
			Name:       "cpp",
			Extensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh", ".hxx"},
			Syntax:     regexp.MustCompile(`^\s*(#include\s|#define\s|#if|#endif|namespace\s|using\s|template\s*<|class\s|struct\s|public:|private:|protected:|virtual\s|return\b|if\s*\(|for\s*\(|\}|std::)`),
			ContentPatterns: patterns(
				`\bstd::\w+`,
				`(?m)^#include\s*<\w+>`,
				`\bnamespace\s+\w+`,
				`\btemplate\s*<`,
				`\bcout\s*<<`,
				`\bclass\s+\w+\s*(:\s*(public|private)\s+\w+)?\s*\{`,
			),
			Keywords:  []string{"namespace", "template", "virtual", "std", "cout", "nullptr", "constexpr", "typename", "override", "operator"},
			Category:  "systems",
			Ecosystem: "native",
			Features:  []string{"templates", "classes", "raii", "operator-overloading"},
		},
		{
			Name:       "csharp",
			Extensions: []string{".cs", ".csx"},
			Syntax:     regexp.MustCompile(`^\s*(using\s+[\w.]+;|namespace\s|(public|private|protected|internal)\s|class\s|\[\w+|return\s|if\s*\(|foreach\s*\(|var\s|\}$)`),
			ContentPatterns: patterns(
				`(?m)^\s*using\s+System`,
				`\bnamespace\s+[\w.]+`,
				`\bpublic\s+(async\s+)?\w+(<[^>]*>)?\s+\w+\s*\(`,
				`\{\s*get;\s*(set;)?\s*\}`,
				`\bConsole\.Write`,
				`\basync\s+Task\b`,
			),
			Keywords:  []string{"namespace", "using", "public", "internal", "async", "await", "var", "foreach", "readonly", "sealed"},
			Category:  "enterprise",
			Ecosystem: "nuget",
			Features:  []string{"static-typing", "linq", "async-await", "properties"},
		},
		{
			Name:       "swift",
			Extensions: []string{".swift"},
			Syntax:     regexp.MustCompile(`^\s*(import\s|func\s|let\s|var\s|class\s|struct\s|enum\s|protocol\s|extension\s|guard\s|@\w+|return\b|if\s|\}$)`),
			ContentPatterns: patterns(
				`\bfunc\s+\w+\s*\(`,
				`\bguard\s+let\b`,
				`\bif\s+let\b`,
				`(?m)^import\s+(UIKit|Foundation|SwiftUI)`,
				`\bprotocol\s+\w+`,
				`->\s*\w+\s*\{`,
			),
			Keywords:  []string{"func", "guard", "let", "protocol", "extension", "struct", "optional", "weak", "inout", "defer"},
			Category:  "mobile",
			Ecosystem: "swiftpm",
			Features:  []string{"static-typing", "optionals", "protocols", "value-types"},
		},
		{
			Name:       "dart",
			Extensions: []string{".dart"},
			Syntax:     regexp.MustCompile(`^\s*(import\s+['"]|class\s|void\s|final\s|const\s|var\s|@override|Widget\s|return\b|if\s*\(|\}$)`),
			ContentPatterns: patterns(
				`(?m)^import\s+['"](package|dart):`,
				`\bWidget\s+build\s*\(`,
				`@override\b`,
				`\bfinal\s+\w+\s+\w+\s*=`,
				`\bvoid\s+main\s*\(`,
				`\bFuture<`,
			),
			Keywords:  []string{"final", "const", "late", "required", "Widget", "async", "await", "Future", "extends", "mixin"},
			Category:  "mobile",
			Ecosystem: "pub",
			Features:  []string{"static-typing", "null-safety", "async-await"},
		},
		{
			Name:         "shell",
			Extensions:   []string{".sh", ".bash", ".zsh", ".ksh"},
			Interpreters: []string{"sh", "bash", "zsh", "ksh", "dash"},
			Syntax:       regexp.MustCompile(`^\s*(#!|if\s+\[|then$|fi$|for\s+\w+\s+in|do$|done$|case\s|esac$|echo\s|export\s|local\s|function\s|\w+=\S|\w+\(\)\s*\{|set\s+-)`),
			ContentPatterns: patterns(
				`(?m)^#!.*\b(ba|z|k)?sh\b`,
				`\$\{?\w+\}?`,
				`\bif\s+\[\[?\s`,
				`(?m)^\s*(fi|done|esac)\s*$`,
				`\becho\s`,
				`\$\(\w+`,
			),
			Keywords:  []string{"echo", "fi", "esac", "done", "then", "elif", "export", "local", "source", "shift"},
			Category:  "scripting",
			Ecosystem: "posix",
			Features:  []string{"pipelines", "process-control"},
		},
		{
			Name:       "scala",
			Extensions: []string{".scala", ".sc"},
			Syntax:     regexp.MustCompile(`^\s*(package\s|import\s|object\s|class\s|case\s+class|trait\s|def\s|val\s|var\s|implicit\s|override\s|\}$)`),
			ContentPatterns: patterns(
				`\bobject\s+\w+`,
				`\bcase\s+class\b`,
				`\bdef\s+\w+(\[.*\])?\s*\(.*\)\s*:`,
				`\bval\s+\w+\s*(:\s*\w+)?\s*=`,
				`\bimplicit\b`,
			),
			Keywords:  []string{"object", "trait", "implicit", "val", "def", "sealed", "lazy", "match", "yield", "extends"},
			Category:  "enterprise",
			Ecosystem: "maven",
			Features:  []string{"functional", "pattern-matching", "traits"},
		},
		{
			Name:         "lua",
			Extensions:   []string{".lua"},
			Interpreters: []string{"lua", "luajit"},
			Syntax:       regexp.MustCompile(`^\s*(local\s|function\s|end$|if\s.*\sthen$|elseif\s|for\s.*\sdo$|while\s.*\sdo$|return\b|require\s*[("'])`),
			ContentPatterns: patterns(
				`\blocal\s+\w+\s*=`,
				`\bfunction\s+[\w.:]+\s*\(`,
				`(?m)^\s*end\s*$`,
				`\bthen\b`,
				`~=`,
			),
			Keywords:  []string{"local", "function", "end", "then", "elseif", "nil", "pairs", "ipairs", "require", "repeat"},
			Category:  "scripting",
			Ecosystem: "luarocks",
			Features:  []string{"dynamic-typing", "tables", "coroutines"},
		},
		{
			Name:         "perl",
			Extensions:   []string{".pl", ".pm"},
			Interpreters: []string{"perl"},
			Syntax:       regexp.MustCompile(`^\s*(use\s+(strict|warnings|\w+)|my\s|sub\s|package\s|print\s|return\b|if\s*\(|foreach\s|\}$)`),
			ContentPatterns: patterns(
				`(?m)^\s*use\s+strict;`,
				`\bmy\s+[\$@%]\w+`,
				`\bsub\s+\w+\s*\{`,
				`=~\s*[ms]?/`,
			),
			Keywords:  []string{"my", "sub", "foreach", "unless", "print", "chomp", "strict", "warnings", "bless", "qw"},
			Category:  "scripting",
			Ecosystem: "cpan",
			Features:  []string{"regular-expressions", "dynamic-typing"},
		},
		{
			Name:         "r",
			Extensions:   []string{".r", ".rmd"},
			Interpreters: []string{"Rscript"},
			Syntax:       regexp.MustCompile(`^\s*(library\(|require\(|\w+\s*<-\s|function\s*\(|if\s*\(|for\s*\(|\}$)`),
			ContentPatterns: patterns(
				`\w+\s*<-\s*`,
				`\blibrary\(\w+\)`,
				`\bdata\.frame\(`,
				`\bfunction\s*\(`,
			),
			Keywords:  []string{"library", "function", "TRUE", "FALSE", "NULL", "data", "frame", "ggplot", "NA", "repeat"},
			Category:  "data",
			Ecosystem: "cran",
			Features:  []string{"vectorized", "statistics"},
		},
		{
			Name:         "elixir",
			Extensions:   []string{".ex", ".exs"},
			Interpreters: []string{"elixir"},
			Syntax:       regexp.MustCompile(`^\s*(defmodule\s|def\s|defp\s|use\s|import\s|alias\s|end$|do$|case\s|@\w+)`),
			ContentPatterns: patterns(
				`\bdefmodule\s+[\w.]+\s+do`,
				`\bdefp?\s+\w+`,
				`\|>`,
				`(?m)^\s*end\s*$`,
			),
			Keywords:  []string{"defmodule", "defp", "def", "do", "end", "alias", "pipe", "receive", "spawn", "quote"},
			Category:  "backend",
			Ecosystem: "hex",
			Features:  []string{"functional", "actors", "pattern-matching"},
		},
		{
			Name:       "html",
			Extensions: []string{".html", ".htm", ".xhtml"},
			Syntax:     regexp.MustCompile(`^\s*(<!DOCTYPE|<html|<head|<body|<div|<script|<link|<meta|<p\b|<span|</\w+>)`),
			ContentPatterns: patterns(
				`(?i)<!DOCTYPE\s+html>`,
				`(?i)<html[\s>]`,
				`(?i)<(div|span|p|a)\b[^>]*>`,
				`(?i)<script\b`,
				`(?i)<meta\s`,
			),
			Keywords:  []string{"html", "head", "body", "div", "span", "script", "meta", "href", "class", "title"},
			Category:  "markup",
			Ecosystem: "web",
			Features:  []string{"markup"},
		},
		{
			Name:       "css",
			Extensions: []string{".css", ".scss", ".sass", ".less"},
			Syntax:     regexp.MustCompile(`^\s*([.#]?[\w\-:>*\[\]="' ,]+\{$|[\w-]+\s*:\s*[^;]+;$|\}$|@(media|import|mixin|include|keyframes))`),
			ContentPatterns: patterns(
				`[.#][\w-]+\s*\{`,
				`\b(color|margin|padding|display|font-size)\s*:`,
				`@media\b`,
				`\b\d+(px|em|rem|%)\b`,
			),
			Keywords:  []string{"color", "margin", "padding", "display", "flex", "border", "background", "position", "width", "height"},
			Category:  "markup",
			Ecosystem: "web",
			Features:  []string{"styling"},
		},
		{
			Name:       "sql",
			Extensions: []string{".sql"},
			Syntax:     regexp.MustCompile(`(?i)^\s*(select\s|insert\s|update\s|delete\s|create\s|alter\s|drop\s|from\s|where\s|join\s|group\s+by|order\s+by|values\s*\()`),
			ContentPatterns: patterns(
				`(?i)\bselect\s+.+\s+from\s`,
				`(?i)\bcreate\s+table\b`,
				`(?i)\binsert\s+into\b`,
				`(?i)\bwhere\s+\w+\s*=`,
			),
			Keywords:  []string{"SELECT", "FROM", "WHERE", "INSERT", "UPDATE", "DELETE", "CREATE", "TABLE", "JOIN", "PRIMARY"},
			Category:  "data",
			Ecosystem: "database",
			Features:  []string{"declarative"},
		},
	}
}
