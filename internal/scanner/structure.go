package scanner

import (
	"math"
	"path/filepath"
	"strings"
)

// structureRule adds delta to its archetype when match holds.
type structureRule struct {
	indicator string
	delta     float64
	match     func(l *pathLayout) bool
}

// archetypeRules lists the families in their tie-break order.
var archetypeRules = []struct {
	archetype Archetype
	rules     []structureRule
}{
	{ArchetypeWeb, []structureRule{
		{"index.html entry page", 25, hasBase("index.html")},
		{"public or static assets directory", 20, hasDir("public", "static", "assets")},
		{"components directory", 20, hasDir("components")},
		{"pages or routes directory", 15, hasDir("pages", "routes", "views")},
		{"bundler configuration", 20, hasBaseGlob("webpack.config.*", "vite.config.*", "next.config.*", "nuxt.config.*", "angular.json")},
		{"stylesheets", 10, hasExt(".css", ".scss", ".sass", ".less")},
		{"server templates", 10, hasDir("templates")},
	}},
	{ArchetypeMobile, []structureRule{
		{"android and ios platform directories", 40, hasAllDirs("android", "ios")},
		{"flutter pubspec", 35, hasBase("pubspec.yaml")},
		{"android manifest", 30, hasBase("AndroidManifest.xml")},
		{"xcode project", 30, hasBaseGlob("*.xcodeproj", "*.xcworkspace", "Podfile")},
		{"ios property list", 15, hasBase("Info.plist")},
		{"mobile app configuration", 20, hasBase("app.json", "metro.config.js", "capacitor.config.ts", "capacitor.config.json")},
	}},
	{ArchetypeLibrary, []structureRule{
		{"python package metadata", 25, hasBase("setup.py", "setup.cfg")},
		{"lib directory", 15, hasDir("lib")},
		{"rust library crate", 30, hasPath("src/lib.rs")},
		{"type declarations", 20, hasBaseGlob("*.d.ts")},
		{"gem specification", 30, hasBaseGlob("*.gemspec")},
		{"changelog", 10, hasBaseGlob("CHANGELOG*", "HISTORY*")},
		{"examples directory", 10, hasDir("examples", "example")},
	}},
	{ArchetypeMicroservice, []structureRule{
		{"dockerfile", 20, hasBaseGlob("Dockerfile", "Dockerfile.*", "*.dockerfile")},
		{"compose file", 20, hasBaseGlob("docker-compose.yml", "docker-compose.yaml", "compose.yml", "compose.yaml")},
		{"kubernetes manifests", 25, hasDir("k8s", "kubernetes", "helm", "charts")},
		{"services directory", 20, hasDir("services", "microservices")},
		{"protocol buffers", 15, hasExt(".proto")},
		{"api directory", 10, hasDir("api")},
	}},
	{ArchetypeMonorepo, []structureRule{
		{"multiple workspace packages", 35, multiplePackages},
		{"lerna configuration", 30, hasBase("lerna.json")},
		{"pnpm workspace", 30, hasBase("pnpm-workspace.yaml")},
		{"nx or turborepo configuration", 30, hasBase("nx.json", "turbo.json")},
		{"go workspace", 30, hasBase("go.work")},
		{"apps directory", 15, hasDir("apps")},
	}},
	{ArchetypeDesktop, []structureRule{
		{"electron entry points", 30, hasAllBases("main.js", "preload.js")},
		{"electron builder configuration", 35, hasBaseGlob("electron-builder.*", "forge.config.*")},
		{"tauri directory", 40, hasDir("src-tauri")},
		{"xaml views", 30, hasExt(".xaml")},
		{"desktop entry", 20, hasExt(".desktop")},
		{"qt project", 30, hasExt(".pro", ".ui", ".qml")},
	}},
}

// pathLayout indexes the file set for the structure rules.
type pathLayout struct {
	paths []string
	bases map[string]struct{}
	dirs  map[string]struct{}
	exts  map[string]struct{}
}

func newPathLayout(files []SourceFile) *pathLayout {
	l := &pathLayout{
		bases: make(map[string]struct{}),
		dirs:  make(map[string]struct{}),
		exts:  make(map[string]struct{}),
	}
	for _, f := range files {
		l.paths = append(l.paths, f.Filename)
		l.bases[f.BaseName()] = struct{}{}
		if f.Extension != "" {
			l.exts[f.Extension] = struct{}{}
		}
		dir := filepath.ToSlash(filepath.Dir(f.Filename))
		for _, seg := range strings.Split(dir, "/") {
			if seg != "" && seg != "." {
				l.dirs[seg] = struct{}{}
			}
		}
		// Bundle directories such as Foo.xcodeproj count as names too.
		for _, seg := range strings.Split(dir, "/") {
			if strings.Contains(seg, ".") && seg != "." && seg != ".." {
				l.bases[seg] = struct{}{}
			}
		}
	}
	return l
}

func hasBase(names ...string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for _, n := range names {
			if _, ok := l.bases[n]; ok {
				return true
			}
		}
		return false
	}
}

func hasAllBases(names ...string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for _, n := range names {
			if _, ok := l.bases[n]; !ok {
				return false
			}
		}
		return true
	}
}

func hasBaseGlob(globs ...string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for base := range l.bases {
			for _, g := range globs {
				if ok, _ := filepath.Match(g, base); ok {
					return true
				}
			}
		}
		return false
	}
}

func hasDir(names ...string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for _, n := range names {
			if _, ok := l.dirs[n]; ok {
				return true
			}
		}
		return false
	}
}

func hasAllDirs(names ...string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for _, n := range names {
			if _, ok := l.dirs[n]; !ok {
				return false
			}
		}
		return true
	}
}

func hasExt(exts ...string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for _, e := range exts {
			if _, ok := l.exts[e]; ok {
				return true
			}
		}
		return false
	}
}

func hasPath(suffix string) func(*pathLayout) bool {
	return func(l *pathLayout) bool {
		for _, p := range l.paths {
			if p == suffix || strings.HasSuffix(p, "/"+suffix) {
				return true
			}
		}
		return false
	}
}

// multiplePackages holds when two or more nested directories carry their own
// package manifest.
func multiplePackages(l *pathLayout) bool {
	dirs := make(map[string]struct{})
	for _, p := range l.paths {
		switch filepath.Base(p) {
		case "package.json", "go.mod", "Cargo.toml", "pyproject.toml":
			if d := filepath.Dir(p); d != "." {
				dirs[d] = struct{}{}
			}
		}
	}
	return len(dirs) >= 2
}

// classifyStructure scores every archetype family and picks the highest.
// Families are evaluated in a fixed order and only a strictly higher score
// displaces the current leader.
func classifyStructure(files []SourceFile) ProjectStructure {
	best := ProjectStructure{Type: ArchetypeUnknown, Indicators: []string{}}
	if len(files) == 0 {
		return best
	}

	layout := newPathLayout(files)
	for _, family := range archetypeRules {
		score := 0.0
		var indicators []string
		for _, r := range family.rules {
			if r.match(layout) {
				score += r.delta
				indicators = append(indicators, r.indicator)
			}
		}
		score = math.Min(100, score)
		if score > best.Confidence {
			best = ProjectStructure{Type: family.archetype, Confidence: score, Indicators: indicators}
		}
	}
	return best
}
