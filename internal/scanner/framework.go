package scanner

import (
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// frameworkFamily groups frameworks that share an acceptance threshold.
type frameworkFamily int

const (
	familyFrontend frameworkFamily = iota
	familyBackend
	familyMobile
)

// Fixed score deltas for framework signals.
const (
	markerFileDelta  = 30
	dependencyDelta  = 40
	metaBaseDelta    = 40
	metaPerIndicator = 15
	minMetaIndicator = 2
)

// contentSignal scores a regex by hit density: perHit for every match, up to
// ceiling. A signal with perHit == ceiling is effectively fixed.
type contentSignal struct {
	re      *regexp.Regexp
	perHit  float64
	ceiling float64
}

func signal(expr string, perHit, ceiling float64) contentSignal {
	return contentSignal{re: regexp.MustCompile(expr), perHit: perHit, ceiling: ceiling}
}

// framework is a detection rule for one framework.
type framework struct {
	name         string
	language     string
	category     string
	ecosystem    string
	family       frameworkFamily
	markerFiles  []string
	dependencies []string
	signals      []contentSignal
	// scriptLanguage reports typescript instead of language when most files
	// carrying the framework's signals are TypeScript.
	scriptLanguage bool
}

// metaFramework is layered atop a base framework and is reported alongside it
// when enough of its own indicators are present.
type metaFramework struct {
	name       string
	base       string
	category   string
	files      []string
	indicators []*regexp.Regexp
	deps       []string
}

// frameworks is evaluated in order; output order follows it.
var frameworks = []framework{
	// Frontend
	{
		name: "React", language: "javascript", category: "frontend", ecosystem: "npm", family: familyFrontend,
		dependencies: []string{"react", "react-dom"},
		signals: []contentSignal{
			signal(`(?m)^\s*import\s+(\*\s+as\s+)?React\b|from\s+['"]react['"]`, 40, 40),
			signal(`\buse(State|Effect|Context|Memo|Callback|Ref|Reducer)\s*\(`, 10, 20),
			signal(`return\s*\(?\s*<[A-Za-z]`, 15, 30),
			signal(`\bclassName=`, 5, 10),
			signal(`\bReactDOM\.(render|createRoot)\b`, 15, 15),
			signal(`(?m)^\s*(export\s+(default\s+)?)?(function\s+[A-Z]\w*\s*\(|const\s+[A-Z]\w*\s*(:\s*[\w.<>]+\s*)?=\s*(\([^)]*\)|\w+)\s*=>)`, 10, 10),
		},
		scriptLanguage: true,
	},
	{
		name: "Vue", language: "javascript", category: "frontend", ecosystem: "npm", family: familyFrontend,
		markerFiles:  []string{"*.vue", "vue.config.js"},
		dependencies: []string{"vue"},
		signals: []contentSignal{
			signal(`from\s+['"]vue['"]`, 30, 30),
			signal(`(?m)^<template>`, 10, 20),
			signal(`\b(createApp|defineComponent|ref|reactive|computed)\s*\(`, 5, 20),
			signal(`\bv-(if|for|model|bind|on)\b`, 5, 15),
		},
		scriptLanguage: true,
	},
	{
		name: "Angular", language: "typescript", category: "frontend", ecosystem: "npm", family: familyFrontend,
		markerFiles:  []string{"angular.json", "*.component.ts", "*.module.ts"},
		dependencies: []string{"@angular/core"},
		signals: []contentSignal{
			signal(`from\s+['"]@angular/`, 30, 30),
			signal(`@(Component|NgModule|Injectable|Input|Output)\s*\(`, 10, 30),
			signal(`\*ng(If|For)\b`, 5, 15),
		},
	},
	{
		name: "Svelte", language: "javascript", category: "frontend", ecosystem: "npm", family: familyFrontend,
		markerFiles:  []string{"*.svelte", "svelte.config.js"},
		dependencies: []string{"svelte"},
		signals: []contentSignal{
			signal(`from\s+['"]svelte(/\w+)?['"]`, 30, 30),
			signal(`\{#(if|each|await)\b`, 10, 20),
			signal(`\bexport\s+let\s+\w+`, 5, 10),
		},
		scriptLanguage: true,
	},
	// Backend
	{
		name: "Express", language: "javascript", category: "backend", ecosystem: "npm", family: familyBackend,
		dependencies: []string{"express"},
		signals: []contentSignal{
			signal(`require\(['"]express['"]\)|from\s+['"]express['"]`, 30, 30),
			signal(`\b(app|router)\.(get|post|put|delete|patch|use)\s*\(`, 5, 25),
			signal(`\bapp\.listen\s*\(`, 10, 10),
		},
	},
	{
		name: "Django", language: "python", category: "backend", ecosystem: "pypi", family: familyBackend,
		markerFiles:  []string{"manage.py", "settings.py", "urls.py", "wsgi.py"},
		dependencies: []string{"django", "Django"},
		signals: []contentSignal{
			signal(`from\s+django(\.\w+)*\s+import`, 10, 30),
			signal(`\bmodels\.(Model|CharField|ForeignKey)\b`, 5, 15),
			signal(`\bINSTALLED_APPS\b`, 15, 15),
		},
	},
	{
		name: "Flask", language: "python", category: "backend", ecosystem: "pypi", family: familyBackend,
		dependencies: []string{"flask", "Flask"},
		signals: []contentSignal{
			signal(`from\s+flask\s+import|import\s+flask\b`, 30, 30),
			signal(`\bFlask\(__name__\)`, 20, 20),
			signal(`@\w+\.route\(`, 5, 20),
		},
	},
	{
		name: "FastAPI", language: "python", category: "backend", ecosystem: "pypi", family: familyBackend,
		dependencies: []string{"fastapi"},
		signals: []contentSignal{
			signal(`from\s+fastapi\s+import|import\s+fastapi\b`, 30, 30),
			signal(`\bFastAPI\(`, 20, 20),
			signal(`@\w+\.(get|post|put|delete|patch)\(`, 5, 20),
		},
	},
	{
		name: "Spring Boot", language: "java", category: "backend", ecosystem: "maven", family: familyBackend,
		markerFiles:  []string{"application.properties", "application.yml", "application.yaml"},
		dependencies: []string{"spring-boot-starter", "org.springframework.boot"},
		signals: []contentSignal{
			signal(`@SpringBootApplication\b`, 30, 30),
			signal(`@(RestController|Controller|Service|Repository|Autowired)\b`, 5, 20),
			signal(`@(Get|Post|Put|Delete|Request)Mapping\b`, 5, 20),
		},
	},
	{
		name: "Ruby on Rails", language: "ruby", category: "backend", ecosystem: "rubygems", family: familyBackend,
		markerFiles:  []string{"config/routes.rb", "config/application.rb", "Rakefile"},
		dependencies: []string{"rails"},
		signals: []contentSignal{
			signal(`<\s*(ApplicationController|ActiveRecord::Base|ApplicationRecord)\b`, 15, 30),
			signal(`Rails\.application\b`, 15, 15),
		},
	},
	{
		name: "Laravel", language: "php", category: "backend", ecosystem: "packagist", family: familyBackend,
		markerFiles:  []string{"artisan"},
		dependencies: []string{"laravel/framework"},
		signals: []contentSignal{
			signal(`use\s+Illuminate\\`, 10, 30),
			signal(`Route::(get|post|put|delete)\(`, 5, 20),
		},
	},
	{
		name: "Gin", language: "go", category: "backend", ecosystem: "go", family: familyBackend,
		dependencies: []string{"github.com/gin-gonic/gin"},
		signals: []contentSignal{
			signal(`\bgin\.(Default|New)\(\)`, 20, 20),
			signal(`\*gin\.Context\b`, 5, 20),
		},
	},
	{
		name: "Echo", language: "go", category: "backend", ecosystem: "go", family: familyBackend,
		dependencies: []string{"github.com/labstack/echo"},
		signals: []contentSignal{
			signal(`\becho\.New\(\)`, 20, 20),
			signal(`\becho\.Context\b`, 5, 20),
		},
	},
	{
		name: "Fiber", language: "go", category: "backend", ecosystem: "go", family: familyBackend,
		dependencies: []string{"github.com/gofiber/fiber"},
		signals: []contentSignal{
			signal(`\bfiber\.New\(`, 20, 20),
			signal(`\*fiber\.Ctx\b`, 5, 20),
		},
	},
	{
		name: "ASP.NET Core", language: "csharp", category: "backend", ecosystem: "nuget", family: familyBackend,
		markerFiles:  []string{"appsettings.json", "Startup.cs"},
		dependencies: []string{"Microsoft.AspNetCore"},
		signals: []contentSignal{
			signal(`using\s+Microsoft\.AspNetCore`, 10, 30),
			signal(`\[(ApiController|HttpGet|HttpPost|Route)\b`, 5, 20),
			signal(`WebApplication\.CreateBuilder\(`, 15, 15),
		},
	},
	{
		name: "Actix Web", language: "rust", category: "backend", ecosystem: "crates.io", family: familyBackend,
		dependencies: []string{"actix-web"},
		signals: []contentSignal{
			signal(`use\s+actix_web`, 20, 20),
			signal(`#\[(get|post|put|delete|actix_web::main)\b`, 5, 20),
		},
	},
	// Mobile
	{
		name: "React Native", language: "javascript", category: "mobile", ecosystem: "npm", family: familyMobile,
		markerFiles:  []string{"metro.config.js", "app.json"},
		dependencies: []string{"react-native"},
		signals: []contentSignal{
			signal(`from\s+['"]react-native['"]`, 30, 30),
			signal(`<(View|Text|TouchableOpacity|FlatList|ScrollView)\b`, 5, 20),
			signal(`\bStyleSheet\.create\(`, 10, 10),
		},
	},
	{
		name: "Flutter", language: "dart", category: "mobile", ecosystem: "pub", family: familyMobile,
		markerFiles:  []string{"pubspec.yaml"},
		dependencies: []string{"flutter:"},
		signals: []contentSignal{
			signal(`import\s+['"]package:flutter/`, 30, 30),
			signal(`\b(StatelessWidget|StatefulWidget)\b`, 10, 20),
			signal(`\bWidget\s+build\(`, 5, 15),
		},
	},
	{
		name: "SwiftUI", language: "swift", category: "mobile", ecosystem: "swiftpm", family: familyMobile,
		markerFiles: []string{"Info.plist", "*.xcodeproj"},
		signals: []contentSignal{
			signal(`(?m)^import\s+SwiftUI`, 30, 30),
			signal(`:\s*View\s*\{`, 10, 20),
			signal(`\bvar\s+body\s*:\s*some\s+View`, 15, 15),
			signal(`@(State|Binding|ObservedObject|EnvironmentObject)\b`, 5, 15),
		},
	},
	{
		name: "Jetpack Compose", language: "kotlin", category: "mobile", ecosystem: "maven", family: familyMobile,
		markerFiles:  []string{"AndroidManifest.xml", "build.gradle.kts"},
		dependencies: []string{"androidx.compose"},
		signals: []contentSignal{
			signal(`import\s+androidx\.compose\.`, 10, 30),
			signal(`@Composable\b`, 5, 20),
		},
	},
	{
		name: "Ionic", language: "typescript", category: "mobile", ecosystem: "npm", family: familyMobile,
		markerFiles:  []string{"ionic.config.json", "capacitor.config.ts", "capacitor.config.json"},
		dependencies: []string{"@ionic/angular", "@ionic/react", "@ionic/vue", "@capacitor/core"},
		signals: []contentSignal{
			signal(`from\s+['"]@ionic/`, 20, 20),
			signal(`<ion-\w+`, 5, 20),
		},
	},
}

var metaFrameworks = []metaFramework{
	{
		name: "Next.js", base: "React", category: "frontend",
		files:      []string{"next.config.js", "next.config.mjs", "next.config.ts", "pages/_app.*", "app/layout.*"},
		deps:       []string{"next"},
		indicators: regexps(`from\s+['"]next/`, `\bgetServerSideProps\b|\bgetStaticProps\b`, `['"]use client['"]`),
	},
	{
		name: "Gatsby", base: "React", category: "frontend",
		files:      []string{"gatsby-config.js", "gatsby-node.js", "gatsby-browser.js"},
		deps:       []string{"gatsby"},
		indicators: regexps(`from\s+['"]gatsby['"]`, `\bgraphql\s*`+"`"),
	},
	{
		name: "Nuxt", base: "Vue", category: "frontend",
		files:      []string{"nuxt.config.js", "nuxt.config.ts"},
		deps:       []string{"nuxt"},
		indicators: regexps(`\bdefineNuxtConfig\(`, `\buseFetch\(|\buseAsyncData\(`, `from\s+['"]#app['"]`),
	},
	{
		name: "SvelteKit", base: "Svelte", category: "frontend",
		files:      []string{"svelte.config.js", "+page.svelte", "+layout.svelte"},
		deps:       []string{"@sveltejs/kit"},
		indicators: regexps(`from\s+['"]\$app/`, `from\s+['"]@sveltejs/kit['"]`),
	},
	{
		name: "NestJS", base: "Express", category: "backend",
		files:      []string{"nest-cli.json", "*.controller.ts", "*.module.ts"},
		deps:       []string{"@nestjs/core"},
		indicators: regexps(`from\s+['"]@nestjs/`, `@(Controller|Module|Injectable)\(`),
	},
}

func regexps(exprs ...string) []*regexp.Regexp {
	return patterns(exprs...)
}

// frameworkInputs is the aggregate view the framework detector works on.
type frameworkInputs struct {
	files    []SourceFile
	paths    []string
	bases    []string
	content  string
	manifest string
}

func newFrameworkInputs(files []SourceFile) frameworkInputs {
	in := frameworkInputs{
		files: files,
		paths: make([]string, 0, len(files)),
		bases: make([]string, 0, len(files)),
	}
	var content, manifest strings.Builder
	for _, f := range files {
		in.paths = append(in.paths, f.Filename)
		in.bases = append(in.bases, f.BaseName())
		content.WriteString(f.Content)
		content.WriteByte('\n')
		if IsManifest(f.BaseName()) {
			manifest.WriteString(f.Content)
			manifest.WriteByte('\n')
		}
	}
	in.content = content.String()
	in.manifest = manifest.String()
	return in
}

// detectFrameworks evaluates every rule once over the whole file set.
func detectFrameworks(files []SourceFile, w Weights) []FrameworkInfo {
	in := newFrameworkInputs(files)

	result := []FrameworkInfo{}
	accepted := make(map[string]FrameworkInfo)
	for _, fw := range frameworks {
		info, score := scoreFramework(fw, in)
		if score <= threshold(fw.family, w) {
			continue
		}
		info.Confidence = math.Round(math.Min(100, score))
		accepted[fw.name] = info
		result = append(result, info)
	}

	for _, meta := range metaFrameworks {
		base, ok := accepted[meta.base]
		if !ok {
			continue
		}
		info, count := scoreMetaFramework(meta, base, in)
		if count < minMetaIndicator {
			continue
		}
		info.Confidence = math.Min(100, metaBaseDelta+float64(count)*metaPerIndicator)
		result = append(result, info)
	}

	return result
}

func threshold(f frameworkFamily, w Weights) float64 {
	switch f {
	case familyFrontend:
		return w.FrontendThreshold
	case familyBackend:
		return w.BackendThreshold
	case familyMobile:
		return w.MobileThreshold
	}
	return 100
}

func scoreFramework(fw framework, in frameworkInputs) (FrameworkInfo, float64) {
	info := FrameworkInfo{
		Name:         fw.name,
		Language:     fw.language,
		Category:     fw.category,
		Ecosystem:    fw.ecosystem,
		Dependencies: []string{},
		ConfigFiles:  []string{},
	}

	score := 0.0
	if files := matchFiles(fw.markerFiles, in.paths, in.bases); len(files) > 0 {
		score += markerFileDelta
		info.ConfigFiles = files
	}

	for _, dep := range fw.dependencies {
		if declaresDependency(in.manifest, dep) {
			info.Dependencies = append(info.Dependencies, dep)
		}
	}
	if len(info.Dependencies) > 0 {
		score += dependencyDelta
	}

	for _, s := range fw.signals {
		hits := len(s.re.FindAllStringIndex(in.content, -1))
		if hits > 0 {
			score += math.Min(s.ceiling, float64(hits)*s.perHit)
		}
	}
	if fw.scriptLanguage {
		info.Language = scriptLanguage(fw, in.files)
	}
	return info, math.Min(100, score)
}

var typeScriptExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

var typeScriptBlock = regexp.MustCompile(`<script[^>]*\blang=["']ts["']`)

// scriptLanguage picks javascript or typescript by counting the files whose
// content matches one of fw's signals. Ties go to fw.language.
func scriptLanguage(fw framework, files []SourceFile) string {
	ts, js := 0, 0
	for _, f := range files {
		if !matchesAnySignal(fw.signals, f.Content) {
			continue
		}
		if typeScriptExtensions[f.Extension] || typeScriptBlock.MatchString(f.Content) {
			ts++
		} else {
			js++
		}
	}
	if ts > js {
		return "typescript"
	}
	return fw.language
}

func matchesAnySignal(signals []contentSignal, content string) bool {
	for _, s := range signals {
		if s.re.MatchString(content) {
			return true
		}
	}
	return false
}

func scoreMetaFramework(meta metaFramework, base FrameworkInfo, in frameworkInputs) (FrameworkInfo, int) {
	info := FrameworkInfo{
		Name:         meta.name,
		Language:     base.Language,
		Category:     meta.category,
		Ecosystem:    base.Ecosystem,
		Dependencies: []string{},
		ConfigFiles:  []string{},
	}

	count := 0
	if files := matchFiles(meta.files, in.paths, in.bases); len(files) > 0 {
		count++
		info.ConfigFiles = files
	}
	for _, dep := range meta.deps {
		if declaresDependency(in.manifest, dep) {
			info.Dependencies = append(info.Dependencies, dep)
		}
	}
	if len(info.Dependencies) > 0 {
		count++
	}
	for _, re := range meta.indicators {
		if re.MatchString(in.content) {
			count++
		}
	}
	return info, count
}

// declaresDependency reports whether a manifest mentions dep as a quoted
// key, a requirement line, or a module path.
func declaresDependency(manifest, dep string) bool {
	if manifest == "" {
		return false
	}
	if strings.HasSuffix(dep, ":") {
		return strings.Contains(manifest, dep)
	}
	if strings.Contains(manifest, `"`+dep+`"`) || strings.Contains(manifest, `'`+dep+`'`) {
		return true
	}
	if strings.Contains(dep, "/") || strings.Contains(dep, ".") {
		return strings.Contains(manifest, dep)
	}
	for _, line := range strings.Split(manifest, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len(dep) || !strings.EqualFold(line[:len(dep)], dep) {
			continue
		}
		rest := strings.TrimSpace(line[len(dep):])
		if rest == "" || strings.ContainsRune("=<>~![;", rune(rest[0])) {
			return true
		}
	}
	return false
}

// matchFiles returns the sorted set of paths matching any of the patterns.
// Patterns containing a slash match against path suffixes; others against
// base names.
func matchFiles(pats, paths, bases []string) []string {
	if len(pats) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for i, p := range paths {
		for _, pat := range pats {
			if matchPath(pat, p, bases[i]) {
				seen[p] = struct{}{}
				break
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func matchPath(pattern, path, base string) bool {
	if strings.Contains(pattern, "/") {
		if path == pattern || strings.HasSuffix(path, "/"+pattern) {
			return true
		}
		dir, file := filepath.Split(pattern)
		if strings.HasSuffix(filepath.Dir(path)+"/", "/"+dir) || filepath.Dir(path)+"/" == dir {
			ok, _ := filepath.Match(file, base)
			return ok
		}
		return false
	}
	ok, _ := filepath.Match(pattern, base)
	return ok
}
