package scanner

import (
	"path/filepath"
	"sort"
)

// toolPatterns maps a tool name to the manifest names that reveal it. Names
// may be filepath.Match globs and are matched against base names.
type toolPatterns struct {
	name     string
	patterns []string
}

var buildTools = []toolPatterns{
	{"webpack", []string{"webpack.config.*"}},
	{"vite", []string{"vite.config.*"}},
	{"rollup", []string{"rollup.config.*"}},
	{"parcel", []string{".parcelrc"}},
	{"esbuild", []string{"esbuild.config.*"}},
	{"babel", []string{".babelrc", ".babelrc.*", "babel.config.*"}},
	{"typescript", []string{"tsconfig.json", "tsconfig.*.json"}},
	{"gulp", []string{"gulpfile.*"}},
	{"grunt", []string{"Gruntfile.*"}},
	{"turborepo", []string{"turbo.json"}},
	{"nx", []string{"nx.json"}},
	{"make", []string{"Makefile", "makefile", "GNUmakefile", "*.mk"}},
	{"cmake", []string{"CMakeLists.txt", "*.cmake"}},
	{"meson", []string{"meson.build"}},
	{"bazel", []string{"BUILD", "BUILD.bazel", "WORKSPACE", "WORKSPACE.bazel", "MODULE.bazel"}},
	{"maven", []string{"pom.xml"}},
	{"gradle", []string{"build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts"}},
	{"ant", []string{"build.xml"}},
	{"sbt", []string{"build.sbt"}},
	{"cargo", []string{"Cargo.toml"}},
	{"go", []string{"go.mod"}},
	{"msbuild", []string{"*.csproj", "*.sln", "*.vbproj", "*.fsproj"}},
	{"rake", []string{"Rakefile"}},
	{"setuptools", []string{"setup.py", "setup.cfg"}},
	{"docker", []string{"Dockerfile", "Dockerfile.*"}},
	{"xcodebuild", []string{"*.xcodeproj", "*.pbxproj"}},
}

var packageManagers = []toolPatterns{
	{"npm", []string{"package-lock.json", "npm-shrinkwrap.json"}},
	{"yarn", []string{"yarn.lock", ".yarnrc", ".yarnrc.yml"}},
	{"pnpm", []string{"pnpm-lock.yaml", "pnpm-workspace.yaml"}},
	{"bun", []string{"bun.lockb", "bun.lock"}},
	{"pip", []string{"requirements*.txt"}},
	{"pipenv", []string{"Pipfile", "Pipfile.lock"}},
	{"poetry", []string{"poetry.lock"}},
	{"conda", []string{"environment.yml", "environment.yaml"}},
	{"go modules", []string{"go.mod", "go.sum"}},
	{"cargo", []string{"Cargo.toml", "Cargo.lock"}},
	{"composer", []string{"composer.json", "composer.lock"}},
	{"bundler", []string{"Gemfile", "Gemfile.lock"}},
	{"maven", []string{"pom.xml"}},
	{"gradle", []string{"build.gradle", "build.gradle.kts"}},
	{"nuget", []string{"packages.config", "*.nuspec", "nuget.config"}},
	{"cocoapods", []string{"Podfile", "Podfile.lock"}},
	{"swift package manager", []string{"Package.swift"}},
	{"pub", []string{"pubspec.yaml", "pubspec.lock"}},
	{"mix", []string{"mix.exs", "mix.lock"}},
}

// detectBuildTools returns the sorted names of build tools present.
func detectBuildTools(files []SourceFile) []string {
	return matchTools(buildTools, files)
}

// detectPackageManagers returns the sorted names of package managers present.
// A bare package.json implies npm when no other JavaScript lockfile exists.
func detectPackageManagers(files []SourceFile) []string {
	found := matchTools(packageManagers, files)
	if containsAny(found, "npm", "yarn", "pnpm", "bun") {
		return found
	}
	for _, f := range files {
		if f.BaseName() == "package.json" {
			found = append(found, "npm")
			sort.Strings(found)
			break
		}
	}
	return found
}

func matchTools(table []toolPatterns, files []SourceFile) []string {
	found := make(map[string]struct{})
	for _, f := range files {
		base := f.BaseName()
		for _, t := range table {
			if _, ok := found[t.name]; ok {
				continue
			}
			for _, p := range t.patterns {
				if ok, _ := filepath.Match(p, base); ok {
					found[t.name] = struct{}{}
					break
				}
			}
		}
	}
	return sortedKeys(found)
}

func containsAny(slice []string, items ...string) bool {
	for _, s := range slice {
		for _, item := range items {
			if s == item {
				return true
			}
		}
	}
	return false
}
