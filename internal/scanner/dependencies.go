package scanner

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// errSchema marks a manifest whose decoded shape is not what its kind
// requires. Any error from a parser causes that manifest to be skipped.
var errSchema = errors.New("unexpected manifest schema")

// manifestParser extracts dependencies from one manifest kind.
type manifestParser struct {
	ecosystem string
	parse     func(content string) ([]DependencyInfo, error)
}

// manifestParsers is keyed by base-name glob.
var manifestParsers = []struct {
	pattern string
	parser  manifestParser
}{
	{"package.json", manifestParser{"npm", parsePackageJSON}},
	{"composer.json", manifestParser{"packagist", parseComposerJSON}},
	{"requirements*.txt", manifestParser{"pypi", nil}},
	{"Pipfile", manifestParser{"pypi", parsePipfile}},
	{"pyproject.toml", manifestParser{"pypi", parsePyproject}},
	{"Cargo.toml", manifestParser{"crates.io", parseCargoToml}},
	{"go.mod", manifestParser{"go", parseGoMod}},
	{"pom.xml", manifestParser{"maven", parsePomXML}},
	{"Gemfile", manifestParser{"rubygems", parseGemfile}},
	{"pubspec.yaml", manifestParser{"pub", parsePubspec}},
}

// IsManifest reports whether a base name is a recognized dependency manifest.
func IsManifest(base string) bool {
	_, ok := manifestFor(base)
	return ok
}

func manifestFor(base string) (manifestParser, bool) {
	for _, m := range manifestParsers {
		if ok, _ := filepath.Match(m.pattern, base); ok {
			p := m.parser
			if p.parse == nil {
				// Requirement files named *dev* or *test* hold development deps.
				depType := DependencyProduction
				lower := strings.ToLower(base)
				if strings.Contains(lower, "dev") || strings.Contains(lower, "test") {
					depType = DependencyDevelopment
				}
				p.parse = func(content string) ([]DependencyInfo, error) {
					return parseRequirements(content, depType)
				}
			}
			return p, true
		}
	}
	return manifestParser{}, false
}

// parseDependencies walks every recognized manifest in input order. A
// manifest that fails to parse is reported through skip and contributes
// nothing.
func parseDependencies(files []SourceFile, skip func(file string, err error)) []DependencyInfo {
	deps := []DependencyInfo{}
	for _, f := range files {
		p, ok := manifestFor(f.BaseName())
		if !ok {
			continue
		}
		found, err := safeParse(p.parse, f.Content)
		if err != nil {
			if skip != nil {
				skip(f.Filename, err)
			}
			continue
		}
		for i := range found {
			found[i].Ecosystem = p.ecosystem
			found[i].Manifest = f.Filename
		}
		deps = append(deps, found...)
	}
	return deps
}

// safeParse converts a panic inside a parser into an error so that a single
// hostile manifest cannot abort the scan.
func safeParse(parse func(string) ([]DependencyInfo, error), content string) (deps []DependencyInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			deps, err = nil, fmt.Errorf("manifest parser panic: %v", r)
		}
	}()
	return parse(content)
}

// fromMap converts a name->version section into dependencies, sorted by name.
// Non-string versions are accepted when they are tables carrying "version".
func fromMap(section any, depType DependencyType, skip ...string) ([]DependencyInfo, error) {
	if section == nil {
		return nil, nil
	}
	m, ok := section.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: section is %T", errSchema, section)
	}
	names := make([]string, 0, len(m))
	for name := range m {
		if containsString(skip, name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]DependencyInfo, 0, len(names))
	for _, name := range names {
		dep := DependencyInfo{Name: name, Type: depType}
		switch v := m[name].(type) {
		case string:
			dep.Version = v
		case map[string]any:
			if s, ok := v["version"].(string); ok {
				dep.Version = s
			}
			if opt, ok := v["optional"].(bool); ok && opt {
				dep.Type = DependencyOptional
			}
		case nil:
		default:
			dep.Version = fmt.Sprint(v)
		}
		out = append(out, dep)
	}
	return out, nil
}

func parsePackageJSON(content string) ([]DependencyInfo, error) {
	var pkg map[string]any
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, err
	}
	var out []DependencyInfo
	for _, section := range []struct {
		key string
		typ DependencyType
	}{
		{"dependencies", DependencyProduction},
		{"devDependencies", DependencyDevelopment},
		{"peerDependencies", DependencyPeer},
		{"optionalDependencies", DependencyOptional},
	} {
		deps, err := fromMap(pkg[section.key], section.typ)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section.key, err)
		}
		out = append(out, deps...)
	}
	return out, nil
}

func parseComposerJSON(content string) ([]DependencyInfo, error) {
	var pkg map[string]any
	if err := json.Unmarshal([]byte(content), &pkg); err != nil {
		return nil, err
	}
	prod, err := fromMap(pkg["require"], DependencyProduction, "php")
	if err != nil {
		return nil, err
	}
	dev, err := fromMap(pkg["require-dev"], DependencyDevelopment, "php")
	if err != nil {
		return nil, err
	}
	var out []DependencyInfo
	for _, d := range append(prod, dev...) {
		if strings.HasPrefix(d.Name, "ext-") {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

var requirementLine = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(\[[^\]]*\])?\s*(([=<>!~]=?|===)\s*[^;#\s]+(\s*,\s*[=<>!~]=?\s*[^;#\s,]+)*)?`)

var (
	eggFragment = regexp.MustCompile(`[#&]egg=([A-Za-z0-9][A-Za-z0-9._-]*)`)
	urlScheme   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)
)

// parseRequirements reads a pip requirements file. VCS and URL requirements
// are named by their #egg= fragment; local paths and unnamed URLs are
// skipped. The file is rejected only when no line parses at all.
func parseRequirements(content string, depType DependencyType) ([]DependencyInfo, error) {
	out := []DependencyInfo{}
	var bad []string
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if i := strings.Index(line, " #"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		for _, flag := range []string{"-e ", "--editable "} {
			if strings.HasPrefix(line, flag) {
				line = strings.TrimSpace(line[len(flag):])
			}
		}
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if m := eggFragment.FindStringSubmatch(line); m != nil {
			out = append(out, DependencyInfo{Name: m[1], Type: depType})
			continue
		}
		if isRequirementLocation(line) {
			continue
		}
		m := requirementLine.FindStringSubmatch(line)
		if m == nil {
			bad = append(bad, line)
			continue
		}
		out = append(out, DependencyInfo{Name: m[1], Version: strings.TrimSpace(m[3]), Type: depType})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 && len(bad) > 0 {
		return nil, fmt.Errorf("%w: unparseable requirement %q", errSchema, bad[0])
	}
	return out, nil
}

// isRequirementLocation reports whether a requirement line is a path, URL or
// VCS reference rather than a package name.
func isRequirementLocation(line string) bool {
	switch {
	case strings.HasPrefix(line, "."), strings.HasPrefix(line, "/"), strings.HasPrefix(line, "~"):
		return true
	case urlScheme.MatchString(line):
		return true
	}
	for _, vcs := range []string{"git+", "hg+", "svn+", "bzr+"} {
		if strings.HasPrefix(line, vcs) {
			return true
		}
	}
	return false
}

func parsePipfile(content string) ([]DependencyInfo, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	prod, err := fromMap(doc["packages"], DependencyProduction)
	if err != nil {
		return nil, err
	}
	dev, err := fromMap(doc["dev-packages"], DependencyDevelopment)
	if err != nil {
		return nil, err
	}
	return append(prod, dev...), nil
}

func parsePyproject(content string) ([]DependencyInfo, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}

	var out []DependencyInfo
	if project, ok := doc["project"].(map[string]any); ok {
		if list, ok := project["dependencies"].([]any); ok {
			deps, err := fromRequirementList(list, DependencyProduction)
			if err != nil {
				return nil, err
			}
			out = append(out, deps...)
		}
		if extras, ok := project["optional-dependencies"].(map[string]any); ok {
			for _, group := range sortedMapKeys(extras) {
				list, ok := extras[group].([]any)
				if !ok {
					return nil, fmt.Errorf("%w: optional-dependencies.%s", errSchema, group)
				}
				deps, err := fromRequirementList(list, DependencyOptional)
				if err != nil {
					return nil, err
				}
				out = append(out, deps...)
			}
		}
	}

	tool, _ := doc["tool"].(map[string]any)
	poetry, _ := tool["poetry"].(map[string]any)
	if poetry != nil {
		prod, err := fromMap(poetry["dependencies"], DependencyProduction, "python")
		if err != nil {
			return nil, err
		}
		out = append(out, prod...)
		dev, err := fromMap(poetry["dev-dependencies"], DependencyDevelopment)
		if err != nil {
			return nil, err
		}
		out = append(out, dev...)
		if groups, ok := poetry["group"].(map[string]any); ok {
			for _, name := range sortedMapKeys(groups) {
				group, ok := groups[name].(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: poetry group %s", errSchema, name)
				}
				deps, err := fromMap(group["dependencies"], DependencyDevelopment)
				if err != nil {
					return nil, err
				}
				out = append(out, deps...)
			}
		}
	}
	return out, nil
}

func fromRequirementList(list []any, depType DependencyType) ([]DependencyInfo, error) {
	lines := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: requirement is %T", errSchema, item)
		}
		lines = append(lines, s)
	}
	return parseRequirements(strings.Join(lines, "\n"), depType)
}

func parseCargoToml(content string) ([]DependencyInfo, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	var out []DependencyInfo
	for _, section := range []struct {
		key string
		typ DependencyType
	}{
		{"dependencies", DependencyProduction},
		{"dev-dependencies", DependencyDevelopment},
		{"build-dependencies", DependencyDevelopment},
	} {
		deps, err := fromMap(doc[section.key], section.typ)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section.key, err)
		}
		out = append(out, deps...)
	}
	return out, nil
}

var goRequire = regexp.MustCompile(`^([^\s]+)\s+(v[^\s]+)`)

func parseGoMod(content string) ([]DependencyInfo, error) {
	var out []DependencyInfo
	sawModule := false
	inBlock := false

	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		comment := ""
		if i := strings.Index(line, "//"); i >= 0 {
			comment = strings.TrimSpace(line[i+2:])
			line = strings.TrimSpace(line[:i])
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "module "):
			sawModule = true
			continue
		case line == "require (":
			inBlock = true
			continue
		case inBlock && line == ")":
			inBlock = false
			continue
		case strings.HasPrefix(line, "require "):
			line = strings.TrimSpace(strings.TrimPrefix(line, "require"))
		case !inBlock:
			continue
		}
		m := goRequire.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%w: require line %q", errSchema, line)
		}
		depType := DependencyProduction
		if comment == "indirect" {
			depType = DependencyOptional
		}
		out = append(out, DependencyInfo{Name: m[1], Version: m[2], Type: depType})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawModule {
		return nil, fmt.Errorf("%w: missing module directive", errSchema)
	}
	return out, nil
}

type pomProject struct {
	Dependencies []struct {
		GroupID    string `xml:"groupId"`
		ArtifactID string `xml:"artifactId"`
		Version    string `xml:"version"`
		Scope      string `xml:"scope"`
		Optional   string `xml:"optional"`
	} `xml:"dependencies>dependency"`
}

func parsePomXML(content string) ([]DependencyInfo, error) {
	var pom pomProject
	if err := xml.Unmarshal([]byte(content), &pom); err != nil {
		return nil, err
	}
	out := make([]DependencyInfo, 0, len(pom.Dependencies))
	for _, d := range pom.Dependencies {
		if d.ArtifactID == "" {
			return nil, fmt.Errorf("%w: dependency without artifactId", errSchema)
		}
		dep := DependencyInfo{
			Name:    d.GroupID + ":" + d.ArtifactID,
			Version: d.Version,
			Type:    DependencyProduction,
		}
		switch {
		case d.Optional == "true":
			dep.Type = DependencyOptional
		case d.Scope == "test":
			dep.Type = DependencyDevelopment
		case d.Scope == "provided":
			dep.Type = DependencyPeer
		}
		out = append(out, dep)
	}
	return out, nil
}

var (
	gemLine   = regexp.MustCompile(`^gem\s+['"]([^'"]+)['"](\s*,\s*['"]([^'"]+)['"])?`)
	gemGroup  = regexp.MustCompile(`^group\s+(.+)\s+do$`)
	devGroups = regexp.MustCompile(`:(development|test)\b`)
)

func parseGemfile(content string) ([]DependencyInfo, error) {
	var out []DependencyInfo
	depth := 0
	devDepth := -1

	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
			continue
		case gemGroup.MatchString(line):
			depth++
			if devDepth < 0 && devGroups.MatchString(line) {
				devDepth = depth
			}
			continue
		case strings.HasSuffix(line, " do") || line == "do":
			depth++
			continue
		case line == "end":
			if depth == devDepth {
				devDepth = -1
			}
			if depth > 0 {
				depth--
			}
			continue
		}
		m := gemLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		depType := DependencyProduction
		if devDepth >= 0 || devGroups.MatchString(line) {
			depType = DependencyDevelopment
		}
		out = append(out, DependencyInfo{Name: m[1], Version: m[3], Type: depType})
	}
	return out, sc.Err()
}

func parsePubspec(content string) ([]DependencyInfo, error) {
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: empty pubspec", errSchema)
	}
	prod, err := fromMap(doc["dependencies"], DependencyProduction)
	if err != nil {
		return nil, err
	}
	dev, err := fromMap(doc["dev_dependencies"], DependencyDevelopment)
	if err != nil {
		return nil, err
	}
	return append(prod, dev...), nil
}

func sortedMapKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
