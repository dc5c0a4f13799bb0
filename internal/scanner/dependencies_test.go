package scanner

import (
	"fmt"
	"reflect"
	"testing"
)

// depSummary renders dependencies as "name@version:type" for compact
// comparison.
func depSummary(deps []DependencyInfo) []string {
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = fmt.Sprintf("%s@%s:%s", d.Name, d.Version, d.Type)
	}
	return out
}

func TestParseDependencies_Manifests(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		content   string
		ecosystem string
		want      []string
	}{
		{
			name:      "package.json sections",
			filename:  "package.json",
			content:   `{"dependencies": {"react": "^18.2.0"}, "devDependencies": {"jest": "^29.0.0"}, "peerDependencies": {"react-dom": ">=18"}, "optionalDependencies": {"fsevents": "^2.3.0"}}`,
			ecosystem: "npm",
			want:      []string{"react@^18.2.0:production", "jest@^29.0.0:development", "react-dom@>=18:peer", "fsevents@^2.3.0:optional"},
		},
		{
			name:      "composer.json skips platform packages",
			filename:  "composer.json",
			content:   `{"require": {"php": ">=8.1", "ext-json": "*", "laravel/framework": "^10.0"}, "require-dev": {"phpunit/phpunit": "^10.0"}}`,
			ecosystem: "packagist",
			want:      []string{"laravel/framework@^10.0:production", "phpunit/phpunit@^10.0:development"},
		},
		{
			name:      "dev requirements file",
			filename:  "requirements-dev.txt",
			content:   "# tooling\npytest>=7.0\nblack\n-r requirements.txt\n",
			ecosystem: "pypi",
			want:      []string{"pytest@>=7.0:development", "black@:development"},
		},
		{
			name:      "requirements local paths skipped",
			filename:  "requirements.txt",
			content:   "flask==2.3.0\n./vendor/localpkg\n/opt/wheels/tool-1.0-py3-none-any.whl\n",
			ecosystem: "pypi",
			want:      []string{"flask@==2.3.0:production"},
		},
		{
			name:      "requirements vcs egg names",
			filename:  "requirements.txt",
			content:   "flask==2.3.0\ngit+https://github.com/org/repo.git#egg=repo\n-e git+https://github.com/org/tool.git@main#egg=tool\n",
			ecosystem: "pypi",
			want:      []string{"flask@==2.3.0:production", "repo@:production", "tool@:production"},
		},
		{
			name:      "requirements wheel url skipped",
			filename:  "requirements.txt",
			content:   "https://example.com/pkg-1.0.whl\nflask==2.3.0\n",
			ecosystem: "pypi",
			want:      []string{"flask@==2.3.0:production"},
		},
		{
			name:      "requirements unparseable line skipped",
			filename:  "requirements.txt",
			content:   "flask==2.3.0\n??? nonsense\n",
			ecosystem: "pypi",
			want:      []string{"flask@==2.3.0:production"},
		},
		{
			name:      "Pipfile",
			filename:  "Pipfile",
			content:   "[packages]\nrequests = \"*\"\n\n[dev-packages]\npytest = \"*\"\n",
			ecosystem: "pypi",
			want:      []string{"requests@*:production", "pytest@*:development"},
		},
		{
			name:      "pyproject.toml",
			filename:  "pyproject.toml",
			content:   "[project]\nname = \"demo\"\ndependencies = [\"httpx>=0.25\", \"rich\"]\n\n[project.optional-dependencies]\ndocs = [\"mkdocs\"]\n",
			ecosystem: "pypi",
			want:      []string{"httpx@>=0.25:production", "rich@:production", "mkdocs@:optional"},
		},
		{
			name:      "Cargo.toml",
			filename:  "Cargo.toml",
			content:   "[package]\nname = \"demo\"\n\n[dependencies]\ntokio = \"1\"\nserde = { version = \"1.0\", features = [\"derive\"] }\n\n[dev-dependencies]\ncriterion = \"0.5\"\n",
			ecosystem: "crates.io",
			want:      []string{"serde@1.0:production", "tokio@1:production", "criterion@0.5:development"},
		},
		{
			name:      "go.mod",
			filename:  "go.mod",
			content:   "module example.com/demo\n\ngo 1.22\n\nrequire github.com/spf13/cobra v1.8.0\n\nrequire (\n\tgithub.com/google/uuid v1.6.0\n\tgolang.org/x/sys v0.20.0 // indirect\n)\n",
			ecosystem: "go",
			want:      []string{"github.com/spf13/cobra@v1.8.0:production", "github.com/google/uuid@v1.6.0:production", "golang.org/x/sys@v0.20.0:optional"},
		},
		{
			name:     "pom.xml scopes",
			filename: "pom.xml",
			content: `<project>
  <dependencies>
    <dependency><groupId>org.springframework.boot</groupId><artifactId>spring-boot-starter-web</artifactId><version>3.2.0</version></dependency>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>4.13</version><scope>test</scope></dependency>
    <dependency><groupId>javax.servlet</groupId><artifactId>servlet-api</artifactId><version>2.5</version><scope>provided</scope></dependency>
  </dependencies>
</project>`,
			ecosystem: "maven",
			want: []string{
				"org.springframework.boot:spring-boot-starter-web@3.2.0:production",
				"junit:junit@4.13:development",
				"javax.servlet:servlet-api@2.5:peer",
			},
		},
		{
			name:      "Gemfile groups",
			filename:  "Gemfile",
			content:   "source 'https://rubygems.org'\n\ngem 'rails', '~> 7.0'\n\ngroup :development, :test do\n  gem 'rspec'\nend\n\ngem 'puma'\n",
			ecosystem: "rubygems",
			want:      []string{"rails@~> 7.0:production", "rspec@:development", "puma@:production"},
		},
		{
			name:      "pubspec.yaml",
			filename:  "pubspec.yaml",
			content:   "name: demo\ndependencies:\n  flutter:\n    sdk: flutter\n  http: ^1.1.0\ndev_dependencies:\n  flutter_test:\n    sdk: flutter\n",
			ecosystem: "pub",
			want:      []string{"flutter@:production", "http@^1.1.0:production", "flutter_test@:development"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := sourceFiles(FileInput{Filename: "project/" + tt.filename, Content: tt.content})
			var skipped error
			deps := parseDependencies(files, func(_ string, err error) { skipped = err })
			if skipped != nil {
				t.Fatalf("manifest unexpectedly skipped: %v", skipped)
			}
			if got := depSummary(deps); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dependencies = %v, want %v", got, tt.want)
			}
			for _, d := range deps {
				if d.Ecosystem != tt.ecosystem {
					t.Errorf("%s ecosystem = %q, want %q", d.Name, d.Ecosystem, tt.ecosystem)
				}
				if d.Manifest != "project/"+tt.filename {
					t.Errorf("%s manifest = %q", d.Name, d.Manifest)
				}
			}
		})
	}
}

func TestParseDependencies_MalformedSkipped(t *testing.T) {
	tests := []struct {
		filename string
		content  string
	}{
		{"package.json", `{"dependencies": ["react"]}`},
		{"package.json", `not json`},
		{"go.mod", "require github.com/a/b v1.0.0\n"},
		{"requirements.txt", "??? nonsense\n"},
		{"Cargo.toml", "[dependencies\n"},
		{"pubspec.yaml", "dependencies: [a, b]\n"},
		{"pom.xml", "<project><dependencies><dependency><groupId>x</groupId></dependency></dependencies></project>"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			var skipped []string
			files := sourceFiles(
				FileInput{Filename: tt.filename, Content: tt.content},
				FileInput{Filename: "sub/package.json", Content: `{"dependencies": {"lodash": "4.17.21"}}`},
			)
			deps := parseDependencies(files, func(file string, err error) {
				if err == nil {
					t.Errorf("skip called without an error")
				}
				skipped = append(skipped, file)
			})

			if len(skipped) != 1 || skipped[0] != tt.filename {
				t.Errorf("skipped = %v, want [%s]", skipped, tt.filename)
			}
			if got := depSummary(deps); !reflect.DeepEqual(got, []string{"lodash@4.17.21:production"}) {
				t.Errorf("healthy manifest lost: %v", got)
			}
		})
	}
}

func TestParseDependencies_NoManifests(t *testing.T) {
	deps := parseDependencies(sourceFiles(FileInput{Filename: "main.go", Content: "package main"}), nil)
	if deps == nil || len(deps) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", deps)
	}
}

func TestSafeParse_RecoversPanic(t *testing.T) {
	_, err := safeParse(func(string) ([]DependencyInfo, error) {
		panic("boom")
	}, "")
	if err == nil {
		t.Error("expected panic to surface as an error")
	}
}
