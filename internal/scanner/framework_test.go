package scanner

import (
	"path"
	"testing"
)

func sourceFiles(inputs ...FileInput) []SourceFile {
	files := make([]SourceFile, len(inputs))
	for i, in := range inputs {
		files[i] = NewSourceFile(in)
	}
	return files
}

func frameworkByName(frameworks []FrameworkInfo, name string) (FrameworkInfo, bool) {
	for _, f := range frameworks {
		if f.Name == name {
			return f, true
		}
	}
	return FrameworkInfo{}, false
}

func TestDetectFrameworks_MetaFrameworkAlongsideBase(t *testing.T) {
	files := sourceFiles(
		FileInput{Filename: "package.json", Content: `{"dependencies": {"next": "14.0.0", "react": "18.2.0", "react-dom": "18.2.0"}}`},
		FileInput{Filename: "next.config.js", Content: "module.exports = {}\n"},
		FileInput{Filename: "pages/index.jsx", Content: "import Link from 'next/link';\nimport React from 'react';\n\nexport default function Home() {\n  return <Link href=\"/\">Home</Link>;\n}\n"},
	)

	got := detectFrameworks(files, DefaultWeights())

	react, ok := frameworkByName(got, "React")
	if !ok {
		t.Fatalf("expected React, got %+v", got)
	}
	if react.Confidence != 100 {
		t.Errorf("React confidence = %v, want 100", react.Confidence)
	}
	if react.Language != "javascript" {
		t.Errorf("React language = %q, want javascript", react.Language)
	}
	if len(react.Dependencies) != 2 {
		t.Errorf("React dependencies = %v, want react and react-dom", react.Dependencies)
	}

	next, ok := frameworkByName(got, "Next.js")
	if !ok {
		t.Fatalf("expected Next.js alongside React, got %+v", got)
	}
	if next.Confidence != 85 {
		t.Errorf("Next.js confidence = %v, want 85", next.Confidence)
	}
	if len(next.ConfigFiles) != 1 || next.ConfigFiles[0] != "next.config.js" {
		t.Errorf("Next.js config files = %v", next.ConfigFiles)
	}
}

func TestDetectFrameworks_BareReactComponent(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     float64
		language string
	}{
		{
			name:     "function component",
			filename: "index.tsx",
			content:  "import React from 'react';\n\nexport default function App() {\n  return <div>Hello</div>;\n}\n",
			want:     65,
			language: "typescript",
		},
		{
			name:     "arrow component",
			filename: "src/Button.jsx",
			content:  "import React from 'react';\n\nexport const Button = ({ label }) => {\n  return <button>{label}</button>;\n};\n",
			want:     65,
			language: "javascript",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFrameworks(sourceFiles(FileInput{Filename: tt.filename, Content: tt.content}), DefaultWeights())
			react, ok := frameworkByName(got, "React")
			if !ok {
				t.Fatalf("expected React, got %+v", got)
			}
			if react.Confidence != tt.want {
				t.Errorf("React confidence = %v, want %v", react.Confidence, tt.want)
			}
			if react.Language != tt.language {
				t.Errorf("React language = %q, want %q", react.Language, tt.language)
			}
		})
	}
}

func TestDetectFrameworks_ScriptLanguageFollowsMatchedFiles(t *testing.T) {
	files := sourceFiles(
		FileInput{Filename: "package.json", Content: `{"dependencies": {"vue": "3.4.0"}}`},
		FileInput{Filename: "src/App.vue", Content: "<template>\n  <div v-if=\"ok\">hi</div>\n</template>\n<script lang=\"ts\">\nimport { defineComponent } from 'vue';\nexport default defineComponent({});\n</script>\n"},
		FileInput{Filename: "src/main.ts", Content: "import { createApp } from 'vue';\nimport App from './App.vue';\n\ncreateApp(App).mount('#app');\n"},
		FileInput{Filename: "scripts/build.js", Content: "console.log('build');\n"},
		FileInput{Filename: "scripts/clean.js", Content: "console.log('clean');\n"},
	)

	got := detectFrameworks(files, DefaultWeights())
	vue, ok := frameworkByName(got, "Vue")
	if !ok {
		t.Fatalf("expected Vue, got %+v", got)
	}
	if vue.Language != "typescript" {
		t.Errorf("Vue language = %q, want typescript", vue.Language)
	}
}

func TestDetectFrameworks_BackendThreshold(t *testing.T) {
	files := sourceFiles(
		FileInput{Filename: "manage.py", Content: "import os\n"},
		FileInput{Filename: "requirements.txt", Content: "Django==4.2\n"},
	)

	got := detectFrameworks(files, DefaultWeights())
	django, ok := frameworkByName(got, "Django")
	if !ok {
		t.Fatalf("expected Django, got %+v", got)
	}
	if django.Confidence != 70 {
		t.Errorf("Django confidence = %v, want 70", django.Confidence)
	}
	if django.Language != "python" || django.Category != "backend" {
		t.Errorf("unexpected Django metadata: %+v", django)
	}
}

func TestDetectFrameworks_WeakSignalsRejected(t *testing.T) {
	files := sourceFiles(
		FileInput{Filename: "server.js", Content: "app.get('/', handler);\napp.post('/x', handler);\n"},
	)

	if got := detectFrameworks(files, DefaultWeights()); len(got) != 0 {
		t.Errorf("expected no frameworks, got %+v", got)
	}
}

func TestDetectFrameworks_Empty(t *testing.T) {
	got := detectFrameworks(nil, DefaultWeights())
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestDeclaresDependency(t *testing.T) {
	tests := []struct {
		manifest string
		dep      string
		want     bool
	}{
		{`{"react": "18"}`, "react", true},
		{`{"react-dom": "18"}`, "react", false},
		{"flask>=2.0\n", "flask", true},
		{"flask-login==0.6\n", "flask", false},
		{"Flask[async] ; python_version >= '3.8'\n", "flask", true},
		{"  django\n", "django", true},
		{"# flask\n", "flask", false},
		{"require github.com/gin-gonic/gin v1.9.1\n", "github.com/gin-gonic/gin", true},
		{"", "react", false},
	}

	for _, tt := range tests {
		if got := declaresDependency(tt.manifest, tt.dep); got != tt.want {
			t.Errorf("declaresDependency(%q, %q) = %v, want %v", tt.manifest, tt.dep, got, tt.want)
		}
	}
}

func TestMatchPath(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"angular.json", "angular.json", true},
		{"*.vue", "src/App.vue", true},
		{"pages/_app.*", "pages/_app.tsx", true},
		{"pages/_app.*", "web/pages/_app.js", true},
		{"pages/_app.*", "pages/index.tsx", false},
		{"app/layout.*", "src/app/layout.tsx", true},
	}

	for _, tt := range tests {
		if got := matchPath(tt.pattern, tt.path, path.Base(tt.path)); got != tt.want {
			t.Errorf("matchPath(%q, %q) = %v, want %v", tt.pattern, tt.path, got, tt.want)
		}
	}
}
