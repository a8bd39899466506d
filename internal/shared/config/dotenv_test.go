package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line   string
		key    string
		val    string
		wantOK bool
	}{
		{line: "PORT=9090", key: "PORT", val: "9090", wantOK: true},
		{line: "export LLM_MODEL=gpt-4o-mini", key: "LLM_MODEL", val: "gpt-4o-mini", wantOK: true},
		{line: `S3_PREFIX="daily reports"`, key: "S3_PREFIX", val: "daily reports", wantOK: true},
		{line: "ENV='staging'", key: "ENV", val: "staging", wantOK: true},
		{line: "EMPTY=", key: "EMPTY", val: "", wantOK: true},
		{line: "# comment"},
		{line: "   "},
		{line: "NOEQUALS"},
		{line: "=value"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			key, val, ok := parseEnvLine(tt.line)
			if ok != tt.wantOK || key != tt.key || val != tt.val {
				t.Fatalf("parseEnvLine(%q) = %q, %q, %v", tt.line, key, val, ok)
			}
		})
	}
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DOCREVIEW_TEST_SET=from-file\nDOCREVIEW_TEST_NEW=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCREVIEW_TEST_SET", "from-env")
	t.Setenv("DOCREVIEW_TEST_NEW", "")
	os.Unsetenv("DOCREVIEW_TEST_NEW")

	loadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path)

	if got := os.Getenv("DOCREVIEW_TEST_SET"); got != "from-env" {
		t.Fatalf("existing value overwritten: %q", got)
	}
	if got := os.Getenv("DOCREVIEW_TEST_NEW"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
