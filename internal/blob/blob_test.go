package blob

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirStorePut(t *testing.T) {
	root := filepath.Join(t.TempDir(), "mirror")
	store, err := NewDirStore(root)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	content := []byte("DateTime,Value\n2024-03-01_07:00:00,12.9\n")
	if err := store.Put(context.Background(), "2024-03-01_Outdoor_Temperature.csv", content); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(root, "2024-03-01_Outdoor_Temperature.csv"))
	if err != nil {
		t.Fatalf("read mirrored file: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("mirrored content = %q", got)
	}
}

func TestNewS3StoreRequiresConfig(t *testing.T) {
	_, err := NewS3Store(S3Options{Endpoint: "https://s3.example.org"})
	if err == nil {
		t.Fatal("NewS3Store accepted options without bucket and keys")
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		in     string
		host   string
		secure bool
	}{
		{"https://s3.example.org", "s3.example.org", true},
		{"http://localhost:9000", "localhost:9000", false},
		{"s3.example.org", "s3.example.org", true},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.in)
		if err != nil {
			t.Fatalf("parseEndpoint(%q): %v", tc.in, err)
		}
		if host != tc.host || secure != tc.secure {
			t.Errorf("parseEndpoint(%q) = %q, %v", tc.in, host, secure)
		}
	}

	if _, _, err := parseEndpoint("ftp://example.org"); err == nil {
		t.Error("parseEndpoint accepted ftp scheme")
	}
}
