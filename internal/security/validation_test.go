package security

import (
	"io"
	"strings"
	"testing"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/pack.zip", false},
		{"http://example.com/pack.zip", true},
		{"https://localhost/pack.zip", true},
		{"https://127.0.0.1/pack.zip", true},
		{"https://192.168.1.20/pack.zip", true},
		{"https://10.0.0.1/pack.zip", true},
		{"https://[::1]/pack.zip", true},
		{"https://169.254.1.1/pack.zip", true},
		{"ftp://example.com/pack.zip", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateHTTPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"textures/block/stone.png", false},
		{"stone.png", false},
		{"../stone.png", true},
		{"textures/../../stone.png", true},
		{"/etc/passwd", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := ValidateFilePath(tt.path, "/tmp/library")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestLimitedReader(t *testing.T) {
	data, err := io.ReadAll(NewLimitedReader(strings.NewReader("abc"), 10))
	if err != nil || string(data) != "abc" {
		t.Errorf("ReadAll() = %q, %v; want abc, nil", data, err)
	}

	_, err = io.ReadAll(NewLimitedReader(strings.NewReader("abcdef"), 3))
	if err == nil {
		t.Error("Expected size limit error")
	}
}
