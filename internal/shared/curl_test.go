package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	t.Run("Single Quotes", func(t *testing.T) {
		curl := `curl 'https://api-v2.soundcloud.com/me' -H 'Authorization: OAuth 2-123456-7890-abcdef' -H 'Accept: application/json'`

		headers, err := ParseCurlCommand([]byte(curl))
		if err != nil {
			t.Fatalf("ParseCurlCommand failed: %v", err)
		}

		if headers.Headers["authorization"] != "OAuth 2-123456-7890-abcdef" {
			t.Errorf("unexpected authorization header: %q", headers.Headers["authorization"])
		}
		if headers.Headers["accept"] != "application/json" {
			t.Errorf("unexpected accept header: %q", headers.Headers["accept"])
		}
	})

	t.Run("Double Quotes And Continuations", func(t *testing.T) {
		curl := "curl \"https://api-v2.soundcloud.com/me\" \\\n  -H \"Authorization: OAuth some_key\" \\\n  -H \"Accept-Language: en\""

		headers, err := ParseCurlCommand([]byte(curl))
		if err != nil {
			t.Fatalf("ParseCurlCommand failed: %v", err)
		}

		if headers.Headers["authorization"] != "OAuth some_key" {
			t.Errorf("unexpected authorization header: %q", headers.Headers["authorization"])
		}
	})

	t.Run("No Headers", func(t *testing.T) {
		if _, err := ParseCurlCommand([]byte("curl https://example.com")); err == nil {
			t.Error("expected error for a command without headers")
		}
	})
}

func TestParseCurlFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "session.sh")

	curl := `curl 'https://api-v2.soundcloud.com/me' -H 'Authorization: OAuth file_key'`
	if err := os.WriteFile(path, []byte(curl), 0644); err != nil {
		t.Fatalf("failed to write curl file: %v", err)
	}

	headers, err := ParseCurlFile(path)
	if err != nil {
		t.Fatalf("ParseCurlFile failed: %v", err)
	}
	if headers.Headers["authorization"] != "OAuth file_key" {
		t.Errorf("unexpected authorization header: %q", headers.Headers["authorization"])
	}

	if _, err := ParseCurlFile(filepath.Join(tmpDir, "missing.sh")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCurlHeadersAPIKey(t *testing.T) {
	tc := []struct {
		name    string
		auth    string
		want    string
		wantErr bool
	}{
		{
			name: "oauth scheme",
			auth: "OAuth 2-123456-7890",
			want: "2-123456-7890",
		},
		{
			name: "bearer scheme",
			auth: "Bearer some_token",
			want: "some_token",
		},
		{
			name: "bare credential",
			auth: "just_a_key",
			want: "just_a_key",
		},
		{
			name:    "missing header",
			auth:    "",
			wantErr: true,
		},
		{
			name:    "too many fields",
			auth:    "OAuth key extra",
			wantErr: true,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			headers := &CurlHeaders{Headers: map[string]string{}}
			if tt.auth != "" {
				headers.Headers["authorization"] = tt.auth
			}

			key, err := headers.APIKey()
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("APIKey failed: %v", err)
			}
			if key != tt.want {
				t.Errorf("APIKey() = %q, want %q", key, tt.want)
			}
		})
	}
}
