package frontmatter

import (
	"testing"

	"github.com/thoreinstein/skillthief/internal/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHeader string
		wantBody   string
		wantErr    error
	}{
		{
			name:       "header and body",
			input:      "---\nname: alpha\ndescription: d\n---\n# Alpha\n",
			wantHeader: "name: alpha\ndescription: d",
			wantBody:   "# Alpha\n",
		},
		{
			name:       "empty header",
			input:      "---\n\n---\nbody\n",
			wantHeader: "",
			wantBody:   "body\n",
		},
		{
			name:    "adjacent delimiters are not closed",
			input:   "---\n---\nbody\n",
			wantErr: ErrNotClosed,
		},
		{
			name:       "crlf line endings",
			input:      "---\r\nname: alpha\r\n---\r\nbody",
			wantHeader: "name: alpha\r",
			wantBody:   "body",
		},
		{
			name:       "no trailing newline after closing",
			input:      "---\nname: alpha\n---",
			wantHeader: "name: alpha",
		},
		{
			name:    "missing opening delimiter",
			input:   "# Alpha\n",
			wantErr: ErrMissing,
		},
		{
			name:    "opening delimiter without newline",
			input:   "---name: alpha\n---\n",
			wantErr: ErrMissing,
		},
		{
			name:    "leading whitespace",
			input:   " ---\nname: alpha\n---\n",
			wantErr: ErrMissing,
		},
		{
			name:    "not closed",
			input:   "---\nname: alpha\n",
			wantErr: ErrNotClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, body, err := Split([]byte(tt.input))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Split() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Split() unexpected error: %v", err)
			}
			if string(header) != tt.wantHeader {
				t.Errorf("header = %q, want %q", header, tt.wantHeader)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	t.Run("mapping", func(t *testing.T) {
		m, err := Extract([]byte("---\nname: alpha\ndescription: Does things\n---\n"))
		if err != nil {
			t.Fatal(err)
		}
		if m["name"] != "alpha" || m["description"] != "Does things" {
			t.Errorf("Extract() = %v", m)
		}
	})

	t.Run("empty header", func(t *testing.T) {
		m, err := Extract([]byte("---\n\n---\n"))
		if err != nil {
			t.Fatal(err)
		}
		if m == nil || len(m) != 0 {
			t.Errorf("Extract() = %v, want empty map", m)
		}
	})

	t.Run("non-string keys are still a mapping", func(t *testing.T) {
		m, err := Extract([]byte("---\nname: a\ndescription: d\n1: x\n---\nbody"))
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if m["name"] != "a" || m["description"] != "d" || m["1"] != "x" {
			t.Errorf("Extract() = %v", m)
		}
	})

	t.Run("list is not a mapping", func(t *testing.T) {
		_, err := Extract([]byte("---\n- a\n- b\n---\n"))
		if !errors.Is(err, ErrNotMapping) {
			t.Errorf("error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("scalar is not a mapping", func(t *testing.T) {
		_, err := Extract([]byte("---\njust text\n---\n"))
		if !errors.Is(err, ErrNotMapping) {
			t.Errorf("error = %v, want ErrNotMapping", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Extract([]byte("---\nname: [broken\n---\n"))
		var syn *SyntaxError
		if !errors.As(err, &syn) {
			t.Fatalf("error = %v, want *SyntaxError", err)
		}
		if syn.Error() == "" {
			t.Error("SyntaxError should carry the parser message")
		}
	})
}

func TestDecode(t *testing.T) {
	var meta struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	}
	if err := Decode([]byte("---\nname: beta\ndescription: B\n---\nbody"), &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Name != "beta" || meta.Description != "B" {
		t.Errorf("Decode() = %+v", meta)
	}

	if err := Decode([]byte("no header"), &meta); !errors.Is(err, ErrMissing) {
		t.Errorf("Decode() error = %v, want ErrMissing", err)
	}
}
