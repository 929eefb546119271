package content

import "testing"

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "watch url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url with extra params", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=43s", want: "dQw4w9WgXcQ"},
		{name: "short link", input: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "shorts url", input: "https://www.youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed url", input: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "bare id", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "id with underscore and dash", input: "a_b-C_d-E_f", want: "a_b-C_d-E_f"},
		{name: "unrelated url", input: "https://example.com/video", want: ""},
		{name: "too short", input: "abc", want: ""},
		{name: "too long bare string", input: "dQw4w9WgXcQQQ", want: ""},
		{name: "watch url with truncated id", input: "https://www.youtube.com/watch?v=short", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVideoID(tt.input)
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
