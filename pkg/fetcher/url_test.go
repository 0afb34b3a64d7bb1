package fetcher

import "testing"

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean", in: "https://www.gutenberg.org/files/2701/2701-0.txt", want: "https://www.gutenberg.org/files/2701/2701-0.txt"},
		{name: "whitespace", in: "  https://example.com/a.txt \n", want: "https://example.com/a.txt"},
		{name: "markdown link", in: "[Moby Dick](https://example.com/moby.txt)", want: "https://example.com/moby.txt"},
		{name: "trailing comma", in: "https://example.com/a.txt,", want: "https://example.com/a.txt"},
		{name: "angle brackets", in: "<https://example.com/a.txt>", want: "https://example.com/a.txt"},
		{name: "quoted", in: `"https://example.com/a.txt"`, want: "https://example.com/a.txt"},
		{name: "not a url is kept", in: "not a url", want: "not a url"},
		{name: "only whitespace", in: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
