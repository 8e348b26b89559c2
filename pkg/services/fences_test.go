package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnclosedFence(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{
			name: "no fences",
			body: "plain text\nwith lines\n",
			want: 0,
		},
		{
			name: "closed backtick fence",
			body: "intro\n```go\nfmt.Println(\"hi\")\n```\noutro\n",
			want: 0,
		},
		{
			name: "closed tilde fence",
			body: "~~~\ncode\n~~~\n",
			want: 0,
		},
		{
			name: "unclosed fence",
			body: "intro\n```rust\nlet x = 5;\n",
			want: 2,
		},
		{
			name: "second fence unclosed",
			body: "```\nok\n```\ntext\n```python\nprint(1)\n",
			want: 5,
		},
		{
			name: "tilde closer does not close backtick fence",
			body: "```\ncode\n~~~\n",
			want: 1,
		},
		{
			name: "shorter run does not close longer opener",
			body: "````\n```\ncode\n",
			want: 1,
		},
		{
			name: "longer closer closes shorter opener",
			body: "```\ncode\n````\n",
			want: 0,
		},
		{
			name: "backticks inside tilde fence are content",
			body: "~~~markdown\n```\nnested example\n```\n~~~\n",
			want: 0,
		},
		{
			name: "indented code is not a fence",
			body: "    ```\nnot a fence opener\n",
			want: 0,
		},
		{
			name: "closer may carry trailing spaces only",
			body: "```\ncode\n```   \n",
			want: 0,
		},
		{
			name: "crlf input",
			body: "```\r\ncode\r\n```\r\n",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unclosedFence(tt.body))
		})
	}
}
