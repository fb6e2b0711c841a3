package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://x.com/jobs/view/1", "'https://x.com/jobs/view/1'"},
		{"it's", `"it's"`},
		{`a'b"c`, `concat('a', "'", 'b"c')`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, xpathLiteral(tt.in))
	}
}

func TestToInt(t *testing.T) {
	for _, v := range []any{1080, int64(1080), float64(1080)} {
		n, err := toInt(v)
		assert.NoError(t, err)
		assert.Equal(t, 1080, n)
	}

	_, err := toInt("1080")
	assert.Error(t, err)
}

func TestLaunchArgs(t *testing.T) {
	assert.Equal(t, []string{"--no-sandbox", "--disable-dev-shm-usage"}, LaunchArgs)
}
