package plugin

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/bzscope/internal/info"
	"github.com/wildstyl3r/bzscope/internal/model"
)

func TestCustomPluginTest(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, CustomPluginTest(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.True(t, strings.HasPrefix(l, Name+": "), l)
	}
	assert.Equal(t, "BZSCOPE: created model with 2 channels", lines[0])
	assert.Equal(t, "BZSCOPE: self-test passed", lines[5])
}

func TestApplicability(t *testing.T) {
	assert.True(t, IsApplicable(SelfTestMaterial()))
	assert.False(t, IsApplicable(info.NewMaterial("empty", 300)))

	m, err := CreateFromInfo(info.NewMaterial("empty", 300), model.DefaultOptions())
	require.ErrorIs(t, err, model.ErrBadInput)
	assert.Nil(t, m)
}

func TestMsg(t *testing.T) {
	var out bytes.Buffer
	Msg(&out, "%d %s", 3, "x")
	assert.Equal(t, "BZSCOPE: 3 x\n", out.String())
}
