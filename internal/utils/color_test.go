package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLab(t *testing.T, hex string) Lab {
	t.Helper()
	lab, err := HexToLab(hex)
	require.NoError(t, err)
	return lab
}

func TestHexToLabKnownValues(t *testing.T) {
	// 白色 L*≈100，黑色 L*=0，a/b 接近 0
	white := mustLab(t, "#FFFFFF")
	assert.InDelta(t, 100.0, white.L, 0.01)
	assert.InDelta(t, 0.0, white.A, 0.01)
	assert.InDelta(t, 0.0, white.B, 0.01)

	black := mustLab(t, "#000000")
	assert.InDelta(t, 0.0, black.L, 0.01)

	// sRGB 红色的标准 Lab 坐标（D65）
	red := mustLab(t, "#FF0000")
	assert.InDelta(t, 53.24, red.L, 0.1)
	assert.InDelta(t, 80.09, red.A, 0.2)
	assert.InDelta(t, 67.20, red.B, 0.2)
}

func TestHexToLabInvalid(t *testing.T) {
	cases := []string{"FF0000", "#FFF", "#GGHHII", "", "#12345", "#1234567"}
	for _, hex := range cases {
		_, err := HexToLab(hex)
		assert.Error(t, err, "输入: %q", hex)
	}
}

func TestDeltaE(t *testing.T) {
	red := mustLab(t, "#FF0000")
	nearRed := mustLab(t, "#FE0100")
	green := mustLab(t, "#00FF00")

	// 同色距离为 0
	assert.Equal(t, 0.0, DeltaE(red, red))

	// 对称性
	assert.Equal(t, DeltaE(red, green), DeltaE(green, red))

	// 肉眼难辨的近色距离应远小于 1 个可觉差的量级
	assert.Less(t, DeltaE(red, nearRed), 1.0)

	// 红绿是感知上相距很远的颜色
	assert.Greater(t, DeltaE(red, green), 100.0)

	// 黑白距离恰好是亮度轴全程
	assert.InDelta(t, 100.0, DeltaE(mustLab(t, "#000000"), mustLab(t, "#FFFFFF")), 0.05)
}
