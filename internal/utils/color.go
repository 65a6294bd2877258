package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CIE L*a*b* 色彩空间转换与 ΔE 感知距离。
// 转换链：sRGB → 线性 RGB → XYZ（D65 白点）→ L*a*b*。

// Lab CIE L*a*b* 坐标
type Lab struct {
	L float64
	A float64
	B float64
}

// D65 参考白点（XYZ 按 0-100 标度）
const (
	refWhiteX = 95.047
	refWhiteY = 100.0
	refWhiteZ = 108.883
)

// CIE 标准阈值
const (
	srgbGammaThreshold = 0.04045
	labEpsilon         = 0.008856
)

// HexToLab 把 "#RRGGBB" 转为 L*a*b* 坐标
func HexToLab(hex string) (Lab, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return Lab{}, err
	}

	// sRGB gamma 展开
	rl := srgbToLinear(float64(r) / 255.0)
	gl := srgbToLinear(float64(g) / 255.0)
	bl := srgbToLinear(float64(b) / 255.0)

	// 线性 RGB → XYZ（sRGB/D65 矩阵），放大到 0-100 标度
	x := (rl*0.4124564 + gl*0.3575761 + bl*0.1804375) * 100
	y := (rl*0.2126729 + gl*0.7151522 + bl*0.0721750) * 100
	z := (rl*0.0193339 + gl*0.1191920 + bl*0.9503041) * 100

	fx := labF(x / refWhiteX)
	fy := labF(y / refWhiteY)
	fz := labF(z / refWhiteZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}, nil
}

// DeltaE L*a*b* 空间的欧氏距离（CIE76）
func DeltaE(c1, c2 Lab) float64 {
	dl := c1.L - c2.L
	da := c1.A - c2.A
	db := c1.B - c2.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// parseHex 解析 "#RRGGBB"
func parseHex(hex string) (uint8, uint8, uint8, error) {
	s := strings.TrimSpace(hex)
	if !strings.HasPrefix(s, "#") {
		return 0, 0, 0, fmt.Errorf("色值缺少 # 前缀: %q", hex)
	}
	s = s[1:]
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("色值长度非法: %q", hex)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("色值解析失败 %q: %w", hex, err)
	}

	return uint8(v >> 16), uint8(v >> 8 & 0xFF), uint8(v & 0xFF), nil
}

func srgbToLinear(c float64) float64 {
	if c <= srgbGammaThreshold {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}
