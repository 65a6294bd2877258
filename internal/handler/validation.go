package handler

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidations 注册自定义校验规则
// hexlist：逗号分隔的 "#RRGGBB" 色板串
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("hexlist", func(fl validator.FieldLevel) bool {
		for _, part := range strings.Split(fl.Field().String(), ",") {
			swatch := strings.TrimSpace(part)
			if len(swatch) != 7 || !strings.HasPrefix(swatch, "#") {
				return false
			}
			for _, r := range swatch[1:] {
				isHex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
				if !isHex {
					return false
				}
			}
		}
		return true
	})
}
