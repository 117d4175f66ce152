package handler

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lostair56-a11y/Adminanduserdashboards-sub000/internal/domain/billing"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator:
//
//	month  an Indonesian month name, matched case-insensitively
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
			_, err := billing.ParseMonth(fl.Field().String())
			return err == nil
		})
	})
}
