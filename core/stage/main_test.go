package stage_test

import (
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/b7r7b1440/control/core"
)

var validate *validator.Validate

func TestMain(m *testing.M) {
	validate = validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	os.Exit(m.Run())
}
