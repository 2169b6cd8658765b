package validation

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Postal index number, six digits with a non-zero lead
	PincodePattern = `^[1-9][0-9]{5}$`

	// Phone number, optional leading + then 7 to 15 digits
	PhonePattern = `^\+?[0-9]{7,15}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Pincode *regexp.Regexp
	Phone   *regexp.Regexp
}{
	Pincode: regexp.MustCompile(PincodePattern),
	Phone:   regexp.MustCompile(PhonePattern),
}

// Rule tags usable in binding struct tags
const (
	TagPincode = "pincode"
	TagPhone   = "phone"
)

var registerOnce sync.Once

// RegisterRules adds the custom tags to gin's default validator. Safe to call
// more than once.
func RegisterRules() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Register(v)
	})
}

// Register adds the custom tags to v
func Register(v *validator.Validate) {
	_ = v.RegisterValidation(TagPincode, patternRule(CompiledPatterns.Pincode))
	_ = v.RegisterValidation(TagPhone, patternRule(CompiledPatterns.Phone))
}

func patternRule(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}
