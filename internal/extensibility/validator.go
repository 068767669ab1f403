package extensibility

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

// RuleValidator checks an object value against validator tags keyed by
// field name, e.g. {"email": "required,email"}. A nested rule map applies
// to a nested object. Failures come back as a *ValidationError whose
// messages are the failing tag, with its parameter if any ("min=8").
type RuleValidator struct {
	validate *validator.Validate
	rules    map[string]any
}

var _ core.Validator = (*RuleValidator)(nil)

// NewRuleValidator creates a RuleValidator for rules.
func NewRuleValidator(rules map[string]any) *RuleValidator {
	return &RuleValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		rules:    rules,
	}
}

// RegisterRule adds a custom tag. fn receives the field value.
func (v *RuleValidator) RegisterRule(tag string, fn func(value any) bool) error {
	err := v.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if !f.IsValid() {
			return fn(nil)
		}
		return fn(f.Interface())
	})
	if err != nil {
		return fmt.Errorf("register rule %q: %w", tag, err)
	}
	return nil
}

// Rules returns the rule map.
func (v *RuleValidator) Rules() map[string]any { return v.rules }

// Validate never normalizes the value.
func (v *RuleValidator) Validate(ctx context.Context, value any) (any, error) {
	errs := v.validate.ValidateMapCtx(ctx, primitives.AsMap(value), v.rules)
	if len(errs) == 0 {
		return nil, nil
	}
	out := primitives.NewValidationError()
	collectIssues(out, nil, errs)
	slices.SortFunc(out.Issues, func(a, b primitives.Issue) int {
		return strings.Compare(a.Path.String(), b.Path.String())
	})
	return nil, out
}

func collectIssues(out *primitives.ValidationError, prefix primitives.Path, errs map[string]any) {
	for field, e := range errs {
		path := prefix.Append(primitives.Name(field))
		switch x := e.(type) {
		case map[string]any:
			collectIssues(out, path, x)
		case validator.ValidationErrors:
			for _, fe := range x {
				out.Add(path.Append(primitives.ParsePath(fe.Namespace())...), ruleMessage(fe))
			}
		case error:
			out.Add(path, x.Error())
		}
	}
}

func ruleMessage(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

// Chain runs validators in order. Each one sees the value the previous
// one normalized to; the first error stops the chain.
func Chain(validators ...core.Validator) core.Validator {
	return core.ValidatorFunc(func(ctx context.Context, value any) (any, error) {
		out, normalized := value, false
		for _, v := range validators {
			next, err := v.Validate(ctx, out)
			if err != nil {
				return nil, err
			}
			if next != nil {
				out, normalized = next, true
			}
		}
		if !normalized {
			return nil, nil
		}
		return out, nil
	})
}

// Normalizer is a validator that only rewrites the value.
func Normalizer(fn func(value any) any) core.Validator {
	return core.ValidatorFunc(func(_ context.Context, value any) (any, error) {
		return fn(value), nil
	})
}
