// Package builder mounts a form tree from a declarative YAML schema and
// compiles the schema's rules into a validator.
package builder

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/comalice/formx"
)

// Field kinds in a schema. An empty kind is a scalar.
const (
	KindScalar = "scalar"
	KindObject = "object"
	KindArray  = "array"
)

// Schema describes a form.
//
//	id: signup
//	debounce: 200ms
//	initial:
//	  email: ""
//	fields:
//	  - name: email
//	    rules: required,email
//	  - name: address
//	    kind: object
//	    fields:
//	      - name: city
//	        rules: required
type Schema struct {
	ID               string         `yaml:"id"`
	Debounce         time.Duration  `yaml:"debounce" validate:"gte=0"`
	ValidateOnChange bool           `yaml:"validateOnChange"`
	Initial          map[string]any `yaml:"initial"`
	Fields           []FieldSpec    `yaml:"fields" validate:"dive"`
}

// FieldSpec describes one field. Objects nest Fields; arrays mount Item
// once per element of the initial value.
type FieldSpec struct {
	Name            string        `yaml:"name" validate:"required,excludesall=.[]"`
	Kind            string        `yaml:"kind" validate:"omitempty,oneof=scalar object array"`
	Debounce        time.Duration `yaml:"debounce"`
	Immediate       bool          `yaml:"immediate"`
	Reinitialize    *bool         `yaml:"reinitialize"`
	RemoveOnUnmount bool          `yaml:"removeOnUnmount"`
	Rules           string        `yaml:"rules"`
	Fields          []FieldSpec   `yaml:"fields" validate:"dive"`
	Item            *FieldSpec    `yaml:"item" validate:"-"`
}

func (f FieldSpec) kind() string {
	if f.Kind == "" {
		return KindScalar
	}
	return f.Kind
}

func (f FieldSpec) options() formx.FieldOptions {
	opts := formx.FieldOptions{
		DebounceDelay:      f.Debounce,
		EnableReinitialize: f.Reinitialize,
		RemoveOnUnmount:    f.RemoveOnUnmount,
	}
	if f.Immediate {
		opts.DebounceDelay = -1
	}
	return opts
}

// LoadSchema reads and validates a YAML schema file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a YAML schema.
func ParseSchema(data []byte) (Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, fmt.Errorf("parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Schema{}, err
	}
	return s, nil
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field names, kinds and nesting.
func (s Schema) Validate() error {
	if err := structValidator.Struct(s); err != nil {
		return fmt.Errorf("schema: %v: %w", err, formx.ErrInvalidConfig)
	}
	return validateFields("", s.Fields)
}

func validateFields(parent string, fields []FieldSpec) error {
	seen := map[string]bool{}
	for _, f := range fields {
		path := joinPath(parent, f.Name)
		if seen[f.Name] {
			return fmt.Errorf("schema: duplicate field %s: %w", path, formx.ErrInvalidConfig)
		}
		seen[f.Name] = true
		switch f.kind() {
		case KindScalar:
			if len(f.Fields) > 0 || f.Item != nil {
				return fmt.Errorf("schema: scalar %s has children: %w", path, formx.ErrInvalidConfig)
			}
		case KindObject:
			if f.Item != nil {
				return fmt.Errorf("schema: object %s has an item: %w", path, formx.ErrInvalidConfig)
			}
			if err := validateFields(path, f.Fields); err != nil {
				return err
			}
		case KindArray:
			if len(f.Fields) > 0 {
				return fmt.Errorf("schema: array %s has named fields: %w", path, formx.ErrInvalidConfig)
			}
			if f.Item != nil {
				if err := validateItem(path, *f.Item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// validateItem checks an array item template. Items are keyed by index,
// so their name is ignored.
func validateItem(path string, item FieldSpec) error {
	item.Name = "item"
	if err := structValidator.Struct(item); err != nil {
		return fmt.Errorf("schema: %s item: %v: %w", path, err, formx.ErrInvalidConfig)
	}
	return validateFields(path+"[]", []FieldSpec{item})
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// Rules compiles the schema's rules into the nested map RuleValidator takes.
// A scalar item rule becomes a dive rule on its array.
func (s Schema) Rules() map[string]any {
	return compileRules(s.Fields)
}

func compileRules(fields []FieldSpec) map[string]any {
	out := map[string]any{}
	for _, f := range fields {
		switch f.kind() {
		case KindObject:
			if nested := compileRules(f.Fields); len(nested) > 0 {
				out[f.Name] = nested
			}
		case KindArray:
			rule := f.Rules
			if rule == "" && f.Item != nil && f.Item.kind() == KindScalar && f.Item.Rules != "" {
				rule = "dive," + f.Item.Rules
			}
			if rule != "" {
				out[f.Name] = rule
			}
		default:
			if f.Rules != "" {
				out[f.Name] = f.Rules
			}
		}
	}
	return out
}
