// Package validation validates configuration structs and call arguments.
//
// Struct tag validation uses go-playground/validator:
//
//	type DiscoveryConfig struct {
//	    Origin string `mapstructure:"origin" validate:"required,url"`
//	}
//	err := validation.Validate(cfg)
//
// Argument checks collect field errors before returning one AppError:
//
//	v := validation.New()
//	v.Required("view_id", viewID)
//	v.Positive("limit", limit)
//	if err := v.Error(); err != nil { ... }
package validation
