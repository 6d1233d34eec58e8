package schema

// Schema maps option keys to their expected types. All keys are optional.
type Schema map[string]Type

// Validate checks that every key present in data is known to the schema
// and has a value of the expected type. Keys missing from data are fine;
// option blocks are sparse by design. Returns an error aggregating all
// failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for key, value := range data {
		fieldType, known := schema[key]
		if !known {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: "unknown option",
				Value:  value,
			})
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    key,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
