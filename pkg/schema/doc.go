// Package schema provides lightweight type validation for handler option
// blocks before they are decoded into config structs.
//
// A Schema maps option keys to expected types. All keys are optional;
// validation catches two classes of config-file mistakes early, at
// startup: a key with the wrong type, and a key the handler does not
// know (usually a typo).
//
// Basic usage:
//
//	s := schema.Schema{
//	    "targets":    schema.Slice(schema.String()),
//	    "max_tokens": schema.Int(),
//	}
//
//	if err := schema.Validate(s, options); err != nil {
//	    // reject the config file
//	}
package schema
