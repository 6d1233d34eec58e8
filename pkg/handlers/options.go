package handlers

import "github.com/aretw0/switchboard/pkg/schema"

// RouterOptionsSchema describes the accepted router option keys, for
// validating config files before decoding.
func RouterOptionsSchema() schema.Schema {
	return schema.Schema{
		"targets":    schema.Slice(schema.String()),
		"max_tokens": schema.Int(),
	}
}

// SpecialistOptionsSchema describes the accepted specialist option keys.
func SpecialistOptionsSchema() schema.Schema {
	return schema.Schema{
		"name":          schema.String(),
		"category":      schema.String(),
		"system_prompt": schema.String(),
		"max_tokens":    schema.Int(),
		"kb_limit":      schema.Int(),
	}
}
