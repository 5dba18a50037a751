package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Ender-Wang/Swifka-sub000/errors"
)

// configSchema is the JSON schema every loaded config must satisfy.
// Cross-field rules (format/schema-file pairing) live in Validate, since
// draft-07 conditionals make those harder to read than three lines of Go.
const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"decoder": {
			"type": "object",
			"properties": {
				"format": {"type": "string", "enum": ["raw", "protobuf", "avro"]},
				"proto_schema_file": {"type": "string"},
				"proto_message": {"type": "string"},
				"avro_schema_file": {"type": "string"},
				"max_nested_depth": {"type": "integer", "minimum": 1, "maximum": 128},
				"bytes_preview_len": {"type": "integer", "minimum": 1, "maximum": 4096},
				"strict_schema": {"type": "boolean"}
			},
			"required": ["format"]
		},
		"stream": {
			"type": "object",
			"properties": {
				"url": {"type": "string", "minLength": 1},
				"stream": {"type": "string"},
				"subject": {"type": "string"},
				"durable": {"type": "string"},
				"batch_size": {"type": "integer", "minimum": 1, "maximum": 1024},
				"history_size": {"type": "integer", "minimum": 0, "maximum": 65536},
				"pull_timeout": {"type": "string"},
				"connect": {
					"type": "object",
					"properties": {
						"max_retries": {"type": "integer", "minimum": 0},
						"initial_delay": {"type": "string"},
						"max_delay": {"type": "string"},
						"backoff_factor": {"type": "number", "minimum": 1.0}
					}
				}
			}
		},
		"metrics": {
			"type": "object",
			"properties": {
				"enabled": {"type": "boolean"},
				"port": {"type": "integer", "minimum": 1, "maximum": 65535},
				"path": {"type": "string", "pattern": "^/"}
			}
		},
		"logging": {
			"type": "object",
			"properties": {
				"level": {"type": "string", "enum": ["debug", "info", "warn", "error"]}
			}
		}
	},
	"required": ["decoder"]
}`

func validateAgainstSchema(cfg *Config) error {
	document, err := json.Marshal(cfg)
	if err != nil {
		return errors.WrapFatal(err, "config", "validateAgainstSchema", "marshal config")
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return errors.WrapFatal(err, "config", "validateAgainstSchema", "run schema validation")
	}

	if !result.Valid() {
		var sb strings.Builder
		for i, desc := range result.Errors() {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "%s: %s", desc.Field(), desc.Description())
		}
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrInvalidConfig, sb.String()),
			"config", "validateAgainstSchema", "schema validation")
	}
	return nil
}
