// Package config loads and validates job configuration from YAML.
//
// Loading follows three stages: Load reads the file and expands ${VAR}
// environment references, LoadWithDefaults fills in unset optional fields,
// and LoadAndValidate rejects configs that cannot run.
package config
