// Package definition loads and validates the template definition file.
//
// # Overview
//
// A template is a directory of files plus a definition document,
// template.toml (template.yaml and template.yml are accepted when no TOML
// file exists). The definition declares the questions asked before
// generation, the paths to leave out of the output, the files to copy
// without rendering, and the cleanup rules applied afterwards:
//
//	name = "Rust CLI"
//	description = "A command line application"
//
//	ignore = ["README.md", "docs/"]
//	copy_without_render = ["*.png"]
//
//	[[variables]]
//	name = "project_name"
//	default = "my-project"
//	prompt = "What is the name of this project?"
//	validation = "^([a-zA-Z][a-zA-Z0-9_-]+)$"
//
//	[[variables]]
//	name = "use_docker"
//	default = false
//	prompt = "Add a Dockerfile?"
//
//	[[variables]]
//	name = "base_image"
//	default = "debian"
//	choices = ["debian", "alpine"]
//	prompt = "Which base image?"
//	only_if = { name = "use_docker", value = true }
//
//	[[cleanup]]
//	name = "use_docker"
//	value = false
//	paths = ["Dockerfile", ".dockerignore"]
//
// # Values
//
// Defaults, choices, conditions and cleanup values are Values: a closed
// tagged union of boolean, string and integer. Anything else decoded from
// the document (floats, arrays, tables, datetimes) becomes an unsupported
// Value and is reported as UNSUPPORTED_VARIABLE_TYPE rather than accepted.
//
// # Validation
//
// Load always validates. Besides structural checks, an only_if condition
// must name a variable declared strictly earlier: a later variable could
// never have been answered when the condition is evaluated, so such a
// definition is rejected instead of silently skipping the question.
//
// # Context
//
// Context is the ordered map of collected answers shared by the resolver,
// the walker and the cleanup pass. It is frozen once every question has
// been answered.
package definition
