// Package config loads the generator configuration file.
//
// The file is YAML:
//
//	version: "1"
//	runtime_import: factory-generator/factory
//	output_suffix: _factory.go
//	defaults:
//	  id_name: id
//	  id_type: int32
//	  connection: factory-generator/factory.Store
//	generate_comments: true
//
// Every key is optional; omitted keys take the values shown above.
package config
