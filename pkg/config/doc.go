// Package config loads and validates csvexpand job files.
//
//	            +-------------+
//	            |   Config    |
//	            |   (Job)     |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+----+
//	|  YAML   |   |   HCL   |   |  JSON   |
//	| Parser  |   | Parser  |   | Parser  |
//	+---------+   +---------+   +---------+
//
// 🎯 Purpose:
// - Reads a job file and picks a parser by extension
// - Rejects unknown fields
// - Validates the job and fills in output defaults
//
// 📝 Example job (.csvexpand.yaml):
//
//	keyword: Toledo
//	replacements:
//	  builtin: es-provinces
//	inputs:
//	  - templates/**/*.csv
//	output:
//	  dir: out
//	  format: csv
//
// The same job in HCL, where env.NAME reads the process environment:
//
//	keyword = "Toledo"
//	inputs  = ["templates/**/*.csv"]
//
//	replacements {
//	  file = "${env.HOME}/provincias.txt"
//	}
//
//	output {
//	  dir = "out"
//	}
//
// 🔍 Usage:
//
//	cfg, err := config.Load(ctx, ".csvexpand.yaml")
//	if err != nil {
//		return err
//	}
package config
