// Package config loads the export configuration from an HCL file.
//
// A configuration file names the platform and output directory, declares
// where the project snapshot comes from, and optionally enables archiving and
// publishing of the result:
//
//	platform   = "facebook"
//	output_dir = "output"
//	workers    = 8
//
//	source "api" {
//	  token      = env.BOTMOCK_TOKEN
//	  team_id    = env.BOTMOCK_TEAM_ID
//	  project_id = env.BOTMOCK_PROJECT_ID
//	  board_id   = env.BOTMOCK_BOARD_ID
//	  timeout    = "30s"
//	}
//
//	archive {
//	  keep_output = false
//	}
//
//	publish "s3" {
//	  bucket = "agent-exports"
//	  region = "us-east-1"
//	}
//
// The process environment is available to expressions as the env object.
package config
