// Package config provides configuration parsing for signup.
//
// The configuration is stored in signup.json (or signup.yaml) in the working
// directory. This package handles loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "debounce": "500ms",
//	  "storage": {
//	    "backend": "file",
//	    "key": "saved-signup-form",
//	    "file": { "path": ".signup/storage.json" },
//	    "redis": { "addr": "localhost:6379", "prefix": "signup:" },
//	    "sqlite": { "path": ".signup/storage.db" },
//	    "s3": { "bucket": "drafts", "region": "eu-west-1" }
//	  },
//	  "server": {
//	    "addr": ":3000",
//	    "metrics": true
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// Only the section matching storage.backend is read.
package config
