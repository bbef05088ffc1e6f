// Package config provides configuration management for the skill-thief CLI.
//
// This package loads the tool's own settings. It is distinct from the
// project manifest (.skill-thief.yaml), which is handled by package
// manifest.
//
// # Configuration File
//
// Settings are read only from $XDG_CONFIG_HOME/skill-thief/config.yaml; a
// config.yaml inside a project is never consulted. Every key can be overridden with an
// environment variable prefixed SKILL_THIEF_ with dots replaced by
// underscores, e.g. SKILL_THIEF_GIT_BINARY:
//
//	version: 1
//	git:
//	  binary: /usr/local/bin/git
//	validator:
//	  command: skills-ref
//	  enabled: true
//	manifest: .skill-thief.yaml
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//
// A missing file is not an error when no explicit path is given.
package config
