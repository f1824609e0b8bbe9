// Package config loads runtime configuration for the reports viewer.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (default ".env" in the working directory, ignored when
//     missing). Variables already present in the environment win.
//  3. An optional config file (YAML, JSON or TOML, chosen by extension)
//     selected with --config.
//  4. Environment variables prefixed with REPORTS_, e.g. REPORTS_DB_PATH.
//  5. Command-line flags registered by RegisterFlags, when set explicitly.
//
// # File schema
//
//	db_path: /home/me/.reportsviewer/settings.db
//	log_level: info        # debug | info | warn | error
//	log_format: text       # text | json
//	connect_timeout: 30s
//	socket_timeout: 30s
//	request_timeout: 60s
//	listen_addr: 127.0.0.1:8080
//	endpoint: https://project.supabase.co
//	secret_key: ...
//
// endpoint and secret_key only seed the settings database on first start;
// afterwards the stored values are authoritative.
package config
