// Package config loads runtime configuration for the GreenHub client.
//
// Sources & precedence (later wins)
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml/.yml are YAML, everything else JSON.
//  3. GREENHUB_* environment variables, with a .env file in the working
//     directory filling in unset ones.
//  4. Command-line flags (see parseFlags).
//
// # File schema
//
//	{
//	  "server_url": "https://api.example.com",
//	  "ai_url": "https://ai.example.com/api",
//	  "ai_agent": "adam",
//	  "request_timeout": "15s",
//	  "data_dir": "~/.greenhub",
//	  "extra_headers": {"ngrok-skip-browser-warning": "true"},
//	  "media": {"bucket": "greenhub", "region": "eu-west-1"}
//	}
//
// request_timeout accepts a duration string or integer nanoseconds
// (timex.Duration).
//
// # Environment
//
//	GREENHUB_SERVER_URL, GREENHUB_AI_URL, GREENHUB_AI_AGENT,
//	GREENHUB_REALTIME_URL, GREENHUB_REQUEST_TIMEOUT, GREENHUB_DATA_DIR,
//	GREENHUB_DB_FILE, GREENHUB_STORE_SECRET, GREENHUB_LOG_LEVEL,
//	GREENHUB_LOG_FORMAT, GREENHUB_EXTRA_HEADERS (k:v,k2:v2),
//	GREENHUB_MEDIA_{BUCKET,REGION,ENDPOINT,ACCESS_KEY,SECRET_KEY,PUBLIC_URL}
package config
