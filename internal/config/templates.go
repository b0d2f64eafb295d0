package config

import (
	"fmt"
	"os"
)

func Template() string {
	return defaultTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `codec = "json"
framed = false
compress = false

[limits]
max_auth_bytes = 65536
max_payload_bytes = 8388608

[log]
level = "info"

[[custom_kinds]]
name = "PING"
code = 200
min_fields = 0
max_fields = -1
`
