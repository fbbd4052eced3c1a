package config

import (
	"fmt"
	"os"
)

func Template() string { return defaultTemplate }

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(defaultTemplate), 0o600)
}

const defaultTemplate = `# NEX library version of the captured title.
nex_version = "3.5.0"
prudp_version = 1
# "version" compares (major, minor) >= (3, 5); "legacy" requires major >= 3 and minor >= 5.
header_rule = "version"
# "" or "mk8"
title = ""
# Method id of JoinMatchmakeSessionWithExtraParticipants for title "mk8"; 0 keeps 0x2B.
# mk8_extra_participants_method = 43
workers = 4
log_level = "info"

[inspect]
addr = ":9310"
cors_origins = ["http://localhost:3000"]
max_body_bytes = 1048576
# tls_cert_file = "certs/inspect.crt"
# tls_key_file = "certs/inspect.key"
`
