package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"regexp"

	"github.com/kompoln/bind9-ctl/internal/domain"
)

// BIND ships TSIG credentials as a key {} block; operators hand it to
// us base64-encoded so it survives env var plumbing unmangled.
var (
	keyfilePattern   = regexp.MustCompile(`(?is)key\s+"(?P<name>[^"]+)"\s*\{(?P<body>.*?)\}`)
	algorithmPattern = regexp.MustCompile(`(?i)algorithm\s+(?P<algorithm>[\w-]+)\s*;`)
	secretPattern    = regexp.MustCompile(`(?i)secret\s+"(?P<secret>[^"]+)"\s*;`)
)

func loadTSIG() (TSIGKey, error) {
	key := TSIGKey{
		Name:      os.Getenv("BIND_TSIG_NAME"),
		Algorithm: os.Getenv("BIND_TSIG_ALGORITHM"),
		Secret:    os.Getenv("BIND_TSIG_SECRET"),
	}

	if encoded := os.Getenv("BIND_TSIG_KEYFILE_B64"); encoded != "" {
		parsed, err := parseKeyfile(encoded)
		if err != nil {
			return TSIGKey{}, err
		}
		if key.Name == "" {
			key.Name = parsed.Name
		}
		if key.Algorithm == "" {
			key.Algorithm = parsed.Algorithm
		}
		if key.Secret == "" {
			key.Secret = parsed.Secret
		}
	}

	if key.Algorithm == "" {
		key.Algorithm = "hmac-sha256"
	}
	if key.Name == "" || key.Secret == "" {
		return TSIGKey{}, fmt.Errorf("%w: TSIG key name and secret (set BIND_TSIG_KEYFILE_B64 or BIND_TSIG_NAME/BIND_TSIG_SECRET)", domain.ErrRequired)
	}

	return key, nil
}

func parseKeyfile(encoded string) (TSIGKey, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return TSIGKey{}, fmt.Errorf("%w: BIND_TSIG_KEYFILE_B64 is not valid base64", domain.ErrConfigParseFailed)
	}

	match := keyfilePattern.FindStringSubmatch(string(decoded))
	if match == nil {
		return TSIGKey{}, fmt.Errorf("%w: TSIG key file does not look like a BIND key block", domain.ErrConfigParseFailed)
	}
	name := match[keyfilePattern.SubexpIndex("name")]
	body := match[keyfilePattern.SubexpIndex("body")]

	key := TSIGKey{Name: name}
	if m := algorithmPattern.FindStringSubmatch(body); m != nil {
		key.Algorithm = m[algorithmPattern.SubexpIndex("algorithm")]
	}
	if m := secretPattern.FindStringSubmatch(body); m != nil {
		key.Secret = m[secretPattern.SubexpIndex("secret")]
	}

	if key.Name == "" || key.Algorithm == "" || key.Secret == "" {
		return TSIGKey{}, fmt.Errorf("%w: TSIG key file missing name, algorithm or secret", domain.ErrConfigParseFailed)
	}

	return key, nil
}
