package persistence

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
	"github.com/kompoln/bind9-ctl/internal/domain/service"
)

// RecordSpec is one declared record in the desired-state document.
type RecordSpec struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Value    string  `yaml:"value"`
	TTL      *int    `yaml:"ttl,omitempty"`
	Priority *uint16 `yaml:"priority,omitempty"`
}

// ZoneSpec is the desired-state YAML document for one zone.
type ZoneSpec struct {
	Zone       string            `yaml:"zone,omitempty"`
	DefaultTTL *int              `yaml:"default_ttl,omitempty"`
	Records    []RecordSpec      `yaml:"records"`
	SOA        *entity.SOAFields `yaml:"soa,omitempty"`
	Ignore     []string          `yaml:"ignore,omitempty"`
}

// ZoneLoader turns a desired-state YAML file into a zone context and
// a normalized record set. Files pass through text/template first, so
// declarations can reference environment variables and -e vars.
type ZoneLoader struct {
	defaultTTL int
}

func NewZoneLoader(defaultTTL int) *ZoneLoader {
	return &ZoneLoader{defaultTTL: defaultTTL}
}

// Load reads, templates, parses, normalizes and validates. zoneHint
// overrides an absent zone name in the document. All per-record
// normalization errors are aggregated so the operator sees every bad
// declaration at once.
func (l *ZoneLoader) Load(path, zoneHint string, vars map[string]string) (*entity.ZoneContext, *entity.RecordSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrConfigReadFailed, err)
	}

	rendered, err := expandTemplate(path, string(raw), vars)
	if err != nil {
		return nil, nil, err
	}

	var spec ZoneSpec
	if err := yaml.Unmarshal([]byte(rendered), &spec); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrConfigParseFailed, err)
	}

	origin := spec.Zone
	if origin == "" {
		origin = zoneHint
	}
	if origin == "" {
		return nil, nil, fmt.Errorf("%w: zone name (set 'zone' in the document or pass --zone)", domain.ErrRequired)
	}

	defaultTTL := l.defaultTTL
	if spec.DefaultTTL != nil {
		defaultTTL = *spec.DefaultTTL
	}

	zone, err := entity.NewZoneContext(origin, defaultTTL)
	if err != nil {
		return nil, nil, err
	}
	if spec.SOA != nil {
		zone.SOA = *spec.SOA
	}
	zone.Ignore = spec.Ignore

	set := entity.NewRecordSet()
	var errs []error
	for _, rs := range spec.Records {
		record, err := service.Normalize(service.RawRecord{
			Name:     rs.Name,
			Type:     rs.Type,
			TTL:      rs.TTL,
			Value:    rs.Value,
			Priority: rs.Priority,
		}, zone)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set.Add(record)
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	if err := service.ValidateSet(set); err != nil {
		return nil, nil, err
	}

	return zone, set, nil
}

// expandTemplate runs the document through text/template with env
// lookup and caller-provided variables available.
func expandTemplate(name, text string, vars map[string]string) (string, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	tmpl, err := template.New(name).
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"env": os.Getenv,
			"var": func(key string) (string, error) {
				v, ok := vars[key]
				if !ok {
					return "", fmt.Errorf("undefined template variable %q", key)
				}
				return v, nil
			},
		}).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConfigParseFailed, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, map[string]any{"Vars": vars}); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrConfigParseFailed, err)
	}
	return b.String(), nil
}
