package zonefile

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/kompoln/bind9-ctl/internal/domain"
	"github.com/kompoln/bind9-ctl/internal/domain/entity"
)

//go:embed templates/zone.tmpl
var defaultTemplates embed.FS

const templateName = "zone.tmpl"

type templateRecord struct {
	Owner string
	TTL   int
	Type  entity.RecordType
	Value string
}

type templateData struct {
	Origin     string
	DefaultTTL int
	SOA        entity.SOAFields
	Records    []templateRecord
}

// Renderer produces a complete zone file from the full desired record
// set. The built-in template can be overridden by dropping a
// zone.tmpl into the configured templates directory.
type Renderer struct {
	templatesDir string
}

func NewRenderer(templatesDir string) *Renderer {
	return &Renderer{templatesDir: templatesDir}
}

func (r *Renderer) Render(zone *entity.ZoneContext, desired *entity.RecordSet, soa entity.SOAFields) (string, error) {
	tmpl, err := r.load()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	data := templateData{
		Origin:     zone.Origin,
		DefaultTTL: zone.DefaultTTL,
		SOA:        soa,
	}
	for _, rec := range desired.Records() {
		if rec.Type == entity.RecordTypeSOA {
			continue
		}
		data.Records = append(data.Records, templateRecord{
			Owner: rec.Owner(zone.Origin),
			TTL:   rec.TTL,
			Type:  rec.Type,
			Value: rec.Data.String(),
		})
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

func (r *Renderer) load() (*template.Template, error) {
	if r.templatesDir != "" {
		custom := filepath.Join(r.templatesDir, templateName)
		if _, err := os.Stat(custom); err == nil {
			return template.ParseFiles(custom)
		}
	}
	return template.ParseFS(defaultTemplates, "templates/"+templateName)
}
