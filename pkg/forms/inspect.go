package forms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/lead"
)

// Inspect logs handler settings that will not behave the way they read and
// returns the same notes. Nothing is rejected.
func Inspect(form Form) []string {
	var notes []string
	for _, h := range form.Handlers {
		entry := logger.Log.WithFields(map[string]interface{}{
			"form_id": form.ID,
			"handler": h.Name(),
		})

		sources := make([]string, 0, len(h.Mapping))
		for source := range h.Mapping {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			if h.Mapping[source].Name() == lead.OrganizationKey {
				note := fmt.Sprintf("%s: mapping %s to %s is ignored", h.Name(), source, lead.OrganizationKey)
				entry.WithField("source", source).Warn("mapping to organization id ignored")
				notes = append(notes, note)
			}
		}

		if custom := lead.ResolveMapping(h.Mapping).CustomDestinations(); len(custom) > 0 {
			entry.WithField("destinations", custom).Info("handler maps to non-standard lead fields")
			notes = append(notes, fmt.Sprintf("%s: non-standard destinations %s", h.Name(), strings.Join(custom, ", ")))
		}

		if h.Endpoint() == "" {
			entry.Info("handler has no endpoint url and will not post")
			notes = append(notes, fmt.Sprintf("%s: no endpoint url", h.Name()))
		}
	}
	return notes
}
